package attendance

import (
	"testing"
	"time"

	"github.com/gdg-garage/event-attendance-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func twoDays() []models.EventDay {
	days := []models.EventDay{
		{StartsAt: at(6, 9, 0, 0), EndsAt: at(6, 17, 0, 0)},
		{StartsAt: at(7, 9, 0, 0), EndsAt: at(7, 17, 0, 0), IsLast: true},
	}
	days[0].ID, days[1].ID = 1, 2
	return days
}

func TestPresencePercentage(t *testing.T) {
	days := twoDays()

	cases := []struct {
		name   string
		checks []models.EventDayCheck
		want   string
	}{
		{
			name: "FullAttendance",
			checks: []models.EventDayCheck{
				{EventDayID: 1, EntranceDate: at(6, 9, 0, 0), ExitDate: ptr(at(6, 17, 0, 0))},
				{EventDayID: 2, EntranceDate: at(7, 9, 0, 0), ExitDate: ptr(at(7, 17, 0, 0))},
			},
			want: "100",
		},
		{
			name: "TimeOutsideScheduleIsClipped",
			checks: []models.EventDayCheck{
				{EventDayID: 1, EntranceDate: at(6, 8, 0, 0), ExitDate: ptr(at(6, 18, 0, 0))},
			},
			want: "50",
		},
		{
			name: "OpenCheckCountsNothing",
			checks: []models.EventDayCheck{
				{EventDayID: 1, EntranceDate: at(6, 9, 0, 0), ExitDate: ptr(at(6, 17, 0, 0))},
				{EventDayID: 2, EntranceDate: at(7, 9, 0, 0)},
			},
			want: "50",
		},
		{
			name: "UnknownDayIgnored",
			checks: []models.EventDayCheck{
				{EventDayID: 99, EntranceDate: at(6, 9, 0, 0), ExitDate: ptr(at(6, 17, 0, 0))},
			},
			want: "0",
		},
		{
			name:   "NoChecks",
			checks: nil,
			want:   "0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PresencePercentage(days, tc.checks)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestPresencePercentage_NoSchedule(t *testing.T) {
	assert.True(t, PresencePercentage(nil, nil).IsZero())
}

func TestEligible(t *testing.T) {
	days := twoDays()

	exact := PresencePercentage(days, []models.EventDayCheck{
		{EventDayID: 1, EntranceDate: at(6, 9, 0, 0), ExitDate: ptr(at(6, 17, 0, 0))},
		{EventDayID: 2, EntranceDate: at(7, 9, 0, 0), ExitDate: ptr(at(7, 13, 0, 0))},
	})
	assert.True(t, exact.Equal(decimal.NewFromInt(75)))
	assert.False(t, Eligible(exact, DefaultThreshold), "75 exactly does not qualify")

	above := PresencePercentage(days, []models.EventDayCheck{
		{EventDayID: 1, EntranceDate: at(6, 9, 0, 0), ExitDate: ptr(at(6, 17, 0, 0))},
		{EventDayID: 2, EntranceDate: at(7, 9, 0, 0), ExitDate: ptr(at(7, 13, 0, 6))},
	})
	assert.True(t, above.GreaterThan(decimal.RequireFromString("75.01")))
	assert.True(t, Eligible(above, DefaultThreshold))

	assert.True(t, Eligible(decimal.RequireFromString("75.01"), DefaultThreshold))
	assert.False(t, Eligible(decimal.RequireFromString("74.99"), DefaultThreshold))
}
