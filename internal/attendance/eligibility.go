package attendance

import (
	"fmt"
	"time"

	"github.com/gdg-garage/event-attendance-api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultThreshold is the presence percentage an attendee must exceed to earn a certificate.
var DefaultThreshold = decimal.NewFromInt(75)

var hundred = decimal.NewFromInt(100)

// PresencePercentage is attended time over scheduled time across all days, in percent.
// Attendance outside a day's schedule is not counted; open checks count as nothing.
func PresencePercentage(days []models.EventDay, checks []models.EventDayCheck) decimal.Decimal {
	byDay := make(map[uint]models.EventDay, len(days))
	var scheduled time.Duration
	for _, day := range days {
		byDay[day.ID] = day
		if d := day.Duration(); d > 0 {
			scheduled += d
		}
	}
	if scheduled <= 0 {
		return decimal.Zero
	}

	var attended time.Duration
	for _, check := range checks {
		day, ok := byDay[check.EventDayID]
		if !ok || check.ExitDate == nil {
			continue
		}
		attended += overlap(check.EntranceDate, *check.ExitDate, day.StartsAt, day.EndsAt)
	}

	return decimal.NewFromInt(int64(attended)).
		Div(decimal.NewFromInt(int64(scheduled))).
		Mul(hundred)
}

func overlap(from, to, start, end time.Time) time.Duration {
	if from.Before(start) {
		from = start
	}
	if to.After(end) {
		to = end
	}
	if !to.After(from) {
		return 0
	}
	return to.Sub(from)
}

// Eligible applies the strict greater-than rule: exactly the threshold does not qualify.
func Eligible(percentage, threshold decimal.Decimal) bool {
	return percentage.GreaterThan(threshold)
}

func presence(tx *gorm.DB, attendeeID uuid.UUID, days []models.EventDay) (decimal.Decimal, error) {
	var checks []models.EventDayCheck
	if err := tx.Where("attendee_id = ?", attendeeID).Find(&checks).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to load day checks: %w", err)
	}
	return PresencePercentage(days, checks), nil
}
