package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gdg-garage/event-attendance-api/internal/database/dbtest"
	"github.com/gdg-garage/event-attendance-api/internal/models"
	"github.com/gdg-garage/event-attendance-api/internal/notifier"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type decision struct {
	certificate  bool
	email        string
	subject      notifier.Subject
	credentialID string
}

// fakeDispatcher records decisions instead of writing outbox rows.
type fakeDispatcher struct {
	mu        sync.Mutex
	decisions []decision
}

func (f *fakeDispatcher) EnqueueCertificate(tx *gorm.DB, a models.Attendee, subject notifier.Subject, credentialID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, decision{true, a.Email, subject, credentialID})
	return nil
}

func (f *fakeDispatcher) EnqueueNoCertificate(tx *gorm.DB, a models.Attendee, subject notifier.Subject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, decision{false, a.Email, subject, ""})
	return nil
}

func at(day, hour, minute, second int) time.Time {
	return time.Date(2024, time.May, day, hour, minute, second, 0, time.UTC)
}

type fixture struct {
	db         *gorm.DB
	clock      *clock.Mock
	dispatcher *fakeDispatcher
	svc        *Service
	event      models.Event
	attendee   models.Attendee
	talk       models.SubEvent
	workshop   models.SubEvent
}

// newFixture builds a two-day event (6 and 7 May, 09:00-17:00, the 7th last)
// with two sub-events on the first day and one registered attendee.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.New(t)
	clk := clock.NewMock()
	clk.Set(at(1, 12, 0, 0))
	dispatcher := &fakeDispatcher{}

	owner := models.User{DiscordID: "owner"}
	require.NoError(t, db.Create(&owner).Error)

	event := models.Event{
		Name:    "DevFest",
		OwnerID: owner.ID,
		Days: []models.EventDay{
			{StartsAt: at(6, 9, 0, 0), EndsAt: at(6, 17, 0, 0)},
			{StartsAt: at(7, 9, 0, 0), EndsAt: at(7, 17, 0, 0), IsLast: true},
		},
	}
	require.NoError(t, db.Create(&event).Error)

	talk := models.SubEvent{EventDayID: event.Days[0].ID, Name: "Keynote", StartsAt: at(6, 9, 0, 0), EndsAt: at(6, 10, 0, 0)}
	workshop := models.SubEvent{EventDayID: event.Days[0].ID, Name: "Go workshop", StartsAt: at(6, 9, 30, 0), EndsAt: at(6, 12, 0, 0)}
	require.NoError(t, db.Create(&talk).Error)
	require.NoError(t, db.Create(&workshop).Error)

	attendee := models.Attendee{EventID: event.ID, Name: "Ana Souza", Email: "ana@example.com", NationalID: "123.456.789-00"}
	require.NoError(t, db.Create(&attendee).Error)

	return &fixture{
		db:         db,
		clock:      clk,
		dispatcher: dispatcher,
		svc:        NewService(db, clk, dispatcher),
		event:      event,
		attendee:   attendee,
		talk:       talk,
		workshop:   workshop,
	}
}

func (f *fixture) checkIn(t *testing.T, when time.Time) Outcome {
	t.Helper()
	f.clock.Set(when)
	out, err := f.svc.EventCheck(context.Background(), f.attendee.ID, true)
	require.NoError(t, err)
	return out
}

func (f *fixture) checkOut(t *testing.T, when time.Time) Outcome {
	t.Helper()
	f.clock.Set(when)
	out, err := f.svc.EventCheck(context.Background(), f.attendee.ID, false)
	require.NoError(t, err)
	return out
}
