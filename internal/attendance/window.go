package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/gdg-garage/event-attendance-api/internal/models"
	"gorm.io/gorm"
)

// DefaultTolerance widens every event day window on both ends.
const DefaultTolerance = 60 * time.Minute

// DayActive reports whether now falls within the day's window widened by tolerance.
func DayActive(day models.EventDay, now time.Time, tolerance time.Duration) bool {
	return !now.Before(day.StartsAt.Add(-tolerance)) && !now.After(day.EndsAt.Add(tolerance))
}

// CurrentDay returns the event's day active at now. When widened windows
// overlap, the earliest-starting day wins so there is never more than one.
func CurrentDay(event models.Event, now time.Time, tolerance time.Duration) (models.EventDay, bool) {
	var (
		current models.EventDay
		found   bool
	)
	for _, day := range event.Days {
		if !DayActive(day, now, tolerance) {
			continue
		}
		if !found || day.StartsAt.Before(current.StartsAt) {
			current, found = day, true
		}
	}
	return current, found
}

// SubEventActive is a plain point-in-time test against the sub-event's own schedule.
func SubEventActive(sub models.SubEvent, now time.Time) bool {
	return !now.Before(sub.StartsAt) && !now.After(sub.EndsAt)
}

func orderDays(db *gorm.DB) *gorm.DB {
	return db.Order("starts_at")
}

// CurrentEvents lists events having a day active right now. It reads the clock
// on every call.
func (s *Service) CurrentEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Preload("Days", orderDays).Order("id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	now := s.now()
	active := make([]models.Event, 0, len(events))
	for _, event := range events {
		if _, ok := CurrentDay(event, now, s.tolerance); ok {
			active = append(active, event)
		}
	}
	return active, nil
}
