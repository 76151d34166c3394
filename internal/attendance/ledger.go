package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdg-garage/event-attendance-api/internal/models"
	"github.com/gdg-garage/event-attendance-api/internal/notifier"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventCheck routes to CheckIn when check is true and to CheckOut otherwise.
func (s *Service) EventCheck(ctx context.Context, attendeeID uuid.UUID, check bool) (Outcome, error) {
	if check {
		return s.CheckIn(ctx, attendeeID)
	}
	return s.CheckOut(ctx, attendeeID)
}

func (s *Service) loadAttendee(ctx context.Context, attendeeID uuid.UUID) (models.Attendee, error) {
	var attendee models.Attendee
	err := s.db.WithContext(ctx).
		Preload("Event.Days", orderDays).
		First(&attendee, "id = ?", attendeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Attendee{}, ErrAttendeeNotFound
	}
	if err != nil {
		return models.Attendee{}, fmt.Errorf("failed to load attendee: %w", err)
	}
	return attendee, nil
}

// currentDay resolves the attendee and the event day active at now.
func (s *Service) currentDay(ctx context.Context, attendeeID uuid.UUID, now time.Time) (models.Attendee, models.EventDay, bool, error) {
	attendee, err := s.loadAttendee(ctx, attendeeID)
	if err != nil {
		return models.Attendee{}, models.EventDay{}, false, err
	}
	day, ok := CurrentDay(attendee.Event, now, s.tolerance)
	return attendee, day, ok, nil
}

// CheckIn opens the attendee's record for the current event day.
func (s *Service) CheckIn(ctx context.Context, attendeeID uuid.UUID) (Outcome, error) {
	now := s.now()
	attendee, day, active, err := s.currentDay(ctx, attendeeID, now)
	if err != nil {
		return Outcome{}, err
	}
	if !active {
		return Outcome{Status: StatusEventInactive, Attendee: attendee}, nil
	}

	check := models.EventDayCheck{
		AttendeeID:   attendee.ID,
		EventDayID:   day.ID,
		EntranceDate: now,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&check)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) || (res.Error == nil && res.RowsAffected == 0) {
		return Outcome{Status: StatusAlreadyCheckedIn, Attendee: attendee}, nil
	}
	if res.Error != nil {
		return Outcome{}, fmt.Errorf("failed to create day check: %w", res.Error)
	}

	s.log.Info("attendee checked in",
		zap.Stringer("attendee", attendee.ID),
		zap.Uint("event_day", day.ID),
	)
	return Outcome{Status: StatusOK, Attendee: attendee}, nil
}

// CheckOut closes the attendee's record for the current event day. Checking out
// of the last day enqueues the certificate decision in the same transaction.
func (s *Service) CheckOut(ctx context.Context, attendeeID uuid.UUID) (Outcome, error) {
	now := s.now()
	attendee, day, active, err := s.currentDay(ctx, attendeeID, now)
	if err != nil {
		return Outcome{}, err
	}
	if !active {
		return Outcome{Status: StatusEventInactive, Attendee: attendee}, nil
	}

	status := StatusOK
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var check models.EventDayCheck
		err := tx.Where("attendee_id = ? AND event_day_id = ?", attendee.ID, day.ID).First(&check).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = StatusNotCheckedIn
			return nil
		}
		if err != nil {
			return err
		}
		if check.ExitDate != nil {
			status = StatusAlreadyCheckedOut
			return nil
		}

		res := tx.Model(&models.EventDayCheck{}).
			Where("id = ? AND exit_date IS NULL", check.ID).
			Update("exit_date", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			status = StatusAlreadyCheckedOut
			return nil
		}

		if day.IsLast {
			return s.decideCertificate(tx, attendee)
		}
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to check out: %w", err)
	}

	if status == StatusOK {
		s.log.Info("attendee checked out",
			zap.Stringer("attendee", attendee.ID),
			zap.Uint("event_day", day.ID),
			zap.Bool("last_day", day.IsLast),
		)
	}
	return Outcome{Status: status, Attendee: attendee}, nil
}

func (s *Service) decideCertificate(tx *gorm.DB, attendee models.Attendee) error {
	percentage, err := presence(tx, attendee.ID, attendee.Event.Days)
	if err != nil {
		return err
	}

	subject := notifier.EventSubject(attendee.Event)
	if Eligible(percentage, s.threshold) {
		err = s.dispatcher.EnqueueCertificate(tx, attendee, subject, attendee.NationalID)
	} else {
		err = s.dispatcher.EnqueueNoCertificate(tx, attendee, subject)
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue certificate decision: %w", err)
	}

	s.log.Info("certificate decision",
		zap.Stringer("attendee", attendee.ID),
		zap.String("presence", percentage.StringFixed(2)),
		zap.Bool("eligible", Eligible(percentage, s.threshold)),
	)
	return nil
}
