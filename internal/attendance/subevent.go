package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/event-attendance-api/internal/models"
	"github.com/gdg-garage/event-attendance-api/internal/notifier"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Service) loadSubEvent(ctx context.Context, subEventID uint) (models.SubEvent, error) {
	var sub models.SubEvent
	err := s.db.WithContext(ctx).Preload("EventDay").First(&sub, subEventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SubEvent{}, ErrSubEventNotFound
	}
	if err != nil {
		return models.SubEvent{}, fmt.Errorf("failed to load subevent: %w", err)
	}
	return sub, nil
}

// SubEventCheckIn stamps the attendee's entrance on a sub-event. With force the
// record is created when missing; without it a provisioned record is required.
func (s *Service) SubEventCheckIn(ctx context.Context, subEventID uint, attendeeID uuid.UUID, force bool) (Outcome, error) {
	sub, err := s.loadSubEvent(ctx, subEventID)
	if err != nil {
		return Outcome{}, err
	}
	attendee, err := s.loadAttendee(ctx, attendeeID)
	if err != nil {
		return Outcome{}, err
	}
	if attendee.EventID != sub.EventDay.EventID {
		return Outcome{Status: StatusInvalidData, Attendee: attendee}, nil
	}

	now := s.now()
	if !SubEventActive(sub, now) {
		return Outcome{Status: StatusEventInactive, Attendee: attendee}, nil
	}

	status := StatusOK
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if force {
			provision := models.SubEventCheck{AttendeeID: attendee.ID, SubEventID: sub.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&provision).Error; err != nil {
				return err
			}
		}

		var check models.SubEventCheck
		err := tx.Where("attendee_id = ? AND sub_event_id = ?", attendee.ID, sub.ID).First(&check).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = StatusAttendeeNotRegistered
			return nil
		}
		if err != nil {
			return err
		}
		if check.EntranceDate != nil {
			status = StatusAlreadyCheckedIn
			return nil
		}

		res := tx.Model(&models.SubEventCheck{}).
			Where("id = ? AND entrance_date IS NULL", check.ID).
			Update("entrance_date", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			status = StatusAlreadyCheckedIn
		}
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to check in to subevent: %w", err)
	}

	if status == StatusOK {
		s.log.Info("attendee checked in to subevent",
			zap.Stringer("attendee", attendee.ID),
			zap.Uint("subevent", sub.ID),
			zap.Bool("force", force),
		)
	}
	return Outcome{Status: status, Attendee: attendee}, nil
}

// CheckOutSubEvents closes every open sub-event session of the attendee. Each
// closed session earns a certificate notification, enqueued before the bulk update.
func (s *Service) CheckOutSubEvents(ctx context.Context, attendeeID uuid.UUID) (Outcome, error) {
	attendee, err := s.loadAttendee(ctx, attendeeID)
	if err != nil {
		return Outcome{}, err
	}

	now := s.now()
	status := StatusOK
	closed := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open []models.SubEventCheck
		err := tx.Preload("SubEvent").
			Where("attendee_id = ? AND entrance_date IS NOT NULL AND exit_date IS NULL", attendee.ID).
			Order("id").
			Find(&open).Error
		if err != nil {
			return err
		}
		if len(open) == 0 {
			status = StatusNotFound
			return nil
		}

		ids := make([]uint, 0, len(open))
		for _, check := range open {
			subject := notifier.SubEventSubject(check.SubEvent)
			if err := s.dispatcher.EnqueueCertificate(tx, attendee, subject, attendee.NationalID); err != nil {
				return fmt.Errorf("failed to enqueue certificate: %w", err)
			}
			ids = append(ids, check.ID)
		}

		res := tx.Model(&models.SubEventCheck{}).
			Where("id IN ? AND exit_date IS NULL", ids).
			Update("exit_date", now)
		closed = int(res.RowsAffected)
		return res.Error
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to check out of subevents: %w", err)
	}

	if status == StatusOK {
		s.log.Info("attendee checked out of subevents",
			zap.Stringer("attendee", attendee.ID),
			zap.Int("sessions", closed),
		)
	}
	return Outcome{Status: status, Attendee: attendee}, nil
}
