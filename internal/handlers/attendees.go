package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gdg-garage/event-attendance-api/internal/attendance"
	"github.com/gdg-garage/event-attendance-api/internal/auth"
	"github.com/gdg-garage/event-attendance-api/internal/i18n"
	"github.com/gdg-garage/event-attendance-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AttendeeHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewAttendeeHandler(db *gorm.DB, authHandler *auth.AuthHandler) *AttendeeHandler {
	return &AttendeeHandler{db: db, authHandler: authHandler}
}

type RegisterAttendeeInput struct {
	LocaleInput
	Body struct {
		Event      uint   `json:"event" validate:"required" doc:"Event ID"`
		Name       string `json:"name" validate:"required,max=255" doc:"Full name"`
		Email      string `json:"email" validate:"required,email" doc:"Email the certificate is sent to"`
		NationalID string `json:"national_id,omitempty" validate:"omitempty,max=32" doc:"National ID printed on the certificate"`
	}
}

func (h *AttendeeHandler) HandleRegister(ctx context.Context, input *RegisterAttendeeInput) (*StatusOutput, error) {
	p := input.printer()
	input.Body.Name = strings.TrimSpace(input.Body.Name)
	input.Body.Email = strings.ToLower(strings.TrimSpace(input.Body.Email))
	if err := validateBody(p, input.Body); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, input.Body.Event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, statusError(p, http.StatusNotFound, attendance.StatusNotFound)
		}
		return nil, serviceError(ctx, p, err)
	}
	if event.ClosedRegistration {
		return nil, statusError(p, http.StatusBadRequest, StatusRegistrationClosed)
	}

	attendee := models.Attendee{
		EventID:    event.ID,
		Name:       input.Body.Name,
		Email:      input.Body.Email,
		NationalID: strings.TrimSpace(input.Body.NationalID),
	}
	if err := h.db.WithContext(ctx).Create(&attendee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &StatusOutput{
				Status: http.StatusBadRequest,
				Body: StatusBody{
					Status:  StatusAlreadyRegistered,
					Message: p.Sprintf(i18n.AlreadyRegistered, attendee.FirstName()),
				},
			}, nil
		}
		return nil, serviceError(ctx, p, err)
	}

	zap.L().Info("attendee registered", zap.Uint("event_id", event.ID), zap.Stringer("attendee_id", attendee.ID))

	return &StatusOutput{
		Status: http.StatusCreated,
		Body: StatusBody{
			Status:   attendance.StatusOK,
			Message:  p.Sprintf(i18n.Registered, attendee.FirstName()),
			Attendee: &AttendeeBody{UUID: attendee.ID.String(), Name: attendee.Name, Email: attendee.Email},
		},
	}, nil
}

type ListAttendeesInput struct {
	auth.AuthInput
	LocaleInput
	EventID uint `path:"id"`
}

type AttendeeResponse struct {
	UUID       string    `json:"uuid"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	NationalID string    `json:"national_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListAttendeesOutput struct {
	Body []AttendeeResponse
}

func (h *AttendeeHandler) HandleList(ctx context.Context, input *ListAttendeesInput) (*ListAttendeesOutput, error) {
	p := input.printer()
	user, err := h.authHandler.CurrentUser(ctx, input.AuthInput)
	if err != nil {
		return nil, serviceError(ctx, p, err)
	}
	event, err := manageableEvent(ctx, h.db, p, user, input.EventID)
	if err != nil {
		return nil, err
	}

	var attendees []models.Attendee
	if err := h.db.WithContext(ctx).Where("event_id = ?", event.ID).Order("name").Find(&attendees).Error; err != nil {
		return nil, serviceError(ctx, p, err)
	}
	if len(attendees) == 0 {
		return nil, statusError(p, http.StatusNotFound, attendance.StatusNotFound)
	}

	response := make([]AttendeeResponse, 0, len(attendees))
	for _, a := range attendees {
		response = append(response, AttendeeResponse{
			UUID:       a.ID.String(),
			Name:       a.Name,
			Email:      a.Email,
			NationalID: a.NationalID,
			CreatedAt:  a.CreatedAt,
		})
	}
	return &ListAttendeesOutput{Body: response}, nil
}
