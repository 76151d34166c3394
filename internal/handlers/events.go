package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gdg-garage/event-attendance-api/internal/attendance"
	"github.com/gdg-garage/event-attendance-api/internal/auth"
	"github.com/gdg-garage/event-attendance-api/internal/models"
	"go.uber.org/zap"
	"golang.org/x/text/message"
	"gorm.io/gorm"
)

type EventHandler struct {
	db          *gorm.DB
	service     *attendance.Service
	authHandler *auth.AuthHandler
}

func NewEventHandler(db *gorm.DB, service *attendance.Service, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{db: db, service: service, authHandler: authHandler}
}

type DayResponse struct {
	ID       uint      `json:"id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	IsLast   bool      `json:"is_last"`
}

type EventResponse struct {
	ID                 uint          `json:"id"`
	Name               string        `json:"name"`
	Description        string        `json:"description"`
	OwnerID            uint          `json:"owner_id"`
	ClosedRegistration bool          `json:"closed_registration"`
	Days               []DayResponse `json:"days"`
}

func eventResponse(e models.Event) EventResponse {
	days := make([]DayResponse, 0, len(e.Days))
	for _, d := range e.Days {
		days = append(days, DayResponse{ID: d.ID, StartsAt: d.StartsAt, EndsAt: d.EndsAt, IsLast: d.IsLast})
	}
	return EventResponse{
		ID:                 e.ID,
		Name:               e.Name,
		Description:        e.Description,
		OwnerID:            e.OwnerID,
		ClosedRegistration: e.ClosedRegistration,
		Days:               days,
	}
}

func eventResponses(events []models.Event) []EventResponse {
	response := make([]EventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, eventResponse(e))
	}
	return response
}

type ListEventsInput struct {
	auth.AuthInput
	LocaleInput
}

type ListEventsOutput struct {
	Body []EventResponse
}

func (h *EventHandler) HandleCurrent(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	p := input.printer()
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, serviceError(ctx, p, err)
	}

	events, err := h.service.CurrentEvents(ctx)
	if err != nil {
		return nil, serviceError(ctx, p, err)
	}
	return &ListEventsOutput{Body: eventResponses(events)}, nil
}

func (h *EventHandler) HandleList(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	p := input.printer()
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, serviceError(ctx, p, err)
	}

	var events []models.Event
	err := h.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("starts_at") }).
		Order("id").
		Find(&events).Error
	if err != nil {
		return nil, serviceError(ctx, p, err)
	}
	return &ListEventsOutput{Body: eventResponses(events)}, nil
}

type DayRequest struct {
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

type CreateEventInput struct {
	auth.AuthInput
	LocaleInput
	Body struct {
		Name               string       `json:"name" validate:"required,max=255"`
		Description        string       `json:"description,omitempty"`
		ClosedRegistration bool         `json:"closed_registration,omitempty"`
		Days               []DayRequest `json:"days" validate:"required,min=1,dive"`
	}
}

type EventOutput struct {
	Status int
	Body   EventResponse
}

// HandleCreate stores an event owned by the caller. The day ending last is marked as the last day.
func (h *EventHandler) HandleCreate(ctx context.Context, input *CreateEventInput) (*EventOutput, error) {
	p := input.printer()
	user, err := h.authHandler.CurrentUser(ctx, input.AuthInput)
	if err != nil {
		return nil, serviceError(ctx, p, err)
	}
	if err := validateBody(p, input.Body); err != nil {
		return nil, err
	}

	event := models.Event{
		Name:               input.Body.Name,
		Description:        input.Body.Description,
		OwnerID:            user.ID,
		ClosedRegistration: input.Body.ClosedRegistration,
	}
	last := 0
	for i, d := range input.Body.Days {
		event.Days = append(event.Days, models.EventDay{StartsAt: d.StartsAt.UTC(), EndsAt: d.EndsAt.UTC()})
		if d.EndsAt.After(input.Body.Days[last].EndsAt) {
			last = i
		}
	}
	event.Days[last].IsLast = true

	if err := h.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, serviceError(ctx, p, err)
	}
	zap.L().Info("event created", zap.Uint("event_id", event.ID), zap.Uint("owner_id", user.ID))

	return &EventOutput{Status: http.StatusCreated, Body: eventResponse(event)}, nil
}

type SubEventResponse struct {
	ID         uint      `json:"id"`
	EventDayID uint      `json:"event_day_id"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
}

func subEventResponse(s models.SubEvent) SubEventResponse {
	return SubEventResponse{
		ID:         s.ID,
		EventDayID: s.EventDayID,
		Name:       s.Name,
		Kind:       s.Kind,
		StartsAt:   s.StartsAt,
		EndsAt:     s.EndsAt,
	}
}

type ListSubEventsInput struct {
	auth.AuthInput
	LocaleInput
	EventID uint `query:"event" required:"true"`
}

type ListSubEventsOutput struct {
	Body []SubEventResponse
}

func (h *EventHandler) HandleListSubEvents(ctx context.Context, input *ListSubEventsInput) (*ListSubEventsOutput, error) {
	p := input.printer()
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, serviceError(ctx, p, err)
	}

	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, input.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, statusError(p, http.StatusNotFound, attendance.StatusNotFound)
		}
		return nil, serviceError(ctx, p, err)
	}

	var subEvents []models.SubEvent
	err := h.db.WithContext(ctx).
		Joins("JOIN event_days ON event_days.id = sub_events.event_day_id AND event_days.deleted_at IS NULL").
		Where("event_days.event_id = ?", event.ID).
		Order("sub_events.starts_at, sub_events.id").
		Find(&subEvents).Error
	if err != nil {
		return nil, serviceError(ctx, p, err)
	}

	response := make([]SubEventResponse, 0, len(subEvents))
	for _, s := range subEvents {
		response = append(response, subEventResponse(s))
	}
	return &ListSubEventsOutput{Body: response}, nil
}

type CreateSubEventInput struct {
	auth.AuthInput
	LocaleInput
	Body struct {
		EventDay uint      `json:"event_day" validate:"required" doc:"Event day the sub-event belongs to"`
		Name     string    `json:"name" validate:"required,max=255"`
		Kind     string    `json:"kind,omitempty" validate:"omitempty,max=64" doc:"talk, workshop, ..."`
		StartsAt time.Time `json:"starts_at" validate:"required"`
		EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	}
}

type SubEventOutput struct {
	Status int
	Body   SubEventResponse
}

func (h *EventHandler) HandleCreateSubEvent(ctx context.Context, input *CreateSubEventInput) (*SubEventOutput, error) {
	p := input.printer()
	user, err := h.authHandler.CurrentUser(ctx, input.AuthInput)
	if err != nil {
		return nil, serviceError(ctx, p, err)
	}
	if err := validateBody(p, input.Body); err != nil {
		return nil, err
	}

	var day models.EventDay
	if err := h.db.WithContext(ctx).First(&day, input.Body.EventDay).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, statusError(p, http.StatusNotFound, attendance.StatusNotFound)
		}
		return nil, serviceError(ctx, p, err)
	}
	if _, err := manageableEvent(ctx, h.db, p, user, day.EventID); err != nil {
		return nil, err
	}

	sub := models.SubEvent{
		EventDayID: day.ID,
		Name:       input.Body.Name,
		Kind:       input.Body.Kind,
		StartsAt:   input.Body.StartsAt.UTC(),
		EndsAt:     input.Body.EndsAt.UTC(),
	}
	if err := h.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, serviceError(ctx, p, err)
	}

	return &SubEventOutput{Status: http.StatusCreated, Body: subEventResponse(sub)}, nil
}

// manageableEvent loads the event after checking the user owns it or is a superuser.
func manageableEvent(ctx context.Context, db *gorm.DB, p *message.Printer, user models.User, eventID uint) (models.Event, error) {
	var event models.Event
	if err := db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Event{}, statusError(p, http.StatusNotFound, attendance.StatusNotFound)
		}
		return models.Event{}, serviceError(ctx, p, err)
	}

	if !user.CanManage(event) {
		return models.Event{}, statusError(p, http.StatusForbidden, StatusForbidden)
	}
	return event, nil
}
