package handlers

import (
	"context"

	"github.com/gdg-garage/event-attendance-api/internal/attendance"
	"github.com/gdg-garage/event-attendance-api/internal/auth"
	"golang.org/x/text/message"
)

type CheckHandler struct {
	service     *attendance.Service
	authHandler *auth.AuthHandler
}

func NewCheckHandler(service *attendance.Service, authHandler *auth.AuthHandler) *CheckHandler {
	return &CheckHandler{service: service, authHandler: authHandler}
}

func (h *CheckHandler) authorize(ctx context.Context, p *message.Printer, input auth.AuthInput) error {
	if _, err := h.authHandler.Authorize(ctx, input); err != nil {
		return serviceError(ctx, p, err)
	}
	return nil
}

type EventCheckInput struct {
	auth.AuthInput
	LocaleInput
	Body struct {
		Attendee string `json:"attendee" validate:"required,uuid" doc:"Attendee UUID"`
		Check    bool   `json:"check" doc:"true checks in, false checks out"`
	}
}

func (h *CheckHandler) HandleEventCheck(ctx context.Context, input *EventCheckInput) (*StatusOutput, error) {
	p := input.printer()
	if err := h.authorize(ctx, p, input.AuthInput); err != nil {
		return nil, err
	}
	if err := validateBody(p, input.Body); err != nil {
		return nil, err
	}
	attendeeID, err := parseAttendeeID(p, input.Body.Attendee)
	if err != nil {
		return nil, err
	}

	out, err := h.service.EventCheck(ctx, attendeeID, input.Body.Check)
	if err != nil {
		return nil, serviceError(ctx, p, err)
	}
	return outcomeOutput(p, input.Body.Check, out), nil
}

type SubEventCheckInput struct {
	auth.AuthInput
	LocaleInput
	Body struct {
		SubEvent uint   `json:"subevent" validate:"required" doc:"Sub-event ID"`
		Attendee string `json:"attendee" validate:"required,uuid" doc:"Attendee UUID"`
		Force    bool   `json:"force,omitempty" doc:"Create the attendance record when the attendee was not provisioned"`
	}
}

func (h *CheckHandler) HandleSubEventCheck(ctx context.Context, input *SubEventCheckInput) (*StatusOutput, error) {
	p := input.printer()
	if err := h.authorize(ctx, p, input.AuthInput); err != nil {
		return nil, err
	}
	if err := validateBody(p, input.Body); err != nil {
		return nil, err
	}
	attendeeID, err := parseAttendeeID(p, input.Body.Attendee)
	if err != nil {
		return nil, err
	}

	out, err := h.service.SubEventCheckIn(ctx, input.Body.SubEvent, attendeeID, input.Body.Force)
	if err != nil {
		return nil, serviceError(ctx, p, err)
	}
	return outcomeOutput(p, true, out), nil
}

type SubEventCheckoutInput struct {
	auth.AuthInput
	LocaleInput
	Body struct {
		Attendee string `json:"attendee" validate:"required,uuid" doc:"Attendee UUID"`
	}
}

func (h *CheckHandler) HandleSubEventCheckout(ctx context.Context, input *SubEventCheckoutInput) (*StatusOutput, error) {
	p := input.printer()
	if err := h.authorize(ctx, p, input.AuthInput); err != nil {
		return nil, err
	}
	if err := validateBody(p, input.Body); err != nil {
		return nil, err
	}
	attendeeID, err := parseAttendeeID(p, input.Body.Attendee)
	if err != nil {
		return nil, err
	}

	out, err := h.service.CheckOutSubEvents(ctx, attendeeID)
	if err != nil {
		return nil, serviceError(ctx, p, err)
	}
	return outcomeOutput(p, false, out), nil
}
