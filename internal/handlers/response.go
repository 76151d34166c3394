package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/event-attendance-api/internal/attendance"
	"github.com/gdg-garage/event-attendance-api/internal/auth"
	"github.com/gdg-garage/event-attendance-api/internal/i18n"
	"github.com/gdg-garage/event-attendance-api/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

// Statuses reported only by the HTTP layer.
const (
	StatusUnauthorized       attendance.Status = "UNAUTHORIZED"
	StatusForbidden          attendance.Status = "FORBIDDEN"
	StatusRegistrationClosed attendance.Status = "REGISTRATION_CLOSED"
	StatusAlreadyRegistered  attendance.Status = "ALREADY_REGISTERED"
	StatusInternalError      attendance.Status = "INTERNAL_ERROR"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LocaleInput selects the response language. Embed it in huma inputs.
type LocaleInput struct {
	AcceptLanguage string `header:"Accept-Language"`
}

func (l LocaleInput) printer() *message.Printer {
	return i18n.Printer(l.AcceptLanguage)
}

type AttendeeBody struct {
	UUID  string `json:"uuid,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StatusBody is the envelope of every check and registration response, and of every error.
type StatusBody struct {
	Status   attendance.Status `json:"status"`
	Message  string            `json:"message"`
	Attendee *AttendeeBody     `json:"attendee,omitempty"`
}

type StatusOutput struct {
	Status int
	Body   StatusBody
}

// StatusError is a StatusBody returned as an error.
type StatusError struct {
	code int
	StatusBody
}

func (e *StatusError) Error() string { return e.Message }

func (e *StatusError) GetStatus() int { return e.code }

func statusError(p *message.Printer, code int, status attendance.Status) *StatusError {
	return &StatusError{code: code, StatusBody: StatusBody{Status: status, Message: statusMessage(p, status)}}
}

func init() {
	// Framework errors, including schema validation, use the same envelope.
	huma.NewError = func(code int, msg string, errs ...error) huma.StatusError {
		status := statusForCode(code)
		if code == http.StatusUnprocessableEntity {
			code = http.StatusBadRequest
		}
		return statusError(i18n.Printer(""), code, status)
	}
}

// statusForCode maps a framework error code to a status.
func statusForCode(code int) attendance.Status {
	switch {
	case code == http.StatusUnauthorized:
		return StatusUnauthorized
	case code == http.StatusForbidden:
		return StatusForbidden
	case code == http.StatusNotFound:
		return attendance.StatusNotFound
	case code >= http.StatusInternalServerError:
		return StatusInternalError
	default:
		return attendance.StatusInvalidData
	}
}

func statusMessage(p *message.Printer, status attendance.Status) string {
	switch status {
	case attendance.StatusEventInactive:
		return p.Sprintf(i18n.EventInactive)
	case attendance.StatusAttendeeNotRegistered:
		return p.Sprintf(i18n.AttendeeNotRegistered)
	case attendance.StatusNotFound:
		return p.Sprintf(i18n.NotFound)
	case StatusUnauthorized:
		return p.Sprintf(i18n.Unauthorized)
	case StatusForbidden:
		return p.Sprintf(i18n.Forbidden)
	case StatusRegistrationClosed:
		return p.Sprintf(i18n.RegistrationClosed)
	case StatusInternalError:
		return p.Sprintf(i18n.InternalError)
	default:
		return p.Sprintf(i18n.InvalidData)
	}
}

// outcomeMessage greets the attendee by first name where the outcome concerns them.
func outcomeMessage(p *message.Printer, checkIn bool, out attendance.Outcome) string {
	name := out.Attendee.FirstName()
	switch out.Status {
	case attendance.StatusOK:
		if checkIn {
			return p.Sprintf(i18n.CheckedIn, name)
		}
		return p.Sprintf(i18n.CheckedOut, name)
	case attendance.StatusAlreadyCheckedIn:
		return p.Sprintf(i18n.AlreadyCheckedIn, name)
	case attendance.StatusAlreadyCheckedOut:
		return p.Sprintf(i18n.AlreadyCheckedOut, name)
	case attendance.StatusNotCheckedIn:
		return p.Sprintf(i18n.NotCheckedIn, name)
	case attendance.StatusNotFound:
		return p.Sprintf(i18n.CheckInsNotFound)
	default:
		return statusMessage(p, out.Status)
	}
}

func httpStatus(checkIn bool, status attendance.Status) int {
	switch status {
	case attendance.StatusOK:
		if checkIn {
			return http.StatusCreated
		}
		return http.StatusOK
	case attendance.StatusAttendeeNotRegistered, attendance.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func attendeeBody(a models.Attendee) *AttendeeBody {
	if a.ID == uuid.Nil {
		return nil
	}
	return &AttendeeBody{Name: a.Name, Email: a.Email}
}

func outcomeOutput(p *message.Printer, checkIn bool, out attendance.Outcome) *StatusOutput {
	return &StatusOutput{
		Status: httpStatus(checkIn, out.Status),
		Body: StatusBody{
			Status:   out.Status,
			Message:  outcomeMessage(p, checkIn, out),
			Attendee: attendeeBody(out.Attendee),
		},
	}
}

// serviceError maps infrastructure and lookup failures to a response.
func serviceError(ctx context.Context, p *message.Printer, err error) error {
	switch {
	case errors.Is(err, attendance.ErrAttendeeNotFound),
		errors.Is(err, attendance.ErrSubEventNotFound):
		// Unknown references in a request body are invalid input, not a missing resource.
		return statusError(p, http.StatusBadRequest, attendance.StatusInvalidData)
	case errors.Is(err, attendance.ErrEventNotFound):
		return statusError(p, http.StatusNotFound, attendance.StatusNotFound)
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrAPIKeyExpired):
		return statusError(p, http.StatusUnauthorized, StatusUnauthorized)
	case errors.Is(err, context.Canceled):
		return err
	default:
		zap.L().Error("request failed", zap.Error(err))
		return statusError(p, http.StatusInternalServerError, StatusInternalError)
	}
}

// validateBody runs field-level checks, short-circuiting with INVALID_DATA.
func validateBody(p *message.Printer, body any) error {
	if err := validate.Struct(body); err != nil {
		return statusError(p, http.StatusBadRequest, attendance.StatusInvalidData)
	}
	return nil
}

func parseAttendeeID(p *message.Printer, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, statusError(p, http.StatusBadRequest, attendance.StatusInvalidData)
	}
	return id, nil
}
