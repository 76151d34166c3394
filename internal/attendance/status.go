package attendance

import (
	"errors"

	"github.com/gdg-garage/event-attendance-api/internal/models"
)

// Status is the outcome of a ledger operation as reported to clients.
type Status string

const (
	StatusOK                    Status = "OK"
	StatusEventInactive         Status = "EVENT_INACTIVE"
	StatusAlreadyCheckedIn      Status = "ALREADY_CHECKED_IN"
	StatusAlreadyCheckedOut     Status = "ALREADY_CHECKED_OUT"
	StatusNotCheckedIn          Status = "NOT_CHECKED_IN"
	StatusAttendeeNotRegistered Status = "ATTENDEE_NOT_REGISTERED"
	StatusNotFound              Status = "NOT_FOUND"
	StatusInvalidData           Status = "INVALID_DATA"
)

// Outcome carries the status and the attendee it concerns. Rendering messages
// is left to the caller.
type Outcome struct {
	Status   Status
	Attendee models.Attendee
}

func (o Outcome) OK() bool {
	return o.Status == StatusOK
}

var (
	ErrAttendeeNotFound = errors.New("attendee not found")
	ErrSubEventNotFound = errors.New("subevent not found")
	ErrEventNotFound    = errors.New("event not found")
)
