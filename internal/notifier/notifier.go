package notifier

import (
	"context"

	"github.com/gdg-garage/event-attendance-api/internal/models"
)

const (
	SubjectEvent    = "event"
	SubjectSubEvent = "subevent"
)

// Subject is what a certificate is issued for: a whole event or one sub-event.
type Subject struct {
	Type string
	ID   uint
	Name string
}

func EventSubject(e models.Event) Subject {
	return Subject{Type: SubjectEvent, ID: e.ID, Name: e.Name}
}

func SubEventSubject(s models.SubEvent) Subject {
	return Subject{Type: SubjectSubEvent, ID: s.ID, Name: s.Name}
}

// Notifier delivers certificate decisions to attendees.
type Notifier interface {
	SendCertificateMail(ctx context.Context, name, email string, subject Subject, credentialID string) error
	SendNoCertificateMail(ctx context.Context, name, email string, subject Subject) error
}
