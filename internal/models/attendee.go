package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Attendee struct {
	ID         uuid.UUID `json:"uuid" gorm:"type:uuid;primaryKey"`
	EventID    uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_attendee_event_email"`
	Event      Event     `json:"-"`
	Name       string    `json:"name" gorm:"not null"`
	Email      string    `json:"email" gorm:"not null;uniqueIndex:idx_attendee_event_email"`
	NationalID string    `json:"national_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a *Attendee) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// FirstName is the greeting used in desk messages.
func (a Attendee) FirstName() string {
	if fields := strings.Fields(a.Name); len(fields) > 0 {
		return fields[0]
	}
	return a.Name
}
