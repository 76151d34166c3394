package models

import (
	"time"

	"github.com/google/uuid"
)

// EventDayCheck records an attendee's presence on one event day.
// The (attendee, day) pair is unique; rows are never deleted.
type EventDayCheck struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	AttendeeID   uuid.UUID  `json:"attendee_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_day_check_pair"`
	Attendee     Attendee   `json:"-"`
	EventDayID   uint       `json:"event_day_id" gorm:"not null;uniqueIndex:idx_event_day_check_pair"`
	EventDay     EventDay   `json:"-"`
	EntranceDate time.Time  `json:"entrance_date" gorm:"not null"`
	ExitDate     *time.Time `json:"exit_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SubEventCheck records an attendee's presence on a sub-event. A row with a nil
// EntranceDate was provisioned ahead of the attendee's arrival.
type SubEventCheck struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	AttendeeID   uuid.UUID  `json:"attendee_id" gorm:"type:uuid;not null;uniqueIndex:idx_subevent_check_pair"`
	Attendee     Attendee   `json:"-"`
	SubEventID   uint       `json:"subevent_id" gorm:"not null;uniqueIndex:idx_subevent_check_pair"`
	SubEvent     SubEvent   `json:"-"`
	EntranceDate *time.Time `json:"entrance_date"`
	ExitDate     *time.Time `json:"exit_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
