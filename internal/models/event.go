package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	gorm.Model
	Name               string     `json:"name" gorm:"not null"`
	Description        string     `json:"description"`
	OwnerID            uint       `json:"owner_id" gorm:"index"`
	Owner              User       `json:"-" gorm:"foreignKey:OwnerID"`
	ClosedRegistration bool       `json:"closed_registration" gorm:"not null;default:false"`
	Days               []EventDay `json:"days" gorm:"constraint:OnDelete:CASCADE"`
}

// EventDay is one scheduled session of an event. Days are immutable once created.
type EventDay struct {
	gorm.Model
	EventID   uint       `json:"event_id" gorm:"index;not null"`
	StartsAt  time.Time  `json:"starts_at" gorm:"not null"`
	EndsAt    time.Time  `json:"ends_at" gorm:"not null"`
	IsLast    bool       `json:"is_last" gorm:"not null;default:false"`
	SubEvents []SubEvent `json:"subevents,omitempty"`
}

func (d EventDay) Duration() time.Duration {
	return d.EndsAt.Sub(d.StartsAt)
}

// SubEvent is a talk, workshop or other session attached to a day, with its own window.
type SubEvent struct {
	gorm.Model
	EventDayID uint      `json:"event_day_id" gorm:"index;not null"`
	EventDay   EventDay  `json:"-"`
	Name       string    `json:"name" gorm:"not null"`
	Kind       string    `json:"kind"`
	StartsAt   time.Time `json:"starts_at" gorm:"not null"`
	EndsAt     time.Time `json:"ends_at" gorm:"not null"`
}
