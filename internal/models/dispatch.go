package models

import (
	"time"

	"github.com/google/uuid"
)

type DispatchKind string

const (
	DispatchCertificate   DispatchKind = "certificate"
	DispatchNoCertificate DispatchKind = "no_certificate"
)

type DispatchStatus string

const (
	DispatchPending DispatchStatus = "pending"
	DispatchSent    DispatchStatus = "sent"
	DispatchFailed  DispatchStatus = "failed"
)

// CertificateDispatch is an outbox row for one certificate notification.
// Recipient and subject fields are snapshots taken when the row is enqueued.
type CertificateDispatch struct {
	ID            uint           `gorm:"primaryKey"`
	Kind          DispatchKind   `gorm:"type:varchar(32);not null"`
	SubjectType   string         `gorm:"type:varchar(16);not null"`
	SubjectID     uint           `gorm:"not null"`
	SubjectName   string         `gorm:"not null"`
	AttendeeID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name          string         `gorm:"not null"`
	Email         string         `gorm:"not null"`
	CredentialID  string
	Status        DispatchStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_dispatch_due"`
	Attempts      int            `gorm:"not null;default:0"`
	LastError     string
	NextAttemptAt time.Time      `gorm:"not null;index:idx_dispatch_due"`
	SentAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
