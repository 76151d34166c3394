package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	"github.com/gdg-garage/event-attendance-api/internal/models"
	"github.com/gdg-garage/event-attendance-api/internal/notifier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxRetryDelay = time.Hour

// Outbox persists certificate notifications next to the ledger writes that
// cause them and delivers them later through a Notifier.
type Outbox struct {
	db          *gorm.DB
	notifier    notifier.Notifier
	clock       clock.Clock
	log         *zap.Logger
	batchSize   int
	maxAttempts int
	timeout     time.Duration
	retries     uint64
	retryBase   time.Duration
}

type Option func(*Outbox)

func WithBatchSize(n int) Option {
	return func(o *Outbox) { o.batchSize = n }
}

func WithMaxAttempts(n int) Option {
	return func(o *Outbox) { o.maxAttempts = n }
}

// WithTimeout bounds a single delivery, in-place retries included.
func WithTimeout(d time.Duration) Option {
	return func(o *Outbox) { o.timeout = d }
}

// WithRetries sets how many times a delivery is retried in place before the
// row is rescheduled for a later drain.
func WithRetries(n uint64, base time.Duration) Option {
	return func(o *Outbox) {
		o.retries = n
		o.retryBase = base
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Outbox) { o.log = l }
}

func NewOutbox(db *gorm.DB, n notifier.Notifier, clk clock.Clock, opts ...Option) *Outbox {
	o := &Outbox{
		db:          db,
		notifier:    n,
		clock:       clk,
		log:         zap.NewNop(),
		batchSize:   50,
		maxAttempts: 8,
		timeout:     30 * time.Second,
		retries:     2,
		retryBase:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Outbox) EnqueueCertificate(tx *gorm.DB, attendee models.Attendee, subject notifier.Subject, credentialID string) error {
	return o.enqueue(tx, models.DispatchCertificate, attendee, subject, credentialID)
}

func (o *Outbox) EnqueueNoCertificate(tx *gorm.DB, attendee models.Attendee, subject notifier.Subject) error {
	return o.enqueue(tx, models.DispatchNoCertificate, attendee, subject, "")
}

func (o *Outbox) enqueue(tx *gorm.DB, kind models.DispatchKind, attendee models.Attendee, subject notifier.Subject, credentialID string) error {
	row := models.CertificateDispatch{
		Kind:          kind,
		SubjectType:   subject.Type,
		SubjectID:     subject.ID,
		SubjectName:   subject.Name,
		AttendeeID:    attendee.ID,
		Name:          attendee.Name,
		Email:         attendee.Email,
		CredentialID:  credentialID,
		Status:        models.DispatchPending,
		NextAttemptAt: o.clock.Now().UTC(),
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", kind, err)
	}
	return nil
}

// Drain delivers every due pending row, up to the batch size, and reports how
// many were sent.
func (o *Outbox) Drain(ctx context.Context) (int, error) {
	var due []models.CertificateDispatch
	err := o.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", models.DispatchPending, o.clock.Now().UTC()).
		Order("id").
		Limit(o.batchSize).
		Find(&due).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load due dispatches: %w", err)
	}

	sent := 0
	for _, d := range due {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		ok, err := o.deliver(ctx, d)
		if err != nil {
			return sent, err
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

func (o *Outbox) deliver(ctx context.Context, d models.CertificateDispatch) (bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = o.retryBase
	sendErr := backoff.Retry(func() error {
		return o.send(attemptCtx, d)
	}, backoff.WithContext(backoff.WithMaxRetries(policy, o.retries), attemptCtx))

	now := o.clock.Now().UTC()
	updates := map[string]interface{}{"attempts": d.Attempts + 1}
	switch {
	case sendErr == nil:
		updates["status"] = models.DispatchSent
		updates["sent_at"] = now
		updates["last_error"] = ""
	case d.Attempts+1 >= o.maxAttempts:
		updates["status"] = models.DispatchFailed
		updates["last_error"] = sendErr.Error()
		o.log.Error("certificate dispatch abandoned",
			zap.Uint("dispatch", d.ID),
			zap.String("email", d.Email),
			zap.Error(sendErr),
		)
	default:
		updates["next_attempt_at"] = now.Add(retryDelay(o.retryBase, d.Attempts+1))
		updates["last_error"] = sendErr.Error()
		o.log.Warn("certificate dispatch failed",
			zap.Uint("dispatch", d.ID),
			zap.Int("attempt", d.Attempts+1),
			zap.Error(sendErr),
		)
	}

	if err := o.db.WithContext(ctx).Model(&models.CertificateDispatch{}).Where("id = ?", d.ID).Updates(updates).Error; err != nil {
		return false, fmt.Errorf("failed to record dispatch %d: %w", d.ID, err)
	}
	return sendErr == nil, nil
}

func (o *Outbox) send(ctx context.Context, d models.CertificateDispatch) error {
	subject := notifier.Subject{Type: d.SubjectType, ID: d.SubjectID, Name: d.SubjectName}
	switch d.Kind {
	case models.DispatchCertificate:
		return o.notifier.SendCertificateMail(ctx, d.Name, d.Email, subject, d.CredentialID)
	case models.DispatchNoCertificate:
		return o.notifier.SendNoCertificateMail(ctx, d.Name, d.Email, subject)
	default:
		return backoff.Permanent(fmt.Errorf("unknown dispatch kind %q", d.Kind))
	}
}

// retryDelay doubles per attempt, capped at an hour.
func retryDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	policy := &backoff.ExponentialBackOff{
		InitialInterval:     base,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         maxRetryDelay,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	policy.Reset()

	delay := policy.NextBackOff()
	for i := 1; i < attempt && delay < maxRetryDelay; i++ {
		delay = policy.NextBackOff()
	}
	return delay
}
