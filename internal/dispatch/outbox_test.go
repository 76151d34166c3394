package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gdg-garage/event-attendance-api/internal/database/dbtest"
	"github.com/gdg-garage/event-attendance-api/internal/models"
	"github.com/gdg-garage/event-attendance-api/internal/notifier"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	kind         models.DispatchKind
	email        string
	subject      notifier.Subject
	credentialID string
}

type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (f *fakeNotifier) SendCertificateMail(ctx context.Context, name, email string, subject notifier.Subject, credentialID string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{models.DispatchCertificate, email, subject, credentialID})
	return nil
}

func (f *fakeNotifier) SendNoCertificateMail(ctx context.Context, name, email string, subject notifier.Subject) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{models.DispatchNoCertificate, email, subject, ""})
	return nil
}

var start = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T, n notifier.Notifier, opts ...Option) (*Outbox, *clock.Mock) {
	db := dbtest.New(t)
	clk := clock.NewMock()
	clk.Set(start)

	opts = append([]Option{WithRetries(0, time.Millisecond), WithLogger(zap.NewNop())}, opts...)
	return NewOutbox(db, n, clk, opts...), clk
}

func attendee() models.Attendee {
	return models.Attendee{ID: uuid.New(), Name: "Ana Souza", Email: "ana@example.com", NationalID: "123"}
}

func TestOutbox_EnqueueAndDrain(t *testing.T) {
	n := &fakeNotifier{}
	outbox, _ := setup(t, n)

	subject := notifier.Subject{Type: notifier.SubjectEvent, ID: 7, Name: "DevFest"}
	require.NoError(t, outbox.EnqueueCertificate(outbox.db, attendee(), subject, "123"))
	require.NoError(t, outbox.EnqueueNoCertificate(outbox.db, attendee(), subject))

	sent, err := outbox.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	require.Len(t, n.sent, 2)
	assert.Equal(t, models.DispatchCertificate, n.sent[0].kind)
	assert.Equal(t, "123", n.sent[0].credentialID)
	assert.Equal(t, subject, n.sent[0].subject)
	assert.Equal(t, models.DispatchNoCertificate, n.sent[1].kind)

	var rows []models.CertificateDispatch
	require.NoError(t, outbox.db.Find(&rows).Error)
	for _, row := range rows {
		assert.Equal(t, models.DispatchSent, row.Status)
		assert.Equal(t, 1, row.Attempts)
		assert.NotNil(t, row.SentAt)
	}

	// Nothing left to send.
	sent, err = outbox.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestOutbox_FailureIsRescheduled(t *testing.T) {
	n := &fakeNotifier{err: errors.New("smtp down")}
	outbox, clk := setup(t, n, WithMaxAttempts(3))

	require.NoError(t, outbox.EnqueueCertificate(outbox.db, attendee(), notifier.Subject{Name: "DevFest"}, "123"))

	sent, err := outbox.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	var row models.CertificateDispatch
	require.NoError(t, outbox.db.First(&row).Error)
	assert.Equal(t, models.DispatchPending, row.Status)
	assert.Equal(t, 1, row.Attempts)
	assert.Equal(t, "smtp down", row.LastError)
	assert.True(t, row.NextAttemptAt.After(start))

	// Not due yet: the clock has not moved.
	sent, err = outbox.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	require.NoError(t, outbox.db.First(&row).Error)
	assert.Equal(t, 1, row.Attempts)

	// Recovery on a later drain.
	n.err = nil
	clk.Add(time.Minute)
	sent, err = outbox.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestOutbox_GivesUpAfterMaxAttempts(t *testing.T) {
	n := &fakeNotifier{err: errors.New("smtp down")}
	outbox, clk := setup(t, n, WithMaxAttempts(2))

	require.NoError(t, outbox.EnqueueNoCertificate(outbox.db, attendee(), notifier.Subject{Name: "DevFest"}))

	for i := 0; i < 3; i++ {
		_, err := outbox.Drain(context.Background())
		require.NoError(t, err)
		clk.Add(time.Hour)
	}

	var row models.CertificateDispatch
	require.NoError(t, outbox.db.First(&row).Error)
	assert.Equal(t, models.DispatchFailed, row.Status)
	assert.Equal(t, 2, row.Attempts)
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, time.Second, retryDelay(time.Second, 1))
	assert.Equal(t, 4*time.Second, retryDelay(time.Second, 3))
	assert.Equal(t, time.Hour, retryDelay(time.Second, 40))
	assert.Equal(t, 40*time.Minute, retryDelay(5*time.Minute, 4))
	assert.Equal(t, time.Hour, retryDelay(5*time.Minute, 5), "capped")
	assert.Equal(t, time.Second, retryDelay(0, 1))
}
