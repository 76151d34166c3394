package notifier

import (
	"context"

	"go.uber.org/zap"
)

// Fanout delivers through Primary and mirrors to Observers. Only the primary's
// error is returned, so a retry never re-sends an attendee mail because a
// mirror failed.
type Fanout struct {
	Primary   Notifier
	Observers []Notifier
	Log       *zap.Logger
}

func (f *Fanout) SendCertificateMail(ctx context.Context, name, email string, subject Subject, credentialID string) error {
	if err := f.Primary.SendCertificateMail(ctx, name, email, subject, credentialID); err != nil {
		return err
	}
	for _, o := range f.Observers {
		if err := o.SendCertificateMail(ctx, name, email, subject, credentialID); err != nil {
			f.logger().Warn("observer failed", zap.Error(err))
		}
	}
	return nil
}

func (f *Fanout) SendNoCertificateMail(ctx context.Context, name, email string, subject Subject) error {
	if err := f.Primary.SendNoCertificateMail(ctx, name, email, subject); err != nil {
		return err
	}
	for _, o := range f.Observers {
		if err := o.SendNoCertificateMail(ctx, name, email, subject); err != nil {
			f.logger().Warn("observer failed", zap.Error(err))
		}
	}
	return nil
}

func (f *Fanout) logger() *zap.Logger {
	if f.Log == nil {
		return zap.L()
	}
	return f.Log
}

// LogNotifier only records decisions; used when no mail server is configured.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) SendCertificateMail(ctx context.Context, name, email string, subject Subject, credentialID string) error {
	n.Log.Info("certificate mail",
		zap.String("name", name),
		zap.String("email", email),
		zap.String("subject", subject.Name),
		zap.String("credential_id", credentialID),
	)
	return nil
}

func (n LogNotifier) SendNoCertificateMail(ctx context.Context, name, email string, subject Subject) error {
	n.Log.Info("no certificate mail",
		zap.String("name", name),
		zap.String("email", email),
		zap.String("subject", subject.Name),
	)
	return nil
}
