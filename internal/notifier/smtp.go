package notifier

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"github.com/yuin/goldmark"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends certificate mails through a relay.
type SMTPMailer struct {
	cfg SMTPConfig
	md  goldmark.Markdown
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, md: goldmark.New()}
}

func (m *SMTPMailer) SendCertificateMail(ctx context.Context, name, email string, subject Subject, credentialID string) error {
	body, err := render(m.md, certificateTemplate, mailData{Name: name, Subject: subject.Name, CredentialID: credentialID})
	if err != nil {
		return err
	}
	return m.send(ctx, name, email, fmt.Sprintf("Your certificate for %s", subject.Name), body)
}

func (m *SMTPMailer) SendNoCertificateMail(ctx context.Context, name, email string, subject Subject) error {
	body, err := render(m.md, noCertificateTemplate, mailData{Name: name, Subject: subject.Name})
	if err != nil {
		return err
	}
	return m.send(ctx, name, email, fmt.Sprintf("Your attendance at %s", subject.Name), body)
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

func (m *SMTPMailer) send(ctx context.Context, name, to, subject, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.cfg.From, err)
	}
	if err := msg.AddToFormat(name, to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextHTML, html)

	c, err := m.client()
	if err != nil {
		return fmt.Errorf("failed to configure smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
