package email

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

const providerSMTP = "smtp"

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// dialer is the part of the go-mail client used here.
type dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTP sends through an SMTP relay. Port 465 uses implicit TLS, other ports
// upgrade with STARTTLS when offered.
type SMTP struct {
	client dialer
	from   string
}

// NewSMTP creates an SMTP sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTP{client: client, from: cfg.From}, nil
}

// Send delivers msg via SMTP.
func (s *SMTP) Send(ctx context.Context, msg Message) (Result, error) {
	start := time.Now()
	m, err := buildMsg(s.from, msg)
	if err != nil {
		observe(providerSMTP, msg.Kind, start, err)
		return Result{}, err
	}

	err = s.client.DialAndSendWithContext(ctx, m)
	observe(providerSMTP, msg.Kind, start, err)
	if err != nil {
		return Result{}, fmt.Errorf("smtp: %w", err)
	}
	return Result{Provider: providerSMTP, MessageID: m.GetMessageID()}, nil
}

func buildMsg(from string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("smtp from %q: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("smtp to %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	if msg.Text != "" {
		m.AddAlternativeString(mail.TypeTextPlain, msg.Text)
	}
	m.SetMessageID()
	return m, nil
}
