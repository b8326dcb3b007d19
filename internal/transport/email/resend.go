package email

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
)

const providerResend = "resend"

// emailsAPI is the part of the Resend client used here.
type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Resend sends through the Resend HTTP API.
type Resend struct {
	emails emailsAPI
	from   string
}

// NewResend creates a Resend sender.
func NewResend(apiKey, from string) *Resend {
	client := resend.NewClient(apiKey)
	return &Resend{emails: client.Emails, from: from}
}

// Send delivers msg via Resend.
func (r *Resend) Send(ctx context.Context, msg Message) (Result, error) {
	start := time.Now()
	sent, err := r.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	observe(providerResend, msg.Kind, start, err)
	if err != nil {
		return Result{}, fmt.Errorf("resend: %w", err)
	}
	return Result{Provider: providerResend, MessageID: sent.Id}, nil
}
