package contact

import (
	"context"
	"fmt"
	"net/http"

	"github.com/resend/resend-go/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Message is a contact form submission. It is relayed to the mail
// provider and dropped, nothing gets persisted.
type Message struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Body  string `json:"mensaje"`
}

type Mailer interface {
	Send(ctx context.Context, message Message) error
}

var _ Mailer = (*ResendMailer)(nil)

type ResendMailer struct {
	client    *resend.Client
	sender    string
	recipient string
}

func NewResendMailer(apiKey, sender, recipient string) *ResendMailer {
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &ResendMailer{
		client:    resend.NewCustomClient(httpClient, apiKey),
		sender:    sender,
		recipient: recipient,
	}
}

func (m *ResendMailer) Send(ctx context.Context, message Message) error {
	params := &resend.SendEmailRequest{
		From:    m.sender,
		To:      []string{m.recipient},
		ReplyTo: message.Email,
		Subject: fmt.Sprintf("Nuevo mensaje de contacto de %s", message.Name),
		Text:    fmt.Sprintf("De: %s <%s>\n\n%s", message.Name, message.Email, message.Body),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}

	return nil
}
