package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/JonasWeidner/CoachDesk/internal/pkg/env"
)

// Attachment is a single binary attachment.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is one transactional email. Attachment is optional; an
// attachment-less send uses the identical subject and body.
type Message struct {
	To         string
	ToName     string
	Subject    string
	HTML       string
	Text       string
	Attachment *Attachment
}

// SendResult reports the delivery outcome with the underlying transport
// error surfaced, not swallowed.
type SendResult struct {
	Success bool
	Error   string
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) SendResult
}

type sendGridMailer struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
}

var (
	defaultMailer     Mailer
	defaultMailerOnce sync.Once
)

// GetMailer returns the process-wide mailer. The SendGrid client is built
// once and reused for every send.
func GetMailer() Mailer {
	defaultMailerOnce.Do(func() {
		defaultMailer = NewSendGridMailer(
			env.GetSecret("SENDGRID_API_KEY"),
			env.GetEnv("MAIL_FROM_NAME", "CoachDesk"),
			env.GetEnv("MAIL_FROM_ADDRESS", "no-reply@localhost"),
		)
	})
	return defaultMailer
}

// NewSendGridMailer creates a mailer with an explicit API key and sender.
func NewSendGridMailer(apiKey, fromName, fromAddress string) Mailer {
	return &sendGridMailer{
		client:      sendgrid.NewSendClient(apiKey),
		fromName:    fromName,
		fromAddress: fromAddress,
	}
}

func (m *sendGridMailer) Send(ctx context.Context, msg Message) SendResult {
	email := sgmail.NewV3Mail()
	email.SetFrom(sgmail.NewEmail(m.fromName, m.fromAddress))
	email.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))
	email.AddPersonalizations(p)

	// SendGrid requires text/plain before text/html.
	if strings.TrimSpace(msg.Text) != "" {
		email.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if strings.TrimSpace(msg.HTML) != "" {
		email.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}

	if msg.Attachment != nil {
		att := sgmail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(msg.Attachment.Content))
		att.SetType(msg.Attachment.ContentType)
		att.SetFilename(msg.Attachment.Filename)
		att.SetDisposition("attachment")
		email.AddAttachment(att)
	}

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return SendResult{Success: false, Error: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SendResult{Success: false, Error: fmt.Sprintf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)}
	}
	return SendResult{Success: true}
}
