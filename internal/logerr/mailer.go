package logerr

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
)

// SMTPMailer delivers messages through the SMTP server in its Config.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer returns a Mailer for cfg. cfg.Host must be host:port.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers body to every configured recipient in a single message.
func (m *SMTPMailer) Send(subject, body string) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("no SMTP host configured")
	}
	if len(m.cfg.To) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	var auth sasl.Client
	if m.cfg.Username != "" {
		auth = sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)
	}

	msg := buildMessage(m.cfg.From, m.cfg.To, subject, body, time.Now())
	if err := smtp.SendMail(m.cfg.Host, auth, m.cfg.From, m.cfg.To, strings.NewReader(msg)); err != nil {
		return fmt.Errorf("smtp delivery via %s failed: %w", m.cfg.Host, err)
	}
	return nil
}

// buildMessage renders a minimal RFC 5322 text message.
func buildMessage(from string, to []string, subject, body string, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), messageIDDomain(from))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.String()
}

func messageIDDomain(from string) string {
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		return from[i+1:]
	}
	return "localhost"
}
