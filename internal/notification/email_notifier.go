package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/config"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailNotifier struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	recipients []string
	send       sendMailFunc
	logger     zerolog.Logger
}

func NewEmailNotifier(cfg config.EmailConfig, logger zerolog.Logger) (*EmailNotifier, error) {
	host := strings.TrimSpace(cfg.SMTPHost)
	from := strings.TrimSpace(cfg.From)
	if host == "" {
		return nil, fmt.Errorf("smtp_host is required for email notifier")
	}
	if from == "" {
		return nil, fmt.Errorf("from is required for email notifier")
	}
	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}

	return &EmailNotifier{
		host:       host,
		port:       port,
		username:   strings.TrimSpace(cfg.Username),
		password:   cfg.Password,
		from:       from,
		recipients: sanitizeRecipients(cfg.StaffRecipients),
		send:       smtp.SendMail,
		logger:     logger.With().Str("notifier", "email").Logger(),
	}, nil
}

func (n *EmailNotifier) Notify(_ context.Context, alert Alert) error {
	if len(n.recipients) == 0 {
		return nil
	}

	title := headerValue(alert.Title)
	subject := "[GPL] " + title
	if alert.Severity == SeverityUrgent {
		subject = "[GPL][URGENT] " + title
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n",
		n.from, strings.Join(n.recipients, ","), subject)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	if err := n.send(addr, auth, n.from, n.recipients, []byte(headers+renderBody(alert))); err != nil {
		return err
	}

	n.logger.Info().
		Str("kind", alert.Kind).
		Str("record_id", alert.RecordID).
		Strs("recipients", n.recipients).
		Msg("staff alert emailed")
	return nil
}

// Titles carry submitter text; line breaks would start new headers.
var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func headerValue(s string) string {
	return strings.TrimSpace(headerBreaks.Replace(s))
}

func (n *EmailNotifier) String() string {
	return "EmailNotifier"
}

func renderBody(alert Alert) string {
	body := strings.Builder{}
	body.WriteString(strings.TrimSpace(alert.Message))
	body.WriteString("\n\n")
	body.WriteString(fmt.Sprintf("Kind: %s\n", alert.Kind))
	if alert.ReferenceNumber != "" {
		body.WriteString(fmt.Sprintf("Reference: %s\n", alert.ReferenceNumber))
	}
	if alert.RecordID != "" {
		body.WriteString(fmt.Sprintf("Record: %s\n", alert.RecordID))
	}
	body.WriteString(fmt.Sprintf("Severity: %s\n", alert.Severity))
	body.WriteString(fmt.Sprintf("Received: %s\n", alert.CreatedAt.Format("2006-01-02 15:04:05 MST")))

	keys := make([]string, 0, len(alert.Fields))
	for k := range alert.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		body.WriteString(fmt.Sprintf("%s: %s\n", k, alert.Fields[k]))
	}
	return body.String()
}
