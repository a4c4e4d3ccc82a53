package notification

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Severity string

const (
	SeverityInfo   Severity = "info"
	SeverityUrgent Severity = "urgent"
)

// Alert tells staff that a citizen submission has arrived.
type Alert struct {
	Kind            string
	RecordID        string
	ReferenceNumber string
	Severity        Severity
	Title           string
	Message         string
	Fields          map[string]string
	CreatedAt       time.Time
}

type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

func sanitizeRecipients(recipients []string) []string {
	var cleaned []string
	for _, recipient := range recipients {
		if r := strings.TrimSpace(recipient); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	return cleaned
}

func logNotifyError(logger zerolog.Logger, err error, channel string, alert Alert) {
	if err == nil {
		return
	}
	logger.Warn().
		Err(err).
		Str("kind", alert.Kind).
		Str("record_id", alert.RecordID).
		Str("reference_number", alert.ReferenceNumber).
		Str("channel", channel).
		Msg("failed to deliver staff alert")
}
