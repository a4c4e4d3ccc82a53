package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes alerts to the service log. It is always installed so
// urgent reports are visible even when email is not configured.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("notifier", "log").Logger()}
}

func (n *LogNotifier) Notify(_ context.Context, alert Alert) error {
	event := n.logger.Info()
	if alert.Severity == SeverityUrgent {
		event = n.logger.Warn()
	}
	event.
		Str("kind", alert.Kind).
		Str("record_id", alert.RecordID).
		Str("reference_number", alert.ReferenceNumber).
		Str("severity", string(alert.Severity)).
		Msg(alert.Title)
	return nil
}

func (n *LogNotifier) String() string {
	return "LogNotifier"
}
