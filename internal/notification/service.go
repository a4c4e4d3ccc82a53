package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Service fans alerts out to every notifier off the request path. Delivery
// failures are logged and never reach the submitter.
type Service struct {
	logger    zerolog.Logger
	notifiers []Notifier
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewService(logger zerolog.Logger, notifiers ...Notifier) *Service {
	active := make([]Notifier, 0, len(notifiers))
	for _, notifier := range notifiers {
		if notifier != nil {
			active = append(active, notifier)
		}
	}
	return &Service{
		logger:    logger.With().Str("component", "notification_service").Logger(),
		notifiers: active,
		timeout:   30 * time.Second,
	}
}

func (s *Service) Publish(ctx context.Context, alert Alert) {
	if s == nil || len(s.notifiers) == 0 {
		return
	}
	if alert.Severity == "" {
		alert.Severity = SeverityInfo
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	// The request context is cancelled once the response is written.
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		for _, notifier := range s.notifiers {
			if err := notifier.Notify(ctx, alert); err != nil {
				logNotifyError(s.logger, err, notifierChannelName(notifier), alert)
			}
		}
	}()
}

// Wait blocks until in-flight alerts are delivered. Called during shutdown.
func (s *Service) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

func notifierChannelName(n Notifier) string {
	type named interface {
		String() string
	}
	if v, ok := n.(named); ok {
		return v.String()
	}
	return fmt.Sprintf("%T", n)
}
