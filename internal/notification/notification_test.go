package notification

import (
	"bytes"
	"context"
	"errors"
	"net/mail"
	"net/smtp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []Alert
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, alert Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, alert)
	return r.err
}

func TestService_PublishFansOut(t *testing.T) {
	var logs bytes.Buffer
	failing := &recordingNotifier{err: errors.New("smtp down")}
	ok := &recordingNotifier{}
	svc := NewService(zerolog.New(&logs), failing, nil, ok)

	svc.Publish(context.Background(), Alert{Kind: "outage", Title: "Outage reported"})
	svc.Wait()

	require.Len(t, ok.alerts, 1)
	assert.Equal(t, SeverityInfo, ok.alerts[0].Severity)
	assert.False(t, ok.alerts[0].CreatedAt.IsZero())
	assert.Len(t, failing.alerts, 1)
	assert.Contains(t, logs.String(), "failed to deliver staff alert")
}

func TestService_PublishSurvivesCancelledContext(t *testing.T) {
	n := &recordingNotifier{}
	svc := NewService(zerolog.Nop(), n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Publish(ctx, Alert{Kind: "contact"})
	svc.Wait()

	assert.Len(t, n.alerts, 1)
}

func TestService_NilIsNoop(t *testing.T) {
	var svc *Service
	assert.NotPanics(t, func() {
		svc.Publish(context.Background(), Alert{})
		svc.Wait()
	})
}

func TestEmailNotifier_Notify(t *testing.T) {
	n, err := NewEmailNotifier(config.EmailConfig{
		SMTPHost:        "smtp.gpl.test",
		From:            "noreply@gpl.test",
		StaffRecipients: []string{" ops@gpl.test ", ""},
	}, zerolog.Nop())
	require.NoError(t, err)

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	n.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	err = n.Notify(context.Background(), Alert{
		Kind:            "outage",
		ReferenceNumber: "OUT-ABC",
		Severity:        SeverityUrgent,
		Title:           "Hazard reported in Kitty",
		Message:         "Downed line reported.",
		Fields:          map[string]string{"phone": "592-611-1111"},
		CreatedAt:       time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp.gpl.test:587", gotAddr)
	assert.Equal(t, []string{"ops@gpl.test"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: [GPL][URGENT] Hazard reported in Kitty")
	assert.Contains(t, gotMsg, "Reference: OUT-ABC")
	assert.Contains(t, gotMsg, "phone: 592-611-1111")
}

func TestEmailNotifier_SubjectCannotAddHeaders(t *testing.T) {
	n, err := NewEmailNotifier(config.EmailConfig{
		SMTPHost:        "smtp.gpl.test",
		From:            "noreply@gpl.test",
		StaffRecipients: []string{"ops@gpl.test"},
	}, zerolog.Nop())
	require.NoError(t, err)

	var raw []byte
	n.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		raw = msg
		return nil
	}

	for _, title := range []string{
		"New contact message: Hello\r\nReply-To: attacker@evil.test",
		"New contact message: Hello\nReply-To: attacker@evil.test",
		"New contact message: Hello\rReply-To: attacker@evil.test",
	} {
		require.NoError(t, n.Notify(context.Background(), Alert{Kind: "contact", Title: title}))

		msg, err := mail.ReadMessage(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Empty(t, msg.Header.Get("Reply-To"))
		assert.Equal(t, "[GPL] New contact message: Hello Reply-To: attacker@evil.test", msg.Header.Get("Subject"))
	}
}

func TestNewEmailNotifier_RequiresHost(t *testing.T) {
	_, err := NewEmailNotifier(config.EmailConfig{From: "noreply@gpl.test"}, zerolog.Nop())
	assert.Error(t, err)
}
