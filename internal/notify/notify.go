// Package notify delivers audit lifecycle notifications. The service layer
// builds a subject and an HTML body and hands them to a Notifier; delivery
// failures are the sink's problem and never fail the triggering request.
package notify

import (
	"context"
	"log/slog"
)

// Notifier accepts a rendered notification for delivery.
type Notifier interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// LogNotifier writes notifications to the structured log. It is the
// default sink when no mail transport is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, subject, htmlBody string) error {
	n.logger.InfoContext(ctx, "notification",
		"subject", subject,
		"body_bytes", len(htmlBody),
	)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, string, string) error { return nil }

// Noop returns a notifier that drops everything.
func Noop() Notifier { return noopNotifier{} }
