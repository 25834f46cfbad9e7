package mailer

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// LogNotifier writes messages to the log instead of sending them. Used when
// no SMTP relay is configured.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.log.Info(ctx, "email not sent, no smtp relay configured", "to", to, "subject", subject, "body", body)
	return nil
}
