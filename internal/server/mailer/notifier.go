// Package mailer delivers account emails. Delivery is best effort: callers
// log a failed Send and carry on.
package mailer

import "context"

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
