package notify

import (
	"context"

	"github.com/m04kA/booking-core/internal/integrations/notifier"
)

// Sender is the subset of notifier.Client the queue depends on, narrowed
// for testability.
type Sender interface {
	Send(ctx context.Context, req notifier.SendRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
