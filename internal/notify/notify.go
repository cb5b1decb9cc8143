// Package notify renders and dispatches triggered alerts.
package notify

import (
	"context"

	"stockwatch/internal/models"
)

// Notifier delivers a batch of alerts to one output channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, alerts []models.Alert) error
}

// Fanout sends alerts to every channel, collecting the first error but
// attempting all channels regardless.
func Fanout(ctx context.Context, alerts []models.Alert, channels ...Notifier) error {
	var firstErr error
	for _, ch := range channels {
		if err := ch.Notify(ctx, alerts); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
