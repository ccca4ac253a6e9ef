package notify

import (
	"context"

	"go.uber.org/multierr"

	"uptimeping/internal/domain"
)

// Notifier delivers an incident to an external channel. Delivery failures
// are reported to the caller, which logs and moves on; they never block the
// check loop.
type Notifier interface {
	Notify(ctx context.Context, inc domain.Incident) error
}

type Multi []Notifier

func (m Multi) Notify(ctx context.Context, inc domain.Incident) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Notify(ctx, inc))
	}
	return err
}
