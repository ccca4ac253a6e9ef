package probe

import (
	"context"

	"uptimeping/internal/domain"
)

// Outcome is the raw result of a single probe before persistence.
//
// HTTPStatus is 0 for transport/DNS errors. Reason is empty for a clean "up"
// and carries the error text or classification note otherwise.
type Outcome struct {
	Status     domain.Status
	HTTPStatus int
	LatencyMS  float64
	Reason     string
}

// Checker performs a single probe of one endpoint.
type Checker interface {
	Check(ctx context.Context, ep domain.Endpoint) Outcome
}
