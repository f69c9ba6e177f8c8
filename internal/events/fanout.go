// Package events fans ticket events out to every enabled broker.
package events

import (
	"context"
	"errors"

	"cinema-ticketing/internal/models"
)

type Publisher interface {
	PublishTicketIssued(ctx context.Context, event models.TicketIssuedEvent) error
}

// Fanout publishes to every member and joins their errors. One failing
// broker does not stop the others.
type Fanout []Publisher

func (f Fanout) PublishTicketIssued(ctx context.Context, event models.TicketIssuedEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishTicketIssued(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
