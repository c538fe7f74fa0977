package service

import (
	"context"
	"errors"

	"github.com/trogers1052/defi-portfolio-agents/internal/models"
)

// Publisher delivers position events to subscribers outside the process
type Publisher interface {
	Publish(ctx context.Context, event models.PositionEvent) error
}

// MultiPublisher fans an event out to every publisher, even when one fails
type MultiPublisher []Publisher

// Publish sends the event to all publishers and joins their errors
func (m MultiPublisher) Publish(ctx context.Context, event models.PositionEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
