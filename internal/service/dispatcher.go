package service

import (
	"context"
	"fmt"
	"time"

	"outreach/internal/models"
	"outreach/internal/provider"
)

// DispatchOutcome normalizes a provider result: either a delivery ID or a
// failure. Err is nil iff the send succeeded.
type DispatchOutcome struct {
	DeliveryID string
	Err        error
}

// Dispatcher routes a rendered message to the provider for its channel.
// Every send is bounded by a timeout so one hanging provider cannot stall
// a batch pass.
type Dispatcher struct {
	providers map[models.Channel]provider.Provider
	timeout   time.Duration
}

// NewDispatcher creates a dispatcher over the given channel providers
func NewDispatcher(providers map[models.Channel]provider.Provider, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		providers: providers,
		timeout:   timeout,
	}
}

// Dispatch sends content to recipient over the given channel. An unknown
// channel is a configuration problem, not a provider failure.
func (d *Dispatcher) Dispatch(ctx context.Context, channel models.Channel, recipient, content string) DispatchOutcome {
	p, ok := d.providers[channel]
	if !ok {
		return DispatchOutcome{Err: fmt.Errorf("no provider configured for channel %q", channel)}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	type result struct {
		id  string
		err error
	}

	// The extra goroutine bounds providers that ignore context cancellation.
	done := make(chan result, 1)
	go func() {
		id, err := p.Send(ctx, recipient, content)
		done <- result{id: id, err: err}
	}()

	select {
	case <-ctx.Done():
		return DispatchOutcome{Err: &DispatchError{
			Channel: string(channel),
			Reason:  ctx.Err().Error(),
			Timeout: true,
		}}
	case r := <-done:
		if r.err != nil {
			return DispatchOutcome{Err: &DispatchError{
				Channel: string(channel),
				Reason:  r.err.Error(),
			}}
		}
		return DispatchOutcome{DeliveryID: r.id}
	}
}
