package provider

import "context"

// Provider sends one piece of rendered content to one recipient over an
// external channel and returns the provider's delivery identifier.
// Implementations must honor context cancellation.
type Provider interface {
	Send(ctx context.Context, recipient, content string) (string, error)
}

// Func adapts a plain function to the Provider interface
type Func func(ctx context.Context, recipient, content string) (string, error)

// Send calls f
func (f Func) Send(ctx context.Context, recipient, content string) (string, error) {
	return f(ctx, recipient, content)
}
