package adapters

import "context"

// NoOpTransportAdapter is a transport that drops every beacon.
// Useful for scenarios where analytics must be disabled without touching call sites.
type NoOpTransportAdapter struct{}

// Ensure NoOpTransportAdapter implements TransportAdapter interface
var _ TransportAdapter = (*NoOpTransportAdapter)(nil)

// NewNoOpTransportAdapter creates a new NoOpTransportAdapter instance.
func NewNoOpTransportAdapter() *NoOpTransportAdapter {
	return &NoOpTransportAdapter{}
}

// Send discards url and calls done immediately.
func (n *NoOpTransportAdapter) Send(_ context.Context, _ string, done func()) {
	done()
}
