package adapters

import "context"

// TransportAdapter is an interface for beacon delivery.
// Implement this interface to use custom transports.
//
// The collector never answers with a usable body, so a transport has no
// result to report: it only signals that the request is over.
type TransportAdapter interface {
	// Send dispatches a GET beacon for the fully-formed url.
	//
	// Parameters:
	//   - ctx: Bounds the lifetime of the request
	//   - url: Collector URL including the encoded query string
	//   - done: Completion callback, invoked exactly once whatever the outcome
	//
	// Send must not block the caller on network activity.
	Send(ctx context.Context, url string, done func())
}
