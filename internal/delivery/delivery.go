// Package delivery defines the contract every transport entry point
// (HTTP servers, workers) fulfills so the application can run them
// uniformly.
package delivery

import "context"

// Delivery is a long-running transport server.
type Delivery interface {
	// Serve blocks until the server stops or fails.
	Serve(ctx context.Context) error
}
