// Package delivery defines the entry points that expose the application.
package delivery

import "context"

// Delivery is a long-running surface started by the application, such as the HTTP server.
type Delivery interface {
	Serve(ctx context.Context) error
}
