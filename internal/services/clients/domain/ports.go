package domain

import (
	"context"
	"time"
)

// DirectoryPort is read/update access to the client directory
type DirectoryPort interface {
	// Get returns the client or a NotFound error
	Get(ctx context.Context, clientID string) (Client, error)

	// ListActive returns every client with is_active = true
	ListActive(ctx context.Context) ([]Client, error)

	// MarkAuthRequired flags the client's external authorization as
	// needing operator re-authorization
	MarkAuthRequired(ctx context.Context, clientID string) error
}

// GuardPort decides whether a client's subscription window permits data
// collection on the given day
type GuardPort interface {
	// Check fails closed: unknown or inactive clients are invalid.
	// A nil service period end means unlimited; otherwise the window is
	// valid through the end date inclusive (date-only comparison)
	Check(ctx context.Context, clientID string, today time.Time) (WindowCheck, error)
}
