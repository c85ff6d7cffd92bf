package domain

import (
	"context"
	"time"

	redom "admetry/internal/services/rawevents/domain"
)

// TokenPort obtains a usable ads-API access token for a client.
// An auth-coded error means the stored authorization is dead and cannot
// be silently refreshed
type TokenPort interface {
	EnsureValidToken(ctx context.Context, clientID string) (string, error)
}

// FetchPort pulls raw performance rows from the external ads API.
// A valid but data-empty range returns zero rows, not an error
type FetchPort interface {
	Fetch(ctx context.Context, accountID, token string, start, end time.Time) ([]redom.MetricRow, error)
}

// RunnerPort drives the full ingestion pipeline
type RunnerPort interface {
	// RunClient ingests one client for the inclusive range: window gate,
	// token, fetch, raw save, then sync-and-verify. Errors before the raw
	// save leave storage untouched
	RunClient(ctx context.Context, clientID string, start, end time.Time) (RunReport, error)

	// RunAll ingests every active client, continuing past per-client
	// failures. The error is non-nil only when the client list itself
	// cannot be read
	RunAll(ctx context.Context, start, end time.Time) ([]RunReport, error)
}
