// Package domain defines the ingestion pipeline contracts
package domain

import "time"

// Run outcome labels; also used as the metric label values
const (
	OutcomeOK          = "ok"
	OutcomeSkipped     = "skipped"
	OutcomeConfigError = "config_error"
	OutcomeAuthError   = "auth_error"
	OutcomeFetchError  = "fetch_error"
	OutcomeStoreError  = "store_error"
	OutcomeSyncError   = "sync_error"
)

// RunReport summarizes one ingestion pass for one client
type RunReport struct {
	ClientID    string
	Start       time.Time
	End         time.Time
	Outcome     string
	RowsFetched int
	SyncOK      bool
	SyncError   string
	Elapsed     time.Duration
}

// Skipped reports whether the run never touched storage
func (r RunReport) Skipped() bool { return r.Outcome == OutcomeSkipped }
