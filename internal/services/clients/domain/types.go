// Package domain defines the client directory types
package domain

import "time"

// Auth status values stored on the client record
const (
	AuthStatusOK             = "ok"
	AuthStatusReauthRequired = "reauth_required"
)

// Client is one managed advertiser account
type Client struct {
	ID                string
	Name              string
	IsActive          bool
	ServicePeriodEnd  *time.Time // nil means unlimited
	ExternalAccountID string
	AuthStatus        string
}

// WindowCheck is the outcome of the service-window gate
type WindowCheck struct {
	Valid   bool
	EndDate *time.Time
}
