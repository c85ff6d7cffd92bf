// Package domain defines the raw event store types
package domain

import "time"

// MetricRow is one performance observation for one
// (client, date, ad, platform, device) tuple as returned by the ads API.
// Date carries a calendar day only (UTC midnight)
type MetricRow struct {
	ClientID     string    `json:"client_id"     validate:"required"`
	Date         time.Time `json:"date"          validate:"required"`
	AdID         string    `json:"ad_id"         validate:"required"`
	AdName       string    `json:"ad_name"`
	CampaignID   string    `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	Platform     string    `json:"platform"      validate:"required"`
	Device       string    `json:"device"        validate:"required"`
	Currency     string    `json:"currency"`

	Impressions      int64   `json:"impressions"         validate:"gte=0"`
	Reach            int64   `json:"reach"               validate:"gte=0"`
	Clicks           int64   `json:"clicks"              validate:"gte=0"`
	Leads            int64   `json:"leads"               validate:"gte=0"`
	Spend            float64 `json:"spend"               validate:"gte=0"`
	VideoViews       int64   `json:"video_views"         validate:"gte=0"`
	AvgWatchTime     float64 `json:"avg_watch_time"      validate:"gte=0"`
	CostPerVideoView float64 `json:"cost_per_video_view" validate:"gte=0"`
	CostPerLead      float64 `json:"cost_per_lead"       validate:"gte=0"`
}

// Key is the natural key a row is immutable under; re-ingesting the same
// key replaces the measures, never appends
type Key struct {
	ClientID string
	Date     time.Time
	AdID     string
	Platform string
	Device   string
}

// NatKey returns the row's natural key
func (r MetricRow) NatKey() Key {
	return Key{ClientID: r.ClientID, Date: r.Date, AdID: r.AdID, Platform: r.Platform, Device: r.Device}
}
