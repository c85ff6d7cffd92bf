// Package repo provides the raw event repository implementation.
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admetry/internal/modkit/repokit"
	"admetry/internal/services/rawevents/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the raw event repository
type Storage interface {
	UpsertBatch(ctx context.Context, rows []domain.MetricRow) error
	CountRange(ctx context.Context, clientID string, start, end time.Time) (int, error)
}

const rowCols = 18

// UpsertBatch implements Storage with a single multi-row statement so the
// batch is atomic: either every row lands or none does.
// Rows must already be deduplicated by natural key; ON CONFLICT cannot
// touch the same target row twice in one statement
func (s *pg) UpsertBatch(ctx context.Context, rows []domain.MetricRow) error {
	if len(rows) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO raw_ad_metrics
		(client_id, metric_date, ad_id, ad_name, campaign_id, campaign_name,
		platform, device, currency, impressions, reach, clicks, leads, spend,
		video_views, avg_watch_time, cost_per_video_view, cost_per_lead) VALUES `)

	args := make([]any, 0, len(rows)*rowCols)
	for i, r := range rows {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for j := 0; j < rowCols; j++ {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "$%d", i*rowCols+j+1)
		}
		sb.WriteByte(')')

		args = append(args,
			r.ClientID, r.Date, r.AdID, r.AdName, r.CampaignID, r.CampaignName,
			r.Platform, r.Device, r.Currency, r.Impressions, r.Reach, r.Clicks,
			r.Leads, r.Spend, r.VideoViews, r.AvgWatchTime, r.CostPerVideoView,
			r.CostPerLead,
		)
	}
	// Last write wins: the source API revises historical numbers
	sb.WriteString(` ON CONFLICT (client_id, metric_date, ad_id, platform, device) DO UPDATE SET
		ad_name = EXCLUDED.ad_name,
		campaign_id = EXCLUDED.campaign_id,
		campaign_name = EXCLUDED.campaign_name,
		currency = EXCLUDED.currency,
		impressions = EXCLUDED.impressions,
		reach = EXCLUDED.reach,
		clicks = EXCLUDED.clicks,
		leads = EXCLUDED.leads,
		spend = EXCLUDED.spend,
		video_views = EXCLUDED.video_views,
		avg_watch_time = EXCLUDED.avg_watch_time,
		cost_per_video_view = EXCLUDED.cost_per_video_view,
		cost_per_lead = EXCLUDED.cost_per_lead,
		fetched_at = now()`)

	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

// CountRange implements Storage
func (s *pg) CountRange(ctx context.Context, clientID string, start, end time.Time) (int, error) {
	var n int
	err := s.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM raw_ad_metrics
		WHERE client_id = $1 AND metric_date >= $2 AND metric_date <= $3
	`, clientID, start, end).Scan(&n)
	return n, err
}
