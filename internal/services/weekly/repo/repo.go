// Package repo provides the weekly summary repository implementation.
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admetry/internal/modkit/repokit"
	"admetry/internal/services/weekly/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[domain.StorageRepo] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) domain.StorageRepo { return &pg{q: q} }

// LoadRaw implements domain.StorageRepo
func (s *pg) LoadRaw(ctx context.Context, clientID string, start, end time.Time) ([]domain.RawAdMeasure, error) {
	rows, err := s.q.Query(ctx, `
		SELECT metric_date, ad_id, ad_name, campaign_id, campaign_name,
			impressions, reach, clicks, leads, spend, video_views
		FROM raw_ad_metrics
		WHERE client_id = $1 AND metric_date >= $2 AND metric_date <= $3
		ORDER BY metric_date, ad_id
	`, clientID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawAdMeasure
	for rows.Next() {
		var m domain.RawAdMeasure
		if err := rows.Scan(
			&m.Date, &m.AdID, &m.AdName, &m.CampaignID, &m.CampaignName,
			&m.Impressions, &m.Reach, &m.Clicks, &m.Leads, &m.Spend, &m.VideoViews,
		); err != nil {
			return nil, err
		}
		m.Date = m.Date.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteWeek implements domain.StorageRepo
func (s *pg) DeleteWeek(ctx context.Context, clientID string, weekYear, weekNumber int) (int64, error) {
	ct, err := s.q.Exec(ctx, `
		DELETE FROM weekly_ad_summaries
		WHERE client_id = $1 AND week_year = $2 AND week_number = $3
	`, clientID, weekYear, weekNumber)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// InsertSummaries implements domain.StorageRepo
func (s *pg) InsertSummaries(ctx context.Context, xs []domain.Summary) error {
	if len(xs) == 0 {
		return nil
	}

	const cols = 18
	var sb strings.Builder
	sb.WriteString(`INSERT INTO weekly_ad_summaries
		(client_id, week_year, week_number, ad_id, ad_name, campaign_id,
		campaign_name, week_start, week_end, total_impressions, total_reach,
		total_clicks, total_leads, total_spend, total_video_views,
		avg_ctr, avg_cpl, efficiency_grade) VALUES `)

	args := make([]any, 0, len(xs)*cols)
	for i, w := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "$%d", i*cols+j+1)
		}
		sb.WriteByte(')')

		args = append(args,
			w.ClientID, w.WeekYear, w.WeekNumber, w.AdID, w.AdName, w.CampaignID,
			w.CampaignName, w.WeekStart, w.WeekEnd, w.TotalImpressions, w.TotalReach,
			w.TotalClicks, w.TotalLeads, w.TotalSpend, w.TotalVideoViews,
			w.AvgCtr, w.AvgCpl, w.EfficiencyGrade,
		)
	}

	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}
