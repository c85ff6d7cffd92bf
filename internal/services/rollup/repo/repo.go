// Package repo provides the rollup repository implementation.
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admetry/internal/modkit/repokit"
	"admetry/internal/services/rollup/domain"
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
func (s *pg) LoadRaw(ctx context.Context, clientID string, start, end time.Time) ([]domain.RawMeasure, error) {
	rows, err := s.q.Query(ctx, `
		SELECT metric_date, ad_id, impressions, reach, clicks, leads, spend
		FROM raw_ad_metrics
		WHERE client_id = $1 AND metric_date >= $2 AND metric_date <= $3
		ORDER BY metric_date, ad_id
	`, clientID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawMeasure
	for rows.Next() {
		var m domain.RawMeasure
		if err := rows.Scan(&m.Date, &m.AdID, &m.Impressions, &m.Reach, &m.Clicks, &m.Leads, &m.Spend); err != nil {
			return nil, err
		}
		m.Date = m.Date.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteAggregates implements domain.StorageRepo
func (s *pg) DeleteAggregates(ctx context.Context, clientID string, start, end time.Time) (int64, error) {
	ct, err := s.q.Exec(ctx, `
		DELETE FROM daily_ad_aggregates
		WHERE client_id = $1 AND metric_date >= $2 AND metric_date <= $3
	`, clientID, start, end)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// InsertAggregates implements domain.StorageRepo
func (s *pg) InsertAggregates(ctx context.Context, xs []domain.DailyAggregate) error {
	if len(xs) == 0 {
		return nil
	}

	const cols = 10
	var sb strings.Builder
	sb.WriteString(`INSERT INTO daily_ad_aggregates
		(client_id, metric_date, total_impressions, total_reach, total_clicks,
		total_leads, total_spend, ad_count, avg_ctr, avg_cpl) VALUES `)

	args := make([]any, 0, len(xs)*cols)
	for i, a := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*cols + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4,
			base+5, base+6, base+7, base+8, base+9)

		args = append(args,
			a.ClientID, a.Date, a.TotalImpressions, a.TotalReach, a.TotalClicks,
			a.TotalLeads, a.TotalSpend, a.AdCount, a.AvgCtr, a.AvgCpl,
		)
	}

	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

// RawTotalsByDate implements domain.StorageRepo
func (s *pg) RawTotalsByDate(ctx context.Context, clientID string, start, end time.Time) ([]domain.DayTotals, error) {
	return s.totalsByDate(ctx, `
		SELECT metric_date, COALESCE(SUM(leads), 0), COALESCE(SUM(spend), 0)
		FROM raw_ad_metrics
		WHERE client_id = $1 AND metric_date >= $2 AND metric_date <= $3
		GROUP BY metric_date ORDER BY metric_date
	`, clientID, start, end)
}

// AggTotalsByDate implements domain.StorageRepo
func (s *pg) AggTotalsByDate(ctx context.Context, clientID string, start, end time.Time) ([]domain.DayTotals, error) {
	return s.totalsByDate(ctx, `
		SELECT metric_date, total_leads, total_spend
		FROM daily_ad_aggregates
		WHERE client_id = $1 AND metric_date >= $2 AND metric_date <= $3
		ORDER BY metric_date
	`, clientID, start, end)
}

func (s *pg) totalsByDate(ctx context.Context, sql, clientID string, start, end time.Time) ([]domain.DayTotals, error) {
	rows, err := s.q.Query(ctx, sql, clientID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DayTotals
	for rows.Next() {
		var t domain.DayTotals
		if err := rows.Scan(&t.Date, &t.Leads, &t.Spend); err != nil {
			return nil, err
		}
		t.Date = t.Date.UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}

// RecordSyncRun implements domain.StorageRepo
func (s *pg) RecordSyncRun(ctx context.Context, run domain.SyncRun) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO sync_runs
			(id, client_id, range_start, range_end, success, attempts,
			records_aggregated, raw_records, dates_verified, mismatches,
			error_text, elapsed_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		run.ID, run.ClientID, run.RangeStart, run.RangeEnd, run.Success, run.Attempts,
		run.RecordsAggregated, run.RawRecords, run.DatesVerified, run.Mismatches,
		run.ErrorText, run.ElapsedMS,
	)
	return err
}
