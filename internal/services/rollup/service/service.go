// Package service provides the daily rollup and reconciliation implementation
package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"admetry/internal/modkit/repokit"
	"admetry/internal/platform/logger"
	"admetry/internal/platform/metrics"
	"admetry/internal/services/rollup/domain"
	"admetry/internal/services/rollup/guardrails"
)

// Config controls the reconciliation policy
type Config struct {
	// MaxSyncAttempts bounds the aggregate+verify cycles in SyncAndVerify.
	// 2 means one repair pass after the initial cycle. Never unbounded:
	// a structurally broken mismatch must surface, not loop
	MaxSyncAttempts int

	// SpendTolerance is the absolute spend comparison tolerance
	// (currency minor unit)
	SpendTolerance float64
}

// Service wires TxRunner + Binder into the domain operations
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Cfg    Config
}

// New constructs the rollup service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], cfg Config) *Service {
	if db == nil {
		panic("rollup.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("rollup.Service requires a non nil Repo binder")
	}
	if cfg.MaxSyncAttempts <= 0 {
		cfg.MaxSyncAttempts = 2
	}
	if cfg.SpendTolerance <= 0 {
		cfg.SpendTolerance = domain.SpendTolerance
	}
	return &Service{DB: db, Binder: binder, Cfg: cfg}
}

// Aggregate implements domain.SyncPort.
// The rollup is a pure function of current raw data: existing aggregate
// rows for the range are deleted and recomputed wholesale inside one
// transaction, under a per-client advisory lock
func (s *Service) Aggregate(ctx context.Context, clientID string, start, end time.Time) (domain.AggregateStats, error) {
	raw, err := s.Binder.Bind(s.DB).LoadRaw(ctx, clientID, start, end)
	if err != nil {
		return domain.AggregateStats{}, err
	}
	if len(raw) == 0 {
		// Nothing to roll up; leave whatever aggregates exist untouched
		return domain.AggregateStats{}, nil
	}

	rows := rollupByDate(clientID, raw)

	err = repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		if err := guardrails.LockClient(ctx, q, clientID); err != nil {
			return err
		}
		st := repokit.MustBind(s.Binder, q)
		if _, err := st.DeleteAggregates(ctx, clientID, start, end); err != nil {
			return err
		}
		return st.InsertAggregates(ctx, rows)
	})
	if err != nil {
		return domain.AggregateStats{}, err
	}

	return domain.AggregateStats{RecordsAggregated: len(rows), RawRecords: len(raw)}, nil
}

// rollupByDate groups raw measures by calendar date and sums them.
// A date whose measures are all zero still yields a row: "no activity"
// and "no data" are different facts
func rollupByDate(clientID string, raw []domain.RawMeasure) []domain.DailyAggregate {
	type acc struct {
		agg domain.DailyAggregate
		ads map[string]struct{}
	}
	byDate := make(map[time.Time]*acc)
	for _, m := range raw {
		a, ok := byDate[m.Date]
		if !ok {
			a = &acc{
				agg: domain.DailyAggregate{ClientID: clientID, Date: m.Date},
				ads: make(map[string]struct{}),
			}
			byDate[m.Date] = a
		}
		a.agg.TotalImpressions += m.Impressions
		a.agg.TotalReach += m.Reach
		a.agg.TotalClicks += m.Clicks
		a.agg.TotalLeads += m.Leads
		a.agg.TotalSpend += m.Spend
		a.ads[m.AdID] = struct{}{}
	}

	out := make([]domain.DailyAggregate, 0, len(byDate))
	for _, a := range byDate {
		a.agg.AdCount = len(a.ads)
		if a.agg.TotalImpressions > 0 {
			ctr := float64(a.agg.TotalClicks) / float64(a.agg.TotalImpressions) * 100
			a.agg.AvgCtr = &ctr
		}
		if a.agg.TotalLeads > 0 {
			cpl := a.agg.TotalSpend / float64(a.agg.TotalLeads)
			a.agg.AvgCpl = &cpl
		}
		out = append(out, a.agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Verify implements domain.SyncPort.
// Leads must match exactly; spend within the configured tolerance.
// A date present on one side only is compared against zeros rather than
// skipped, so stale leftovers surface as mismatches
func (s *Service) Verify(ctx context.Context, clientID string, start, end time.Time) (domain.VerifyResult, error) {
	st := s.Binder.Bind(s.DB)

	rawT, err := st.RawTotalsByDate(ctx, clientID, start, end)
	if err != nil {
		return domain.VerifyResult{}, err
	}
	aggT, err := st.AggTotalsByDate(ctx, clientID, start, end)
	if err != nil {
		return domain.VerifyResult{}, err
	}

	rawBy := make(map[time.Time]domain.DayTotals, len(rawT))
	for _, t := range rawT {
		rawBy[t.Date] = t
	}
	aggBy := make(map[time.Time]domain.DayTotals, len(aggT))
	for _, t := range aggT {
		aggBy[t.Date] = t
	}

	union := make([]time.Time, 0, len(rawBy)+len(aggBy))
	for d := range rawBy {
		union = append(union, d)
	}
	for d := range aggBy {
		if _, dup := rawBy[d]; !dup {
			union = append(union, d)
		}
	}
	sort.Slice(union, func(i, j int) bool { return union[i].Before(union[j]) })

	var mismatches []domain.Mismatch
	for _, d := range union {
		r := rawBy[d] // zero value when missing
		a := aggBy[d]

		var issue string
		switch {
		case r.Leads != a.Leads:
			issue = domain.IssueLeads
		case math.Abs(r.Spend-a.Spend) > s.Cfg.SpendTolerance:
			issue = domain.IssueSpend
		default:
			continue
		}
		mismatches = append(mismatches, domain.Mismatch{
			Date:     d,
			Issue:    issue,
			RawLeads: r.Leads, AggLeads: a.Leads,
			RawSpend: r.Spend, AggSpend: a.Spend,
		})
	}

	return domain.VerifyResult{
		IsValid:      len(mismatches) == 0,
		Mismatches:   mismatches,
		DatesChecked: len(union),
	}, nil
}

// SyncAndVerify implements domain.SyncPort.
// Most mismatches come from a race between a partially-completed prior
// aggregation and a concurrent raw write; one repair cycle clears those.
// Anything that survives the bounded retry is a real data problem and is
// surfaced for operator follow-up, never retried forever
func (s *Service) SyncAndVerify(ctx context.Context, clientID string, start, end time.Time) (domain.SyncResult, error) {
	runID := uuid.New().String()
	ctx = logger.WithRun(ctx, runID, clientID)
	l := logger.C(ctx).With().Str("mod", "rollup").
		Time("start", start).Time("end", end).Logger()
	began := time.Now()

	var (
		stats domain.AggregateStats
		vr    domain.VerifyResult
		err   error
	)

	attempts := 0
	for attempts < s.Cfg.MaxSyncAttempts {
		attempts++
		if attempts > 1 {
			metrics.RepairCycles.Inc()
			l.Warn().Int("attempt", attempts).
				Int("mismatches", len(vr.Mismatches)).
				Msg("rollup: verification failed; re-aggregating")
		}

		stats, err = s.Aggregate(ctx, clientID, start, end)
		if err != nil {
			return domain.SyncResult{}, err
		}
		vr, err = s.Verify(ctx, clientID, start, end)
		if err != nil {
			return domain.SyncResult{}, err
		}
		if vr.IsValid {
			break
		}
	}

	res := domain.SyncResult{
		Success:           vr.IsValid,
		Attempts:          attempts,
		RecordsAggregated: stats.RecordsAggregated,
		RawRecords:        stats.RawRecords,
		DatesVerified:     vr.DatesChecked,
	}
	switch {
	case vr.IsValid && attempts == 1:
		metrics.SyncOutcomes.WithLabelValues("clean").Inc()
	case vr.IsValid:
		metrics.SyncOutcomes.WithLabelValues("repaired").Inc()
		l.Info().Int("attempts", attempts).Msg("rollup: repaired on retry")
	default:
		res.Error = domain.ErrTextIntegrityMismatch
		res.Mismatches = vr.Mismatches
		metrics.SyncOutcomes.WithLabelValues("mismatch").Inc()
		l.Error().Int("attempts", attempts).
			Int("mismatches", len(vr.Mismatches)).
			Msg("rollup: integrity mismatch after retry; manual intervention required")
	}

	// Bookkeeping is best-effort and never flips the sync outcome
	run := domain.SyncRun{
		ID: runID, ClientID: clientID,
		RangeStart: start, RangeEnd: end,
		Success: res.Success, Attempts: attempts,
		RecordsAggregated: res.RecordsAggregated,
		RawRecords:        res.RawRecords,
		DatesVerified:     res.DatesVerified,
		Mismatches:        len(res.Mismatches),
		ErrorText:         res.Error,
		ElapsedMS:         int(time.Since(began).Milliseconds()),
	}
	if err := s.Binder.Bind(s.DB).RecordSyncRun(ctx, run); err != nil {
		l.Warn().Err(err).Msg("rollup: sync run bookkeeping failed")
	}

	return res, nil
}
