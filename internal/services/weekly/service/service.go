// Package service provides the weekly summary builder implementation
package service

import (
	"context"
	"sort"
	"time"

	"admetry/internal/core/grade"
	"admetry/internal/modkit/repokit"
	"admetry/internal/platform/dates"
	"admetry/internal/platform/logger"
	"admetry/internal/platform/metrics"
	"admetry/internal/services/rollup/guardrails"
	"admetry/internal/services/weekly/domain"
)

// Config controls grading
type Config struct {
	Grades grade.Thresholds
}

// Service wires TxRunner + Binder into the domain operations
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Cfg    Config
}

// New constructs the weekly summary service
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], cfg Config) *Service {
	if db == nil {
		panic("weekly.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("weekly.Service requires a non nil Repo binder")
	}
	if (cfg.Grades == grade.Thresholds{}) {
		cfg.Grades = grade.Defaults()
	}
	return &Service{DB: db, Binder: binder, Cfg: cfg}
}

// Build implements domain.BuilderPort.
// Same delete-then-insert discipline as the daily rollup: the week's
// summaries are a pure function of current raw data
func (s *Service) Build(ctx context.Context, clientID string, weekStart, weekEnd time.Time) (domain.BuildStats, error) {
	weekYear, weekNumber := dates.ISOWeek(weekStart)
	l := logger.C(ctx).With().Str("mod", "weekly").
		Int("week_year", weekYear).Int("week_number", weekNumber).Logger()

	raw, err := s.Binder.Bind(s.DB).LoadRaw(ctx, clientID, weekStart, weekEnd)
	if err != nil {
		metrics.WeeklyBuilds.WithLabelValues("error").Inc()
		return domain.BuildStats{}, err
	}

	rows := s.summarize(clientID, weekYear, weekNumber, weekStart, weekEnd, raw)

	err = repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		if err := guardrails.LockClient(ctx, q, clientID); err != nil {
			return err
		}
		st := repokit.MustBind(s.Binder, q)
		if _, err := st.DeleteWeek(ctx, clientID, weekYear, weekNumber); err != nil {
			return err
		}
		return st.InsertSummaries(ctx, rows)
	})
	if err != nil {
		metrics.WeeklyBuilds.WithLabelValues("error").Inc()
		return domain.BuildStats{}, err
	}

	metrics.WeeklyBuilds.WithLabelValues("ok").Inc()
	l.Info().Int("ads", len(rows)).Int("raw", len(raw)).Msg("weekly: summaries rebuilt")
	return domain.BuildStats{
		AdsSummarized: len(rows),
		RawRecords:    len(raw),
		WeekYear:      weekYear,
		WeekNumber:    weekNumber,
	}, nil
}

// summarize groups by ad, not by date. Sums are aggregated; ad/campaign
// names are lookup attributes where the most recently seen value wins
// (input is date-ordered)
func (s *Service) summarize(
	clientID string,
	weekYear, weekNumber int,
	weekStart, weekEnd time.Time,
	raw []domain.RawAdMeasure,
) []domain.Summary {
	byAd := make(map[string]*domain.Summary)
	for _, m := range raw {
		w, ok := byAd[m.AdID]
		if !ok {
			w = &domain.Summary{
				ClientID: clientID, WeekYear: weekYear, WeekNumber: weekNumber,
				AdID: m.AdID, WeekStart: weekStart, WeekEnd: weekEnd,
			}
			byAd[m.AdID] = w
		}
		w.AdName = m.AdName
		w.CampaignID = m.CampaignID
		w.CampaignName = m.CampaignName
		w.TotalImpressions += m.Impressions
		w.TotalReach += m.Reach
		w.TotalClicks += m.Clicks
		w.TotalLeads += m.Leads
		w.TotalSpend += m.Spend
		w.TotalVideoViews += m.VideoViews
	}

	out := make([]domain.Summary, 0, len(byAd))
	for _, w := range byAd {
		if w.TotalImpressions > 0 {
			ctr := float64(w.TotalClicks) / float64(w.TotalImpressions) * 100
			w.AvgCtr = &ctr
		}
		if w.TotalLeads > 0 {
			cpl := w.TotalSpend / float64(w.TotalLeads)
			w.AvgCpl = &cpl
		}
		if g, ok := s.Cfg.Grades.Grade(w.TotalSpend, w.TotalLeads); ok {
			w.EfficiencyGrade = &g
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AdID < out[j].AdID })
	return out
}
