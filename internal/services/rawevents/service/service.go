// Package service provides the raw event store implementation
package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"admetry/internal/modkit/repokit"
	"admetry/internal/platform/logger"
	"admetry/internal/platform/metrics"
	dom "admetry/internal/services/rawevents/domain"
	"admetry/internal/services/rawevents/repo"

	perr "admetry/internal/platform/errors"
)

// Config for the raw event service
type Config struct {
	// MaxBatch splits very large API responses into bounded statements
	MaxBatch int
}

// Service implements domain.WriterPort over the Postgres repo
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config

	validate *validator.Validate
}

// New constructs the raw event service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	if db == nil {
		panic("rawevents.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("rawevents.Service requires a non nil Repo binder")
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = 500
	}
	return &Service{DB: db, Binder: binder, Cfg: cfg, validate: validator.New()}
}

// Save implements domain.WriterPort.
// Rows are validated, deduplicated by natural key (last wins, mirroring the
// upsert semantics), and written in one transaction so a single bad row
// never leaves partial state behind
func (s *Service) Save(ctx context.Context, clientID string, rows []dom.MetricRow) error {
	if len(rows) == 0 {
		return nil
	}
	if clientID == "" {
		return perr.InvalidArgf("rawevents: empty client id")
	}

	for i := range rows {
		if rows[i].ClientID == "" {
			rows[i].ClientID = clientID
		}
		if rows[i].ClientID != clientID {
			return perr.InvalidArgf("rawevents: row %d belongs to client %q, not %q", i, rows[i].ClientID, clientID)
		}
		if err := s.validate.Struct(rows[i]); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeValidation, "rawevents: row %d failed validation", i)
		}
	}

	deduped := dedupe(rows)

	var stored int
	err := repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		st := repokit.MustBind(s.Binder, q)
		for off := 0; off < len(deduped); off += s.Cfg.MaxBatch {
			hi := off + s.Cfg.MaxBatch
			if hi > len(deduped) {
				hi = len(deduped)
			}
			if err := st.UpsertBatch(ctx, deduped[off:hi]); err != nil {
				return err
			}
		}
		lo, hi := dateSpan(deduped)
		n, err := st.CountRange(ctx, clientID, lo, hi)
		if err != nil {
			return err
		}
		stored = n
		return nil
	})
	if err != nil {
		return perr.FromPostgresf(err, "rawevents: save failed for client %s", clientID)
	}

	metrics.RawRowsUpserted.Add(float64(len(deduped)))
	logger.C(ctx).Debug().
		Str("mod", "rawevents").
		Int("rows", len(rows)).
		Int("deduped", len(deduped)).
		Int("stored", stored).
		Msg("rawevents: batch saved")
	return nil
}

// dateSpan returns the min and max metric date across rows
func dateSpan(rows []dom.MetricRow) (lo, hi time.Time) {
	lo, hi = rows[0].Date, rows[0].Date
	for _, r := range rows[1:] {
		if r.Date.Before(lo) {
			lo = r.Date
		}
		if r.Date.After(hi) {
			hi = r.Date
		}
	}
	return lo, hi
}

// dedupe keeps the last occurrence per natural key, preserving first-seen
// order of the surviving keys
func dedupe(rows []dom.MetricRow) []dom.MetricRow {
	idx := make(map[dom.Key]int, len(rows))
	out := make([]dom.MetricRow, 0, len(rows))
	for _, r := range rows {
		if at, seen := idx[r.NatKey()]; seen {
			out[at] = r
			continue
		}
		idx[r.NatKey()] = len(out)
		out = append(out, r)
	}
	return out
}
