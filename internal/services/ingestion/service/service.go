// Package service implements the ingestion coordinator: the top-level
// use case that gates, fetches, stores, and reconciles one client's
// ad metrics for a date range
package service

import (
	"context"
	"time"

	"admetry/internal/platform/logger"
	"admetry/internal/platform/metrics"
	cldom "admetry/internal/services/clients/domain"
	"admetry/internal/services/ingestion/domain"
	redom "admetry/internal/services/rawevents/domain"
	rudom "admetry/internal/services/rollup/domain"

	perr "admetry/internal/platform/errors"
)

// Deps are the collaborator ports the coordinator drives
type Deps struct {
	Directory cldom.DirectoryPort
	Guard     cldom.GuardPort
	Tokens    domain.TokenPort
	Fetcher   domain.FetchPort
	Writer    redom.WriterPort
	Sync      rudom.SyncPort
}

// Service implements domain.RunnerPort
type Service struct {
	deps Deps
	loc  *time.Location

	// now is swappable in tests
	now func() time.Time
}

// New constructs the coordinator. loc is the reporting timezone the
// window gate evaluates "today" in
func New(deps Deps, loc *time.Location) *Service {
	if deps.Directory == nil || deps.Guard == nil || deps.Tokens == nil ||
		deps.Fetcher == nil || deps.Writer == nil || deps.Sync == nil {
		panic("ingestion.Service requires all collaborator ports")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{deps: deps, loc: loc, now: time.Now}
}

// RunClient implements domain.RunnerPort
func (s *Service) RunClient(ctx context.Context, clientID string, start, end time.Time) (domain.RunReport, error) {
	began := s.now()
	log := logger.C(ctx).With().Str("client_id", clientID).
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).Logger()

	rep := domain.RunReport{ClientID: clientID, Start: start, End: end}
	finish := func(outcome string, err error) (domain.RunReport, error) {
		rep.Outcome = outcome
		rep.Elapsed = s.now().Sub(began)
		metrics.IngestRuns.WithLabelValues(outcome).Inc()
		return rep, err
	}

	// Gate first: an expired or inactive client never reaches the API
	wc, err := s.deps.Guard.Check(ctx, clientID, s.now().In(s.loc))
	if err != nil {
		return finish(domain.OutcomeStoreError, err)
	}
	if !wc.Valid {
		log.Info().Msg("service window invalid, skipping ingestion")
		return finish(domain.OutcomeSkipped, nil)
	}

	client, err := s.deps.Directory.Get(ctx, clientID)
	if err != nil {
		return finish(domain.OutcomeStoreError, err)
	}
	if client.ExternalAccountID == "" {
		return finish(domain.OutcomeConfigError,
			perr.Configf("client %q has no external account id", clientID))
	}

	token, err := s.deps.Tokens.EnsureValidToken(ctx, clientID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeAuth) {
			// Expected side effect: flag the account so an operator
			// re-authorizes it. Marking failure must not mask the auth error
			if merr := s.deps.Directory.MarkAuthRequired(ctx, clientID); merr != nil {
				log.Warn().Err(merr).Msg("failed to mark client for re-auth")
			}
			return finish(domain.OutcomeAuthError, err)
		}
		return finish(domain.OutcomeFetchError, err)
	}

	rows, err := s.deps.Fetcher.Fetch(ctx, client.ExternalAccountID, token, start, end)
	if err != nil {
		return finish(domain.OutcomeFetchError, err)
	}
	rep.RowsFetched = len(rows)
	log.Info().Int("rows", len(rows)).Msg("fetched raw ad metrics")

	if err := s.deps.Writer.Save(ctx, clientID, rows); err != nil {
		return finish(domain.OutcomeStoreError, err)
	}

	sr, err := s.deps.Sync.SyncAndVerify(ctx, clientID, start, end)
	if err != nil {
		return finish(domain.OutcomeSyncError, err)
	}
	rep.SyncOK = sr.Success
	rep.SyncError = sr.Error
	if !sr.Success {
		log.Warn().Str("error", sr.Error).Int("attempts", sr.Attempts).
			Msg("ingestion completed with unresolved integrity mismatch")
		return finish(domain.OutcomeSyncError, nil)
	}

	log.Info().Int("attempts", sr.Attempts).Msg("ingestion complete")
	return finish(domain.OutcomeOK, nil)
}

// RunAll implements domain.RunnerPort
func (s *Service) RunAll(ctx context.Context, start, end time.Time) ([]domain.RunReport, error) {
	clients, err := s.deps.Directory.ListActive(ctx)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "list active clients")
	}

	reports := make([]domain.RunReport, 0, len(clients))
	for _, c := range clients {
		rep, err := s.RunClient(ctx, c.ID, start, end)
		if err != nil {
			// One bad client must not starve the rest of the fleet
			logger.C(ctx).Error().Err(err).Str("client_id", c.ID).Msg("client ingestion failed")
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
