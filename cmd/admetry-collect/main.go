// Command admetry-collect runs the ingestion pipeline: resolve the
// collection window, fetch raw ad metrics for one or all active clients,
// upsert them, and reconcile the daily aggregates
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"admetry/internal/adapters/adsapi"
	"admetry/internal/core/window"
	"admetry/internal/modkit"
	"admetry/internal/modkit/module"
	"admetry/internal/modkit/repokit"
	"admetry/internal/platform/config"
	"admetry/internal/platform/dates"
	"admetry/internal/platform/logger"
	"admetry/internal/platform/store"

	clientsmod "admetry/internal/services/clients/module"
	ingdom "admetry/internal/services/ingestion/domain"
	ingestmod "admetry/internal/services/ingestion/module"
	rawmod "admetry/internal/services/rawevents/module"
	rollupmod "admetry/internal/services/rollup/module"
)

func main() {
	root := config.New()
	logger.Init(logger.FromEnv())
	l := logger.Get()

	var (
		fClient    = flag.String("client", "", "ingest a single client id (default: all active clients)")
		fDays      = flag.Int("days", 0, "fixed trailing window of N days ending yesterday")
		fPrevMonth = flag.Bool("prev-month", false, "collect the full prior calendar month")
	)
	flag.Parse()

	if *fDays > 0 && *fPrevMonth {
		l.Panic().Msg("-days and -prev-month are mutually exclusive")
	}

	ctx := context.Background()
	st := mustOpenStore(ctx, root, l)
	defer func() {
		if err := st.Close(ctx); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Log: *l, Cfg: root, PG: st.PG}

	clientsmod.Register(deps)
	rawmod.Register(deps)
	rollupmod.Register(deps)
	clients := module.MustPortsAs[clientsmod.Ports]("clients")

	api := mustAdsAPI(root, l)
	ingestmod.Register(deps, ingestmod.Collaborators{
		Directory: clients.Directory,
		Guard:     clients.Guard,
		Tokens:    api,
		Fetcher:   api,
		Writer:    module.MustPortsAs[rawmod.Ports]("rawevents").Writer,
		Sync:      module.MustPortsAs[rollupmod.Ports]("rollup").Sync,
	})
	ingest := module.MustPortsAs[ingestmod.Ports]("ingestion")

	loc := root.Prefix("CORE_INGEST_").MayTimezone("TIMEZONE", time.UTC)
	rng := window.Compute(time.Now(), window.Mode{Days: *fDays, PrevMonth: *fPrevMonth}, loc)
	l.Info().Str("start", dates.Format(rng.Start)).Str("end", dates.Format(rng.End)).Msg("collection window resolved")

	if *fClient != "" {
		rep, err := ingest.Runner.RunClient(ctx, *fClient, rng.Start, rng.End)
		if err != nil {
			l.Error().Err(err).Str("outcome", rep.Outcome).Msg("ingestion failed")
			os.Exit(1)
		}
		l.Info().Str("outcome", rep.Outcome).Int("rows", rep.RowsFetched).Msg("ingestion finished")
		if !rep.SyncOK && !rep.Skipped() {
			os.Exit(1)
		}
		return
	}

	reports, err := ingest.Runner.RunAll(ctx, rng.Start, rng.End)
	if err != nil {
		l.Panic().Err(err).Msg("could not list clients")
	}
	failed := 0
	for _, rep := range reports {
		if rep.Outcome != ingdom.OutcomeOK && !rep.Skipped() {
			failed++
		}
	}
	l.Info().Int("clients", len(reports)).Int("failed", failed).Msg("fleet ingestion finished")
	if failed > 0 {
		os.Exit(1)
	}
}

func mustOpenStore(ctx context.Context, root config.Conf, l *logger.Logger) *store.Store {
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	st, err := store.Open(ctx, store.Config{
		AppName: "admetry-collect",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	if err := st.EnsureSchema(ctx); err != nil {
		l.Panic().Err(err).Msg("schema bootstrap failed")
	}
	repokit.MustGuard(ctx, st)
	return st
}

func mustAdsAPI(root config.Conf, l *logger.Logger) *adsapi.Client {
	apiCfg := root.Prefix("SERVICE_ADSAPI_")
	api, err := adsapi.New(adsapi.Config{
		BaseURL:    apiCfg.MustString("BASE_URL"),
		APIKey:     apiCfg.MayString("API_KEY", ""),
		Timeout:    apiCfg.MayDuration("TIMEOUT", 30*time.Second),
		MaxRetries: apiCfg.MayInt("RETRIES", 3),
	})
	if err != nil {
		l.Panic().Err(err).Msg("adsapi config invalid")
	}
	return api
}
