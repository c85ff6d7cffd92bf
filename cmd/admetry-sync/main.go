// Command admetry-sync re-runs aggregation and integrity verification
// for a client over an explicit date range. Use it to repair drift or to
// confirm state after an interrupted collection run
package main

import (
	"context"
	"flag"
	"os"

	"admetry/internal/modkit"
	"admetry/internal/modkit/module"
	"admetry/internal/modkit/repokit"
	"admetry/internal/platform/config"
	"admetry/internal/platform/dates"
	"admetry/internal/platform/logger"
	"admetry/internal/platform/store"

	rollupmod "admetry/internal/services/rollup/module"
)

func main() {
	root := config.New()
	logger.Init(logger.FromEnv())
	l := logger.Get()

	var (
		fClient     = flag.String("client", "", "client id (required)")
		fStart      = flag.String("start", "", "range start YYYY-MM-DD (required)")
		fEnd        = flag.String("end", "", "range end YYYY-MM-DD inclusive (required)")
		fVerifyOnly = flag.Bool("verify-only", false, "check integrity without rebuilding aggregates")
	)
	flag.Parse()

	if *fClient == "" || *fStart == "" || *fEnd == "" {
		l.Panic().Msg("must provide -client, -start and -end")
	}
	start, err := dates.Parse(*fStart)
	if err != nil {
		l.Panic().Err(err).Msg("bad -start")
	}
	end, err := dates.Parse(*fEnd)
	if err != nil {
		l.Panic().Err(err).Msg("bad -end")
	}
	if end.Before(start) {
		l.Panic().Str("start", *fStart).Str("end", *fEnd).Msg("-end before -start")
	}

	ctx := context.Background()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	st, err := store.Open(ctx, store.Config{
		AppName: "admetry-sync",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.EnsureSchema(ctx); err != nil {
		l.Panic().Err(err).Msg("schema bootstrap failed")
	}
	repokit.MustGuard(ctx, st)

	deps := modkit.Deps{Log: *l, Cfg: root, PG: st.PG}
	rollupmod.Register(deps)
	rollup := module.MustPortsAs[rollupmod.Ports]("rollup")

	if *fVerifyOnly {
		vr, err := rollup.Sync.Verify(ctx, *fClient, start, end)
		if err != nil {
			l.Panic().Err(err).Msg("verify failed")
		}
		for _, m := range vr.Mismatches {
			l.Warn().Str("date", dates.Format(m.Date)).Str("issue", m.Issue).
				Int64("raw_leads", m.RawLeads).Int64("agg_leads", m.AggLeads).
				Float64("raw_spend", m.RawSpend).Float64("agg_spend", m.AggSpend).
				Msg("integrity mismatch")
		}
		l.Info().Bool("valid", vr.IsValid).Int("dates", vr.DatesChecked).Msg("verification finished")
		if !vr.IsValid {
			os.Exit(1)
		}
		return
	}

	sr, err := rollup.Sync.SyncAndVerify(ctx, *fClient, start, end)
	if err != nil {
		l.Panic().Err(err).Msg("sync failed")
	}
	l.Info().Bool("success", sr.Success).Int("attempts", sr.Attempts).
		Int("aggregated", sr.RecordsAggregated).Int("raw", sr.RawRecords).Msg("sync finished")
	if !sr.Success {
		l.Error().Str("error", sr.Error).Int("mismatches", len(sr.Mismatches)).Msg("integrity mismatch persists")
		os.Exit(1)
	}
}
