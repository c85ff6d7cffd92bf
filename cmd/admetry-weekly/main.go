// Command admetry-weekly rebuilds per-ad weekly summaries. With no range
// flags it targets the prior ISO week; -start pins an explicit Monday
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"admetry/internal/core/window"
	"admetry/internal/modkit"
	"admetry/internal/modkit/module"
	"admetry/internal/modkit/repokit"
	"admetry/internal/platform/config"
	"admetry/internal/platform/dates"
	"admetry/internal/platform/logger"
	"admetry/internal/platform/store"

	clientsmod "admetry/internal/services/clients/module"
	weeklymod "admetry/internal/services/weekly/module"
)

func main() {
	root := config.New()
	logger.Init(logger.FromEnv())
	l := logger.Get()

	var (
		fClient = flag.String("client", "", "build for a single client id (default: all active clients)")
		fStart  = flag.String("start", "", "week start (a Monday) YYYY-MM-DD; default prior ISO week")
	)
	flag.Parse()

	loc := root.Prefix("CORE_INGEST_").MayTimezone("TIMEZONE", time.UTC)

	var weekStart, weekEnd time.Time
	if *fStart != "" {
		t, err := dates.Parse(*fStart)
		if err != nil {
			l.Panic().Err(err).Msg("bad -start")
		}
		if t.Weekday() != time.Monday {
			l.Panic().Str("start", *fStart).Msg("-start must be a Monday")
		}
		weekStart, weekEnd = t, dates.AddDays(t, 6)
	} else {
		rng := window.Compute(time.Now(), window.Mode{}, loc)
		weekStart, weekEnd = rng.Start, rng.End
	}

	ctx := context.Background()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	st, err := store.Open(ctx, store.Config{
		AppName: "admetry-weekly",
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
	for _, m := range []module.Module{clientsmod.New(deps), weeklymod.New(deps)} {
		module.Register(m.Name(), m.Ports())
	}
	weekly := module.MustPortsAs[weeklymod.Ports]("weekly")

	ids := []string{*fClient}
	if *fClient == "" {
		clients := module.MustPortsAs[clientsmod.Ports]("clients")
		active, err := clients.Directory.ListActive(ctx)
		if err != nil {
			l.Panic().Err(err).Msg("could not list clients")
		}
		ids = ids[:0]
		for _, c := range active {
			ids = append(ids, c.ID)
		}
	}

	l.Info().Str("week_start", dates.Format(weekStart)).Str("week_end", dates.Format(weekEnd)).
		Int("clients", len(ids)).Msg("weekly build starting")

	failed := 0
	for _, id := range ids {
		stats, err := weekly.Builder.Build(ctx, id, weekStart, weekEnd)
		if err != nil {
			l.Error().Err(err).Str("client_id", id).Msg("weekly build failed")
			failed++
			continue
		}
		l.Info().Str("client_id", id).
			Int("week_year", stats.WeekYear).Int("week_number", stats.WeekNumber).
			Int("ads", stats.AdsSummarized).Int("raw", stats.RawRecords).Msg("weekly build finished")
	}
	if failed > 0 {
		os.Exit(1)
	}
}
