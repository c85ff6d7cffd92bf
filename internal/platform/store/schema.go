package store

import "context"

// Schema bootstrap. Every statement is idempotent so binaries can apply it
// on startup without external migration tooling.

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id                   text PRIMARY KEY,
		name                 text NOT NULL DEFAULT '',
		is_active            boolean NOT NULL DEFAULT true,
		service_period_end   date,
		external_account_id  text,
		external_auth_status text NOT NULL DEFAULT 'ok',
		created_at           timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS raw_ad_metrics (
		client_id          text NOT NULL,
		metric_date        date NOT NULL,
		ad_id              text NOT NULL,
		ad_name            text NOT NULL DEFAULT '',
		campaign_id        text NOT NULL DEFAULT '',
		campaign_name      text NOT NULL DEFAULT '',
		platform           text NOT NULL,
		device             text NOT NULL,
		currency           text NOT NULL DEFAULT '',
		impressions        bigint NOT NULL DEFAULT 0 CHECK (impressions >= 0),
		reach              bigint NOT NULL DEFAULT 0 CHECK (reach >= 0),
		clicks             bigint NOT NULL DEFAULT 0 CHECK (clicks >= 0),
		leads              bigint NOT NULL DEFAULT 0 CHECK (leads >= 0),
		spend              numeric(18,2) NOT NULL DEFAULT 0 CHECK (spend >= 0),
		video_views        bigint NOT NULL DEFAULT 0 CHECK (video_views >= 0),
		avg_watch_time     double precision NOT NULL DEFAULT 0,
		cost_per_video_view double precision NOT NULL DEFAULT 0,
		cost_per_lead      double precision NOT NULL DEFAULT 0,
		fetched_at         timestamptz NOT NULL DEFAULT now(),
		PRIMARY KEY (client_id, metric_date, ad_id, platform, device)
	)`,

	`CREATE INDEX IF NOT EXISTS raw_ad_metrics_client_date_idx
		ON raw_ad_metrics (client_id, metric_date)`,

	`CREATE TABLE IF NOT EXISTS daily_ad_aggregates (
		client_id         text NOT NULL,
		metric_date       date NOT NULL,
		total_impressions bigint NOT NULL DEFAULT 0,
		total_reach       bigint NOT NULL DEFAULT 0,
		total_clicks      bigint NOT NULL DEFAULT 0,
		total_leads       bigint NOT NULL DEFAULT 0,
		total_spend       numeric(18,2) NOT NULL DEFAULT 0,
		ad_count          integer NOT NULL DEFAULT 0,
		avg_ctr           double precision,
		avg_cpl           double precision,
		computed_at       timestamptz NOT NULL DEFAULT now(),
		PRIMARY KEY (client_id, metric_date)
	)`,

	`CREATE TABLE IF NOT EXISTS weekly_ad_summaries (
		client_id         text NOT NULL,
		week_year         integer NOT NULL,
		week_number       integer NOT NULL,
		ad_id             text NOT NULL,
		ad_name           text NOT NULL DEFAULT '',
		campaign_id       text NOT NULL DEFAULT '',
		campaign_name     text NOT NULL DEFAULT '',
		week_start        date NOT NULL,
		week_end          date NOT NULL,
		total_impressions bigint NOT NULL DEFAULT 0,
		total_reach       bigint NOT NULL DEFAULT 0,
		total_clicks      bigint NOT NULL DEFAULT 0,
		total_leads       bigint NOT NULL DEFAULT 0,
		total_spend       numeric(18,2) NOT NULL DEFAULT 0,
		total_video_views bigint NOT NULL DEFAULT 0,
		avg_ctr           double precision,
		avg_cpl           double precision,
		efficiency_grade  text,
		computed_at       timestamptz NOT NULL DEFAULT now(),
		PRIMARY KEY (client_id, week_year, week_number, ad_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sync_runs (
		id                 uuid PRIMARY KEY,
		client_id          text NOT NULL,
		range_start        date NOT NULL,
		range_end          date NOT NULL,
		success            boolean NOT NULL,
		attempts           integer NOT NULL DEFAULT 0,
		records_aggregated integer NOT NULL DEFAULT 0,
		raw_records        integer NOT NULL DEFAULT 0,
		dates_verified     integer NOT NULL DEFAULT 0,
		mismatches         integer NOT NULL DEFAULT 0,
		error_text         text NOT NULL DEFAULT '',
		elapsed_ms         integer NOT NULL DEFAULT 0,
		created_at         timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS sync_runs_client_created_idx
		ON sync_runs (client_id, created_at DESC)`,
}

// EnsureSchema applies the engine DDL. Safe to run on every boot
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.PG == nil {
		return nil
	}
	for _, ddl := range schemaDDL {
		if _, err := s.PG.Exec(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
