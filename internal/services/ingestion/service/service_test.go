package service

import (
	"context"
	"testing"
	"time"

	cldom "admetry/internal/services/clients/domain"
	"admetry/internal/services/ingestion/domain"
	redom "admetry/internal/services/rawevents/domain"
	rudom "admetry/internal/services/rollup/domain"

	perr "admetry/internal/platform/errors"
)

// stubs

type stubDirectory struct {
	client cldom.Client
	getErr error
	marked []string
}

func (s *stubDirectory) Get(context.Context, string) (cldom.Client, error) {
	return s.client, s.getErr
}
func (s *stubDirectory) ListActive(context.Context) ([]cldom.Client, error) {
	return []cldom.Client{s.client}, nil
}
func (s *stubDirectory) MarkAuthRequired(_ context.Context, id string) error {
	s.marked = append(s.marked, id)
	return nil
}

type stubGuard struct {
	valid bool
	err   error
}

func (s stubGuard) Check(context.Context, string, time.Time) (cldom.WindowCheck, error) {
	return cldom.WindowCheck{Valid: s.valid}, s.err
}

type stubTokens struct {
	token string
	err   error
	calls int
}

func (s *stubTokens) EnsureValidToken(context.Context, string) (string, error) {
	s.calls++
	return s.token, s.err
}

type stubFetcher struct {
	rows []redom.MetricRow
	err  error
	got  struct {
		accountID, token string
	}
}

func (s *stubFetcher) Fetch(_ context.Context, accountID, token string, _, _ time.Time) ([]redom.MetricRow, error) {
	s.got.accountID, s.got.token = accountID, token
	return s.rows, s.err
}

type stubWriter struct {
	saved []redom.MetricRow
	err   error
	calls int
}

func (s *stubWriter) Save(_ context.Context, _ string, rows []redom.MetricRow) error {
	s.calls++
	s.saved = rows
	return s.err
}

type stubSync struct {
	res   rudom.SyncResult
	err   error
	calls int
}

func (s *stubSync) Aggregate(context.Context, string, time.Time, time.Time) (rudom.AggregateStats, error) {
	panic("not used")
}
func (s *stubSync) Verify(context.Context, string, time.Time, time.Time) (rudom.VerifyResult, error) {
	panic("not used")
}
func (s *stubSync) SyncAndVerify(context.Context, string, time.Time, time.Time) (rudom.SyncResult, error) {
	s.calls++
	return s.res, s.err
}

type harness struct {
	dir     *stubDirectory
	guard   stubGuard
	tokens  *stubTokens
	fetcher *stubFetcher
	writer  *stubWriter
	sync    *stubSync
}

func newHarness() *harness {
	return &harness{
		dir: &stubDirectory{client: cldom.Client{
			ID: "c1", IsActive: true, ExternalAccountID: "acct-9",
		}},
		guard:   stubGuard{valid: true},
		tokens:  &stubTokens{token: "tok-1"},
		fetcher: &stubFetcher{rows: []redom.MetricRow{{AdID: "ad-1"}}},
		writer:  &stubWriter{},
		sync:    &stubSync{res: rudom.SyncResult{Success: true, Attempts: 1}},
	}
}

func (h *harness) service() *Service {
	return New(Deps{
		Directory: h.dir,
		Guard:     h.guard,
		Tokens:    h.tokens,
		Fetcher:   h.fetcher,
		Writer:    h.writer,
		Sync:      h.sync,
	}, time.UTC)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// tests

func TestRunClientHappyPath(t *testing.T) {
	h := newHarness()
	svc := h.service()

	rep, err := svc.RunClient(context.Background(), "c1", day("2025-06-01"), day("2025-06-07"))
	if err != nil {
		t.Fatalf("RunClient: %v", err)
	}
	if rep.Outcome != domain.OutcomeOK || !rep.SyncOK || rep.RowsFetched != 1 {
		t.Fatalf("rep = %+v", rep)
	}
	if h.fetcher.got.accountID != "acct-9" || h.fetcher.got.token != "tok-1" {
		t.Fatalf("fetch got %+v", h.fetcher.got)
	}
	if h.writer.calls != 1 || h.sync.calls != 1 {
		t.Fatalf("writer=%d sync=%d calls, want 1 and 1", h.writer.calls, h.sync.calls)
	}
}

func TestRunClientSkipsClosedWindow(t *testing.T) {
	h := newHarness()
	h.guard = stubGuard{valid: false}
	svc := h.service()

	rep, err := svc.RunClient(context.Background(), "c1", day("2025-06-01"), day("2025-06-07"))
	if err != nil {
		t.Fatalf("RunClient: %v", err)
	}
	if !rep.Skipped() {
		t.Fatalf("rep = %+v, want skipped", rep)
	}
	// skipped runs never reach the API or storage
	if h.tokens.calls != 0 || h.writer.calls != 0 || h.sync.calls != 0 {
		t.Fatalf("skip leaked into the pipeline: tokens=%d writer=%d sync=%d",
			h.tokens.calls, h.writer.calls, h.sync.calls)
	}
}

func TestRunClientMissingAccountIsConfigError(t *testing.T) {
	h := newHarness()
	h.dir.client.ExternalAccountID = ""
	svc := h.service()

	rep, err := svc.RunClient(context.Background(), "c1", day("2025-06-01"), day("2025-06-07"))
	if !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("err = %v, want config error", err)
	}
	if rep.Outcome != domain.OutcomeConfigError {
		t.Fatalf("outcome = %q", rep.Outcome)
	}
	if h.tokens.calls != 0 {
		t.Fatalf("config errors must stop before the token call")
	}
}

func TestRunClientAuthErrorMarksClient(t *testing.T) {
	h := newHarness()
	h.tokens.err = perr.Authf("refresh token dead")
	svc := h.service()

	rep, err := svc.RunClient(context.Background(), "c1", day("2025-06-01"), day("2025-06-07"))
	if !perr.IsCode(err, perr.ErrorCodeAuth) {
		t.Fatalf("err = %v, want auth error", err)
	}
	if rep.Outcome != domain.OutcomeAuthError {
		t.Fatalf("outcome = %q", rep.Outcome)
	}
	if len(h.dir.marked) != 1 || h.dir.marked[0] != "c1" {
		t.Fatalf("auth error must mark the client for re-auth, marked=%v", h.dir.marked)
	}
	if h.writer.calls != 0 {
		t.Fatalf("auth failure must not touch storage")
	}
}

func TestRunClientNonAuthTokenFailureDoesNotMark(t *testing.T) {
	h := newHarness()
	h.tokens.err = perr.Unavailablef("token endpoint 503")
	svc := h.service()

	rep, err := svc.RunClient(context.Background(), "c1", day("2025-06-01"), day("2025-06-07"))
	if err == nil || rep.Outcome != domain.OutcomeFetchError {
		t.Fatalf("rep=%+v err=%v", rep, err)
	}
	if len(h.dir.marked) != 0 {
		t.Fatalf("transient failure must not flag re-auth")
	}
}

func TestRunClientFetchErrorStopsBeforeStorage(t *testing.T) {
	h := newHarness()
	h.fetcher.err = perr.Unavailablef("api 502")
	svc := h.service()

	rep, err := svc.RunClient(context.Background(), "c1", day("2025-06-01"), day("2025-06-07"))
	if err == nil || rep.Outcome != domain.OutcomeFetchError {
		t.Fatalf("rep=%+v err=%v", rep, err)
	}
	if h.writer.calls != 0 || h.sync.calls != 0 {
		t.Fatalf("fetch failure must leave storage untouched")
	}
}

func TestRunClientEmptyFetchStillSyncs(t *testing.T) {
	h := newHarness()
	h.fetcher.rows = nil
	svc := h.service()

	rep, err := svc.RunClient(context.Background(), "c1", day("2025-06-01"), day("2025-06-07"))
	if err != nil {
		t.Fatalf("RunClient: %v", err)
	}
	// a data-empty range is valid; reconciliation still runs so stale
	// aggregates get verified against current raw truth
	if rep.Outcome != domain.OutcomeOK || h.sync.calls != 1 {
		t.Fatalf("rep=%+v sync=%d", rep, h.sync.calls)
	}
}

func TestRunClientSurfacesIntegrityMismatch(t *testing.T) {
	h := newHarness()
	h.sync.res = rudom.SyncResult{
		Success: false, Attempts: 2,
		Error: rudom.ErrTextIntegrityMismatch,
	}
	svc := h.service()

	rep, err := svc.RunClient(context.Background(), "c1", day("2025-06-01"), day("2025-06-07"))
	if err != nil {
		t.Fatalf("mismatch is a typed result, not an error: %v", err)
	}
	if rep.Outcome != domain.OutcomeSyncError || rep.SyncOK {
		t.Fatalf("rep = %+v", rep)
	}
	if rep.SyncError != rudom.ErrTextIntegrityMismatch {
		t.Fatalf("SyncError = %q", rep.SyncError)
	}
}

func TestRunAllContinuesPastFailures(t *testing.T) {
	h := newHarness()
	h.tokens.err = perr.Authf("dead")
	svc := h.service()

	reports, err := svc.RunAll(context.Background(), day("2025-06-01"), day("2025-06-07"))
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(reports) != 1 || reports[0].Outcome != domain.OutcomeAuthError {
		t.Fatalf("reports = %+v", reports)
	}
}
