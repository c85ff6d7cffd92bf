package service

import (
	"context"
	"testing"
	"time"

	"admetry/internal/modkit/repokit"
	"admetry/internal/platform/store"
	"admetry/internal/services/rawevents/repo"

	dom "admetry/internal/services/rawevents/domain"

	perr "admetry/internal/platform/errors"
	kit "admetry/internal/platform/testkit"
)

type fakeTag struct{}

func (fakeTag) String() string      { return "FAKE" }
func (fakeTag) RowsAffected() int64 { return 0 }

type fakeDB struct{}

func (fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return fakeTag{}, nil
}
func (fakeDB) Query(context.Context, string, ...any) (store.Rows, error) { panic("not used") }
func (fakeDB) QueryRow(context.Context, string, ...any) store.Row        { panic("not used") }
func (f fakeDB) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(f)
}

// memStore records every batch it receives
type memStore struct {
	batches     [][]dom.MetricRow
	failOn      int // 1-based batch index to fail at, 0 = never
	countedSpan [2]time.Time
}

func (m *memStore) UpsertBatch(_ context.Context, rows []dom.MetricRow) error {
	m.batches = append(m.batches, append([]dom.MetricRow(nil), rows...))
	if m.failOn > 0 && len(m.batches) == m.failOn {
		return perr.DBf("synthetic upsert failure")
	}
	return nil
}

func (m *memStore) CountRange(_ context.Context, _ string, start, end time.Time) (int, error) {
	m.countedSpan = [2]time.Time{start, end}
	n := 0
	for _, b := range m.batches {
		for _, r := range b {
			if !r.Date.Before(start) && !r.Date.After(end) {
				n++
			}
		}
	}
	return n, nil
}

func newSvc(ms *memStore, maxBatch int) *Service {
	return New(fakeDB{}, repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage {
		return ms
	}), Config{MaxBatch: maxBatch})
}

func row(adID, platform, device string, leads int64, spend float64) dom.MetricRow {
	return dom.MetricRow{
		ClientID: "c1",
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		AdID:     adID,
		Platform: platform,
		Device:   device,
		Leads:    leads,
		Spend:    spend,
	}
}

func TestSaveEmptyIsNoOp(t *testing.T) {
	ms := &memStore{}
	if err := newSvc(ms, 0).Save(context.Background(), "c1", nil); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}
	if len(ms.batches) != 0 {
		t.Fatalf("empty save must not hit storage")
	}
}

func TestSaveFillsAndChecksClientID(t *testing.T) {
	ms := &memStore{}
	svc := newSvc(ms, 0)

	r := row("ad-1", "fb", "mobile", 1, 10)
	r.ClientID = ""
	if err := svc.Save(context.Background(), "c1", []dom.MetricRow{r}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := ms.batches[0][0].ClientID; got != "c1" {
		t.Fatalf("ClientID = %q, want filled to c1", got)
	}

	wrong := row("ad-1", "fb", "mobile", 1, 10)
	wrong.ClientID = "someone-else"
	err := svc.Save(context.Background(), "c1", []dom.MetricRow{wrong})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("cross-client row should be invalid, got %v", err)
	}
}

func TestSaveValidatesRows(t *testing.T) {
	ms := &memStore{}
	svc := newSvc(ms, 0)

	bad := row("ad-1", "fb", "mobile", -1, 10) // negative leads
	err := svc.Save(context.Background(), "c1", []dom.MetricRow{bad})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("negative measure should fail validation, got %v", err)
	}

	noAd := row("", "fb", "mobile", 1, 10)
	err = svc.Save(context.Background(), "c1", []dom.MetricRow{noAd})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("missing ad id should fail validation, got %v", err)
	}
	if len(ms.batches) != 0 {
		t.Fatalf("validation failures must not reach storage")
	}
}

func TestSaveDedupesByNaturalKeyLastWins(t *testing.T) {
	ms := &memStore{}
	svc := newSvc(ms, 0)

	rows := []dom.MetricRow{
		row("ad-1", "fb", "mobile", 1, 10),
		row("ad-2", "fb", "mobile", 2, 20),
		row("ad-1", "fb", "mobile", 9, 99), // same key as the first, later measures win
		row("ad-1", "fb", "desktop", 3, 30),
	}
	if err := svc.Save(context.Background(), "c1", rows); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := ms.batches[0]
	if len(got) != 3 {
		t.Fatalf("deduped batch = %d rows, want 3", len(got))
	}
	// first-seen order preserved, measures replaced
	if got[0].AdID != "ad-1" || got[0].Leads != 9 || got[0].Spend != 99 {
		t.Fatalf("dedupe kept wrong row: %+v", got[0])
	}
	if got[1].AdID != "ad-2" || got[2].Device != "desktop" {
		t.Fatalf("dedupe broke ordering: %+v", got)
	}
}

func TestSaveChunksBatches(t *testing.T) {
	ms := &memStore{}
	svc := newSvc(ms, 2)

	rows := []dom.MetricRow{
		row("a", "fb", "mobile", 1, 1),
		row("b", "fb", "mobile", 1, 1),
		row("c", "fb", "mobile", 1, 1),
		row("d", "fb", "mobile", 1, 1),
		row("e", "fb", "mobile", 1, 1),
	}
	if err := svc.Save(context.Background(), "c1", rows); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(ms.batches) != 3 {
		t.Fatalf("batches = %d, want 3 (2+2+1)", len(ms.batches))
	}
	if len(ms.batches[2]) != 1 {
		t.Fatalf("last batch = %d rows, want 1", len(ms.batches[2]))
	}
}

func TestSaveCountsStoredSpan(t *testing.T) {
	ms := &memStore{}
	svc := newSvc(ms, 0)

	early := row("ad-1", "fb", "mobile", 1, 10)
	early.Date = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	late := row("ad-2", "fb", "mobile", 2, 20)
	late.Date = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	if err := svc.Save(context.Background(), "c1", []dom.MetricRow{late, early}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !ms.countedSpan[0].Equal(early.Date) || !ms.countedSpan[1].Equal(late.Date) {
		t.Fatalf("counted span = %v, want [%v, %v]", ms.countedSpan, early.Date, late.Date)
	}
}

func TestSaveSurfacesStorageFailure(t *testing.T) {
	ms := &memStore{failOn: 2}
	svc := newSvc(ms, 2)

	rows := []dom.MetricRow{
		row("a", "fb", "mobile", 1, 1),
		row("b", "fb", "mobile", 1, 1),
		row("c", "fb", "mobile", 1, 1),
	}
	err := svc.Save(context.Background(), "c1", rows)
	if err == nil {
		t.Fatalf("storage failure must abort the save")
	}
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("code = %v, want DB", perr.CodeOf(err))
	}
}

func TestNewPanicsOnNilWiring(t *testing.T) {
	kit.MustPanic(t, func() {
		New(nil, repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return &memStore{} }), Config{})
	})
	kit.MustPanic(t, func() { New(fakeDB{}, nil, Config{}) })
}
