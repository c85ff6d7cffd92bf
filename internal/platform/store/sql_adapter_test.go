package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgx fakes

type pgxFakeRow struct {
	scan func(dest ...any) error
}

func (r *pgxFakeRow) Scan(dest ...any) error {
	if r.scan != nil {
		return r.scan(dest...)
	}
	return nil
}

type pgxFakeRows struct {
	fields []pgconn.FieldDescription
	data   [][]any
	idx    int
	err    error
	closed bool
}

func newPgxFakeRows(cols []string, data [][]any) *pgxFakeRows {
	fds := make([]pgconn.FieldDescription, len(cols))
	for i, c := range cols {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return &pgxFakeRows{fields: fds, data: data, idx: -1}
}

func (r *pgxFakeRows) Conn() *pgx.Conn                              { return nil }
func (r *pgxFakeRows) Close()                                       { r.closed = true }
func (r *pgxFakeRows) Err() error                                   { return r.err }
func (r *pgxFakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *pgxFakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *pgxFakeRows) Next() bool {
	if r.err != nil {
		return false
	}
	r.idx++
	return r.idx < len(r.data)
}
func (r *pgxFakeRows) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.data) {
		return errors.New("scan out of range")
	}
	row := r.data[r.idx]
	for i := range dest {
		if p, ok := dest[i].(*string); ok {
			*p = row[i].(string)
		}
	}
	return nil
}
func (r *pgxFakeRows) Values() ([]any, error) { return nil, nil }
func (r *pgxFakeRows) RawValues() [][]byte    { return nil }

// tests

func TestRowsAdapterColumnsAndIteration(t *testing.T) {
	t.Parallel()

	fr := newPgxFakeRows([]string{"client_id", "ad_id"}, [][]any{
		{"c1", "ad-1"},
		{"c1", "ad-2"},
	})
	var rs Rows = rows{r: fr}

	if got := rs.Columns(); len(got) != 2 || got[0] != "client_id" || got[1] != "ad_id" {
		t.Fatalf("Columns = %v", got)
	}

	var seen []string
	for rs.Next() {
		var client, ad string
		if err := rs.Scan(&client, &ad); err != nil {
			t.Fatalf("Scan: %v", err)
		}
		seen = append(seen, ad)
	}
	if len(seen) != 2 || seen[1] != "ad-2" {
		t.Fatalf("iterated %v", seen)
	}
	if rs.Err() != nil {
		t.Fatalf("Err: %v", rs.Err())
	}

	rs.Close()
	if !fr.closed {
		t.Fatalf("Close did not propagate")
	}
}

func TestRowAdapterCallsAfterHook(t *testing.T) {
	t.Parallel()

	scanErr := errors.New("scan boom")
	var hookErr error
	var hooked bool

	r := row{
		r:     &pgxFakeRow{scan: func(...any) error { return scanErr }},
		after: func(err error) { hooked = true; hookErr = err },
	}
	if err := r.Scan(); err != scanErr {
		t.Fatalf("Scan = %v, want scanErr", err)
	}
	if !hooked || hookErr != scanErr {
		t.Fatalf("after hook: hooked=%v err=%v", hooked, hookErr)
	}
}

func TestRowAdapterNilHookIsSafe(t *testing.T) {
	t.Parallel()

	r := row{r: &pgxFakeRow{}}
	if err := r.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
}
