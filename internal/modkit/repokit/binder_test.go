package repokit

import (
	"context"
	"testing"

	"admetry/internal/platform/store"

	kit "admetry/internal/platform/testkit"
)

type fakeQ struct{ tag string }

func (fakeQ) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakeQ) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (fakeQ) QueryRow(context.Context, string, ...any) store.Row             { return nil }

type fakeRepo struct{ q Queryer }

func TestBindFunc(t *testing.T) {
	b := BindFunc[fakeRepo](func(q Queryer) fakeRepo { return fakeRepo{q: q} })
	q := fakeQ{tag: "a"}
	if got := b.Bind(q); got.q != q {
		t.Fatalf("Bind did not hand through the Queryer")
	}
}

func TestMustBind(t *testing.T) {
	b := BindFunc[fakeRepo](func(q Queryer) fakeRepo { return fakeRepo{q: q} })
	kit.MustNotPanic(t, func() { _ = MustBind[fakeRepo](b, fakeQ{}) })
	kit.MustPanic(t, func() { _ = MustBind[fakeRepo](b, nil) })
}

func TestRequireQueryer(t *testing.T) {
	kit.MustPanic(t, func() { _ = RequireQueryer(nil) })
	if RequireQueryer(fakeQ{}) == nil {
		t.Fatalf("RequireQueryer lost the value")
	}
}
