package repokit

import (
	"context"
	"errors"
	"testing"

	kit "admetry/internal/platform/testkit"
)

type fakeGuarder struct {
	err         error
	sawDeadline bool
}

func (g *fakeGuarder) Guard(ctx context.Context) error {
	_, g.sawDeadline = ctx.Deadline()
	return g.err
}

func TestMustGuardHealthy(t *testing.T) {
	g := &fakeGuarder{}
	kit.MustNotPanic(t, func() { MustGuard(context.Background(), g) })
	if !g.sawDeadline {
		t.Fatalf("MustGuard must bound an undeadlined context")
	}
}

func TestMustGuardUnreachableDependency(t *testing.T) {
	g := &fakeGuarder{err: errors.New("pg: connection refused")}
	kit.MustPanic(t, func() { MustGuard(context.Background(), g) })
}

func TestMustGuardNilStore(t *testing.T) {
	kit.MustPanic(t, func() { MustGuard(context.Background(), nil) })
}
