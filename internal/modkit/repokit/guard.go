package repokit

import (
	"context"
	"fmt"
	"time"
)

type guarder interface {
	Guard(context.Context) error
}

// MustGuard pings every seam the store has open and panics if one is
// unreachable. Mains call it right after schema bootstrap so a dead
// database fails the process before any collection work starts.
// A 5s deadline is applied when ctx carries none
func MustGuard(ctx context.Context, st guarder) {
	if st == nil {
		panic("repokit: nil store")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
