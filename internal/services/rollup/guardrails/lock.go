// Package guardrails serializes derived-table writers per client
package guardrails

import (
	"context"
	"fmt"
	"hash/fnv"

	"admetry/internal/modkit/repokit"
)

// ErrLockHeld signals another worker is rebuilding this client's tables
var ErrLockHeld = fmt.Errorf("rollup: client lock already held")

// LockKey hashes a client id into the advisory-lock keyspace.
// Stable across processes so every writer contends on the same key
func LockKey(clientID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("admetry:" + clientID))
	return int64(h.Sum64())
}

// LockClient takes a transaction-scoped advisory lock for the client.
// Call it first inside any Tx that deletes and rewrites derived rows:
// the lock is released automatically at commit or rollback, so no two
// rebuild passes for the same client can interleave
func LockClient(ctx context.Context, q repokit.Queryer, clientID string) error {
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, LockKey(clientID))
	return err
}

// TryLockClient is the non-blocking variant used by batch CLIs that prefer
// a clean skip over queueing behind another worker
func TryLockClient(ctx context.Context, q repokit.Queryer, clientID string) error {
	var ok bool
	if err := q.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock($1)`, LockKey(clientID)).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}
