package locker

import "context"

// AdvisoryLocker serialises distribution runs that target the same scope,
// using Postgres session advisory locks. WithLock guarantees lock and unlock
// happen on the same DB connection, which session-level pg_advisory_lock
// requires.
type AdvisoryLocker interface {
	WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error
}
