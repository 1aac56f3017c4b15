// Package identity declares the narrow persistence port (C6) that session
// handlers depend on for IP-derived and hardware identity bookkeeping.
// Concrete adapters live in internal/store/postgres and internal/store/sqlite.
package identity

import "context"

// Store is the persistence contract of spec §4.6. Implementations must
// make Ipid linearizable per ip: concurrent calls for the same ip must
// agree on a single assigned id.
type Store interface {
	// Ipid idempotently upserts ip into the ipids table and returns its
	// assigned integer id.
	Ipid(ctx context.Context, ip string) (int64, error)

	// AddHdid idempotently records that hdid was seen from ipid.
	AddHdid(ctx context.Context, hdid string, ipid int64) error
}
