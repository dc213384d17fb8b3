// Package tx provides the transactional unit-of-work abstraction.
// Domain services depend on this interface, never on a concrete backend.
package tx

import (
	"context"
)

// Manager defines the contract for running a group of storage calls as one
// logical unit. What "one unit" means is backend-specific:
//
//   - The embedded (sqlite) backend runs fn inside a native transaction:
//     any error rolls back everything, strict all-or-nothing.
//   - The hosted (postgres, shared multi-shop) backend executes fn's calls as
//     independent network writes with NO cross-call rollback. A failure midway
//     leaves a partial sale behind. This is a documented weaker guarantee of
//     that backend, not remediated here.
//   - The in-memory backend snapshots state and restores it on error, matching
//     the embedded contract for tests.
//
// Callers must not assume atomicity beyond what the selected backend provides.
type Manager interface {
	// RunInUnit executes fn as one logical unit of work.
	// Nested calls reuse the existing unit from context.
	RunInUnit(ctx context.Context, fn func(ctx context.Context) error) error
}
