/*
Package referral resolves upline chains from the precomputed referral tree.

PURPOSE:
  The referral tree is an adjacency table (downline_id, upline_id, level)
  materialized at signup: one row per ancestor, levels 1..MaxLevels. The
  commission engine reads it to answer "who gets paid for this purchase?"
  in a single indexed query instead of walking parent pointers.

READ PATH:
  UplineChain(userID, maxLevels) returns the ordered ancestors, level 1
  (direct referrer) first. Chains shorter than maxLevels are normal - root
  users have no ancestors at all. Traversal is hard-capped at maxLevels, so
  a corrupted tree with a cycle can never loop the engine.

WRITE PATH:
  Attach(downline, upline) precomputes the downline's rows by extending the
  upline's own chain. It runs once per signup and is the only writer; the
  money core treats the tree as read-only.

SEE ALSO:
  - commission/engine.go: The only consumer of UplineChain in the core
  - store/sqlite/sqlite.go: Table and index definitions
*/
package referral

import (
	"context"
	"fmt"
)

// MaxLevels is how deep the platform pays commissions.
const MaxLevels = 6

// Link is one upline ancestor of a user. Level 1 is the direct referrer.
type Link struct {
	UplineUserID string
	Level        int
}

// =============================================================================
// STORE
// =============================================================================

// Store is the persistence surface for the referral tree.
type Store interface {
	// UplineChain returns the ordered ancestors of userID, level 1 first,
	// at most maxLevels of them.
	UplineChain(ctx context.Context, userID string, maxLevels int) ([]Link, error)

	// InsertReferralEdge adds one adjacency row.
	InsertReferralEdge(ctx context.Context, downlineID, uplineID string, level int) error
}

// =============================================================================
// READER
// =============================================================================

// Reader answers upline queries. Pure read, no side effects.
type Reader struct {
	Store Store
}

func NewReader(store Store) *Reader {
	return &Reader{Store: store}
}

// UplineChain resolves the ordered upline ancestors of a user. Returns
// fewer links when the chain terminates early. Levels are validated and
// capped defensively; the store query already bounds them, but the tree is
// external data and the engine must never loop or over-pay on bad rows.
func (r *Reader) UplineChain(ctx context.Context, userID string, maxLevels int) ([]Link, error) {
	if maxLevels <= 0 || maxLevels > MaxLevels {
		maxLevels = MaxLevels
	}

	links, err := r.Store.UplineChain(ctx, userID, maxLevels)
	if err != nil {
		return nil, fmt.Errorf("load upline chain: %w", err)
	}

	out := make([]Link, 0, len(links))
	seen := make(map[string]bool, len(links))
	for _, l := range links {
		if l.Level < 1 || l.Level > maxLevels {
			continue
		}
		if l.UplineUserID == userID || seen[l.UplineUserID] {
			// Cycle or duplicate row; skip rather than pay twice.
			continue
		}
		seen[l.UplineUserID] = true
		out = append(out, l)
		if len(out) == maxLevels {
			break
		}
	}
	return out, nil
}

// =============================================================================
// ATTACH - Signup-time tree maintenance
// =============================================================================

// Attach records uplineID as the direct referrer of downlineID and
// precomputes the deeper levels from the upline's own chain. Idempotency
// and one-referrer-per-user are enforced by the table's unique index.
func Attach(ctx context.Context, s Store, downlineID, uplineID string) error {
	if downlineID == uplineID {
		return fmt.Errorf("user %s cannot refer themselves", downlineID)
	}

	ancestors, err := s.UplineChain(ctx, uplineID, MaxLevels-1)
	if err != nil {
		return fmt.Errorf("load upline chain: %w", err)
	}
	for _, a := range ancestors {
		if a.UplineUserID == downlineID {
			// Attaching under one's own downline would close a cycle.
			return fmt.Errorf("user %s is already an upline of %s", downlineID, uplineID)
		}
	}

	if err := s.InsertReferralEdge(ctx, downlineID, uplineID, 1); err != nil {
		return fmt.Errorf("insert level-1 edge: %w", err)
	}
	for _, a := range ancestors {
		if err := s.InsertReferralEdge(ctx, downlineID, a.UplineUserID, a.Level+1); err != nil {
			return fmt.Errorf("insert level-%d edge: %w", a.Level+1, err)
		}
	}
	return nil
}
