/*
Package commission computes and distributes multi-level referral payouts.

PURPOSE:
  When a purchase is finalized, a percentage of its value goes to each of
  the purchaser's upline referrers, up to six levels deep. This package
  holds the per-level rate policy and the engine that fans credits out to
  the chain.

POLICY MODEL (this file):
  commission_config holds one row per level: (level, percent, is_active).
  The engine reads the active rates fresh inside each distribution
  transaction, so an admin rate change applies to the next qualifying
  order and never retroactively. Inactive or absent levels contribute
  nothing.

SEE ALSO:
  - engine.go: The distribution algorithm
  - store/sqlite/sqlite.go: commission_config persistence
*/
package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE CONFIGURATION
// =============================================================================

// Rate is one level's configuration row.
type Rate struct {
	Level     int
	Percent   decimal.Decimal
	IsActive  bool
	UpdatedAt time.Time
}

// ConfigStore is the persistence surface for rate configuration.
type ConfigStore interface {
	// ActiveRates returns percent by level for active levels only.
	ActiveRates(ctx context.Context) (map[int]decimal.Decimal, error)

	// ListRates returns every configured level, active or not.
	ListRates(ctx context.Context) ([]Rate, error)

	// SetRate upserts one level's configuration.
	SetRate(ctx context.Context, level int, percent decimal.Decimal, active bool) error
}

// =============================================================================
// POLICY - Admin-facing configuration surface
// =============================================================================

// Policy wraps the config store with validation. The engine itself reads
// ActiveRates directly off its transaction-bound store; Policy exists for
// the admin console.
type Policy struct {
	Store ConfigStore
}

func NewPolicy(store ConfigStore) *Policy {
	return &Policy{Store: store}
}

// Rates returns the full configuration table.
func (p *Policy) Rates(ctx context.Context) ([]Rate, error) {
	return p.Store.ListRates(ctx)
}

// SetRate validates and stores one level's rate.
func (p *Policy) SetRate(ctx context.Context, level int, percent decimal.Decimal, active bool) error {
	if level < 1 || level > MaxLevels {
		return fmt.Errorf("level must be between 1 and %d, got %d", MaxLevels, level)
	}
	if percent.IsNegative() {
		return fmt.Errorf("percent must be non-negative, got %s", percent.String())
	}
	return p.Store.SetRate(ctx, level, percent, active)
}
