/*
store.go - Persistence interface for wallets and ledger entries

PURPOSE:
  Defines the interface between the money core and the database. The Store
  exposes the minimum surface the engine needs; everything above it (balance
  math, invariant checks, reversal rules) lives in domain code.

KEY INTERFACES:
  Store:   Wallet reads/writes and entry persistence
  TxStore: Store plus WithTx for atomic multi-table units

APPEND-ONLY CONTRACT:
  wallet_transactions is append-only with ONE exception: MarkEntryReversed
  may flip status SUCCESS -> REVERSED. Amounts and balances are never
  touched after insert. Corrections are new REVERSAL entries.

TRANSACTIONS:
  Every money-mutating operation runs inside WithTx. The store passed to the
  closure writes through the open database transaction; a returned error
  rolls the whole unit back. Operations that touch several wallets (an order
  debit plus up to six commission credits) commit as one unit or not at all.

EXTENDED STORES:
  Domain packages (payment, withdrawal, recharge, referral, commission)
  declare their own store interfaces. The SQLite store implements all of
  them on one type, so domain code type-asserts the closure store to the
  interface it needs and fails with ErrStoreRequired otherwise.

SEE ALSO:
  - ledger.go: Entry application built on Store
  - store/sqlite/sqlite.go: Concrete implementation
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STORE - Wallet and entry persistence
// =============================================================================

// Store handles persistence of wallets and ledger entries.
type Store interface {
	// GetWallet returns the wallet for a user, or nil if none exists.
	GetWallet(ctx context.Context, userID string) (*Wallet, error)

	// CreateWallet creates an empty wallet for a user.
	CreateWallet(ctx context.Context, userID string) error

	// UpdateWalletBalances writes both balance components. Only the ledger
	// engine calls this; handlers and services never do.
	UpdateWalletBalances(ctx context.Context, userID string, balance, locked decimal.Decimal) error

	// InsertEntry appends one ledger row. Never updates.
	InsertEntry(ctx context.Context, e Entry) error

	// GetEntry returns an entry by ID, or nil if none exists.
	GetEntry(ctx context.Context, id string) (*Entry, error)

	// MarkEntryReversed flips an entry's status to REVERSED. The single
	// permitted mutation of a committed entry.
	MarkEntryReversed(ctx context.Context, id string) error

	// ListEntries returns entries matching the filter, newest first, plus
	// the total match count for pagination.
	ListEntries(ctx context.Context, f EntryFilter, p Page) ([]Entry, int, error)
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a database transaction. fn receives a Store
	// bound to that transaction; an error from fn rolls everything back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
