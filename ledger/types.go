/*
Package ledger provides the wallet ledger core.

PURPOSE:
  This package contains the types and algorithms at the heart of the money
  subsystem: wallets, immutable ledger entries, and the rules for applying
  balance changes. Every rupee that moves on the platform - order payments,
  referral commissions, withdrawals, recharges, admin corrections - moves
  through an Entry recorded here.

KEY CONCEPTS IN THIS FILE (types.go):
  - Wallet: Per-user balance plus a locked (held) component
  - Entry: An immutable ledger row recording one balance change
  - Reference: A typed link from an entry to the record that caused it
  - EntryType / TransactionType: The CREDIT-DEBIT axis and the business axis

DESIGN PRINCIPLES:
  1. Immutability: Entries are never modified, only reversed
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Traceability: Every entry carries balance_before/balance_after and a
     typed reference to its originating order, recharge, or withdrawal
  4. Wallets are derived: Balance is only ever mutated by applying an entry
     or moving a hold - never written directly by callers

USAGE:
  e, err := ledger.Apply(ctx, store, ledger.ApplyInput{
      UserID:    "user-42",
      EntryType: ledger.Credit,
      Amount:    decimal.NewFromInt(100),
      Type:      ledger.TxReferralCommission,
      Reference: ledger.OrderRef("ord-1"),
  })

SEE ALSO:
  - ledger.go: Entry application and reversal
  - store.go: Persistence interfaces
  - errors.go: Error taxonomy
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WALLET - Per-user balance state
// =============================================================================

// Wallet holds a user's spendable and locked balances.
//
// INVARIANTS:
//   - Balance >= 0 and LockedBalance >= 0 at all times.
//   - Mutated only through Apply, Reverse, PlaceHold, ReleaseHold.
type Wallet struct {
	UserID        string
	Balance       decimal.Decimal
	LockedBalance decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Available returns the spendable balance. Held funds are not spendable.
func (w *Wallet) Available() decimal.Decimal {
	return w.Balance
}

// Total returns spendable plus held funds.
func (w *Wallet) Total() decimal.Decimal {
	return w.Balance.Add(w.LockedBalance)
}

// =============================================================================
// ENTRY AXES - Direction and business meaning
// =============================================================================

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	Credit EntryType = "CREDIT"
	Debit  EntryType = "DEBIT"
)

// TransactionType is the business event behind a ledger entry.
type TransactionType string

const (
	TxRechargeRequest    TransactionType = "RECHARGE_REQUEST"
	TxWithdrawalRequest  TransactionType = "WITHDRAWAL_REQUEST"
	TxReferralCommission TransactionType = "REFERRAL_COMMISSION"
	TxAdminAdjustment    TransactionType = "ADMIN_ADJUSTMENT"
	TxReversal           TransactionType = "REVERSAL"
	TxOrderPayment       TransactionType = "ORDER_PAYMENT"
)

// EntryStatus is the lifecycle state of an entry. SUCCESS entries that are
// later undone flip to REVERSED; the amount and balances never change.
type EntryStatus string

const (
	StatusSuccess  EntryStatus = "SUCCESS"
	StatusFailed   EntryStatus = "FAILED"
	StatusReversed EntryStatus = "REVERSED"
)

// =============================================================================
// REFERENCE - Typed link to the originating record
// =============================================================================

// RefKind identifies which table a Reference points into.
type RefKind string

const (
	RefOrder      RefKind = "orders"
	RefRecharge   RefKind = "recharge_requests"
	RefWithdrawal RefKind = "withdrawal_requests"
	RefEntry      RefKind = "wallet_transactions"
	RefAdmin      RefKind = "admin"
)

// Reference links a ledger entry to the record that caused it. This replaces
// the untyped table-name+id pair with a closed set of kinds.
type Reference struct {
	Kind RefKind
	ID   string
}

func OrderRef(id string) Reference      { return Reference{Kind: RefOrder, ID: id} }
func RechargeRef(id string) Reference   { return Reference{Kind: RefRecharge, ID: id} }
func WithdrawalRef(id string) Reference { return Reference{Kind: RefWithdrawal, ID: id} }
func EntryRef(id string) Reference      { return Reference{Kind: RefEntry, ID: id} }
func AdminRef(id string) Reference      { return Reference{Kind: RefAdmin, ID: id} }

func (r Reference) IsZero() bool { return r.Kind == "" && r.ID == "" }

// =============================================================================
// ENTRY - Atomic change to a wallet balance
// =============================================================================

// Entry is one immutable row of the wallet transaction log.
//
// INVARIANTS:
//   - Amount > 0
//   - BalanceAfter = BalanceBefore + Amount (CREDIT)
//     BalanceAfter = BalanceBefore - Amount (DEBIT)
//   - Never updated or deleted; a correction is a new REVERSAL entry
//     referencing the original, which in turn flips to StatusReversed.
type Entry struct {
	ID            string
	WalletUserID  string
	EntryType     EntryType
	Type          TransactionType
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Status        EntryStatus
	Reference     Reference
	Description   string
	CreatedAt     time.Time
}

// =============================================================================
// LISTING - Read-side filters for the transaction view
// =============================================================================

// EntryFilter narrows the transaction listing. Zero values mean "any".
type EntryFilter struct {
	UserID    string
	EntryType EntryType
	Type      TransactionType
	Status    EntryStatus
}

// Page bounds a listing query.
type Page struct {
	Limit  int
	Offset int
}

// MustParseDecimal parses s, returning zero on malformed input. Used when
// loading amounts the store itself wrote.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
