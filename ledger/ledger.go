/*
ledger.go - Entry application, reversal, and holds

PURPOSE:
  The only code allowed to move money. Apply turns a validated request into
  a wallet balance update plus one immutable ledger row, inside the caller's
  transaction. Reverse issues the offsetting entry for a committed one.
  PlaceHold/ReleaseHold shift funds between the spendable and locked
  components without ledger rows - a hold is a reservation, not a movement.

CRITICAL INVARIANTS:
  1. BalanceAfter = BalanceBefore +/- Amount, per entry direction
  2. Balance and LockedBalance never go negative; a breaching DEBIT fails
     with InsufficientFundsError and nothing is written
  3. Wallet update and ledger row land in the same transaction
  4. Committed entries are never edited; corrections are REVERSAL entries

CORRECTIONS:
  If a mistake is made, you don't edit the entry. Instead:
  1. Reverse creates an offsetting entry (CREDIT undoes DEBIT and vice versa)
  2. The original flips status SUCCESS -> REVERSED
  3. Both rows remain in the ledger; history is preserved

EXAMPLE FLOW:
  1. Order paid from wallet:  DEBIT 1000 (ORDER_PAYMENT)
  2. Upline commission:       CREDIT 50  (REFERRAL_COMMISSION)
  3. Operator error found:    CREDIT 50 reversed -> DEBIT 50 (REVERSAL)

SEE ALSO:
  - store.go: Persistence interface
  - commission/engine.go: Fan-out built on Apply
  - withdrawal/withdrawal.go: Holds built on PlaceHold/ReleaseHold
*/
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// APPLY - The single write path for balances
// =============================================================================

// ApplyInput describes one balance change.
type ApplyInput struct {
	UserID      string
	EntryType   EntryType
	Amount      decimal.Decimal
	Type        TransactionType
	Reference   Reference
	Description string
}

// Apply records one balance change: it locks in the current balance as
// balance_before, computes balance_after, updates the wallet, and appends
// the ledger row - all through the store the caller supplies, so a
// surrounding WithTx makes the whole unit atomic.
//
// A DEBIT that would drive the balance below zero fails with
// *InsufficientFundsError. Callers are expected to pre-check, but Apply
// re-validates; the ledger is the last line of defense.
func Apply(ctx context.Context, s Store, in ApplyInput) (*Entry, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if in.EntryType != Credit && in.EntryType != Debit {
		return nil, fmt.Errorf("unknown entry type %q", in.EntryType)
	}

	w, err := s.GetWallet(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, in.UserID)
	}

	before := w.Balance
	var after decimal.Decimal
	switch in.EntryType {
	case Credit:
		after = before.Add(in.Amount)
	case Debit:
		after = before.Sub(in.Amount)
		if after.IsNegative() {
			return nil, &InsufficientFundsError{
				UserID:    in.UserID,
				Available: before,
				Requested: in.Amount,
			}
		}
	}

	e := Entry{
		ID:            uuid.NewString(),
		WalletUserID:  in.UserID,
		EntryType:     in.EntryType,
		Type:          in.Type,
		Amount:        in.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Status:        StatusSuccess,
		Reference:     in.Reference,
		Description:   in.Description,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.UpdateWalletBalances(ctx, in.UserID, after, w.LockedBalance); err != nil {
		return nil, fmt.Errorf("update wallet: %w", err)
	}
	if err := s.InsertEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("append entry: %w", err)
	}

	return &e, nil
}

// =============================================================================
// REVERSE - Offsetting entry for a committed one
// =============================================================================

// Reverse undoes a committed entry by applying an offsetting entry of the
// opposite direction and marking the original REVERSED. The original row's
// amount and balances are never altered. Reversing an already-reversed
// entry fails with ErrAlreadyReversed.
func Reverse(ctx context.Context, s Store, entryID, reason string) (*Entry, error) {
	orig, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if orig == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	if orig.Status == StatusReversed {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyReversed, entryID)
	}

	opposite := Debit
	if orig.EntryType == Debit {
		opposite = Credit
	}

	rev, err := Apply(ctx, s, ApplyInput{
		UserID:      orig.WalletUserID,
		EntryType:   opposite,
		Amount:      orig.Amount,
		Type:        TxReversal,
		Reference:   EntryRef(orig.ID),
		Description: reason,
	})
	if err != nil {
		return nil, err
	}

	if err := s.MarkEntryReversed(ctx, orig.ID); err != nil {
		return nil, fmt.Errorf("mark reversed: %w", err)
	}

	return rev, nil
}

// =============================================================================
// HOLDS - Reservations against pending withdrawals
// =============================================================================

// PlaceHold moves amount from balance to locked_balance. No ledger row is
// written: held funds haven't left the wallet, they're just unspendable.
func PlaceHold(ctx context.Context, s Store, userID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	w, err := s.GetWallet(ctx, userID)
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}
	if w == nil {
		return fmt.Errorf("%w: %s", ErrWalletNotFound, userID)
	}

	newBalance := w.Balance.Sub(amount)
	if newBalance.IsNegative() {
		return &InsufficientFundsError{UserID: userID, Available: w.Balance, Requested: amount}
	}

	return s.UpdateWalletBalances(ctx, userID, newBalance, w.LockedBalance.Add(amount))
}

// ReleaseHold removes amount from locked_balance. When toBalance is true
// the funds return to the spendable balance (rejection); when false they
// leave the wallet entirely and the caller is responsible for the matching
// DEBIT entry (approval).
func ReleaseHold(ctx context.Context, s Store, userID string, amount decimal.Decimal, toBalance bool) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	w, err := s.GetWallet(ctx, userID)
	if err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}
	if w == nil {
		return fmt.Errorf("%w: %s", ErrWalletNotFound, userID)
	}

	newLocked := w.LockedBalance.Sub(amount)
	if newLocked.IsNegative() {
		return fmt.Errorf("release exceeds held funds for user %s: held %s, releasing %s",
			userID, w.LockedBalance.String(), amount.String())
	}

	newBalance := w.Balance
	if toBalance {
		newBalance = newBalance.Add(amount)
	}

	return s.UpdateWalletBalances(ctx, userID, newBalance, newLocked)
}

// =============================================================================
// LEDGER SERVICE - Transaction-owning convenience surface
// =============================================================================

// Ledger is the high-level surface for callers that don't already hold a
// transaction: admin adjustments, reversals, and the read-side listing.
type Ledger struct {
	Store TxStore
}

func NewLedger(store TxStore) *Ledger {
	return &Ledger{Store: store}
}

// Adjust applies a manual admin correction as a single-entry transaction.
func (l *Ledger) Adjust(ctx context.Context, userID string, entryType EntryType, amount decimal.Decimal, adminID, description string) (*Entry, error) {
	var entry *Entry
	err := l.Store.WithTx(ctx, func(s Store) error {
		e, err := Apply(ctx, s, ApplyInput{
			UserID:      userID,
			EntryType:   entryType,
			Amount:      amount,
			Type:        TxAdminAdjustment,
			Reference:   AdminRef(adminID),
			Description: description,
		})
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	return entry, err
}

// Reverse undoes a committed entry in its own transaction.
func (l *Ledger) Reverse(ctx context.Context, entryID, reason string) (*Entry, error) {
	if reason == "" {
		return nil, ErrCommentRequired
	}
	var entry *Entry
	err := l.Store.WithTx(ctx, func(s Store) error {
		e, err := Reverse(ctx, s, entryID, reason)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	return entry, err
}

// Transactions is the paginated read-side view of the ledger.
func (l *Ledger) Transactions(ctx context.Context, f EntryFilter, p Page) ([]Entry, int, error) {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	return l.Store.ListEntries(ctx, f, p)
}

// Wallet returns a user's wallet, or ErrWalletNotFound.
func (l *Ledger) Wallet(ctx context.Context, userID string) (*Wallet, error) {
	w, err := l.Store.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, userID)
	}
	return w, nil
}
