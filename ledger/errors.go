/*
errors.go - Centralized error types for the money core

PURPOSE:
  All sentinel errors for the wallet subsystem in one place. Domain packages
  (withdrawal, payment, recharge) wrap these with structured context.

ERROR CATEGORIES:
  1. Balance errors - Debits or holds that would breach the >= 0 invariant
  2. State machine errors - Re-terminating a terminal record
  3. Validation errors - Rejected before any lock or transaction is opened
  4. Store errors - Missing rows, extended-interface requirements

USAGE:
  Domain packages wrap sentinels with context:

    if errors.Is(err, ledger.ErrInsufficientFunds) {
        // map to HTTP 422
    }

SEE ALSO:
  - ledger.go: Uses these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInsufficientFunds is returned when a debit or hold would drive a
	// wallet balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidStateTransition is returned when approving or rejecting a
	// record that is already in a terminal state.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrBelowMinimum is returned when a withdrawal amount is under the
	// configured minimum.
	ErrBelowMinimum = errors.New("amount below minimum")

	// ErrPendingLimitExceeded is returned when a user already has the maximum
	// number of pending withdrawal requests.
	ErrPendingLimitExceeded = errors.New("pending request limit exceeded")

	// ErrInvalidAmount is returned for zero or negative amounts. Rejected
	// before any transaction is opened.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrCommentRequired is returned when a rejection is missing its reason.
	ErrCommentRequired = errors.New("comment is required")

	// ErrWalletNotFound is returned when a referenced wallet doesn't exist.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrEntryNotFound is returned when a referenced ledger entry doesn't exist.
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrAlreadyReversed is returned when reversing an entry twice.
	ErrAlreadyReversed = errors.New("entry already reversed")

	// ErrNotFound is returned when a referenced domain record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrStoreRequired is returned when an operation needs a store capability
	// the supplied store doesn't implement.
	ErrStoreRequired = errors.New("operation requires extended store interface")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientFundsError details a balance shortage.
type InsufficientFundsError struct {
	UserID    string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %s: available %s, requested %s",
		e.UserID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// InvalidStateTransitionError details an attempted transition out of a
// terminal state.
type InvalidStateTransitionError struct {
	Entity string // "order_payment", "withdrawal_request", "recharge_request"
	ID     string
	From   string
	To     string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot transition %s -> %s", e.Entity, e.ID, e.From, e.To)
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrCommentRequired) ||
		errors.Is(err, ErrBelowMinimum) ||
		errors.Is(err, ErrPendingLimitExceeded)
}

// IsConflict returns true if the error is a state conflict (safe to surface
// as HTTP 409).
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidStateTransition) ||
		errors.Is(err, ErrAlreadyReversed)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWalletNotFound) ||
		errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrNotFound)
}
