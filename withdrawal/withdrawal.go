/*
Package withdrawal governs payout requests.

PURPOSE:
  Users ask to move wallet funds to their bank. The request sits in
  REVIEW_PENDING until an admin approves or rejects it. While pending,
  the amount is held: moved from balance to locked_balance so it cannot
  be double-spent, but not yet ledger-debited - the money hasn't left.

STATE MACHINE:
  REVIEW_PENDING -> APPROVED | REJECTED   (terminal)

PRECONDITIONS (create):
  - amount >= configured minimum (default 50)
  - amount <= available balance
  - fewer than MaxPending (2) REVIEW_PENDING requests for the user

FEES:
  platform_fee = amount * feeRate
  net_amount   = amount - platform_fee
  Both computed and snapshotted at request time; a fee-rate change never
  touches an existing request.

MONEY MOVEMENT:
  create:  hold amount       (balance -> locked_balance, no ledger row)
  approve: release hold, DEBIT ledger entry for amount (WITHDRAWAL_REQUEST)
  reject:  release hold back to balance, no ledger row

SEE ALSO:
  - ledger/ledger.go: PlaceHold / ReleaseHold / Apply
*/
package withdrawal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
)

// MaxPending is how many REVIEW_PENDING requests a user may hold at once.
const MaxPending = 2

// =============================================================================
// MODEL
// =============================================================================

// Status is the lifecycle state of a withdrawal request.
type Status string

const (
	StatusReviewPending Status = "REVIEW_PENDING"
	StatusApproved      Status = "APPROVED"
	StatusRejected      Status = "REJECTED"
)

// Terminal reports whether the status is write-once final.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// BankDetails is a point-in-time snapshot of the payout destination, not a
// live reference. Later edits to the user's bank profile don't touch it.
type BankDetails struct {
	AccountName   string
	AccountNumber string
	BankName      string
	IFSC          string
}

// Request is one withdrawal request.
type Request struct {
	ID           string
	UserID       string
	Amount       decimal.Decimal
	BankDetails  BankDetails
	PlatformFee  decimal.Decimal
	NetAmount    decimal.Decimal
	Status       Status
	AdminComment string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// =============================================================================
// ERRORS
// =============================================================================

// BelowMinimumError details a withdrawal under the configured floor.
type BelowMinimumError struct {
	Requested decimal.Decimal
	Minimum   decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("withdrawal of %s is below the minimum of %s",
		e.Requested.String(), e.Minimum.String())
}

func (e *BelowMinimumError) Unwrap() error { return ledger.ErrBelowMinimum }

// PendingLimitExceededError details a user at the pending-request cap.
type PendingLimitExceededError struct {
	UserID  string
	Pending int
	Limit   int
}

func (e *PendingLimitExceededError) Error() string {
	return fmt.Sprintf("user %s already has %d pending withdrawal requests (limit %d)",
		e.UserID, e.Pending, e.Limit)
}

func (e *PendingLimitExceededError) Unwrap() error { return ledger.ErrPendingLimitExceeded }

// =============================================================================
// STORE
// =============================================================================

// Store is the persistence surface for withdrawal requests.
type Store interface {
	InsertWithdrawal(ctx context.Context, r Request) error
	GetWithdrawal(ctx context.Context, id string) (*Request, error)
	CountPendingWithdrawals(ctx context.Context, userID string) (int, error)
	ResolveWithdrawal(ctx context.Context, id string, status Status, comment string) error
	ListWithdrawalsByUser(ctx context.Context, userID string) ([]Request, error)
}

// =============================================================================
// SERVICE
// =============================================================================

// Config carries the tunable withdrawal parameters.
type Config struct {
	Minimum decimal.Decimal // smallest allowed withdrawal
	FeeRate decimal.Decimal // e.g. 0.015 for 1.5%
}

// DefaultConfig is the platform default: minimum 50, fee 1.5%.
func DefaultConfig() Config {
	return Config{
		Minimum: decimal.NewFromInt(50),
		FeeRate: decimal.NewFromFloat(0.015),
	}
}

// Service runs the withdrawal state machine.
type Service struct {
	Store  ledger.TxStore
	Config Config
}

func NewService(store ledger.TxStore, cfg Config) *Service {
	return &Service{Store: store, Config: cfg}
}

// RequestWithdrawal validates the preconditions, computes the fee, and
// creates the request with its hold in one transaction.
func (svc *Service) RequestWithdrawal(ctx context.Context, userID string, amount decimal.Decimal, bank BankDetails) (*Request, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if amount.LessThan(svc.Config.Minimum) {
		return nil, &BelowMinimumError{Requested: amount, Minimum: svc.Config.Minimum}
	}

	fee := amount.Mul(svc.Config.FeeRate).Round(2)
	now := time.Now().UTC()
	req := Request{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		BankDetails: bank,
		PlatformFee: fee,
		NetAmount:   amount.Sub(fee),
		Status:      StatusReviewPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := svc.Store.WithTx(ctx, func(s ledger.Store) error {
		ws, ok := s.(Store)
		if !ok {
			return ledger.ErrStoreRequired
		}

		pending, err := ws.CountPendingWithdrawals(ctx, userID)
		if err != nil {
			return fmt.Errorf("count pending withdrawals: %w", err)
		}
		if pending >= MaxPending {
			return &PendingLimitExceededError{UserID: userID, Pending: pending, Limit: MaxPending}
		}

		// The hold re-validates amount <= available balance.
		if err := ledger.PlaceHold(ctx, s, userID, amount); err != nil {
			return err
		}
		return ws.InsertWithdrawal(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Approve finalizes a pending request: the hold is released off the wallet
// and the DEBIT ledger entry for the full amount is written, atomically.
func (svc *Service) Approve(ctx context.Context, requestID, adminComment string) error {
	return svc.Store.WithTx(ctx, func(s ledger.Store) error {
		ws, ok := s.(Store)
		if !ok {
			return ledger.ErrStoreRequired
		}

		req, err := loadRequest(ctx, ws, requestID)
		if err != nil {
			return err
		}
		if req.Status.Terminal() {
			return &ledger.InvalidStateTransitionError{
				Entity: "withdrawal_request",
				ID:     requestID,
				From:   string(req.Status),
				To:     string(StatusApproved),
			}
		}

		// Release the hold into balance, then debit through the normal
		// entry path. Net effect on the wallet: locked_balance shrinks by
		// amount, balance is unchanged, and the DEBIT row carries honest
		// before/after values.
		if err := ledger.ReleaseHold(ctx, s, req.UserID, req.Amount, true); err != nil {
			return err
		}
		if _, err := ledger.Apply(ctx, s, ledger.ApplyInput{
			UserID:      req.UserID,
			EntryType:   ledger.Debit,
			Amount:      req.Amount,
			Type:        ledger.TxWithdrawalRequest,
			Reference:   ledger.WithdrawalRef(req.ID),
			Description: fmt.Sprintf("withdrawal approved (fee %s, net %s)", req.PlatformFee.String(), req.NetAmount.String()),
		}); err != nil {
			return err
		}
		return ws.ResolveWithdrawal(ctx, requestID, StatusApproved, adminComment)
	})
}

// Reject returns the hold to the spendable balance. A non-empty comment is
// required; no ledger entry is written because no funds ever left.
func (svc *Service) Reject(ctx context.Context, requestID, adminComment string) error {
	if adminComment == "" {
		return ledger.ErrCommentRequired
	}

	return svc.Store.WithTx(ctx, func(s ledger.Store) error {
		ws, ok := s.(Store)
		if !ok {
			return ledger.ErrStoreRequired
		}

		req, err := loadRequest(ctx, ws, requestID)
		if err != nil {
			return err
		}
		if req.Status.Terminal() {
			return &ledger.InvalidStateTransitionError{
				Entity: "withdrawal_request",
				ID:     requestID,
				From:   string(req.Status),
				To:     string(StatusRejected),
			}
		}

		if err := ledger.ReleaseHold(ctx, s, req.UserID, req.Amount, true); err != nil {
			return err
		}
		return ws.ResolveWithdrawal(ctx, requestID, StatusRejected, adminComment)
	})
}

// ByUser lists a user's withdrawal requests, newest first.
func (svc *Service) ByUser(ctx context.Context, userID string) ([]Request, error) {
	ws, ok := svc.Store.(Store)
	if !ok {
		return nil, ledger.ErrStoreRequired
	}
	return ws.ListWithdrawalsByUser(ctx, userID)
}

// Get returns one request by ID.
func (svc *Service) Get(ctx context.Context, requestID string) (*Request, error) {
	ws, ok := svc.Store.(Store)
	if !ok {
		return nil, ledger.ErrStoreRequired
	}
	return loadRequest(ctx, ws, requestID)
}

func loadRequest(ctx context.Context, ws Store, requestID string) (*Request, error) {
	req, err := ws.GetWithdrawal(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load withdrawal: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: withdrawal %s", ledger.ErrNotFound, requestID)
	}
	return req, nil
}
