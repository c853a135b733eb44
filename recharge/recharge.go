/*
Package recharge handles manual wallet top-ups.

PURPOSE:
  Users add funds by paying off-platform (bank/UPI) and submitting proof.
  The request waits in PENDING until an admin verifies the proof. Approval
  credits the wallet (RECHARGE_REQUEST entry) in the same transaction that
  flips the status; rejection records a reason and moves no money.

STATE MACHINE:
  PENDING -> APPROVED | REJECTED   (terminal)

  Same manual-verification shape as the order payment machine; the
  difference is the direction of the resulting ledger entry.

SEE ALSO:
  - payment/types.go: The sibling proof-verification machine
  - ledger/ledger.go: Apply
*/
package recharge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
)

// =============================================================================
// MODEL
// =============================================================================

// Status is the lifecycle state of a recharge request.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Terminal reports whether the status is write-once final.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request is one manual top-up request with its payment proof.
type Request struct {
	ID                   string
	UserID               string
	Amount               decimal.Decimal
	PaymentType          string
	TransactionReference string
	ProofURL             string
	Status               Status
	AdminComment         string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store is the persistence surface for recharge requests.
type Store interface {
	InsertRecharge(ctx context.Context, r Request) error
	GetRecharge(ctx context.Context, id string) (*Request, error)
	ResolveRecharge(ctx context.Context, id string, status Status, comment string) error
	ListRechargesByUser(ctx context.Context, userID string) ([]Request, error)
}

// =============================================================================
// SERVICE
// =============================================================================

// Service runs the recharge state machine.
type Service struct {
	Store ledger.TxStore
}

func NewService(store ledger.TxStore) *Service {
	return &Service{Store: store}
}

// Request creates a pending top-up. No money moves yet.
func (svc *Service) Request(ctx context.Context, userID string, amount decimal.Decimal, paymentType, txnRef, proofURL string) (*Request, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}

	now := time.Now().UTC()
	req := Request{
		ID:                   uuid.NewString(),
		UserID:               userID,
		Amount:               amount,
		PaymentType:          paymentType,
		TransactionReference: txnRef,
		ProofURL:             proofURL,
		Status:               StatusPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err := svc.Store.WithTx(ctx, func(s ledger.Store) error {
		rs, ok := s.(Store)
		if !ok {
			return ledger.ErrStoreRequired
		}
		return rs.InsertRecharge(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Approve verifies the proof and credits the wallet, atomically. A failed
// credit leaves the request PENDING.
func (svc *Service) Approve(ctx context.Context, requestID, adminComment string) error {
	return svc.Store.WithTx(ctx, func(s ledger.Store) error {
		rs, ok := s.(Store)
		if !ok {
			return ledger.ErrStoreRequired
		}

		req, err := loadRequest(ctx, rs, requestID)
		if err != nil {
			return err
		}
		if req.Status.Terminal() {
			return &ledger.InvalidStateTransitionError{
				Entity: "recharge_request",
				ID:     requestID,
				From:   string(req.Status),
				To:     string(StatusApproved),
			}
		}

		if err := rs.ResolveRecharge(ctx, requestID, StatusApproved, adminComment); err != nil {
			return fmt.Errorf("approve recharge: %w", err)
		}
		_, err = ledger.Apply(ctx, s, ledger.ApplyInput{
			UserID:      req.UserID,
			EntryType:   ledger.Credit,
			Amount:      req.Amount,
			Type:        ledger.TxRechargeRequest,
			Reference:   ledger.RechargeRef(req.ID),
			Description: "wallet recharge approved",
		})
		return err
	})
}

// Reject records the verdict with its required reason. No ledger effect.
func (svc *Service) Reject(ctx context.Context, requestID, adminComment string) error {
	if adminComment == "" {
		return ledger.ErrCommentRequired
	}

	return svc.Store.WithTx(ctx, func(s ledger.Store) error {
		rs, ok := s.(Store)
		if !ok {
			return ledger.ErrStoreRequired
		}

		req, err := loadRequest(ctx, rs, requestID)
		if err != nil {
			return err
		}
		if req.Status.Terminal() {
			return &ledger.InvalidStateTransitionError{
				Entity: "recharge_request",
				ID:     requestID,
				From:   string(req.Status),
				To:     string(StatusRejected),
			}
		}

		return rs.ResolveRecharge(ctx, requestID, StatusRejected, adminComment)
	})
}

// ByUser lists a user's recharge requests, newest first.
func (svc *Service) ByUser(ctx context.Context, userID string) ([]Request, error) {
	rs, ok := svc.Store.(Store)
	if !ok {
		return nil, ledger.ErrStoreRequired
	}
	return rs.ListRechargesByUser(ctx, userID)
}

func loadRequest(ctx context.Context, rs Store, requestID string) (*Request, error) {
	req, err := rs.GetRecharge(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load recharge: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: recharge %s", ledger.ErrNotFound, requestID)
	}
	return req, nil
}
