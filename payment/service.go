/*
service.go - Order creation and manual payment verification

PURPOSE:
  Orchestrates the order-side money flows. Each public operation opens one
  database transaction and either commits a complete unit or leaves no
  trace:

  CreateOrder (WALLET):  order row + purchaser DEBIT + commission fan-out
  CreateOrder (MANUAL):  order row (PENDING) + proof record
  ApprovePayment:        proof APPROVED + order PAID + commission fan-out
  RejectPayment:         proof REJECTED + order FAILED (no ledger effect)

FAILURE SEMANTICS:
  Any error inside the unit rolls the whole transaction back. A wallet
  order that fails mid-distribution leaves no order row and no debit.
  An approval that fails mid-distribution leaves the proof PENDING.

SEE ALSO:
  - types.go: Order and OrderPayment models, the PaymentApproved event
  - commission/engine.go: DistributionHandler wired in by cmd/server
*/
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service runs the order payment flows.
type Service struct {
	Store        ledger.TxStore
	Distribution DistributionHandler
}

func NewService(store ledger.TxStore, dist DistributionHandler) *Service {
	return &Service{Store: store, Distribution: dist}
}

// CreateOrderInput is the order-creation request from the order service.
type CreateOrderInput struct {
	UserID        string
	TotalAmount   decimal.Decimal
	ShippingCost  decimal.Decimal
	PaymentMethod PaymentMethod
	OrderType     OrderType

	// Manual payment proof; required when PaymentMethod is MANUAL.
	PaymentType          string
	TransactionReference string
	ProofURL             string
}

// CreateOrder persists a new order.
//
// WALLET method: the purchaser's debit, the order row, and every upline
// commission credit commit as one transaction. Insufficient funds fails
// before anything is persisted - no order row survives.
//
// MANUAL method: the order waits in PENDING alongside its proof record;
// no money moves until an admin approves.
func (svc *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if !in.TotalAmount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if in.ShippingCost.IsNegative() {
		return nil, ledger.ErrInvalidAmount
	}
	switch in.PaymentMethod {
	case MethodWallet, MethodManual:
	default:
		return nil, fmt.Errorf("unknown payment method %q", in.PaymentMethod)
	}
	if in.OrderType == "" {
		in.OrderType = OrderProductPurchase
	}

	now := time.Now().UTC()
	order := Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		TotalAmount:   in.TotalAmount,
		ShippingCost:  in.ShippingCost,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: PaymentPending,
		OrderType:     in.OrderType,
		Status:        "created",
		CreatedAt:     now,
	}
	if in.PaymentMethod == MethodWallet {
		order.PaymentStatus = PaymentPaid
	}

	err := svc.Store.WithTx(ctx, func(s ledger.Store) error {
		ps, ok := s.(Store)
		if !ok {
			return ledger.ErrStoreRequired
		}

		if err := ps.InsertOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		switch in.PaymentMethod {
		case MethodWallet:
			if _, err := ledger.Apply(ctx, s, ledger.ApplyInput{
				UserID:      in.UserID,
				EntryType:   ledger.Debit,
				Amount:      in.TotalAmount,
				Type:        ledger.TxOrderPayment,
				Reference:   ledger.OrderRef(order.ID),
				Description: "order payment",
			}); err != nil {
				return err
			}
			return svc.Distribution.HandlePaymentApproved(ctx, s, PaymentApproved{
				OrderID:     order.ID,
				PurchaserID: in.UserID,
				TotalAmount: in.TotalAmount,
			})

		case MethodManual:
			return ps.InsertOrderPayment(ctx, OrderPayment{
				OrderID:              order.ID,
				PaymentType:          in.PaymentType,
				TransactionReference: in.TransactionReference,
				ProofURL:             in.ProofURL,
				Status:               VerificationPending,
				CreatedAt:            now,
				UpdatedAt:            now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ApprovePayment approves a manual order's payment proof. In one
// transaction: the proof flips to APPROVED, the order to PAID, and the
// PaymentApproved event runs the commission fan-out. Any failure leaves
// the proof PENDING.
func (svc *Service) ApprovePayment(ctx context.Context, orderID, adminComment string) error {
	return svc.Store.WithTx(ctx, func(s ledger.Store) error {
		ps, ok := s.(Store)
		if !ok {
			return ledger.ErrStoreRequired
		}

		order, op, err := loadManualOrder(ctx, ps, orderID)
		if err != nil {
			return err
		}
		if op.Status.Terminal() {
			return &ledger.InvalidStateTransitionError{
				Entity: "order_payment",
				ID:     orderID,
				From:   string(op.Status),
				To:     string(VerificationApproved),
			}
		}

		if err := ps.ResolveOrderPayment(ctx, orderID, VerificationApproved, adminComment); err != nil {
			return fmt.Errorf("approve payment: %w", err)
		}
		if err := ps.SetOrderPaymentStatus(ctx, orderID, PaymentPaid); err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}

		return svc.Distribution.HandlePaymentApproved(ctx, s, PaymentApproved{
			OrderID:     order.ID,
			PurchaserID: order.UserID,
			TotalAmount: order.TotalAmount,
		})
	})
}

// RejectPayment rejects a manual order's payment proof. The proof flips to
// REJECTED and the order to FAILED. No ledger effect: the wallet was never
// debited for a pending manual order.
func (svc *Service) RejectPayment(ctx context.Context, orderID, reason string) error {
	if reason == "" {
		return ledger.ErrCommentRequired
	}

	return svc.Store.WithTx(ctx, func(s ledger.Store) error {
		ps, ok := s.(Store)
		if !ok {
			return ledger.ErrStoreRequired
		}

		_, op, err := loadManualOrder(ctx, ps, orderID)
		if err != nil {
			return err
		}
		if op.Status.Terminal() {
			return &ledger.InvalidStateTransitionError{
				Entity: "order_payment",
				ID:     orderID,
				From:   string(op.Status),
				To:     string(VerificationRejected),
			}
		}

		if err := ps.ResolveOrderPayment(ctx, orderID, VerificationRejected, reason); err != nil {
			return fmt.Errorf("reject payment: %w", err)
		}
		return ps.SetOrderPaymentStatus(ctx, orderID, PaymentFailed)
	})
}

// GetOrder returns an order with its payment record, if any.
func (svc *Service) GetOrder(ctx context.Context, orderID string) (*Order, *OrderPayment, error) {
	ps, ok := svc.Store.(Store)
	if !ok {
		return nil, nil, ledger.ErrStoreRequired
	}
	order, err := ps.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, fmt.Errorf("%w: order %s", ledger.ErrNotFound, orderID)
	}
	op, err := ps.GetOrderPayment(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, op, nil
}

func loadManualOrder(ctx context.Context, ps Store, orderID string) (*Order, *OrderPayment, error) {
	order, err := ps.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, nil, fmt.Errorf("%w: order %s", ledger.ErrNotFound, orderID)
	}
	if order.PaymentMethod != MethodManual {
		return nil, nil, fmt.Errorf("order %s is not a manual-payment order", orderID)
	}

	op, err := ps.GetOrderPayment(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("load order payment: %w", err)
	}
	if op == nil {
		return nil, nil, fmt.Errorf("%w: payment record for order %s", ledger.ErrNotFound, orderID)
	}
	return order, op, nil
}
