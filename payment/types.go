/*
Package payment owns orders and the manual payment verification machine.

PURPOSE:
  Two payment paths converge here:

  WALLET:  The purchaser's wallet is debited at order creation, inside the
           same transaction that persists the order and fans out
           commissions. Insufficient funds means no order row at all.

  MANUAL:  The purchaser pays off-platform (bank/UPI) and uploads proof.
           The order waits in PENDING until an admin approves the proof,
           which flips the order to PAID and triggers distribution - or
           rejects it, which flips the order to FAILED with no ledger
           effect (the wallet was never debited).

STATE MACHINES:
  Order.PaymentStatus:   PENDING -> PAID | FAILED   (never reopened)
  OrderPayment.Status:   PENDING -> APPROVED | REJECTED   (terminal)

DOMAIN EVENT:
  Approval emits PaymentApproved, consumed synchronously by the
  distribution engine inside the same transaction. The engine is injected
  behind the DistributionHandler interface so this package carries no
  knowledge of commission math.

SEE ALSO:
  - service.go: Order creation and the approve/reject operations
  - commission/engine.go: The DistributionHandler implementation
*/
package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
)

// =============================================================================
// ORDER
// =============================================================================

// PaymentMethod is how an order is paid.
type PaymentMethod string

const (
	MethodWallet PaymentMethod = "WALLET"
	MethodManual PaymentMethod = "MANUAL"
)

// PaymentStatus is the money side of an order's lifecycle, independent of
// fulfillment. Transitions at most once: PENDING -> PAID or PENDING -> FAILED.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// OrderType distinguishes regular purchases from account activations.
// Both qualify for commission distribution.
type OrderType string

const (
	OrderProductPurchase OrderType = "PRODUCT_PURCHASE"
	OrderActivation      OrderType = "ACTIVATION"
)

// Order is a purchase record. TotalAmount is the commissionable value.
type Order struct {
	ID            string
	UserID        string
	TotalAmount   decimal.Decimal
	ShippingCost  decimal.Decimal
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	OrderType     OrderType
	Status        string // fulfillment lifecycle, out of scope for the money core
	CreatedAt     time.Time
}

// =============================================================================
// ORDER PAYMENT - Proof-of-payment record for MANUAL orders
// =============================================================================

// VerificationStatus is the admin verdict on a manual payment proof.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// Terminal reports whether the status is write-once final.
func (s VerificationStatus) Terminal() bool {
	return s == VerificationApproved || s == VerificationRejected
}

// OrderPayment is the one-per-manual-order proof record.
type OrderPayment struct {
	OrderID              string
	PaymentType          string // "bank_transfer", "upi", ...
	TransactionReference string
	ProofURL             string
	Status               VerificationStatus
	AdminComment         string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// =============================================================================
// DOMAIN EVENT
// =============================================================================

// PaymentApproved is emitted when an order's payment is finalized, inside
// the transaction that finalized it.
type PaymentApproved struct {
	OrderID     string
	PurchaserID string
	TotalAmount decimal.Decimal
}

// DistributionHandler consumes PaymentApproved synchronously. An error
// aborts the emitting transaction, so a failed distribution also unwinds
// the approval (and, for wallet orders, the order itself).
type DistributionHandler interface {
	HandlePaymentApproved(ctx context.Context, s ledger.Store, evt PaymentApproved) error
}

// =============================================================================
// STORE
// =============================================================================

// Store is the persistence surface for orders and their payment records.
// The SQLite store implements it alongside ledger.Store on the same
// transaction-bound type.
type Store interface {
	InsertOrder(ctx context.Context, o Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	SetOrderPaymentStatus(ctx context.Context, id string, status PaymentStatus) error

	InsertOrderPayment(ctx context.Context, p OrderPayment) error
	GetOrderPayment(ctx context.Context, orderID string) (*OrderPayment, error)
	ResolveOrderPayment(ctx context.Context, orderID string, status VerificationStatus, comment string) error
}
