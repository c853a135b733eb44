/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts cross the wire as strings ("100.00"), never floats. They are
  parsed into shopspring decimals at the handler boundary and stay exact
  from there down.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/commission"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/payment"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/recharge"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/withdrawal"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CreateUserRequest registers a user's wallet, optionally under a referrer.
type CreateUserRequest struct {
	UserID     string `json:"user_id"`
	ReferrerID string `json:"referrer_id,omitempty"`
}

// WalletDTO represents a wallet in API responses.
type WalletDTO struct {
	UserID        string `json:"user_id"`
	Balance       string `json:"balance"`
	LockedBalance string `json:"locked_balance"`
	Available     string `json:"available"`
	Total         string `json:"total"`
	UpdatedAt     string `json:"updated_at"`
}

// TransactionDTO represents one ledger entry.
type TransactionDTO struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	EntryType     string `json:"entry_type"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	BalanceBefore string `json:"balance_before"`
	BalanceAfter  string `json:"balance_after"`
	Status        string `json:"status"`
	ReferenceKind string `json:"reference_kind,omitempty"`
	ReferenceID   string `json:"reference_id,omitempty"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// TransactionListDTO is the paginated transaction history response.
type TransactionListDTO struct {
	Transactions []TransactionDTO `json:"transactions"`
	Total        int              `json:"total"`
	Limit        int              `json:"limit"`
	Offset       int              `json:"offset"`
}

// CreateOrderRequest is the request to place an order.
type CreateOrderRequest struct {
	UserID        string `json:"user_id"`
	TotalAmount   string `json:"total_amount"`
	ShippingCost  string `json:"shipping_cost,omitempty"`
	PaymentMethod string `json:"payment_method"`
	OrderType     string `json:"order_type,omitempty"`

	// Manual payment proof fields (required for MANUAL).
	PaymentType          string `json:"payment_type,omitempty"`
	TransactionReference string `json:"transaction_reference,omitempty"`
	ProofURL             string `json:"proof_url,omitempty"`
}

// OrderDTO represents an order in API responses.
type OrderDTO struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	TotalAmount   string           `json:"total_amount"`
	ShippingCost  string           `json:"shipping_cost"`
	PaymentMethod string           `json:"payment_method"`
	PaymentStatus string           `json:"payment_status"`
	OrderType     string           `json:"order_type"`
	Status        string           `json:"status"`
	CreatedAt     string           `json:"created_at"`
	Payment       *OrderPaymentDTO `json:"payment,omitempty"`
}

// OrderPaymentDTO represents a manual payment verification record.
type OrderPaymentDTO struct {
	OrderID              string `json:"order_id"`
	PaymentType          string `json:"payment_type,omitempty"`
	TransactionReference string `json:"transaction_reference,omitempty"`
	ProofURL             string `json:"proof_url,omitempty"`
	Status               string `json:"status"`
	AdminComment         string `json:"admin_comment,omitempty"`
	UpdatedAt            string `json:"updated_at"`
}

// ResolveRequest carries the admin comment for approve/reject actions.
type ResolveRequest struct {
	AdminComment string `json:"admin_comment,omitempty"`
}

// CreateWithdrawalRequest is the request to withdraw funds.
type CreateWithdrawalRequest struct {
	UserID        string `json:"user_id"`
	Amount        string `json:"amount"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	IFSC          string `json:"ifsc"`
}

// WithdrawalDTO represents a withdrawal request.
type WithdrawalDTO struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Amount        string `json:"amount"`
	PlatformFee   string `json:"platform_fee"`
	NetAmount     string `json:"net_amount"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	Status        string `json:"status"`
	AdminComment  string `json:"admin_comment,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// CreateRechargeRequest is the request to top up a wallet.
type CreateRechargeRequest struct {
	UserID               string `json:"user_id"`
	Amount               string `json:"amount"`
	PaymentType          string `json:"payment_type,omitempty"`
	TransactionReference string `json:"transaction_reference,omitempty"`
	ProofURL             string `json:"proof_url,omitempty"`
}

// RechargeDTO represents a recharge request.
type RechargeDTO struct {
	ID                   string `json:"id"`
	UserID               string `json:"user_id"`
	Amount               string `json:"amount"`
	PaymentType          string `json:"payment_type,omitempty"`
	TransactionReference string `json:"transaction_reference,omitempty"`
	ProofURL             string `json:"proof_url,omitempty"`
	Status               string `json:"status"`
	AdminComment         string `json:"admin_comment,omitempty"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

// AdjustmentRequest is the request to make a manual balance adjustment.
type AdjustmentRequest struct {
	UserID      string `json:"user_id"`
	EntryType   string `json:"entry_type"`
	Amount      string `json:"amount"`
	AdminID     string `json:"admin_id"`
	Description string `json:"description"`
}

// ReverseRequest is the request to reverse a ledger entry.
type ReverseRequest struct {
	Reason string `json:"reason"`
}

// CommissionRateDTO represents one level's commission rate.
type CommissionRateDTO struct {
	Level    int    `json:"level"`
	Percent  string `json:"percent"`
	IsActive bool   `json:"is_active"`
}

// DistributionDTO represents one commission payout record.
type DistributionDTO struct {
	ID                string `json:"id"`
	OrderID           string `json:"order_id"`
	BeneficiaryUserID string `json:"beneficiary_user_id"`
	Level             int    `json:"level"`
	Amount            string `json:"amount"`
	CreatedAt         string `json:"created_at"`
}

// UplineDTO represents one ancestor in a user's referral chain.
type UplineDTO struct {
	UplineUserID string `json:"upline_user_id"`
	Level        int    `json:"level"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toWalletDTO(w *ledger.Wallet) WalletDTO {
	return WalletDTO{
		UserID:        w.UserID,
		Balance:       w.Balance.StringFixed(2),
		LockedBalance: w.LockedBalance.StringFixed(2),
		Available:     w.Available().StringFixed(2),
		Total:         w.Total().StringFixed(2),
		UpdatedAt:     w.UpdatedAt.Format(time.RFC3339),
	}
}

func toTransactionDTO(e ledger.Entry) TransactionDTO {
	return TransactionDTO{
		ID:            e.ID,
		UserID:        e.WalletUserID,
		EntryType:     string(e.EntryType),
		Type:          string(e.Type),
		Amount:        e.Amount.StringFixed(2),
		BalanceBefore: e.BalanceBefore.StringFixed(2),
		BalanceAfter:  e.BalanceAfter.StringFixed(2),
		Status:        string(e.Status),
		ReferenceKind: string(e.Reference.Kind),
		ReferenceID:   e.Reference.ID,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

func toOrderDTO(o *payment.Order, p *payment.OrderPayment) OrderDTO {
	dto := OrderDTO{
		ID:            o.ID,
		UserID:        o.UserID,
		TotalAmount:   o.TotalAmount.StringFixed(2),
		ShippingCost:  o.ShippingCost.StringFixed(2),
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		OrderType:     string(o.OrderType),
		Status:        o.Status,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	if p != nil {
		dto.Payment = &OrderPaymentDTO{
			OrderID:              p.OrderID,
			PaymentType:          p.PaymentType,
			TransactionReference: p.TransactionReference,
			ProofURL:             p.ProofURL,
			Status:               string(p.Status),
			AdminComment:         p.AdminComment,
			UpdatedAt:            p.UpdatedAt.Format(time.RFC3339),
		}
	}
	return dto
}

func toWithdrawalDTO(r withdrawal.Request) WithdrawalDTO {
	return WithdrawalDTO{
		ID:            r.ID,
		UserID:        r.UserID,
		Amount:        r.Amount.StringFixed(2),
		PlatformFee:   r.PlatformFee.StringFixed(2),
		NetAmount:     r.NetAmount.StringFixed(2),
		AccountName:   r.BankDetails.AccountName,
		AccountNumber: r.BankDetails.AccountNumber,
		BankName:      r.BankDetails.BankName,
		IFSC:          r.BankDetails.IFSC,
		Status:        string(r.Status),
		AdminComment:  r.AdminComment,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}

func toRechargeDTO(r recharge.Request) RechargeDTO {
	return RechargeDTO{
		ID:                   r.ID,
		UserID:               r.UserID,
		Amount:               r.Amount.StringFixed(2),
		PaymentType:          r.PaymentType,
		TransactionReference: r.TransactionReference,
		ProofURL:             r.ProofURL,
		Status:               string(r.Status),
		AdminComment:         r.AdminComment,
		CreatedAt:            r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            r.UpdatedAt.Format(time.RFC3339),
	}
}

func toDistributionDTO(d commission.DistributionRecord) DistributionDTO {
	return DistributionDTO{
		ID:                d.ID,
		OrderID:           d.OrderID,
		BeneficiaryUserID: d.BeneficiaryUserID,
		Level:             d.Level,
		Amount:            d.Amount.StringFixed(2),
		CreatedAt:         d.CreatedAt.Format(time.RFC3339),
	}
}
