/*
handlers.go - HTTP API handlers for the wallet and commission system

PURPOSE:
  Exposes the wallet engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Users:
    POST   /api/users                        Register wallet (+ optional referrer)
    GET    /api/users/{id}/wallet            Wallet balances
    GET    /api/users/{id}/transactions      Paginated ledger history
    GET    /api/users/{id}/upline            Referral ancestor chain
    GET    /api/users/{id}/withdrawals       Withdrawal history
    GET    /api/users/{id}/recharges         Recharge history

  Orders:
    POST   /api/orders                       Place order (WALLET or MANUAL)
    GET    /api/orders/{id}                  Order + payment record
    GET    /api/orders/{id}/commissions      Commission payouts for an order
    POST   /api/orders/{id}/payment/approve  Admin: approve manual payment
    POST   /api/orders/{id}/payment/reject   Admin: reject manual payment

  Withdrawals:
    POST   /api/withdrawals                  Request withdrawal
    GET    /api/withdrawals/{id}             Get request
    POST   /api/withdrawals/{id}/approve     Admin: approve (money leaves)
    POST   /api/withdrawals/{id}/reject      Admin: reject (hold released)

  Recharges:
    POST   /api/recharges                    Request top-up
    POST   /api/recharges/{id}/approve       Admin: approve (wallet credited)
    POST   /api/recharges/{id}/reject        Admin: reject

  Admin:
    POST   /api/admin/adjustments            Manual balance correction
    POST   /api/admin/transactions/{id}/reverse  Reverse a ledger entry
    GET    /api/admin/commission-config      Current per-level rates
    PUT    /api/admin/commission-config      Update one level's rate
    POST   /api/admin/orders/{id}/distribute Retry a failed distribution

ERROR HANDLING:
  Domain errors map to HTTP status via their sentinel:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (terminal state transitions)
  - 422: Insufficient funds
  - 500: Internal errors

SECURITY NOTE:
  Admin routes carry no authentication here; the deployment is expected
  to put them behind a gateway that authenticates the admin role.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/commission"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/payment"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/recharge"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/referral"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/store/sqlite"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/withdrawal"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store       *sqlite.Store
	Ledger      *ledger.Ledger
	Payments    *payment.Service
	Withdrawals *withdrawal.Service
	Recharges   *recharge.Service
	Engine      *commission.Engine
	Policy      *commission.Policy
	Referrals   *referral.Reader
}

// NewHandler wires a handler around the store and withdrawal config.
func NewHandler(store *sqlite.Store, cfg withdrawal.Config) *Handler {
	engine := commission.NewEngine()
	return &Handler{
		Store:       store,
		Ledger:      ledger.NewLedger(store),
		Payments:    payment.NewService(store, engine),
		Withdrawals: withdrawal.NewService(store, cfg),
		Recharges:   recharge.NewService(store),
		Engine:      engine,
		Policy:      commission.NewPolicy(store),
		Referrals:   referral.NewReader(store),
	}
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// CreateUser registers a wallet and, when referrer_id is given, attaches
// the user into the referrer's tree. Both happen in one transaction.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	ctx := r.Context()
	err := h.Store.WithTx(ctx, func(s ledger.Store) error {
		existing, err := s.GetWallet(ctx, req.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ledger.ErrInvalidStateTransition
		}
		if err := s.CreateWallet(ctx, req.UserID); err != nil {
			return err
		}
		if req.ReferrerID == "" {
			return nil
		}
		rs, ok := s.(referral.Store)
		if !ok {
			return ledger.ErrStoreRequired
		}
		return referral.Attach(ctx, rs, req.UserID, req.ReferrerID)
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidStateTransition) {
			writeError(w, http.StatusConflict, "User already has a wallet", nil)
			return
		}
		writeDomainError(w, "Failed to create user", err)
		return
	}

	wallet, err := h.Ledger.Wallet(ctx, req.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load wallet", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWalletDTO(wallet))
}

// GetWallet returns a user's wallet balances.
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	wallet, err := h.Ledger.Wallet(r.Context(), userID)
	if err != nil {
		writeDomainError(w, "Failed to get wallet", err)
		return
	}
	writeJSON(w, http.StatusOK, toWalletDTO(wallet))
}

// GetTransactions returns paginated ledger history for a user.
// Query params: entry_type, type, status, limit, offset.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	q := r.URL.Query()

	filter := ledger.EntryFilter{
		UserID:    userID,
		EntryType: ledger.EntryType(q.Get("entry_type")),
		Type:      ledger.TransactionType(q.Get("type")),
		Status:    ledger.EntryStatus(q.Get("status")),
	}
	page := ledger.Page{
		Limit:  queryInt(q.Get("limit"), 50),
		Offset: queryInt(q.Get("offset"), 0),
	}

	entries, total, err := h.Ledger.Transactions(r.Context(), filter, page)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transactions", err)
		return
	}

	dtos := make([]TransactionDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toTransactionDTO(e)
	}
	writeJSON(w, http.StatusOK, TransactionListDTO{
		Transactions: dtos,
		Total:        total,
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
}

// GetUpline returns the user's referral ancestor chain, nearest first.
func (h *Handler) GetUpline(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	links, err := h.Referrals.UplineChain(r.Context(), userID, referral.MaxLevels)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get upline chain", err)
		return
	}

	dtos := make([]UplineDTO, len(links))
	for i, l := range links {
		dtos[i] = UplineDTO{UplineUserID: l.UplineUserID, Level: l.Level}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListUserWithdrawals returns a user's withdrawal history.
func (h *Handler) ListUserWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	reqs, err := h.Withdrawals.ByUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, "Failed to list withdrawals", err)
		return
	}

	dtos := make([]WithdrawalDTO, len(reqs))
	for i, req := range reqs {
		dtos[i] = toWithdrawalDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListUserRecharges returns a user's recharge history.
func (h *Handler) ListUserRecharges(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	reqs, err := h.Recharges.ByUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, "Failed to list recharges", err)
		return
	}

	dtos := make([]RechargeDTO, len(reqs))
	for i, req := range reqs {
		dtos[i] = toRechargeDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ORDER HANDLERS
// =============================================================================

// CreateOrder places an order. WALLET orders settle immediately (debit +
// commission fan-out in one transaction); MANUAL orders wait for admin
// verification.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	total, err := parseAmount(req.TotalAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid total_amount", err)
		return
	}
	shipping := decimal.Zero
	if req.ShippingCost != "" {
		shipping, err = parseAmount(req.ShippingCost)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid shipping_cost", err)
			return
		}
	}

	orderType := payment.OrderType(req.OrderType)
	if orderType == "" {
		orderType = payment.OrderProductPurchase
	}

	order, err := h.Payments.CreateOrder(r.Context(), payment.CreateOrderInput{
		UserID:               req.UserID,
		TotalAmount:          total,
		ShippingCost:         shipping,
		PaymentMethod:        payment.PaymentMethod(req.PaymentMethod),
		OrderType:            orderType,
		PaymentType:          req.PaymentType,
		TransactionReference: req.TransactionReference,
		ProofURL:             req.ProofURL,
	})
	if err != nil {
		writeDomainError(w, "Failed to create order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDTO(order, nil))
}

// GetOrder returns an order with its manual payment record, if any.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, pay, err := h.Payments.GetOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, "Failed to get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(order, pay))
}

// GetOrderCommissions returns the commission payout records for an order.
func (h *Handler) GetOrderCommissions(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	recs, err := h.Store.DistributionsByOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get distributions", err)
		return
	}

	dtos := make([]DistributionDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toDistributionDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ApprovePayment approves a manual payment. Marking the order PAID and
// distributing commissions commit together.
func (h *Handler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req ResolveRequest
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.Payments.ApprovePayment(r.Context(), orderID, req.AdminComment); err != nil {
		writeDomainError(w, "Failed to approve payment", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": orderID, "status": "approved"})
}

// RejectPayment rejects a manual payment. Requires a comment; no ledger
// effect.
func (h *Handler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req ResolveRequest
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.Payments.RejectPayment(r.Context(), orderID, req.AdminComment); err != nil {
		writeDomainError(w, "Failed to reject payment", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": orderID, "status": "rejected"})
}

// =============================================================================
// WITHDRAWAL HANDLERS
// =============================================================================

// CreateWithdrawal places a withdrawal request and locks the amount.
func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req CreateWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	wr, err := h.Withdrawals.RequestWithdrawal(r.Context(), req.UserID, amount, withdrawal.BankDetails{
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		IFSC:          req.IFSC,
	})
	if err != nil {
		writeDomainError(w, "Failed to request withdrawal", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWithdrawalDTO(*wr))
}

// GetWithdrawal returns one withdrawal request.
func (h *Handler) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wr, err := h.Withdrawals.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get withdrawal", err)
		return
	}
	writeJSON(w, http.StatusOK, toWithdrawalDTO(*wr))
}

// ApproveWithdrawal approves a withdrawal: the held amount leaves the
// wallet and the DEBIT entry is written.
func (h *Handler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ResolveRequest
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.Withdrawals.Approve(r.Context(), id, req.AdminComment); err != nil {
		writeDomainError(w, "Failed to approve withdrawal", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"withdrawal_id": id, "status": "approved"})
}

// RejectWithdrawal rejects a withdrawal and releases the hold back to the
// spendable balance.
func (h *Handler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ResolveRequest
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.Withdrawals.Reject(r.Context(), id, req.AdminComment); err != nil {
		writeDomainError(w, "Failed to reject withdrawal", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"withdrawal_id": id, "status": "rejected"})
}

// =============================================================================
// RECHARGE HANDLERS
// =============================================================================

// CreateRecharge places a top-up request. Nothing is credited until an
// admin approves.
func (h *Handler) CreateRecharge(w http.ResponseWriter, r *http.Request) {
	var req CreateRechargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	rr, err := h.Recharges.Request(r.Context(), req.UserID, amount,
		req.PaymentType, req.TransactionReference, req.ProofURL)
	if err != nil {
		writeDomainError(w, "Failed to request recharge", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRechargeDTO(*rr))
}

// ApproveRecharge approves a recharge and credits the wallet.
func (h *Handler) ApproveRecharge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ResolveRequest
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.Recharges.Approve(r.Context(), id, req.AdminComment); err != nil {
		writeDomainError(w, "Failed to approve recharge", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recharge_id": id, "status": "approved"})
}

// RejectRecharge rejects a recharge. Requires a comment; no ledger effect.
func (h *Handler) RejectRecharge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ResolveRequest
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.Recharges.Reject(r.Context(), id, req.AdminComment); err != nil {
		writeDomainError(w, "Failed to reject recharge", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recharge_id": id, "status": "rejected"})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// CreateAdjustment applies a manual admin balance correction.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	entryType := ledger.EntryType(req.EntryType)
	if entryType != ledger.Credit && entryType != ledger.Debit {
		writeError(w, http.StatusBadRequest, "entry_type must be CREDIT or DEBIT", nil)
		return
	}

	entry, err := h.Ledger.Adjust(r.Context(), req.UserID, entryType, amount, req.AdminID, req.Description)
	if err != nil {
		writeDomainError(w, "Failed to apply adjustment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(*entry))
}

// ReverseTransaction reverses a committed ledger entry with an offsetting
// entry.
func (h *Handler) ReverseTransaction(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	var req ReverseRequest
	json.NewDecoder(r.Body).Decode(&req)

	entry, err := h.Ledger.Reverse(r.Context(), entryID, req.Reason)
	if err != nil {
		writeDomainError(w, "Failed to reverse transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(*entry))
}

// GetCommissionConfig returns the per-level commission rates.
func (h *Handler) GetCommissionConfig(w http.ResponseWriter, r *http.Request) {
	rates, err := h.Policy.Rates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get commission config", err)
		return
	}

	dtos := make([]CommissionRateDTO, len(rates))
	for i, rate := range rates {
		dtos[i] = CommissionRateDTO{
			Level:    rate.Level,
			Percent:  rate.Percent.String(),
			IsActive: rate.IsActive,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SetCommissionRate updates one level's rate. Takes effect for future
// distributions only.
func (h *Handler) SetCommissionRate(w http.ResponseWriter, r *http.Request) {
	var req CommissionRateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	percent, err := decimal.NewFromString(req.Percent)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid percent", err)
		return
	}

	if err := h.Policy.SetRate(r.Context(), req.Level, percent, req.IsActive); err != nil {
		writeDomainError(w, "Failed to set commission rate", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"level": req.Level, "percent": req.Percent})
}

// DistributeOrder retries commission distribution for a paid order.
// Already-distributed orders succeed without effect.
func (h *Handler) DistributeOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	if err := h.Engine.Distribute(r.Context(), h.Store, orderID); err != nil {
		writeDomainError(w, "Failed to distribute commissions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": orderID, "status": "distributed"})
}

// ResetDatabase clears all data (dev only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, ledger.ErrInvalidAmount
	}
	return decimal.NewFromString(s)
}

func queryInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain sentinels to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case ledger.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
