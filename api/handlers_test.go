package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/api"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/store/sqlite"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/withdrawal"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := api.NewHandler(store, withdrawal.DefaultConfig())
	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func registerUser(t *testing.T, srv *httptest.Server, userID, referrerID string) {
	resp, _ := doJSON(t, srv, http.MethodPost, "/api/users",
		map[string]string{"user_id": userID, "referrer_id": referrerID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func fundUser(t *testing.T, srv *httptest.Server, userID, amount string) {
	resp, _ := doJSON(t, srv, http.MethodPost, "/api/admin/adjustments", map[string]string{
		"user_id":     userID,
		"entry_type":  "CREDIT",
		"amount":      amount,
		"admin_id":    "admin-1",
		"description": "test funding",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func setRate(t *testing.T, srv *httptest.Server, level int, percent string) {
	resp, _ := doJSON(t, srv, http.MethodPut, "/api/admin/commission-config",
		map[string]any{"level": level, "percent": percent, "is_active": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// USER AND WALLET TESTS
// =============================================================================

func TestRegisterUser_ThenReadWallet(t *testing.T) {
	// GIVEN: A fresh server
	// WHEN: A user registers and reads their wallet
	// THEN: 201 on register, zero balances on read

	srv := newTestServer(t)
	registerUser(t, srv, "alice", "")

	resp, body := doJSON(t, srv, http.MethodGet, "/api/users/alice/wallet", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["user_id"])
	assert.Equal(t, "0.00", body["balance"])
	assert.Equal(t, "0.00", body["locked_balance"])
}

func TestRegisterUser_Duplicate_Conflicts(t *testing.T) {
	// GIVEN: A registered user
	// WHEN: The same ID registers again
	// THEN: 409

	srv := newTestServer(t)
	registerUser(t, srv, "alice", "")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/users", map[string]string{"user_id": "alice"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetWallet_Missing_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/users/nobody/wallet", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransactions_Paginated(t *testing.T) {
	// GIVEN: A user with three adjustments
	// WHEN: Listing with limit=2
	// THEN: Two rows and total=3

	srv := newTestServer(t)
	registerUser(t, srv, "alice", "")
	for i := 0; i < 3; i++ {
		fundUser(t, srv, "alice", "10")
	}

	resp, body := doJSON(t, srv, http.MethodGet, "/api/users/alice/transactions?limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["transactions"], 2)
	assert.EqualValues(t, 3, body["total"])
}

// =============================================================================
// ORDER AND COMMISSION TESTS
// =============================================================================

func TestWalletOrder_DebitsAndPaysUpline(t *testing.T) {
	// GIVEN: referrer <- buyer with a 10% level-1 rate, buyer funded
	// WHEN: The buyer places a 500 WALLET order
	// THEN: Buyer is debited, referrer earns 50.00, order shows the payout

	srv := newTestServer(t)
	registerUser(t, srv, "referrer", "")
	registerUser(t, srv, "buyer", "referrer")
	fundUser(t, srv, "buyer", "1000")
	setRate(t, srv, 1, "10")

	resp, order := doJSON(t, srv, http.MethodPost, "/api/orders", map[string]string{
		"user_id":        "buyer",
		"total_amount":   "500",
		"payment_method": "WALLET",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PAID", order["payment_status"])

	_, buyer := doJSON(t, srv, http.MethodGet, "/api/users/buyer/wallet", nil)
	assert.Equal(t, "500.00", buyer["balance"])

	_, ref := doJSON(t, srv, http.MethodGet, "/api/users/referrer/wallet", nil)
	assert.Equal(t, "50.00", ref["balance"])

	orderID := order["id"].(string)
	commResp, err := srv.Client().Get(srv.URL + "/api/orders/" + orderID + "/commissions")
	require.NoError(t, err)
	defer commResp.Body.Close()
	var payouts []map[string]any
	require.NoError(t, json.NewDecoder(commResp.Body).Decode(&payouts))
	require.Len(t, payouts, 1)
	assert.Equal(t, "referrer", payouts[0]["beneficiary_user_id"])
	assert.Equal(t, "50.00", payouts[0]["amount"])
}

func TestWalletOrder_InsufficientFunds_Unprocessable(t *testing.T) {
	// GIVEN: A buyer with 10 in the wallet
	// WHEN: Placing a 500 WALLET order
	// THEN: 422 and the balance is untouched

	srv := newTestServer(t)
	registerUser(t, srv, "buyer", "")
	fundUser(t, srv, "buyer", "10")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/orders", map[string]string{
		"user_id":        "buyer",
		"total_amount":   "500",
		"payment_method": "WALLET",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	_, wallet := doJSON(t, srv, http.MethodGet, "/api/users/buyer/wallet", nil)
	assert.Equal(t, "10.00", wallet["balance"])
}

func TestManualOrder_ApproveOnce(t *testing.T) {
	// GIVEN: A MANUAL order awaiting verification
	// WHEN: An admin approves it twice
	// THEN: First approve is 200, second is 409

	srv := newTestServer(t)
	registerUser(t, srv, "buyer", "")

	resp, order := doJSON(t, srv, http.MethodPost, "/api/orders", map[string]string{
		"user_id":               "buyer",
		"total_amount":          "500",
		"payment_method":        "MANUAL",
		"payment_type":          "UPI",
		"transaction_reference": "TXN-123",
		"proof_url":             "https://proofs.example/1.png",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PENDING", order["payment_status"])
	orderID := order["id"].(string)

	approve := fmt.Sprintf("/api/orders/%s/payment/approve", orderID)
	resp, _ = doJSON(t, srv, http.MethodPost, approve, map[string]string{"admin_comment": "proof ok"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, approve, map[string]string{"admin_comment": "again"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRejectPayment_WithoutReason_BadRequest(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "buyer", "")

	_, order := doJSON(t, srv, http.MethodPost, "/api/orders", map[string]string{
		"user_id":               "buyer",
		"total_amount":          "500",
		"payment_method":        "MANUAL",
		"payment_type":          "UPI",
		"transaction_reference": "TXN-123",
		"proof_url":             "https://proofs.example/1.png",
	})
	orderID := order["id"].(string)

	resp, _ := doJSON(t, srv, http.MethodPost,
		fmt.Sprintf("/api/orders/%s/payment/reject", orderID), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// WITHDRAWAL AND RECHARGE TESTS
// =============================================================================

func TestWithdrawal_RequestApproveFlow(t *testing.T) {
	// GIVEN: A funded user
	// WHEN: They request 100 and an admin approves
	// THEN: Fee and net are snapshotted, funds leave on approval

	srv := newTestServer(t)
	registerUser(t, srv, "alice", "")
	fundUser(t, srv, "alice", "1000")

	resp, wd := doJSON(t, srv, http.MethodPost, "/api/withdrawals", map[string]string{
		"user_id":        "alice",
		"amount":         "100",
		"account_name":   "Alice",
		"account_number": "1234567890",
		"bank_name":      "Test Bank",
		"ifsc":           "TEST0001",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "1.50", wd["platform_fee"])
	assert.Equal(t, "98.50", wd["net_amount"])

	_, wallet := doJSON(t, srv, http.MethodGet, "/api/users/alice/wallet", nil)
	assert.Equal(t, "100.00", wallet["locked_balance"])

	resp, _ = doJSON(t, srv, http.MethodPost,
		fmt.Sprintf("/api/withdrawals/%s/approve", wd["id"]),
		map[string]string{"admin_comment": "paid via NEFT"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, wallet = doJSON(t, srv, http.MethodGet, "/api/users/alice/wallet", nil)
	assert.Equal(t, "900.00", wallet["balance"])
	assert.Equal(t, "0.00", wallet["locked_balance"])
}

func TestWithdrawal_BelowMinimum_BadRequest(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice", "")
	fundUser(t, srv, "alice", "1000")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/withdrawals", map[string]string{
		"user_id":        "alice",
		"amount":         "5",
		"account_name":   "Alice",
		"account_number": "1234567890",
		"bank_name":      "Test Bank",
		"ifsc":           "TEST0001",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecharge_ApproveCreditsWallet(t *testing.T) {
	// GIVEN: A user with a pending 250 recharge
	// WHEN: An admin approves it
	// THEN: The wallet shows 250

	srv := newTestServer(t)
	registerUser(t, srv, "alice", "")

	resp, rc := doJSON(t, srv, http.MethodPost, "/api/recharges", map[string]string{
		"user_id":               "alice",
		"amount":                "250",
		"payment_type":          "BANK_TRANSFER",
		"transaction_reference": "UTR-9",
		"proof_url":             "https://proofs.example/slip.png",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PENDING", rc["status"])

	resp, _ = doJSON(t, srv, http.MethodPost,
		fmt.Sprintf("/api/recharges/%s/approve", rc["id"]),
		map[string]string{"admin_comment": "verified"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, wallet := doJSON(t, srv, http.MethodGet, "/api/users/alice/wallet", nil)
	assert.Equal(t, "250.00", wallet["balance"])
}

// =============================================================================
// ADMIN TESTS
// =============================================================================

func TestAdjustment_InvalidEntryType_BadRequest(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice", "")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/admin/adjustments", map[string]string{
		"user_id":    "alice",
		"entry_type": "SIDEWAYS",
		"amount":     "10",
		"admin_id":   "admin-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReverseTransaction_FlipsBalance(t *testing.T) {
	// GIVEN: A 100 credit adjustment
	// WHEN: An admin reverses it
	// THEN: The balance returns to zero and the reversal is a DEBIT

	srv := newTestServer(t)
	registerUser(t, srv, "alice", "")

	resp, entry := doJSON(t, srv, http.MethodPost, "/api/admin/adjustments", map[string]string{
		"user_id":     "alice",
		"entry_type":  "CREDIT",
		"amount":      "100",
		"admin_id":    "admin-1",
		"description": "promo credit",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, rev := doJSON(t, srv, http.MethodPost,
		fmt.Sprintf("/api/admin/transactions/%s/reverse", entry["id"]),
		map[string]string{"reason": "entered twice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "DEBIT", rev["entry_type"])

	_, wallet := doJSON(t, srv, http.MethodGet, "/api/users/alice/wallet", nil)
	assert.Equal(t, "0.00", wallet["balance"])
}

func TestDistributeOrder_Replay_OK(t *testing.T) {
	// GIVEN: A paid, already-distributed order
	// WHEN: The admin retries distribution
	// THEN: 200 and the referrer is not paid twice

	srv := newTestServer(t)
	registerUser(t, srv, "referrer", "")
	registerUser(t, srv, "buyer", "referrer")
	fundUser(t, srv, "buyer", "1000")
	setRate(t, srv, 1, "10")

	_, order := doJSON(t, srv, http.MethodPost, "/api/orders", map[string]string{
		"user_id":        "buyer",
		"total_amount":   "500",
		"payment_method": "WALLET",
	})

	resp, _ := doJSON(t, srv, http.MethodPost,
		fmt.Sprintf("/api/admin/orders/%s/distribute", order["id"]), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, ref := doJSON(t, srv, http.MethodGet, "/api/users/referrer/wallet", nil)
	assert.Equal(t, "50.00", ref["balance"])
}
