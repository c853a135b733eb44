package payment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/commission"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/payment"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/referral"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*payment.Service, *sqlite.Store) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return payment.NewService(store, commission.NewEngine()), store
}

func fundWallet(t *testing.T, store *sqlite.Store, userID, amount string) {
	ctx := context.Background()
	require.NoError(t, store.CreateWallet(ctx, userID))
	if amount != "" {
		l := ledger.NewLedger(store)
		_, err := l.Adjust(ctx, userID, ledger.Credit, ledger.MustParseDecimal(amount), "admin-1", "test funding")
		require.NoError(t, err)
	}
}

func newManualOrder(t *testing.T, svc *payment.Service, userID, amount string) *payment.Order {
	order, err := svc.CreateOrder(context.Background(), payment.CreateOrderInput{
		UserID:               userID,
		TotalAmount:          ledger.MustParseDecimal(amount),
		PaymentMethod:        payment.MethodManual,
		PaymentType:          "UPI",
		TransactionReference: "TXN-123",
		ProofURL:             "https://proofs.example/1.png",
	})
	require.NoError(t, err)
	return order
}

// =============================================================================
// WALLET ORDER TESTS
// =============================================================================

func TestCreateOrder_Wallet_DebitsAndSettles(t *testing.T) {
	// GIVEN: A purchaser with 1000 in their wallet
	// WHEN: Placing a 600 wallet order
	// THEN: Order is PAID immediately and the wallet shows the debit

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "buyer", "1000")

	order, err := svc.CreateOrder(ctx, payment.CreateOrderInput{
		UserID:        "buyer",
		TotalAmount:   ledger.MustParseDecimal("600"),
		PaymentMethod: payment.MethodWallet,
	})
	require.NoError(t, err)
	assert.Equal(t, payment.PaymentPaid, order.PaymentStatus)

	w, err := store.GetWallet(ctx, "buyer")
	require.NoError(t, err)
	assert.Equal(t, "400.00", w.Balance.StringFixed(2))

	entries, _, err := store.ListEntries(ctx,
		ledger.EntryFilter{UserID: "buyer", Type: ledger.TxOrderPayment}, ledger.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.Debit, entries[0].EntryType)
	assert.Equal(t, order.ID, entries[0].Reference.ID)
}

func TestCreateOrder_Wallet_InsufficientFunds_NoOrderRow(t *testing.T) {
	// GIVEN: A purchaser with 100
	// WHEN: Placing a 600 wallet order
	// THEN: InsufficientFundsError and no order row survives

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "buyer", "100")

	order, err := svc.CreateOrder(ctx, payment.CreateOrderInput{
		UserID:        "buyer",
		TotalAmount:   ledger.MustParseDecimal("600"),
		PaymentMethod: payment.MethodWallet,
	})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.Nil(t, order)

	w, err := store.GetWallet(ctx, "buyer")
	require.NoError(t, err)
	assert.Equal(t, "100.00", w.Balance.StringFixed(2))
}

func TestCreateOrder_InvalidInput_Rejected(t *testing.T) {
	// GIVEN: The payment service
	// WHEN: Submitting a zero amount or unknown method
	// THEN: Both fail before any transaction opens

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "buyer", "100")

	_, err := svc.CreateOrder(ctx, payment.CreateOrderInput{
		UserID:        "buyer",
		TotalAmount:   ledger.MustParseDecimal("0"),
		PaymentMethod: payment.MethodWallet,
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = svc.CreateOrder(ctx, payment.CreateOrderInput{
		UserID:        "buyer",
		TotalAmount:   ledger.MustParseDecimal("10"),
		PaymentMethod: "CASH_ON_DELIVERY",
	})
	assert.Error(t, err)
}

// =============================================================================
// MANUAL PAYMENT VERIFICATION TESTS
// =============================================================================

func TestManualOrder_PendingUntilApproved(t *testing.T) {
	// GIVEN: A manual order with proof attached
	// WHEN: Nothing else happens
	// THEN: Order is PENDING, proof is PENDING, wallet untouched

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "buyer", "1000")

	order := newManualOrder(t, svc, "buyer", "600")

	got, op, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.PaymentPending, got.PaymentStatus)
	require.NotNil(t, op)
	assert.Equal(t, payment.VerificationPending, op.Status)
	assert.Equal(t, "UPI", op.PaymentType)

	w, err := store.GetWallet(ctx, "buyer")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", w.Balance.StringFixed(2))
}

func TestApprovePayment_MarksPaidAndDistributes(t *testing.T) {
	// GIVEN: buyer referred by ref1; level 1 pays 10%; a pending manual order
	// WHEN: An admin approves the payment
	// THEN: Order flips to PAID and the upline commission lands, atomically

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "ref1", "")
	fundWallet(t, store, "buyer", "")
	require.NoError(t, referral.Attach(ctx, store, "buyer", "ref1"))
	require.NoError(t, store.SetRate(ctx, 1, ledger.MustParseDecimal("10"), true))

	order := newManualOrder(t, svc, "buyer", "500")

	require.NoError(t, svc.ApprovePayment(ctx, order.ID, "looks good"))

	got, op, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, payment.VerificationApproved, op.Status)
	assert.Equal(t, "looks good", op.AdminComment)

	w, err := store.GetWallet(ctx, "ref1")
	require.NoError(t, err)
	assert.Equal(t, "50.00", w.Balance.StringFixed(2))

	recs, err := store.DistributionsByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestApprovePayment_Terminal_Rejected(t *testing.T) {
	// GIVEN: An already-approved manual payment
	// WHEN: Approving it again
	// THEN: InvalidStateTransitionError and no second distribution

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "ref1", "")
	fundWallet(t, store, "buyer", "")
	require.NoError(t, referral.Attach(ctx, store, "buyer", "ref1"))
	require.NoError(t, store.SetRate(ctx, 1, ledger.MustParseDecimal("10"), true))

	order := newManualOrder(t, svc, "buyer", "500")
	require.NoError(t, svc.ApprovePayment(ctx, order.ID, "ok"))

	err := svc.ApprovePayment(ctx, order.ID, "again")
	assert.ErrorIs(t, err, ledger.ErrInvalidStateTransition)

	w, err := store.GetWallet(ctx, "ref1")
	require.NoError(t, err)
	assert.Equal(t, "50.00", w.Balance.StringFixed(2), "commission must not double")
}

func TestRejectPayment_RequiresReason(t *testing.T) {
	// GIVEN: A pending manual payment
	// WHEN: Rejecting without a comment
	// THEN: ErrCommentRequired; proof stays PENDING

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "buyer", "")

	order := newManualOrder(t, svc, "buyer", "500")

	err := svc.RejectPayment(ctx, order.ID, "")
	assert.ErrorIs(t, err, ledger.ErrCommentRequired)

	_, op, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.VerificationPending, op.Status)
}

func TestRejectPayment_FailsOrderWithoutLedgerEffect(t *testing.T) {
	// GIVEN: A pending manual payment
	// WHEN: An admin rejects it with a reason
	// THEN: Proof REJECTED, order FAILED, zero ledger entries

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "buyer", "")

	order := newManualOrder(t, svc, "buyer", "500")

	require.NoError(t, svc.RejectPayment(ctx, order.ID, "proof is unreadable"))

	got, op, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.PaymentFailed, got.PaymentStatus)
	assert.Equal(t, payment.VerificationRejected, op.Status)
	assert.Equal(t, "proof is unreadable", op.AdminComment)

	_, total, err := store.ListEntries(ctx, ledger.EntryFilter{UserID: "buyer"}, ledger.Page{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestApprovePayment_AfterRejection_Rejected(t *testing.T) {
	// GIVEN: A rejected manual payment
	// WHEN: Approving it afterwards
	// THEN: InvalidStateTransitionError; a fresh order is the only way back

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "buyer", "")

	order := newManualOrder(t, svc, "buyer", "500")
	require.NoError(t, svc.RejectPayment(ctx, order.ID, "wrong amount"))

	err := svc.ApprovePayment(ctx, order.ID, "changed my mind")
	assert.ErrorIs(t, err, ledger.ErrInvalidStateTransition)
}

func TestApprovePayment_WalletOrder_Rejected(t *testing.T) {
	// GIVEN: A settled wallet order
	// WHEN: Running manual approval against it
	// THEN: Error; wallet orders have no verification record

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "buyer", "1000")

	order, err := svc.CreateOrder(ctx, payment.CreateOrderInput{
		UserID:        "buyer",
		TotalAmount:   ledger.MustParseDecimal("100"),
		PaymentMethod: payment.MethodWallet,
	})
	require.NoError(t, err)

	err = svc.ApprovePayment(ctx, order.ID, "ok")
	assert.Error(t, err)
}
