package recharge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/recharge"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*recharge.Service, *sqlite.Store) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return recharge.NewService(store), store
}

func newPendingRecharge(t *testing.T, svc *recharge.Service, userID, amount string) *recharge.Request {
	req, err := svc.Request(context.Background(), userID, ledger.MustParseDecimal(amount),
		"BANK_TRANSFER", "UTR-42", "https://proofs.example/slip.png")
	require.NoError(t, err)
	return req
}

// =============================================================================
// STATE MACHINE TESTS
// =============================================================================

func TestRequest_PendingWithoutCredit(t *testing.T) {
	// GIVEN: A user with an empty wallet
	// WHEN: They request a 200 recharge
	// THEN: The request is PENDING and the wallet still reads zero

	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.CreateWallet(ctx, "user-1"))

	req := newPendingRecharge(t, svc, "user-1", "200")
	assert.Equal(t, recharge.StatusPending, req.Status)
	assert.Equal(t, "UTR-42", req.TransactionReference)

	w, err := store.GetWallet(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero())
}

func TestRequest_InvalidAmount_Rejected(t *testing.T) {
	// GIVEN: The recharge service
	// WHEN: Requesting a zero top-up
	// THEN: ErrInvalidAmount; nothing stored

	svc, _ := newTestService(t)

	_, err := svc.Request(context.Background(), "user-1", ledger.MustParseDecimal("0"), "", "", "")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	reqs, err := svc.ByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestApprove_CreditsWallet(t *testing.T) {
	// GIVEN: A pending 200 recharge
	// WHEN: An admin approves it
	// THEN: The wallet is credited and the entry references the recharge

	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.CreateWallet(ctx, "user-1"))

	req := newPendingRecharge(t, svc, "user-1", "200")
	require.NoError(t, svc.Approve(ctx, req.ID, "verified against bank statement"))

	w, err := store.GetWallet(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "200.00", w.Balance.StringFixed(2))

	entries, _, err := store.ListEntries(ctx,
		ledger.EntryFilter{UserID: "user-1", Type: ledger.TxRechargeRequest}, ledger.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.Credit, entries[0].EntryType)
	assert.Equal(t, ledger.RefRecharge, entries[0].Reference.Kind)
	assert.Equal(t, req.ID, entries[0].Reference.ID)
}

func TestApprove_MissingWallet_StaysPending(t *testing.T) {
	// GIVEN: A recharge for a user without a wallet
	// WHEN: Approval fails on the credit
	// THEN: The whole transaction rolls back and the request stays PENDING

	svc, _ := newTestService(t)
	ctx := context.Background()

	req := newPendingRecharge(t, svc, "ghost", "200")

	err := svc.Approve(ctx, req.ID, "ok")
	assert.ErrorIs(t, err, ledger.ErrWalletNotFound)

	reqs, err := svc.ByUser(ctx, "ghost")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, recharge.StatusPending, reqs[0].Status)
}

func TestApprove_Terminal_Rejected(t *testing.T) {
	// GIVEN: An approved recharge
	// WHEN: Approving it again
	// THEN: InvalidStateTransitionError; no double credit

	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.CreateWallet(ctx, "user-1"))

	req := newPendingRecharge(t, svc, "user-1", "200")
	require.NoError(t, svc.Approve(ctx, req.ID, "ok"))

	err := svc.Approve(ctx, req.ID, "again")
	assert.ErrorIs(t, err, ledger.ErrInvalidStateTransition)

	w, err := store.GetWallet(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "200.00", w.Balance.StringFixed(2))
}

func TestReject_NoLedgerEffect(t *testing.T) {
	// GIVEN: A pending recharge
	// WHEN: An admin rejects it with a reason
	// THEN: Status REJECTED, comment stored, wallet and ledger untouched

	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.CreateWallet(ctx, "user-1"))

	req := newPendingRecharge(t, svc, "user-1", "200")
	require.NoError(t, svc.Reject(ctx, req.ID, "reference not found in statement"))

	reqs, err := svc.ByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, recharge.StatusRejected, reqs[0].Status)
	assert.Equal(t, "reference not found in statement", reqs[0].AdminComment)

	_, total, err := store.ListEntries(ctx, ledger.EntryFilter{UserID: "user-1"}, ledger.Page{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestReject_RequiresComment(t *testing.T) {
	// GIVEN: A pending recharge
	// WHEN: Rejecting without a comment
	// THEN: ErrCommentRequired; request stays PENDING

	svc, _ := newTestService(t)
	ctx := context.Background()

	req := newPendingRecharge(t, svc, "user-1", "200")

	err := svc.Reject(ctx, req.ID, "")
	assert.ErrorIs(t, err, ledger.ErrCommentRequired)

	reqs, err := svc.ByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, recharge.StatusPending, reqs[0].Status)
}

func TestApprove_AfterRejection_Rejected(t *testing.T) {
	// GIVEN: A rejected recharge
	// WHEN: Approving it later
	// THEN: InvalidStateTransitionError; wallet stays empty

	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.CreateWallet(ctx, "user-1"))

	req := newPendingRecharge(t, svc, "user-1", "200")
	require.NoError(t, svc.Reject(ctx, req.ID, "wrong amount"))

	err := svc.Approve(ctx, req.ID, "second look")
	assert.ErrorIs(t, err, ledger.ErrInvalidStateTransition)

	w, err := store.GetWallet(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero())
}
