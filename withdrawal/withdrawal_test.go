package withdrawal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/store/sqlite"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/withdrawal"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*withdrawal.Service, *sqlite.Store) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return withdrawal.NewService(store, withdrawal.DefaultConfig()), store
}

func fundWallet(t *testing.T, store *sqlite.Store, userID, amount string) {
	ctx := context.Background()
	require.NoError(t, store.CreateWallet(ctx, userID))
	l := ledger.NewLedger(store)
	_, err := l.Adjust(ctx, userID, ledger.Credit, ledger.MustParseDecimal(amount), "admin-1", "test funding")
	require.NoError(t, err)
}

func testBank() withdrawal.BankDetails {
	return withdrawal.BankDetails{
		AccountName:   "Test User",
		AccountNumber: "1234567890",
		BankName:      "Test Bank",
		IFSC:          "TEST0000001",
	}
}

func wallet(t *testing.T, store *sqlite.Store, userID string) *ledger.Wallet {
	w, err := store.GetWallet(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, w)
	return w
}

// =============================================================================
// REQUEST TESTS
// =============================================================================

func TestRequestWithdrawal_FeeSnapshotAndHold(t *testing.T) {
	// GIVEN: A wallet with 1000 and a 1.5% fee
	// WHEN: Requesting a 500 withdrawal
	// THEN: Fee 7.50, net 492.50 snapshotted; 500 moves to locked; no
	//       ledger entry yet

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "user-1", "1000")

	req, err := svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("500"), testBank())
	require.NoError(t, err)

	assert.Equal(t, withdrawal.StatusReviewPending, req.Status)
	assert.Equal(t, "7.50", req.PlatformFee.StringFixed(2))
	assert.Equal(t, "492.50", req.NetAmount.StringFixed(2))
	assert.Equal(t, "Test Bank", req.BankDetails.BankName)

	w := wallet(t, store, "user-1")
	assert.Equal(t, "500.00", w.Balance.StringFixed(2))
	assert.Equal(t, "500.00", w.LockedBalance.StringFixed(2))

	_, total, err := store.ListEntries(ctx,
		ledger.EntryFilter{UserID: "user-1", Type: ledger.TxWithdrawalRequest}, ledger.Page{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total, "no ledger entry until approval")
}

func TestRequestWithdrawal_BelowMinimum_Rejected(t *testing.T) {
	// GIVEN: A funded wallet and a minimum of 50
	// WHEN: Requesting 49
	// THEN: BelowMinimumError; wallet untouched

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "user-1", "1000")

	_, err := svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("49"), testBank())

	var minErr *withdrawal.BelowMinimumError
	require.ErrorAs(t, err, &minErr)
	assert.ErrorIs(t, err, ledger.ErrBelowMinimum)

	w := wallet(t, store, "user-1")
	assert.True(t, w.LockedBalance.IsZero())
}

func TestRequestWithdrawal_ExceedsBalance_Rejected(t *testing.T) {
	// GIVEN: A wallet with 100
	// WHEN: Requesting 500
	// THEN: InsufficientFundsError; no request row, no hold

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "user-1", "100")

	_, err := svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("500"), testBank())
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	reqs, err := svc.ByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestRequestWithdrawal_PendingCap(t *testing.T) {
	// GIVEN: A user with two withdrawals already under review
	// WHEN: Requesting a third
	// THEN: PendingLimitExceededError; resolving one frees a slot

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "user-1", "1000")

	first, err := svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("100"), testBank())
	require.NoError(t, err)
	_, err = svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("100"), testBank())
	require.NoError(t, err)

	_, err = svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("100"), testBank())
	var capErr *withdrawal.PendingLimitExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, withdrawal.MaxPending, capErr.Limit)

	require.NoError(t, svc.Reject(ctx, first.ID, "duplicate request"))

	_, err = svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("100"), testBank())
	assert.NoError(t, err, "terminal requests must not count against the cap")
}

// =============================================================================
// APPROVAL TESTS
// =============================================================================

func TestApprove_DebitsHeldFunds(t *testing.T) {
	// GIVEN: A pending 500 withdrawal with its hold
	// WHEN: An admin approves it
	// THEN: Locked drops to 0, total drops by 500, and a DEBIT entry
	//       references the request

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "user-1", "1000")

	req, err := svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("500"), testBank())
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, req.ID, "processed"))

	w := wallet(t, store, "user-1")
	assert.Equal(t, "500.00", w.Balance.StringFixed(2))
	assert.True(t, w.LockedBalance.IsZero())
	assert.Equal(t, "500.00", w.Total().StringFixed(2))

	entries, _, err := store.ListEntries(ctx,
		ledger.EntryFilter{UserID: "user-1", Type: ledger.TxWithdrawalRequest}, ledger.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.Debit, entries[0].EntryType)
	assert.Equal(t, ledger.RefWithdrawal, entries[0].Reference.Kind)
	assert.Equal(t, req.ID, entries[0].Reference.ID)

	stored, err := svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, withdrawal.StatusApproved, stored.Status)
	assert.Equal(t, "processed", stored.AdminComment)
}

func TestApprove_Terminal_Rejected(t *testing.T) {
	// GIVEN: An approved withdrawal
	// WHEN: Approving it a second time
	// THEN: InvalidStateTransitionError; no second debit

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "user-1", "1000")

	req, err := svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("500"), testBank())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(ctx, req.ID, "processed"))

	err = svc.Approve(ctx, req.ID, "again")
	assert.ErrorIs(t, err, ledger.ErrInvalidStateTransition)

	w := wallet(t, store, "user-1")
	assert.Equal(t, "500.00", w.Total().StringFixed(2))
}

// =============================================================================
// REJECTION TESTS
// =============================================================================

func TestReject_RestoresBalanceWithoutEntries(t *testing.T) {
	// GIVEN: A pending 500 withdrawal with its hold
	// WHEN: An admin rejects it with a comment
	// THEN: The hold returns to the spendable balance and the ledger shows
	//       nothing beyond the original funding

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "user-1", "1000")

	req, err := svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("500"), testBank())
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, req.ID, "bank details mismatch"))

	w := wallet(t, store, "user-1")
	assert.Equal(t, "1000.00", w.Balance.StringFixed(2))
	assert.True(t, w.LockedBalance.IsZero())

	_, total, err := store.ListEntries(ctx, ledger.EntryFilter{UserID: "user-1"}, ledger.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total, "only the funding credit should exist")

	stored, err := svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, withdrawal.StatusRejected, stored.Status)
	assert.Equal(t, "bank details mismatch", stored.AdminComment)
}

func TestReject_RequiresComment(t *testing.T) {
	// GIVEN: A pending withdrawal
	// WHEN: Rejecting without a comment
	// THEN: ErrCommentRequired; hold stays in place

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "user-1", "1000")

	req, err := svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("500"), testBank())
	require.NoError(t, err)

	err = svc.Reject(ctx, req.ID, "")
	assert.ErrorIs(t, err, ledger.ErrCommentRequired)

	w := wallet(t, store, "user-1")
	assert.Equal(t, "500.00", w.LockedBalance.StringFixed(2))
}

func TestReject_AfterApproval_Rejected(t *testing.T) {
	// GIVEN: An approved withdrawal
	// WHEN: Rejecting it
	// THEN: InvalidStateTransitionError; funds stay gone

	svc, store := newTestService(t)
	ctx := context.Background()
	fundWallet(t, store, "user-1", "1000")

	req, err := svc.RequestWithdrawal(ctx, "user-1", ledger.MustParseDecimal("500"), testBank())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(ctx, req.ID, "processed"))

	err = svc.Reject(ctx, req.ID, "changed my mind")
	assert.ErrorIs(t, err, ledger.ErrInvalidStateTransition)

	w := wallet(t, store, "user-1")
	assert.Equal(t, "500.00", w.Total().StringFixed(2))
}
