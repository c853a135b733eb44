/*
engine.go - Commission distribution

PURPOSE:
  Fans a finalized order's commission out to the purchaser's upline chain.
  Runs inside the transaction that finalized the payment, so the
  purchaser's debit, the order row, and every upline credit are one
  atomic unit.

ALGORITHM:
  1. Idempotency gate: if distribution records exist for the order, no-op.
  2. Resolve the upline chain (levels 1..MaxLevels, short chains fine).
  3. Read active rates - fresh, inside this transaction.
  4. For each (upline, level) with rate > 0:
       commission = total * rate / 100
       CREDIT the upline (REFERRAL_COMMISSION, referencing the order)
       insert one distribution record
  5. Credits are applied in ascending beneficiary order so concurrent
     distributions acquire wallet locks in the same order.

FAILURE SEMANTICS:
  Any error aborts the surrounding transaction; the engine never partially
  pays a chain. A missing upline at a level is skipped, not redirected -
  short chains forfeit the deeper commission.

IDEMPOTENCY:
  distribution records are unique per (order, beneficiary). Retrying a
  distribution that already ran returns success without moving money.

SEE ALSO:
  - policy.go: Rate configuration
  - referral/referral.go: Upline chain resolution
  - payment/service.go: The emitting transactions
*/
package commission

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/payment"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/referral"
)

// MaxLevels mirrors the depth of the referral tree.
const MaxLevels = referral.MaxLevels

var oneHundred = decimal.NewFromInt(100)

// =============================================================================
// DISTRIBUTION RECORD
// =============================================================================

// DistributionRecord marks that an order paid one beneficiary. Created
// exactly once per (order, beneficiary); the unique index enforces it.
type DistributionRecord struct {
	ID                string
	OrderID           string
	BeneficiaryUserID string
	Level             int
	Amount            decimal.Decimal
	CreatedAt         time.Time
}

// DistributionStore is the persistence surface for distribution records.
type DistributionStore interface {
	HasDistribution(ctx context.Context, orderID string) (bool, error)
	InsertDistribution(ctx context.Context, rec DistributionRecord) error
	DistributionsByOrder(ctx context.Context, orderID string) ([]DistributionRecord, error)
}

// distributionTx is everything Distribute needs from the transaction-bound
// store. The SQLite store satisfies it; anything else fails fast with
// ledger.ErrStoreRequired.
type distributionTx interface {
	ledger.Store
	DistributionStore
	ConfigStore
	referral.Store
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine distributes commissions. Stateless apart from its depth cap.
type Engine struct {
	Levels int
}

func NewEngine() *Engine {
	return &Engine{Levels: MaxLevels}
}

// HandlePaymentApproved consumes the payment.PaymentApproved event inside
// the emitting transaction.
func (e *Engine) HandlePaymentApproved(ctx context.Context, s ledger.Store, evt payment.PaymentApproved) error {
	tx, ok := s.(distributionTx)
	if !ok {
		return ledger.ErrStoreRequired
	}
	return e.distribute(ctx, tx, evt.OrderID, evt.PurchaserID, evt.TotalAmount)
}

// Distribute runs the fan-out for an already-finalized order in its own
// transaction. This is the retry surface: safe to call any number of
// times for the same order.
func (e *Engine) Distribute(ctx context.Context, store ledger.TxStore, orderID string) error {
	return store.WithTx(ctx, func(s ledger.Store) error {
		tx, ok := s.(distributionTx)
		if !ok {
			return ledger.ErrStoreRequired
		}
		ps, ok := s.(payment.Store)
		if !ok {
			return ledger.ErrStoreRequired
		}

		order, err := ps.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		if order == nil {
			return fmt.Errorf("%w: order %s", ledger.ErrNotFound, orderID)
		}
		if order.PaymentStatus != payment.PaymentPaid {
			return fmt.Errorf("order %s payment is %s, not PAID", orderID, order.PaymentStatus)
		}

		return e.distribute(ctx, tx, order.ID, order.UserID, order.TotalAmount)
	})
}

func (e *Engine) distribute(ctx context.Context, tx distributionTx, orderID, purchaserID string, total decimal.Decimal) error {
	done, err := tx.HasDistribution(ctx, orderID)
	if err != nil {
		return fmt.Errorf("check distribution: %w", err)
	}
	if done {
		// Already ran for this order. Success, not an error.
		return nil
	}

	levels := e.Levels
	if levels <= 0 || levels > MaxLevels {
		levels = MaxLevels
	}

	reader := referral.NewReader(tx)
	chain, err := reader.UplineChain(ctx, purchaserID, levels)
	if err != nil {
		return err
	}
	if len(chain) == 0 {
		return nil
	}

	rates, err := tx.ActiveRates(ctx)
	if err != nil {
		return fmt.Errorf("load commission rates: %w", err)
	}

	type payout struct {
		userID string
		level  int
		amount decimal.Decimal
	}
	var payouts []payout
	for _, link := range chain {
		rate, ok := rates[link.Level]
		if !ok || !rate.IsPositive() {
			continue
		}
		amount := total.Mul(rate).Div(oneHundred).Round(2)
		if !amount.IsPositive() {
			continue
		}
		payouts = append(payouts, payout{userID: link.UplineUserID, level: link.Level, amount: amount})
	}

	// Wallet locks must be acquired in a consistent order across concurrent
	// distributions, so credits run in ascending beneficiary order.
	sort.Slice(payouts, func(i, j int) bool { return payouts[i].userID < payouts[j].userID })

	now := time.Now().UTC()
	for _, p := range payouts {
		if _, err := ledger.Apply(ctx, tx, ledger.ApplyInput{
			UserID:      p.userID,
			EntryType:   ledger.Credit,
			Amount:      p.amount,
			Type:        ledger.TxReferralCommission,
			Reference:   ledger.OrderRef(orderID),
			Description: fmt.Sprintf("level %d referral commission", p.level),
		}); err != nil {
			return err
		}
		if err := tx.InsertDistribution(ctx, DistributionRecord{
			ID:                uuid.NewString(),
			OrderID:           orderID,
			BeneficiaryUserID: p.userID,
			Level:             p.level,
			Amount:            p.amount,
			CreatedAt:         now,
		}); err != nil {
			return fmt.Errorf("record distribution: %w", err)
		}
	}

	return nil
}
