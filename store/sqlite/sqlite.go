/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every persistence interface of the wallet core using SQLite.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences (and SELECT ... FOR UPDATE instead of the writer
  mutex, see CONCURRENCY below).

INTERFACES IMPLEMENTED:
  ledger.Store / ledger.TxStore:  Wallets and the transaction log
  payment.Store:                  Orders and manual payment proofs
  withdrawal.Store:               Withdrawal requests
  recharge.Store:                 Recharge requests
  referral.Store:                 Referral tree adjacency
  commission.ConfigStore:         Per-level rate configuration
  commission.DistributionStore:   Distribution idempotency records

APPEND-ONLY ENFORCEMENT:
  wallet_transactions has exactly one UPDATE statement in this package:
  markEntryReversed, which touches only the status column. Amounts and
  balances are never rewritten; there is no DELETE outside Reset.

KEY TABLES:
  wallets:                           Balance + locked balance per user
  wallet_transactions:               Immutable ledger of balance changes
  orders / order_payments:           Purchases and manual proof records
  withdrawal_requests:               Payout requests with fee snapshots
  recharge_requests:                 Manual top-up requests
  referral_tree:                     Precomputed upline adjacency
  commission_config:                 (level, percent, is_active)
  referral_commission_distribution:  One row per (order, beneficiary)

IDEMPOTENCY AT THE SCHEMA:
  referral_commission_distribution is UNIQUE on (order_id,
  beneficiary_user_id); a replayed distribution cannot insert twice even
  if the application-level gate is bypassed.

CONCURRENCY:
  A sync.RWMutex serializes writers; WithTx holds the write lock for the
  whole transaction, so every store call inside the closure runs against
  the open *sql.Tx without re-locking. Combined with SQLite's single
  writer this gives the same serialization a row lock gives on Postgres:
  a concurrent money mutation blocks until the holder commits or rolls
  back.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/wallet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  l := ledger.NewLedger(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - ledger/store.go: Interface definitions
  - commission/engine.go: The heaviest transactional consumer
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/commission"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/ledger"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/payment"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/recharge"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/referral"
	"github.com/yogeshwaran6g-yg/afiliateEcommerce-sub003/withdrawal"
)

// querier is the subset of *sql.DB and *sql.Tx the raw operations need.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: keeps :memory: databases coherent and matches the
	// single-writer discipline.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Wallets (one per user, mutated only via entry application and holds)
	CREATE TABLE IF NOT EXISTS wallets (
		user_id TEXT PRIMARY KEY,
		balance TEXT NOT NULL,
		locked_balance TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Wallet transactions (append-only ledger; only status may be updated)
	CREATE TABLE IF NOT EXISTS wallet_transactions (
		id TEXT PRIMARY KEY,
		wallet_user_id TEXT NOT NULL,
		entry_type TEXT NOT NULL,
		txn_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		balance_before TEXT NOT NULL,
		balance_after TEXT NOT NULL,
		status TEXT NOT NULL,
		reference_table TEXT,
		reference_id TEXT,
		description TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_user
		ON wallet_transactions(wallet_user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_reference
		ON wallet_transactions(reference_table, reference_id)
		WHERE reference_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_wallet_transactions_type
		ON wallet_transactions(txn_type);

	-- Orders
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		shipping_cost TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		order_type TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_orders_user
		ON orders(user_id, created_at DESC);

	-- Manual payment proofs (one per manual order)
	CREATE TABLE IF NOT EXISTS order_payments (
		order_id TEXT PRIMARY KEY REFERENCES orders(id),
		payment_type TEXT,
		transaction_reference TEXT,
		proof_url TEXT,
		status TEXT NOT NULL,
		admin_comment TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Withdrawal requests (bank details are a snapshot, not a reference)
	CREATE TABLE IF NOT EXISTS withdrawal_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		bank_account_name TEXT,
		bank_account_number TEXT,
		bank_name TEXT,
		bank_ifsc TEXT,
		platform_fee TEXT NOT NULL,
		net_amount TEXT NOT NULL,
		status TEXT NOT NULL,
		admin_comment TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_withdrawal_requests_user_status
		ON withdrawal_requests(user_id, status);

	-- Recharge requests
	CREATE TABLE IF NOT EXISTS recharge_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		payment_type TEXT,
		transaction_reference TEXT,
		proof_url TEXT,
		status TEXT NOT NULL,
		admin_comment TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recharge_requests_user
		ON recharge_requests(user_id, created_at DESC);

	-- Referral tree (precomputed adjacency, one ancestor per level)
	CREATE TABLE IF NOT EXISTS referral_tree (
		downline_id TEXT NOT NULL,
		upline_id TEXT NOT NULL,
		level INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (downline_id, level)
	);

	CREATE INDEX IF NOT EXISTS idx_referral_tree_upline
		ON referral_tree(upline_id);

	-- Commission configuration
	CREATE TABLE IF NOT EXISTS commission_config (
		level INTEGER PRIMARY KEY,
		percent TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: one payout per (order, beneficiary). The unique index backs
	-- the distribution engine's idempotency guarantee at the schema level.
	CREATE TABLE IF NOT EXISTS referral_commission_distribution (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		beneficiary_user_id TEXT NOT NULL,
		level INTEGER NOT NULL,
		amount TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_distribution_order_beneficiary
		ON referral_commission_distribution(order_id, beneficiary_user_id);
	CREATE INDEX IF NOT EXISTS idx_distribution_order
		ON referral_commission_distribution(order_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONAL STORE (ledger.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction. The write lock
// is held for the duration, so the closure's store calls run against the
// open transaction without re-locking.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx, parent: s}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// txStore is the transaction-bound view of the store. It implements every
// interface the base Store does; domain code type-asserts to the one it
// needs inside WithTx closures.
type txStore struct {
	tx     *sql.Tx
	parent *Store
}

func (ts *txStore) GetWallet(ctx context.Context, userID string) (*ledger.Wallet, error) {
	return ts.parent.getWallet(ctx, ts.tx, userID)
}

func (ts *txStore) CreateWallet(ctx context.Context, userID string) error {
	return ts.parent.createWallet(ctx, ts.tx, userID)
}

func (ts *txStore) UpdateWalletBalances(ctx context.Context, userID string, balance, locked decimal.Decimal) error {
	return ts.parent.updateWalletBalances(ctx, ts.tx, userID, balance, locked)
}

func (ts *txStore) InsertEntry(ctx context.Context, e ledger.Entry) error {
	return ts.parent.insertEntry(ctx, ts.tx, e)
}

func (ts *txStore) GetEntry(ctx context.Context, id string) (*ledger.Entry, error) {
	return ts.parent.getEntry(ctx, ts.tx, id)
}

func (ts *txStore) MarkEntryReversed(ctx context.Context, id string) error {
	return ts.parent.markEntryReversed(ctx, ts.tx, id)
}

func (ts *txStore) ListEntries(ctx context.Context, f ledger.EntryFilter, p ledger.Page) ([]ledger.Entry, int, error) {
	return ts.parent.listEntries(ctx, ts.tx, f, p)
}

func (ts *txStore) InsertOrder(ctx context.Context, o payment.Order) error {
	return ts.parent.insertOrder(ctx, ts.tx, o)
}

func (ts *txStore) GetOrder(ctx context.Context, id string) (*payment.Order, error) {
	return ts.parent.getOrder(ctx, ts.tx, id)
}

func (ts *txStore) SetOrderPaymentStatus(ctx context.Context, id string, status payment.PaymentStatus) error {
	return ts.parent.setOrderPaymentStatus(ctx, ts.tx, id, status)
}

func (ts *txStore) InsertOrderPayment(ctx context.Context, p payment.OrderPayment) error {
	return ts.parent.insertOrderPayment(ctx, ts.tx, p)
}

func (ts *txStore) GetOrderPayment(ctx context.Context, orderID string) (*payment.OrderPayment, error) {
	return ts.parent.getOrderPayment(ctx, ts.tx, orderID)
}

func (ts *txStore) ResolveOrderPayment(ctx context.Context, orderID string, status payment.VerificationStatus, comment string) error {
	return ts.parent.resolveOrderPayment(ctx, ts.tx, orderID, status, comment)
}

func (ts *txStore) InsertWithdrawal(ctx context.Context, r withdrawal.Request) error {
	return ts.parent.insertWithdrawal(ctx, ts.tx, r)
}

func (ts *txStore) GetWithdrawal(ctx context.Context, id string) (*withdrawal.Request, error) {
	return ts.parent.getWithdrawal(ctx, ts.tx, id)
}

func (ts *txStore) CountPendingWithdrawals(ctx context.Context, userID string) (int, error) {
	return ts.parent.countPendingWithdrawals(ctx, ts.tx, userID)
}

func (ts *txStore) ResolveWithdrawal(ctx context.Context, id string, status withdrawal.Status, comment string) error {
	return ts.parent.resolveWithdrawal(ctx, ts.tx, id, status, comment)
}

func (ts *txStore) ListWithdrawalsByUser(ctx context.Context, userID string) ([]withdrawal.Request, error) {
	return ts.parent.listWithdrawalsByUser(ctx, ts.tx, userID)
}

func (ts *txStore) InsertRecharge(ctx context.Context, r recharge.Request) error {
	return ts.parent.insertRecharge(ctx, ts.tx, r)
}

func (ts *txStore) GetRecharge(ctx context.Context, id string) (*recharge.Request, error) {
	return ts.parent.getRecharge(ctx, ts.tx, id)
}

func (ts *txStore) ResolveRecharge(ctx context.Context, id string, status recharge.Status, comment string) error {
	return ts.parent.resolveRecharge(ctx, ts.tx, id, status, comment)
}

func (ts *txStore) ListRechargesByUser(ctx context.Context, userID string) ([]recharge.Request, error) {
	return ts.parent.listRechargesByUser(ctx, ts.tx, userID)
}

func (ts *txStore) UplineChain(ctx context.Context, userID string, maxLevels int) ([]referral.Link, error) {
	return ts.parent.uplineChain(ctx, ts.tx, userID, maxLevels)
}

func (ts *txStore) InsertReferralEdge(ctx context.Context, downlineID, uplineID string, level int) error {
	return ts.parent.insertReferralEdge(ctx, ts.tx, downlineID, uplineID, level)
}

func (ts *txStore) ActiveRates(ctx context.Context) (map[int]decimal.Decimal, error) {
	return ts.parent.activeRates(ctx, ts.tx)
}

func (ts *txStore) ListRates(ctx context.Context) ([]commission.Rate, error) {
	return ts.parent.listRates(ctx, ts.tx)
}

func (ts *txStore) SetRate(ctx context.Context, level int, percent decimal.Decimal, active bool) error {
	return ts.parent.setRate(ctx, ts.tx, level, percent, active)
}

func (ts *txStore) HasDistribution(ctx context.Context, orderID string) (bool, error) {
	return ts.parent.hasDistribution(ctx, ts.tx, orderID)
}

func (ts *txStore) InsertDistribution(ctx context.Context, rec commission.DistributionRecord) error {
	return ts.parent.insertDistribution(ctx, ts.tx, rec)
}

func (ts *txStore) DistributionsByOrder(ctx context.Context, orderID string) ([]commission.DistributionRecord, error) {
	return ts.parent.distributionsByOrder(ctx, ts.tx, orderID)
}

// =============================================================================
// WALLET STORE (ledger.Store interface)
// =============================================================================

func (s *Store) GetWallet(ctx context.Context, userID string) (*ledger.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getWallet(ctx, s.db, userID)
}

func (s *Store) CreateWallet(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createWallet(ctx, s.db, userID)
}

func (s *Store) UpdateWalletBalances(ctx context.Context, userID string, balance, locked decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateWalletBalances(ctx, s.db, userID, balance, locked)
}

func (s *Store) InsertEntry(ctx context.Context, e ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertEntry(ctx, s.db, e)
}

func (s *Store) GetEntry(ctx context.Context, id string) (*ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getEntry(ctx, s.db, id)
}

func (s *Store) MarkEntryReversed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markEntryReversed(ctx, s.db, id)
}

func (s *Store) ListEntries(ctx context.Context, f ledger.EntryFilter, p ledger.Page) ([]ledger.Entry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listEntries(ctx, s.db, f, p)
}

func (s *Store) getWallet(ctx context.Context, q querier, userID string) (*ledger.Wallet, error) {
	var (
		w                    ledger.Wallet
		balance, locked      string
		createdAt, updatedAt string
	)

	err := q.QueryRowContext(ctx,
		"SELECT user_id, balance, locked_balance, created_at, updated_at FROM wallets WHERE user_id = ?",
		userID,
	).Scan(&w.UserID, &balance, &locked, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	w.Balance = ledger.MustParseDecimal(balance)
	w.LockedBalance = ledger.MustParseDecimal(locked)
	w.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	w.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &w, nil
}

func (s *Store) createWallet(ctx context.Context, q querier, userID string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := q.ExecContext(ctx,
		"INSERT INTO wallets (user_id, balance, locked_balance, created_at, updated_at) VALUES (?, '0', '0', ?, ?)",
		userID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (s *Store) updateWalletBalances(ctx context.Context, q querier, userID string, balance, locked decimal.Decimal) error {
	res, err := q.ExecContext(ctx,
		"UPDATE wallets SET balance = ?, locked_balance = ?, updated_at = ? WHERE user_id = ?",
		balance.String(), locked.String(), time.Now().UTC().Format(time.RFC3339Nano), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ledger.ErrWalletNotFound, userID)
	}
	return nil
}

func (s *Store) insertEntry(ctx context.Context, q querier, e ledger.Entry) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO wallet_transactions
		(id, wallet_user_id, entry_type, txn_type, amount, balance_before, balance_after,
		 status, reference_table, reference_id, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.WalletUserID,
		string(e.EntryType),
		string(e.Type),
		e.Amount.String(),
		e.BalanceBefore.String(),
		e.BalanceAfter.String(),
		string(e.Status),
		nullString(string(e.Reference.Kind)),
		nullString(e.Reference.ID),
		nullString(e.Description),
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	return nil
}

const entryColumns = `id, wallet_user_id, entry_type, txn_type, amount, balance_before,
	balance_after, status, reference_table, reference_id, description, created_at`

func (s *Store) getEntry(ctx context.Context, q querier, id string) (*ledger.Entry, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM wallet_transactions WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	e, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) markEntryReversed(ctx context.Context, q querier, id string) error {
	// The only UPDATE the ledger table ever sees.
	res, err := q.ExecContext(ctx,
		"UPDATE wallet_transactions SET status = ? WHERE id = ?",
		string(ledger.StatusReversed), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark entry reversed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ledger.ErrEntryNotFound, id)
	}
	return nil
}

func (s *Store) listEntries(ctx context.Context, q querier, f ledger.EntryFilter, p ledger.Page) ([]ledger.Entry, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.UserID != "" {
		conds = append(conds, "wallet_user_id = ?")
		args = append(args, f.UserID)
	}
	if f.EntryType != "" {
		conds = append(conds, "entry_type = ?")
		args = append(args, string(f.EntryType))
	}
	if f.Type != "" {
		conds = append(conds, "txn_type = ?")
		args = append(args, string(f.Type))
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM wallet_transactions"+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	query := "SELECT " + entryColumns + " FROM wallet_transactions" + where +
		" ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?"
	args = append(args, p.Limit, p.Offset)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func scanEntry(rows *sql.Rows) (ledger.Entry, error) {
	var (
		e                          ledger.Entry
		amount, before, after      string
		refTable, refID, desc      sql.NullString
		entryType, txnType, status string
		createdAt                  string
	)

	err := rows.Scan(
		&e.ID, &e.WalletUserID, &entryType, &txnType, &amount, &before, &after,
		&status, &refTable, &refID, &desc, &createdAt,
	)
	if err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}

	e.EntryType = ledger.EntryType(entryType)
	e.Type = ledger.TransactionType(txnType)
	e.Status = ledger.EntryStatus(status)
	e.Amount = ledger.MustParseDecimal(amount)
	e.BalanceBefore = ledger.MustParseDecimal(before)
	e.BalanceAfter = ledger.MustParseDecimal(after)
	e.Reference = ledger.Reference{Kind: ledger.RefKind(refTable.String), ID: refID.String}
	e.Description = desc.String
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return e, nil
}

// =============================================================================
// ORDER STORE (payment.Store interface)
// =============================================================================

func (s *Store) InsertOrder(ctx context.Context, o payment.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertOrder(ctx, s.db, o)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*payment.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getOrder(ctx, s.db, id)
}

func (s *Store) SetOrderPaymentStatus(ctx context.Context, id string, status payment.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setOrderPaymentStatus(ctx, s.db, id, status)
}

func (s *Store) InsertOrderPayment(ctx context.Context, p payment.OrderPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertOrderPayment(ctx, s.db, p)
}

func (s *Store) GetOrderPayment(ctx context.Context, orderID string) (*payment.OrderPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getOrderPayment(ctx, s.db, orderID)
}

func (s *Store) ResolveOrderPayment(ctx context.Context, orderID string, status payment.VerificationStatus, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveOrderPayment(ctx, s.db, orderID, status, comment)
}

func (s *Store) insertOrder(ctx context.Context, q querier, o payment.Order) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO orders
		(id, user_id, total_amount, shipping_cost, payment_method, payment_status, order_type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.TotalAmount.String(), o.ShippingCost.String(),
		string(o.PaymentMethod), string(o.PaymentStatus), string(o.OrderType),
		o.Status, o.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *Store) getOrder(ctx context.Context, q querier, id string) (*payment.Order, error) {
	var (
		o                     payment.Order
		total, shipping       string
		method, pstatus, otyp string
		createdAt             string
	)

	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, total_amount, shipping_cost, payment_method, payment_status, order_type, status, created_at
		FROM orders WHERE id = ?`, id,
	).Scan(&o.ID, &o.UserID, &total, &shipping, &method, &pstatus, &otyp, &o.Status, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	o.TotalAmount = ledger.MustParseDecimal(total)
	o.ShippingCost = ledger.MustParseDecimal(shipping)
	o.PaymentMethod = payment.PaymentMethod(method)
	o.PaymentStatus = payment.PaymentStatus(pstatus)
	o.OrderType = payment.OrderType(otyp)
	o.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &o, nil
}

func (s *Store) setOrderPaymentStatus(ctx context.Context, q querier, id string, status payment.PaymentStatus) error {
	res, err := q.ExecContext(ctx,
		"UPDATE orders SET payment_status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update order payment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: order %s", ledger.ErrNotFound, id)
	}
	return nil
}

func (s *Store) insertOrderPayment(ctx context.Context, q querier, p payment.OrderPayment) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO order_payments
		(order_id, payment_type, transaction_reference, proof_url, status, admin_comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.OrderID, nullString(p.PaymentType), nullString(p.TransactionReference),
		nullString(p.ProofURL), string(p.Status), nullString(p.AdminComment),
		p.CreatedAt.Format(time.RFC3339Nano), p.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order payment: %w", err)
	}
	return nil
}

func (s *Store) getOrderPayment(ctx context.Context, q querier, orderID string) (*payment.OrderPayment, error) {
	var (
		p                    payment.OrderPayment
		ptype, txnRef        sql.NullString
		proof, comment       sql.NullString
		status               string
		createdAt, updatedAt string
	)

	err := q.QueryRowContext(ctx, `
		SELECT order_id, payment_type, transaction_reference, proof_url, status, admin_comment, created_at, updated_at
		FROM order_payments WHERE order_id = ?`, orderID,
	).Scan(&p.OrderID, &ptype, &txnRef, &proof, &status, &comment, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order payment: %w", err)
	}

	p.PaymentType = ptype.String
	p.TransactionReference = txnRef.String
	p.ProofURL = proof.String
	p.Status = payment.VerificationStatus(status)
	p.AdminComment = comment.String
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &p, nil
}

func (s *Store) resolveOrderPayment(ctx context.Context, q querier, orderID string, status payment.VerificationStatus, comment string) error {
	res, err := q.ExecContext(ctx,
		"UPDATE order_payments SET status = ?, admin_comment = ?, updated_at = ? WHERE order_id = ?",
		string(status), nullString(comment), time.Now().UTC().Format(time.RFC3339Nano), orderID,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve order payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: payment record for order %s", ledger.ErrNotFound, orderID)
	}
	return nil
}

// =============================================================================
// WITHDRAWAL STORE (withdrawal.Store interface)
// =============================================================================

func (s *Store) InsertWithdrawal(ctx context.Context, r withdrawal.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertWithdrawal(ctx, s.db, r)
}

func (s *Store) GetWithdrawal(ctx context.Context, id string) (*withdrawal.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getWithdrawal(ctx, s.db, id)
}

func (s *Store) CountPendingWithdrawals(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countPendingWithdrawals(ctx, s.db, userID)
}

func (s *Store) ResolveWithdrawal(ctx context.Context, id string, status withdrawal.Status, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveWithdrawal(ctx, s.db, id, status, comment)
}

func (s *Store) ListWithdrawalsByUser(ctx context.Context, userID string) ([]withdrawal.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listWithdrawalsByUser(ctx, s.db, userID)
}

func (s *Store) insertWithdrawal(ctx context.Context, q querier, r withdrawal.Request) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO withdrawal_requests
		(id, user_id, amount, bank_account_name, bank_account_number, bank_name, bank_ifsc,
		 platform_fee, net_amount, status, admin_comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Amount.String(),
		nullString(r.BankDetails.AccountName), nullString(r.BankDetails.AccountNumber),
		nullString(r.BankDetails.BankName), nullString(r.BankDetails.IFSC),
		r.PlatformFee.String(), r.NetAmount.String(), string(r.Status),
		nullString(r.AdminComment),
		r.CreatedAt.Format(time.RFC3339Nano), r.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert withdrawal: %w", err)
	}
	return nil
}

const withdrawalColumns = `id, user_id, amount, bank_account_name, bank_account_number,
	bank_name, bank_ifsc, platform_fee, net_amount, status, admin_comment, created_at, updated_at`

func (s *Store) getWithdrawal(ctx context.Context, q querier, id string) (*withdrawal.Request, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+withdrawalColumns+" FROM withdrawal_requests WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawal: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	r, err := scanWithdrawal(rows)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) countPendingWithdrawals(ctx context.Context, q querier, userID string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM withdrawal_requests WHERE user_id = ? AND status = ?",
		userID, string(withdrawal.StatusReviewPending),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending withdrawals: %w", err)
	}
	return count, nil
}

func (s *Store) resolveWithdrawal(ctx context.Context, q querier, id string, status withdrawal.Status, comment string) error {
	res, err := q.ExecContext(ctx,
		"UPDATE withdrawal_requests SET status = ?, admin_comment = ?, updated_at = ? WHERE id = ?",
		string(status), nullString(comment), time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve withdrawal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: withdrawal %s", ledger.ErrNotFound, id)
	}
	return nil
}

func (s *Store) listWithdrawalsByUser(ctx context.Context, q querier, userID string) ([]withdrawal.Request, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+withdrawalColumns+" FROM withdrawal_requests WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawals: %w", err)
	}
	defer rows.Close()

	var out []withdrawal.Request
	for rows.Next() {
		r, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanWithdrawal(rows *sql.Rows) (withdrawal.Request, error) {
	var (
		r                       withdrawal.Request
		amount, fee, net        string
		acctName, acctNum       sql.NullString
		bankName, ifsc, comment sql.NullString
		status                  string
		createdAt, updatedAt    string
	)

	err := rows.Scan(
		&r.ID, &r.UserID, &amount, &acctName, &acctNum, &bankName, &ifsc,
		&fee, &net, &status, &comment, &createdAt, &updatedAt,
	)
	if err != nil {
		return r, fmt.Errorf("failed to scan withdrawal: %w", err)
	}

	r.Amount = ledger.MustParseDecimal(amount)
	r.PlatformFee = ledger.MustParseDecimal(fee)
	r.NetAmount = ledger.MustParseDecimal(net)
	r.BankDetails = withdrawal.BankDetails{
		AccountName:   acctName.String,
		AccountNumber: acctNum.String,
		BankName:      bankName.String,
		IFSC:          ifsc.String,
	}
	r.Status = withdrawal.Status(status)
	r.AdminComment = comment.String
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return r, nil
}

// =============================================================================
// RECHARGE STORE (recharge.Store interface)
// =============================================================================

func (s *Store) InsertRecharge(ctx context.Context, r recharge.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertRecharge(ctx, s.db, r)
}

func (s *Store) GetRecharge(ctx context.Context, id string) (*recharge.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getRecharge(ctx, s.db, id)
}

func (s *Store) ResolveRecharge(ctx context.Context, id string, status recharge.Status, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveRecharge(ctx, s.db, id, status, comment)
}

func (s *Store) ListRechargesByUser(ctx context.Context, userID string) ([]recharge.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listRechargesByUser(ctx, s.db, userID)
}

func (s *Store) insertRecharge(ctx context.Context, q querier, r recharge.Request) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO recharge_requests
		(id, user_id, amount, payment_type, transaction_reference, proof_url, status, admin_comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Amount.String(),
		nullString(r.PaymentType), nullString(r.TransactionReference), nullString(r.ProofURL),
		string(r.Status), nullString(r.AdminComment),
		r.CreatedAt.Format(time.RFC3339Nano), r.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert recharge: %w", err)
	}
	return nil
}

const rechargeColumns = `id, user_id, amount, payment_type, transaction_reference,
	proof_url, status, admin_comment, created_at, updated_at`

func (s *Store) getRecharge(ctx context.Context, q querier, id string) (*recharge.Request, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+rechargeColumns+" FROM recharge_requests WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query recharge: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	r, err := scanRecharge(rows)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) resolveRecharge(ctx context.Context, q querier, id string, status recharge.Status, comment string) error {
	res, err := q.ExecContext(ctx,
		"UPDATE recharge_requests SET status = ?, admin_comment = ?, updated_at = ? WHERE id = ?",
		string(status), nullString(comment), time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve recharge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: recharge %s", ledger.ErrNotFound, id)
	}
	return nil
}

func (s *Store) listRechargesByUser(ctx context.Context, q querier, userID string) ([]recharge.Request, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+rechargeColumns+" FROM recharge_requests WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recharges: %w", err)
	}
	defer rows.Close()

	var out []recharge.Request
	for rows.Next() {
		r, err := scanRecharge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRecharge(rows *sql.Rows) (recharge.Request, error) {
	var (
		r                    recharge.Request
		amount, status       string
		ptype, txnRef        sql.NullString
		proof, comment       sql.NullString
		createdAt, updatedAt string
	)

	err := rows.Scan(
		&r.ID, &r.UserID, &amount, &ptype, &txnRef, &proof, &status, &comment,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return r, fmt.Errorf("failed to scan recharge: %w", err)
	}

	r.Amount = ledger.MustParseDecimal(amount)
	r.PaymentType = ptype.String
	r.TransactionReference = txnRef.String
	r.ProofURL = proof.String
	r.Status = recharge.Status(status)
	r.AdminComment = comment.String
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return r, nil
}

// =============================================================================
// REFERRAL STORE (referral.Store interface)
// =============================================================================

func (s *Store) UplineChain(ctx context.Context, userID string, maxLevels int) ([]referral.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uplineChain(ctx, s.db, userID, maxLevels)
}

func (s *Store) InsertReferralEdge(ctx context.Context, downlineID, uplineID string, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertReferralEdge(ctx, s.db, downlineID, uplineID, level)
}

func (s *Store) uplineChain(ctx context.Context, q querier, userID string, maxLevels int) ([]referral.Link, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT upline_id, level FROM referral_tree WHERE downline_id = ? AND level <= ? ORDER BY level ASC",
		userID, maxLevels,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query upline chain: %w", err)
	}
	defer rows.Close()

	var links []referral.Link
	for rows.Next() {
		var l referral.Link
		if err := rows.Scan(&l.UplineUserID, &l.Level); err != nil {
			return nil, fmt.Errorf("failed to scan upline link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *Store) insertReferralEdge(ctx context.Context, q querier, downlineID, uplineID string, level int) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO referral_tree (downline_id, upline_id, level, created_at) VALUES (?, ?, ?, ?)",
		downlineID, uplineID, level, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert referral edge: %w", err)
	}
	return nil
}

// =============================================================================
// COMMISSION CONFIG STORE (commission.ConfigStore interface)
// =============================================================================

func (s *Store) ActiveRates(ctx context.Context) (map[int]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeRates(ctx, s.db)
}

func (s *Store) ListRates(ctx context.Context) ([]commission.Rate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listRates(ctx, s.db)
}

func (s *Store) SetRate(ctx context.Context, level int, percent decimal.Decimal, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRate(ctx, s.db, level, percent, active)
}

func (s *Store) activeRates(ctx context.Context, q querier) (map[int]decimal.Decimal, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT level, percent FROM commission_config WHERE is_active = TRUE")
	if err != nil {
		return nil, fmt.Errorf("failed to query commission rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[int]decimal.Decimal)
	for rows.Next() {
		var (
			level   int
			percent string
		)
		if err := rows.Scan(&level, &percent); err != nil {
			return nil, fmt.Errorf("failed to scan commission rate: %w", err)
		}
		rates[level] = ledger.MustParseDecimal(percent)
	}
	return rates, rows.Err()
}

func (s *Store) listRates(ctx context.Context, q querier) ([]commission.Rate, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT level, percent, is_active, updated_at FROM commission_config ORDER BY level ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query commission config: %w", err)
	}
	defer rows.Close()

	var rates []commission.Rate
	for rows.Next() {
		var (
			r         commission.Rate
			percent   string
			updatedAt string
		)
		if err := rows.Scan(&r.Level, &percent, &r.IsActive, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan commission config: %w", err)
		}
		r.Percent = ledger.MustParseDecimal(percent)
		r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

func (s *Store) setRate(ctx context.Context, q querier, level int, percent decimal.Decimal, active bool) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO commission_config (level, percent, is_active, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(level) DO UPDATE SET
			percent = excluded.percent,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		level, percent.String(), active, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to set commission rate: %w", err)
	}
	return nil
}

// =============================================================================
// DISTRIBUTION STORE (commission.DistributionStore interface)
// =============================================================================

func (s *Store) HasDistribution(ctx context.Context, orderID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasDistribution(ctx, s.db, orderID)
}

func (s *Store) InsertDistribution(ctx context.Context, rec commission.DistributionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertDistribution(ctx, s.db, rec)
}

func (s *Store) DistributionsByOrder(ctx context.Context, orderID string) ([]commission.DistributionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.distributionsByOrder(ctx, s.db, orderID)
}

func (s *Store) hasDistribution(ctx context.Context, q querier, orderID string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM referral_commission_distribution WHERE order_id = ?",
		orderID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check distribution: %w", err)
	}
	return count > 0, nil
}

func (s *Store) insertDistribution(ctx context.Context, q querier, rec commission.DistributionRecord) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO referral_commission_distribution
		(id, order_id, beneficiary_user_id, level, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OrderID, rec.BeneficiaryUserID, rec.Level,
		rec.Amount.String(), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert distribution record: %w", err)
	}
	return nil
}

func (s *Store) distributionsByOrder(ctx context.Context, q querier, orderID string) ([]commission.DistributionRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, order_id, beneficiary_user_id, level, amount, created_at
		FROM referral_commission_distribution
		WHERE order_id = ? ORDER BY level ASC`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution records: %w", err)
	}
	defer rows.Close()

	var recs []commission.DistributionRecord
	for rows.Next() {
		var (
			r         commission.DistributionRecord
			amount    string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.OrderID, &r.BeneficiaryUserID, &r.Level, &amount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan distribution record: %w", err)
		}
		r.Amount = ledger.MustParseDecimal(amount)
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"wallet_transactions", "referral_commission_distribution",
		"order_payments", "orders", "withdrawal_requests", "recharge_requests",
		"referral_tree", "commission_config", "wallets",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
