package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/messhub/messhub-api/internal/pkg/sequence"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

func (r *Repository) EnsureWallet(ctx context.Context, studentID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO student_wallets (student_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (student_id) DO NOTHING
	`, studentID)
	return err
}

func (r *Repository) GetBalance(ctx context.Context, studentID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, `SELECT balance FROM student_wallets WHERE student_id = $1`, studentID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrWalletNotFound
	}
	return balance, err
}

// LockWalletTx serializes all balance changes for one student. Concurrent
// settlements against the same wallet queue here.
func (r *Repository) LockWalletTx(ctx context.Context, tx *sqlx.Tx, studentID uuid.UUID) (int64, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO student_wallets (student_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (student_id) DO NOTHING
	`, studentID); err != nil {
		return 0, err
	}

	var balance int64
	err := tx.GetContext(ctx, &balance, `SELECT balance FROM student_wallets WHERE student_id = $1 FOR UPDATE`, studentID)
	return balance, err
}

func (r *Repository) UpdateBalanceTx(ctx context.Context, tx *sqlx.Tx, studentID uuid.UUID, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE student_wallets SET balance = $1, updated_at = now() WHERE student_id = $2
	`, balance, studentID)
	return err
}

// InsertEntryTx writes one ledger row. A transaction_id collision surfaces
// as ErrDuplicateTransaction so the caller can re-allocate and retry.
func (r *Repository) InsertEntryTx(ctx context.Context, tx *sqlx.Tx, e *LedgerEntry) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO ledger_entries (
			id, transaction_id, student_id, amount, type, status,
			payment_method, related_order_id, related_hotel_id, description,
			balance_before, balance_after, failure_reason, processed_at,
			created_at, updated_at
		) VALUES (
			:id, :transaction_id, :student_id, :amount, :type, :status,
			:payment_method, :related_order_id, :related_hotel_id, :description,
			:balance_before, :balance_after, :failure_reason, :processed_at,
			:created_at, :updated_at
		)
	`, e)
	if err != nil {
		if sequence.IsUniqueViolation(err) {
			return ErrDuplicateTransaction
		}
		return err
	}
	return nil
}

func (r *Repository) GetByTransactionID(ctx context.Context, studentID uuid.UUID, transactionID string) (*LedgerEntry, error) {
	var e LedgerEntry
	err := r.db.GetContext(ctx, &e, `
		SELECT * FROM ledger_entries WHERE student_id = $1 AND transaction_id = $2
	`, studentID, transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) List(ctx context.Context, studentID uuid.UUID, f ListFilter) ([]LedgerEntry, error) {
	entries := []LedgerEntry{}
	query := `SELECT * FROM ledger_entries WHERE student_id = $1`
	args := []interface{}{studentID}

	if f.Type != "" {
		args = append(args, f.Type)
		query += fmt.Sprintf(` AND type = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	args = append(args, f.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	err := r.db.SelectContext(ctx, &entries, query, args...)
	return entries, err
}

func (r *Repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]LedgerEntry, error) {
	entries := []LedgerEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM ledger_entries WHERE related_order_id = $1 ORDER BY created_at
	`, orderID)
	return entries, err
}

func (r *Repository) Summary(ctx context.Context, studentID uuid.UUID) (*Summary, error) {
	var s Summary

	balance, err := r.GetBalance(ctx, studentID)
	if err != nil && !errors.Is(err, ErrWalletNotFound) {
		return nil, err
	}
	s.Balance = balance

	row := struct {
		TotalCredited int64 `db:"total_credited"`
		TotalDebited  int64 `db:"total_debited"`
		TotalTopups   int64 `db:"total_topups"`
		TotalSpent    int64 `db:"total_spent"`
		TotalRefunded int64 `db:"total_refunded"`
		EntryCount    int   `db:"entry_count"`
	}{}
	err = r.db.GetContext(ctx, &row, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type IN ('topup', 'refund', 'bonus')), 0) AS total_credited,
			COALESCE(SUM(amount) FILTER (WHERE type IN ('payment', 'penalty')), 0) AS total_debited,
			COALESCE(SUM(amount) FILTER (WHERE type = 'topup'), 0) AS total_topups,
			COALESCE(SUM(amount) FILTER (WHERE type = 'payment'), 0) AS total_spent,
			COALESCE(SUM(amount) FILTER (WHERE type = 'refund'), 0) AS total_refunded,
			COUNT(*) AS entry_count
		FROM ledger_entries
		WHERE student_id = $1 AND status = 'completed'
	`, studentID)
	if err != nil {
		return nil, err
	}

	s.TotalCredited = row.TotalCredited
	s.TotalDebited = row.TotalDebited
	s.TotalTopups = row.TotalTopups
	s.TotalSpent = row.TotalSpent
	s.TotalRefunded = row.TotalRefunded
	s.EntryCount = row.EntryCount
	return &s, nil
}

// MarkFailed moves a pending entry to failed with a reason. The balance is
// untouched because pending entries never applied it.
func (r *Repository) MarkFailed(ctx context.Context, entryID uuid.UUID, reason string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ledger_entries SET
			status = 'failed',
			failure_reason = $1,
			processed_at = now(),
			updated_at = now()
		WHERE id = $2 AND status = 'pending'
	`, reason, entryID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotPending
	}
	return nil
}

// CancelPending moves a student's own pending topup or refund to cancelled.
// Completed and failed entries are immutable; debits cannot be cancelled.
func (r *Repository) CancelPending(ctx context.Context, studentID uuid.UUID, transactionID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ledger_entries SET
			status = 'cancelled',
			processed_at = now(),
			updated_at = now()
		WHERE transaction_id = $1 AND student_id = $2
			AND status = 'pending' AND type IN ('topup', 'refund')
	`, transactionID, studentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotPending
	}
	return nil
}
