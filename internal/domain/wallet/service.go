package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/messhub/messhub-api/internal/pkg/sequence"
)

type Config struct {
	TopupMinAmount int64
	TopupMaxAmount int64
	AllocRetries   int
	RecentEntries  int
}

type Service struct {
	repo *Repository
	cfg  Config
}

func NewService(repo *Repository, cfg Config) *Service {
	if cfg.AllocRetries <= 0 {
		cfg.AllocRetries = 3
	}
	if cfg.RecentEntries <= 0 {
		cfg.RecentEntries = 10
	}
	return &Service{repo: repo, cfg: cfg}
}

// Topup credits the wallet and records a completed ledger entry in one
// transaction.
func (s *Service) Topup(ctx context.Context, studentID uuid.UUID, req *TopupRequest) (*LedgerEntry, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.Amount < s.cfg.TopupMinAmount || req.Amount > s.cfg.TopupMaxAmount {
		return nil, ErrAmountOutOfRange
	}

	method := PaymentMethod(req.PaymentMethod)
	entry, err := s.apply(ctx, studentID, req.Amount, EntryTopup, &method, nil, nil, "Wallet topup")
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("student_id", studentID.String()).
		Str("transaction_id", entry.TransactionID).
		Int64("amount", req.Amount).
		Msg("wallet topup completed")
	return entry, nil
}

// Adjust applies an admin penalty or bonus.
func (s *Service) Adjust(ctx context.Context, req *AdjustmentRequest) (*LedgerEntry, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	typ := EntryType(req.Type)
	method := MethodAdminAdjustment
	entry, err := s.apply(ctx, req.StudentID, req.Amount, typ, &method, nil, nil, req.Description)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("student_id", req.StudentID.String()).
		Str("transaction_id", entry.TransactionID).
		Str("type", req.Type).
		Int64("amount", req.Amount).
		Msg("wallet adjustment applied")
	return entry, nil
}

// apply locks the wallet row, moves the balance, and records the completed
// entry. Identifier collisions under the day-stem counter trigger a bounded
// retry with a fresh id.
func (s *Service) apply(ctx context.Context, studentID uuid.UUID, amount int64, typ EntryType, method *PaymentMethod, orderID, hotelID *uuid.UUID, description string) (*LedgerEntry, error) {
	var lastErr error
	for attempt := 0; attempt < s.cfg.AllocRetries; attempt++ {
		entry, err := s.applyOnce(ctx, studentID, amount, typ, method, orderID, hotelID, description)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, ErrDuplicateTransaction) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Service) applyOnce(ctx context.Context, studentID uuid.UUID, amount int64, typ EntryType, method *PaymentMethod, orderID, hotelID *uuid.UUID, description string) (*LedgerEntry, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	balance, err := s.repo.LockWalletTx(ctx, tx, studentID)
	if err != nil {
		return nil, err
	}

	delta := amount
	if !typ.IsCredit() {
		delta = -amount
	}
	nextBalance := balance + delta
	if nextBalance < 0 {
		return nil, ErrInsufficientFunds
	}

	txnID, err := sequence.NextID(ctx, tx, sequence.LedgerPrefix, sequence.LedgerWidth, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBalanceTx(ctx, tx, studentID, nextBalance); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &LedgerEntry{
		ID:             uuid.New(),
		TransactionID:  txnID,
		StudentID:      studentID,
		Amount:         amount,
		Type:           typ,
		Status:         StatusCompleted,
		PaymentMethod:  method,
		RelatedOrderID: orderID,
		RelatedHotelID: hotelID,
		Description:    description,
		BalanceBefore:  &balance,
		BalanceAfter:   &nextBalance,
		ProcessedAt:    &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.InsertEntryTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) GetWallet(ctx context.Context, studentID uuid.UUID) (*WalletResponse, error) {
	if err := s.repo.EnsureWallet(ctx, studentID); err != nil {
		return nil, err
	}

	balance, err := s.repo.GetBalance(ctx, studentID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.List(ctx, studentID, ListFilter{Limit: s.cfg.RecentEntries})
	if err != nil {
		return nil, err
	}

	return &WalletResponse{Balance: balance, RecentEntries: entries}, nil
}

func (s *Service) ListEntries(ctx context.Context, studentID uuid.UUID, f ListFilter) ([]LedgerEntry, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, studentID, f)
}

func (s *Service) GetEntry(ctx context.Context, studentID uuid.UUID, transactionID string) (*LedgerEntry, error) {
	return s.repo.GetByTransactionID(ctx, studentID, transactionID)
}

// FailEntry marks a pending entry as failed with a reason, admin only.
func (s *Service) FailEntry(ctx context.Context, req *FailEntryRequest) (*LedgerEntry, error) {
	entry, err := s.repo.GetByTransactionID(ctx, req.StudentID, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkFailed(ctx, entry.ID, req.Reason); err != nil {
		return nil, err
	}

	log.Info().
		Str("student_id", req.StudentID.String()).
		Str("transaction_id", req.TransactionID).
		Str("reason", req.Reason).
		Msg("pending ledger entry failed")

	return s.repo.GetByTransactionID(ctx, req.StudentID, req.TransactionID)
}

// CancelEntry cancels the student's own pending entry, e.g. an abandoned topup.
func (s *Service) CancelEntry(ctx context.Context, studentID uuid.UUID, transactionID string) (*LedgerEntry, error) {
	if err := s.repo.CancelPending(ctx, studentID, transactionID); err != nil {
		return nil, err
	}

	log.Info().
		Str("student_id", studentID.String()).
		Str("transaction_id", transactionID).
		Msg("pending ledger entry cancelled")

	return s.repo.GetByTransactionID(ctx, studentID, transactionID)
}

func (s *Service) GetSummary(ctx context.Context, studentID uuid.UUID) (*Summary, error) {
	return s.repo.Summary(ctx, studentID)
}
