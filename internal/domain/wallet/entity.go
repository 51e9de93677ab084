package wallet

import (
	"time"

	"github.com/google/uuid"
)

// EntryType classifies a ledger entry. Credits add to the balance, debits
// subtract from it.
type EntryType string

const (
	EntryTopup   EntryType = "topup"
	EntryPayment EntryType = "payment"
	EntryRefund  EntryType = "refund"
	EntryPenalty EntryType = "penalty"
	EntryBonus   EntryType = "bonus"
)

// IsCredit reports whether the type adds to the balance.
func (t EntryType) IsCredit() bool {
	switch t {
	case EntryTopup, EntryRefund, EntryBonus:
		return true
	}
	return false
}

type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusCompleted EntryStatus = "completed"
	StatusFailed    EntryStatus = "failed"
	StatusCancelled EntryStatus = "cancelled"
)

// PaymentMethod records how money entered the system for topups.
type PaymentMethod string

const (
	MethodUPI             PaymentMethod = "upi"
	MethodCard            PaymentMethod = "card"
	MethodNetbanking      PaymentMethod = "netbanking"
	MethodWallet          PaymentMethod = "wallet"
	MethodCash            PaymentMethod = "cash"
	MethodAdminAdjustment PaymentMethod = "admin_adjustment"
)

type Wallet struct {
	StudentID uuid.UUID `db:"student_id" json:"student_id"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LedgerEntry is one immutable wallet movement. Amount is always positive;
// direction comes from the type.
type LedgerEntry struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	TransactionID  string         `db:"transaction_id" json:"transaction_id"`
	StudentID      uuid.UUID      `db:"student_id" json:"student_id"`
	Amount         int64          `db:"amount" json:"amount"`
	Type           EntryType      `db:"type" json:"type"`
	Status         EntryStatus    `db:"status" json:"status"`
	PaymentMethod  *PaymentMethod `db:"payment_method" json:"payment_method,omitempty"`
	RelatedOrderID *uuid.UUID     `db:"related_order_id" json:"related_order_id,omitempty"`
	RelatedHotelID *uuid.UUID     `db:"related_hotel_id" json:"related_hotel_id,omitempty"`
	Description    string         `db:"description" json:"description"`
	BalanceBefore  *int64         `db:"balance_before" json:"balance_before,omitempty"`
	BalanceAfter   *int64         `db:"balance_after" json:"balance_after,omitempty"`
	FailureReason  *string        `db:"failure_reason" json:"failure_reason,omitempty"`
	ProcessedAt    *time.Time     `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// SignedAmount is the entry's effect on the balance.
func (e *LedgerEntry) SignedAmount() int64 {
	if e.Type.IsCredit() {
		return e.Amount
	}
	return -e.Amount
}

// Summary aggregates completed entries for a student.
type Summary struct {
	Balance       int64 `json:"balance"`
	TotalCredited int64 `json:"total_credited"`
	TotalDebited  int64 `json:"total_debited"`
	TotalTopups   int64 `json:"total_topups"`
	TotalSpent    int64 `json:"total_spent"`
	TotalRefunded int64 `json:"total_refunded"`
	EntryCount    int   `json:"entry_count"`
}
