package wallet

import "github.com/google/uuid"

type TopupRequest struct {
	Amount        int64  `json:"amount" validate:"required,min=1"`
	PaymentMethod string `json:"payment_method" validate:"required,payment_method"`
}

type AdjustmentRequest struct {
	StudentID   uuid.UUID `json:"student_id" validate:"required"`
	Amount      int64     `json:"amount" validate:"required,min=1"`
	Type        string    `json:"type" validate:"required,oneof=penalty bonus"`
	Description string    `json:"description" validate:"required,max=255"`
}

type WalletResponse struct {
	Balance       int64         `json:"balance"`
	RecentEntries []LedgerEntry `json:"recent_entries"`
}

type FailEntryRequest struct {
	StudentID     uuid.UUID `json:"student_id" validate:"required"`
	TransactionID string    `json:"transaction_id" validate:"required"`
	Reason        string    `json:"reason" validate:"required,max=255"`
}

type ListFilter struct {
	Type   EntryType
	Status EntryStatus
	Limit  int
	Offset int
}
