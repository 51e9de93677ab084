package wallet_test

import (
	"testing"

	"github.com/messhub/messhub-api/internal/domain/wallet"
)

func TestEntryTypeIsCredit(t *testing.T) {
	credits := []wallet.EntryType{wallet.EntryTopup, wallet.EntryRefund, wallet.EntryBonus}
	for _, typ := range credits {
		if !typ.IsCredit() {
			t.Errorf("expected %s to be a credit", typ)
		}
	}

	debits := []wallet.EntryType{wallet.EntryPayment, wallet.EntryPenalty}
	for _, typ := range debits {
		if typ.IsCredit() {
			t.Errorf("expected %s to be a debit", typ)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	e := &wallet.LedgerEntry{Amount: 500, Type: wallet.EntryTopup}
	if got := e.SignedAmount(); got != 500 {
		t.Fatalf("expected +500, got %d", got)
	}

	e = &wallet.LedgerEntry{Amount: 500, Type: wallet.EntryPayment}
	if got := e.SignedAmount(); got != -500 {
		t.Fatalf("expected -500, got %d", got)
	}

	e = &wallet.LedgerEntry{Amount: 120, Type: wallet.EntryPenalty}
	if got := e.SignedAmount(); got != -120 {
		t.Fatalf("expected -120, got %d", got)
	}
}
