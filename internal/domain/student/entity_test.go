package student

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanOrder(t *testing.T) {
	hotelID := uuid.New()

	tests := []struct {
		name    string
		student Student
		want    bool
	}{
		{
			name:    "approved and linked",
			student: Student{IsActive: true, LinkedHotelID: &hotelID, HotelAccountStatus: HotelAccountApproved},
			want:    true,
		},
		{
			name:    "pending link",
			student: Student{IsActive: true, LinkedHotelID: &hotelID, HotelAccountStatus: HotelAccountPending},
			want:    false,
		},
		{
			name:    "suspended",
			student: Student{IsActive: true, LinkedHotelID: &hotelID, HotelAccountStatus: HotelAccountSuspended},
			want:    false,
		},
		{
			name:    "no hotel",
			student: Student{IsActive: true, HotelAccountStatus: HotelAccountApproved},
			want:    false,
		},
		{
			name:    "deactivated account",
			student: Student{IsActive: false, LinkedHotelID: &hotelID, HotelAccountStatus: HotelAccountApproved},
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.student.CanOrder(); got != tt.want {
				t.Errorf("CanOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsLinkedTo(t *testing.T) {
	hotelID := uuid.New()
	other := uuid.New()

	s := Student{LinkedHotelID: &hotelID, HotelAccountStatus: HotelAccountApproved}
	if !s.IsLinkedTo(hotelID) {
		t.Error("expected student to be linked to own hotel")
	}
	if s.IsLinkedTo(other) {
		t.Error("expected student not to be linked to another hotel")
	}

	s.HotelAccountStatus = HotelAccountRejected
	if s.IsLinkedTo(hotelID) {
		t.Error("rejected link must not count as linked")
	}
}
