package student

import (
	"time"

	"github.com/google/uuid"
)

// HotelAccountStatus tracks a student's mess-account linkage with a hotel.
type HotelAccountStatus string

const (
	HotelAccountPending   HotelAccountStatus = "pending"
	HotelAccountApproved  HotelAccountStatus = "approved"
	HotelAccountRejected  HotelAccountStatus = "rejected"
	HotelAccountSuspended HotelAccountStatus = "suspended"
)

// DietaryType is the student's meal preference.
type DietaryType string

const (
	DietaryVeg    DietaryType = "veg"
	DietaryNonVeg DietaryType = "non_veg"
	DietaryBoth   DietaryType = "both"
)

type Student struct {
	ID                      uuid.UUID          `db:"id" json:"id"`
	UserID                  uuid.UUID          `db:"user_id" json:"user_id"`
	Name                    string             `db:"name" json:"name"`
	StudentCode             string             `db:"student_code" json:"student_code"`
	Mobile                  string             `db:"mobile" json:"mobile"`
	FatherName              string             `db:"father_name" json:"father_name,omitempty"`
	FatherPhone             string             `db:"father_phone" json:"father_phone,omitempty"`
	EmergencyName           string             `db:"emergency_name" json:"emergency_name,omitempty"`
	EmergencyPhone          string             `db:"emergency_phone" json:"emergency_phone,omitempty"`
	EmergencyRelation       string             `db:"emergency_relation" json:"emergency_relation,omitempty"`
	CollegeName             string             `db:"college_name" json:"college_name,omitempty"`
	CollegeCourse           *string            `db:"college_course" json:"college_course,omitempty"`
	CollegeYear             *int               `db:"college_year" json:"college_year,omitempty"`
	IDCardURL               *string            `db:"id_card_url" json:"id_card_url,omitempty"`
	FaceImageURL            *string            `db:"face_image_url" json:"face_image_url,omitempty"`
	LinkedHotelID           *uuid.UUID         `db:"linked_hotel_id" json:"linked_hotel_id,omitempty"`
	HotelAccountStatus      HotelAccountStatus `db:"hotel_account_status" json:"hotel_account_status"`
	HotelAccountRequestedAt *time.Time         `db:"hotel_account_requested_at" json:"hotel_account_requested_at,omitempty"`
	HotelAccountApprovedAt  *time.Time         `db:"hotel_account_approved_at" json:"hotel_account_approved_at,omitempty"`
	DietaryType             DietaryType        `db:"dietary_type" json:"dietary_type"`
	IsActive                bool               `db:"is_active" json:"is_active"`
	CreatedAt               time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time          `db:"updated_at" json:"updated_at"`
}

// IsLinkedTo reports whether the student has an approved mess account with
// the given hotel.
func (s *Student) IsLinkedTo(hotelID uuid.UUID) bool {
	return s.LinkedHotelID != nil && *s.LinkedHotelID == hotelID &&
		s.HotelAccountStatus == HotelAccountApproved
}

// CanOrder reports whether the student may place orders at all. The wallet
// balance check happens inside the settlement transaction, not here.
func (s *Student) CanOrder() bool {
	return s.IsActive && s.LinkedHotelID != nil && s.HotelAccountStatus == HotelAccountApproved
}
