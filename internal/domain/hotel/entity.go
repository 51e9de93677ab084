package hotel

import (
	"time"

	"github.com/google/uuid"
)

// MenuCategory groups menu items by meal slot.
type MenuCategory string

const (
	CategoryBreakfast MenuCategory = "breakfast"
	CategoryLunch     MenuCategory = "lunch"
	CategoryDinner    MenuCategory = "dinner"
	CategorySnacks    MenuCategory = "snacks"
	CategoryBeverages MenuCategory = "beverages"
)

type Hotel struct {
	ID               uuid.UUID `db:"id" json:"id"`
	OwnerUserID      uuid.UUID `db:"owner_user_id" json:"owner_user_id"`
	Name             string    `db:"name" json:"name"`
	Description      string    `db:"description" json:"description,omitempty"`
	AddressLine      string    `db:"address_line" json:"address_line,omitempty"`
	City             string    `db:"city" json:"city,omitempty"`
	State            string    `db:"state" json:"state,omitempty"`
	Pincode          string    `db:"pincode" json:"pincode,omitempty"`
	ContactPhone     string    `db:"contact_phone" json:"contact_phone,omitempty"`
	ContactEmail     string    `db:"contact_email" json:"contact_email,omitempty"`
	DailyMessPrice   int64     `db:"daily_mess_price" json:"daily_mess_price"`
	MonthlyMessPrice int64     `db:"monthly_mess_price" json:"monthly_mess_price"`
	SecurityDeposit  int64     `db:"security_deposit" json:"security_deposit"`
	MaxStudents      int       `db:"max_students" json:"max_students"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	IsVerified       bool      `db:"is_verified" json:"is_verified"`
	RatingTotal      int64     `db:"rating_total" json:"-"`
	RatingCount      int       `db:"rating_count" json:"rating_count"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// AverageRating is the mean of all order ratings, 0 when unrated.
func (h *Hotel) AverageRating() float64 {
	if h.RatingCount == 0 {
		return 0
	}
	return float64(h.RatingTotal) / float64(h.RatingCount)
}

type MenuItem struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	HotelID     uuid.UUID    `db:"hotel_id" json:"hotel_id"`
	Name        string       `db:"name" json:"name"`
	Description string       `db:"description" json:"description,omitempty"`
	Price       int64        `db:"price" json:"price"`
	Category    MenuCategory `db:"category" json:"category"`
	IsVeg       bool         `db:"is_veg" json:"is_veg"`
	IsAvailable bool         `db:"is_available" json:"is_available"`
	ImageURL    *string      `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}
