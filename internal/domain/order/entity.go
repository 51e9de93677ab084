package order

import (
	"time"

	"github.com/google/uuid"
)

type OrderType string

const (
	TypeDailyMeal   OrderType = "daily_meal"
	TypeAlaCarte    OrderType = "ala_carte"
	TypeMonthlyPlan OrderType = "monthly_plan"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// transitions is the forward status machine. Cancellation is handled
// separately because it refunds.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusDelivered},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID                  uuid.UUID     `db:"id" json:"id"`
	OrderNumber         string        `db:"order_number" json:"order_number"`
	StudentID           uuid.UUID     `db:"student_id" json:"student_id"`
	HotelID             uuid.UUID     `db:"hotel_id" json:"hotel_id"`
	OrderType           OrderType     `db:"order_type" json:"order_type"`
	Subtotal            int64         `db:"subtotal" json:"subtotal"`
	Taxes               int64         `db:"taxes" json:"taxes"`
	Discount            int64         `db:"discount" json:"discount"`
	Total               int64         `db:"total" json:"total"`
	Status              Status        `db:"status" json:"status"`
	PaymentStatus       PaymentStatus `db:"payment_status" json:"payment_status"`
	PaymentMethod       string        `db:"payment_method" json:"payment_method"`
	SpecialInstructions *string       `db:"special_instructions" json:"special_instructions,omitempty"`
	RequestedDeliveryAt *time.Time    `db:"requested_delivery_at" json:"requested_delivery_at,omitempty"`
	EstimatedDeliveryAt *time.Time    `db:"estimated_delivery_at" json:"estimated_delivery_at,omitempty"`
	ActualDeliveryAt    *time.Time    `db:"actual_delivery_at" json:"actual_delivery_at,omitempty"`
	RatingScore         *int          `db:"rating_score" json:"rating_score,omitempty"`
	RatingComment       *string       `db:"rating_comment" json:"rating_comment,omitempty"`
	RatedAt             *time.Time    `db:"rated_at" json:"rated_at,omitempty"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updated_at"`

	Items []Item `db:"-" json:"items,omitempty"`
}

// Item is a priced snapshot of a menu item at order time. Later menu edits
// never change it.
type Item struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	OrderID             uuid.UUID `db:"order_id" json:"-"`
	MenuItemID          uuid.UUID `db:"menu_item_id" json:"menu_item_id"`
	Name                string    `db:"name" json:"name"`
	Price               int64     `db:"price" json:"price"`
	Quantity            int       `db:"quantity" json:"quantity"`
	Category            string    `db:"category" json:"category"`
	IsVeg               bool      `db:"is_veg" json:"is_veg"`
	SpecialInstructions *string   `db:"special_instructions" json:"special_instructions,omitempty"`
	Position            int       `db:"position" json:"-"`
}

type StatusHistory struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   uuid.UUID `db:"order_id" json:"-"`
	Status    Status    `db:"status" json:"status"`
	Note      *string   `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RecomputeTotals derives subtotal and total from the item snapshots.
func (o *Order) RecomputeTotals() {
	var subtotal int64
	for _, it := range o.Items {
		subtotal += it.Price * int64(it.Quantity)
	}
	o.Subtotal = subtotal
	o.Total = subtotal + o.Taxes - o.Discount
	if o.Total < 0 {
		o.Total = 0
	}
}

// EstimateDelivery gives 5 minutes of prep per order line plus a 15 minute
// base. Line quantity does not change the estimate.
func (o *Order) EstimateDelivery(from time.Time) time.Time {
	return from.Add(time.Duration(len(o.Items))*5*time.Minute + 15*time.Minute)
}

// CanBeCancelled allows cancellation only before the kitchen starts.
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// CanBeRated allows one rating after delivery.
func (o *Order) CanBeRated() bool {
	return o.Status == StatusDelivered && o.RatedAt == nil
}

// DailyStats summarizes a hotel's orders for one day.
type DailyStats struct {
	Date           string `json:"date"`
	OrderCount     int    `json:"order_count"`
	DeliveredCount int    `json:"delivered_count"`
	CancelledCount int    `json:"cancelled_count"`
	Revenue        int64  `json:"revenue"`
	RefundedAmount int64  `json:"refunded_amount"`
	AvgOrderValue  int64  `json:"avg_order_value"`
	TotalItemsSold int    `json:"total_items_sold"`
}
