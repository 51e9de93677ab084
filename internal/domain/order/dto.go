package order

import (
	"time"

	"github.com/google/uuid"
)

type PlaceOrderItem struct {
	MenuItemID          uuid.UUID `json:"menu_item_id" validate:"required"`
	Quantity            int       `json:"quantity" validate:"required,min=1,max=50"`
	SpecialInstructions *string   `json:"special_instructions" validate:"omitempty,max=255"`
}

type PlaceOrderRequest struct {
	OrderType           string           `json:"order_type" validate:"required,order_type"`
	Items               []PlaceOrderItem `json:"items" validate:"required,min=1,dive"`
	SpecialInstructions *string          `json:"special_instructions" validate:"omitempty,max=500"`
	RequestedDeliveryAt *time.Time       `json:"requested_delivery_at"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=confirmed preparing ready delivered"`
	Note   *string `json:"note" validate:"omitempty,max=255"`
}

type RateOrderRequest struct {
	Score   int     `json:"score" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=500"`
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
