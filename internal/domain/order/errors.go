package order

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("order has no items")
	ErrTooManyItems         = errors.New("order exceeds maximum item count")
	ErrMenuItemUnavailable  = errors.New("menu item unavailable")
	ErrNotEligible          = errors.New("student has no approved account at this hotel")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrCannotCancel         = errors.New("order can no longer be cancelled")
	ErrAlreadyRated         = errors.New("order already rated")
	ErrNotDelivered         = errors.New("order is not delivered")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrNotOrderOwner        = errors.New("order belongs to another student")
	ErrNotHotelOrder        = errors.New("order belongs to another hotel")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)
