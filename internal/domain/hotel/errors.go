package hotel

import "errors"

var (
	ErrHotelNotFound    = errors.New("hotel not found")
	ErrHotelExists      = errors.New("hotel profile already exists")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrNotOwner         = errors.New("hotel belongs to another owner")
)
