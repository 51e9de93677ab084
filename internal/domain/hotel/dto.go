package hotel

type CreateHotelRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=150"`
	Description      string `json:"description" validate:"omitempty,max=1000"`
	AddressLine      string `json:"address_line" validate:"omitempty,max=255"`
	City             string `json:"city" validate:"omitempty,max=100"`
	State            string `json:"state" validate:"omitempty,max=100"`
	Pincode          string `json:"pincode" validate:"omitempty,max=10"`
	ContactPhone     string `json:"contact_phone" validate:"omitempty,max=15"`
	ContactEmail     string `json:"contact_email" validate:"omitempty,email"`
	DailyMessPrice   int64  `json:"daily_mess_price" validate:"min=0"`
	MonthlyMessPrice int64  `json:"monthly_mess_price" validate:"min=0"`
	SecurityDeposit  int64  `json:"security_deposit" validate:"min=0"`
	MaxStudents      int    `json:"max_students" validate:"omitempty,min=1,max=10000"`
}

type UpdateHotelRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=2,max=150"`
	Description      *string `json:"description" validate:"omitempty,max=1000"`
	AddressLine      *string `json:"address_line" validate:"omitempty,max=255"`
	City             *string `json:"city" validate:"omitempty,max=100"`
	State            *string `json:"state" validate:"omitempty,max=100"`
	Pincode          *string `json:"pincode" validate:"omitempty,max=10"`
	ContactPhone     *string `json:"contact_phone" validate:"omitempty,max=15"`
	ContactEmail     *string `json:"contact_email" validate:"omitempty,email"`
	DailyMessPrice   *int64  `json:"daily_mess_price" validate:"omitempty,min=0"`
	MonthlyMessPrice *int64  `json:"monthly_mess_price" validate:"omitempty,min=0"`
	SecurityDeposit  *int64  `json:"security_deposit" validate:"omitempty,min=0"`
	MaxStudents      *int    `json:"max_students" validate:"omitempty,min=1,max=10000"`
	IsActive         *bool   `json:"is_active"`
}

type CreateMenuItemRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=150"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Price       int64  `json:"price" validate:"min=0"`
	Category    string `json:"category" validate:"required,menu_category"`
	IsVeg       bool   `json:"is_veg"`
}

type UpdateMenuItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=150"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Price       *int64  `json:"price" validate:"omitempty,min=0"`
	Category    *string `json:"category" validate:"omitempty,menu_category"`
	IsVeg       *bool   `json:"is_veg"`
	IsAvailable *bool   `json:"is_available"`
}

type HotelResponse struct {
	*Hotel
	AverageRating float64 `json:"average_rating"`
}

func toHotelResponse(h *Hotel) *HotelResponse {
	return &HotelResponse{Hotel: h, AverageRating: h.AverageRating()}
}
