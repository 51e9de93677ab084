package student

import "github.com/google/uuid"

type CreateProfileRequest struct {
	Name              string  `json:"name" validate:"required,min=2,max=100"`
	StudentCode       string  `json:"student_code" validate:"required,min=3,max=30"`
	Mobile            string  `json:"mobile" validate:"required,min=7,max=15"`
	FatherName        string  `json:"father_name" validate:"omitempty,max=100"`
	FatherPhone       string  `json:"father_phone" validate:"omitempty,max=15"`
	EmergencyName     string  `json:"emergency_name" validate:"omitempty,max=100"`
	EmergencyPhone    string  `json:"emergency_phone" validate:"omitempty,max=15"`
	EmergencyRelation string  `json:"emergency_relation" validate:"omitempty,max=50"`
	CollegeName       string  `json:"college_name" validate:"omitempty,max=150"`
	CollegeCourse     *string `json:"college_course" validate:"omitempty,max=100"`
	CollegeYear       *int    `json:"college_year" validate:"omitempty,min=1,max=6"`
	DietaryType       string  `json:"dietary_type" validate:"omitempty,oneof=veg non_veg both"`
}

type UpdateProfileRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=2,max=100"`
	Mobile            *string `json:"mobile" validate:"omitempty,min=7,max=15"`
	FatherName        *string `json:"father_name" validate:"omitempty,max=100"`
	FatherPhone       *string `json:"father_phone" validate:"omitempty,max=15"`
	EmergencyName     *string `json:"emergency_name" validate:"omitempty,max=100"`
	EmergencyPhone    *string `json:"emergency_phone" validate:"omitempty,max=15"`
	EmergencyRelation *string `json:"emergency_relation" validate:"omitempty,max=50"`
	CollegeName       *string `json:"college_name" validate:"omitempty,max=150"`
	CollegeCourse     *string `json:"college_course" validate:"omitempty,max=100"`
	CollegeYear       *int    `json:"college_year" validate:"omitempty,min=1,max=6"`
	DietaryType       *string `json:"dietary_type" validate:"omitempty,oneof=veg non_veg both"`
}

type LinkHotelRequest struct {
	HotelID uuid.UUID `json:"hotel_id" validate:"required"`
}

type ReviewLinkRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"omitempty,max=255"`
}
