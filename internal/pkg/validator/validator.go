package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"student", "hotel_owner", "admin"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})

	validate.RegisterValidation("order_type", func(fl validator.FieldLevel) bool {
		orderType := fl.Field().String()
		validTypes := []string{"daily_meal", "ala_carte", "monthly_plan"}
		for _, t := range validTypes {
			if orderType == t {
				return true
			}
		}
		return false
	})

	validate.RegisterValidation("menu_category", func(fl validator.FieldLevel) bool {
		category := fl.Field().String()
		validCategories := []string{"breakfast", "lunch", "dinner", "snacks", "beverages"}
		for _, c := range validCategories {
			if category == c {
				return true
			}
		}
		return false
	})

	validate.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		method := fl.Field().String()
		validMethods := []string{"upi", "card", "netbanking", "wallet", "cash", "admin_adjustment"}
		for _, m := range validMethods {
			if method == m {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "role":
			errors[field] = "Invalid role"
		case "order_type":
			errors[field] = "Invalid order type"
		case "menu_category":
			errors[field] = "Invalid menu category"
		case "payment_method":
			errors[field] = "Invalid payment method"
		default:
			errors[field] = "Invalid value"
		}
	}
	return errors
}
