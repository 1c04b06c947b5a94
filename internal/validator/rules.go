package validator

import (
	"log"
	"regexp"
	"strings"

	"estatehub_backend/internal/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	phonePattern = regexp.MustCompile(`^(?:\+91|0)?[6-9]\d{9}$`)
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("slug", validateSlug)
	mustRegister("objectid", validateObjectID)

	// self-registration never grants admin
	mustRegister("user_type", validateUserType)
	mustRegister("approval_status", validateApprovalStatus)
	mustRegister("gateway", validateGateway)
	mustRegister("indian_phone", validateIndianPhone)
}

// Empty values pass every rule below; "required" handles presence.

func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return slugPattern.MatchString(value)
}

func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return primitive.IsValidObjectID(value)
}

func validateUserType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserType(value) {
	case models.UserTypeBuyer, models.UserTypeSeller, models.UserTypeAgent:
		return true
	default:
		return false
	}
}

func validateApprovalStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ApprovalStatus(value).Valid()
}

func validateGateway(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.PaymentGateway(strings.ToLower(value)).Valid()
}

func validateIndianPhone(fl validator.FieldLevel) bool {
	value := strings.ReplaceAll(fl.Field().String(), " ", "")
	if value == "" {
		return true
	}
	return phonePattern.MatchString(value)
}
