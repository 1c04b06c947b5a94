package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Slug     string `json:"slug" validate:"required,slug"`
	ID       string `json:"id" validate:"omitempty,objectid"`
	UserType string `json:"userType" validate:"omitempty,user_type"`
	Gateway  string `json:"gateway" validate:"omitempty,gateway"`
	Phone    string `json:"phone" validate:"omitempty,indian_phone"`
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	ok := sample{
		Slug:     "independent-house",
		ID:       "64b64c2f9f1b2c3d4e5f6a7b",
		UserType: "seller",
		Gateway:  "phonepe",
		Phone:    "+919876543210",
	}
	assert.NoError(t, v.Validate(ok))

	err := v.Validate(sample{
		Slug:     "Independent House",
		ID:       "nope",
		UserType: "admin",
		Gateway:  "paypal",
		Phone:    "12345",
	})
	require.Error(t, err)

	vErr, isValidation := err.(*ValidationError)
	require.True(t, isValidation)
	assert.Len(t, vErr.Errors, 5)
	assert.Equal(t, "Must contain only lowercase letters, digits and hyphens", vErr.Errors["slug"])
	assert.Equal(t, "Must be one of: buyer, seller, agent", vErr.Errors["userType"])
	assert.Contains(t, vErr.Error(), "field 'gateway'")
}

func TestValidate_Required(t *testing.T) {
	err := New().Validate(sample{})
	require.Error(t, err)
	assert.Equal(t, "This field is required", err.(*ValidationError).Errors["slug"])
}
