package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPhone(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.ValidPhone("9876543210"))
	assert.False(t, v.ValidPhone("987654321"))
	assert.False(t, v.ValidPhone("98765432100"))
	assert.False(t, v.ValidPhone("98765-4321"))
	assert.False(t, v.ValidPhone(""))
}

func TestValidEmail(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.ValidEmail("asha@example.com"))
	assert.False(t, v.ValidEmail("asha@"))
	assert.False(t, v.ValidEmail(""))
}

func TestFormatValidationErrors(t *testing.T) {
	type request struct {
		Name        string `json:"patient_name" validate:"required"`
		Phone       string `json:"patient_phone,omitempty" validate:"required,phone10"`
		Email       string `validate:"omitempty,email"`
		Password    string `json:"password"`
		OldPassword string `json:"old_password" validate:"required_with=Password"`
	}

	v := NewValidator()
	err := v.Validate(request{Phone: "123", Email: "nope", Password: "new-secret"})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "patient_name is required", errs["patient_name"])
	assert.Equal(t, "patient_phone must be exactly 10 digits", errs["patient_phone"])
	assert.Equal(t, "Email must be a valid email address", errs["Email"])
	assert.Equal(t, "old_password is required when password is set", errs["old_password"])
}
