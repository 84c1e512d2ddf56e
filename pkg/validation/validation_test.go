package validation_test

import (
	"errors"
	"testing"

	"care-recruitment-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type profile struct {
	FullName string `validate:"required,valid_name,no_emoji"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,valid_phone"`
	Status   string `validate:"omitempty,oneof=pending testing"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name    string
		input   profile
		wantErr bool
	}{
		{"valid", profile{FullName: "María O'Neil-Santos", Email: "m@example.com", Phone: "+63 912 345 6789"}, false},
		{"phone with dashes", profile{FullName: "Ana", Email: "a@example.com", Phone: "0912-345-6789"}, false},
		{"digits in name", profile{FullName: "Ana 2", Email: "a@example.com", Phone: "09123456789"}, true},
		{"emoji in name", profile{FullName: "Ana 😀", Email: "a@example.com", Phone: "09123456789"}, true},
		{"short phone", profile{FullName: "Ana", Email: "a@example.com", Phone: "12345"}, true},
		{"letters in phone", profile{FullName: "Ana", Email: "a@example.com", Phone: "0912abc4567"}, true},
		{"bad email", profile{FullName: "Ana", Email: "not-an-email", Phone: "09123456789"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	v := newValidator()

	err := v.Struct(profile{Email: "bad", Phone: "1", Status: "done"})
	messages := validation.FormatValidationErrors(err)

	assert.Contains(t, messages, "Full name is required")
	assert.Contains(t, messages, "Email must be a valid email address")
	assert.Contains(t, messages, "Phone number must be a valid phone number (7-15 digits, optional +)")
	assert.Contains(t, messages, "Status must be one of: pending, testing")
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	messages := validation.FormatValidationErrors(errors.New("unexpected EOF"))
	assert.Equal(t, []string{"unexpected EOF"}, messages)
}

type bound struct {
	Name  string `binding:"required,valid_name"`
	Phone string `binding:"required,valid_phone"`
}

func TestNew_ReadsBindingTags(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Struct(bound{Name: "Ana", Phone: "+63 912 345 6789"}))
	assert.Error(t, v.Struct(bound{Name: "Ana1", Phone: "+63 912 345 6789"}))
	assert.Error(t, v.Struct(bound{Phone: "+63 912 345 6789"}))
}
