// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "account_firstname", "Basic", false},
		{"empty_string", "account_firstname", "", true},
		{"whitespace_only", "account_firstname", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value, "Please provide a first name.")

			if tt.hasError {
				assert.Error(t, v.Err())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
				assert.Equal(t, "Please provide a first name.", ae.Details[0].Message)
			} else {
				assert.NoError(t, v.Err())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"mixed_case", "Test@Example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"missing_tld", "test@localhost", false},
		{"display_name", "Test <test@example.com>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("account_email", tt.email)
			assert.Equal(t, !tt.isValid, v.Fails("account_email"))
		})
	}
}

/*
TestValidator_StrongPassword checks each clause of the password strength rule.
*/
func TestValidator_StrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		isValid  bool
	}{
		{"meets_every_clause", "Sup3r$ecretPass", true},
		{"exactly_twelve", "Abcdefghij1!", true},
		{"eleven_chars", "Abcdefghi1!", false},
		{"no_uppercase", "sup3r$ecretpass", false},
		{"no_digit", "Super$ecretPass", false},
		{"no_symbol", "Sup3rSecretPass", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.StrongPassword("account_password", tt.password)

			assert.Equal(t, tt.isValid, validate.IsStrongPassword(tt.password))
			if tt.isValid {
				assert.NoError(t, v.Err())
				return
			}
			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Equal(t, validate.PasswordRuleMessage, ae.Details[0].Message)
		})
	}
}

/*
TestValidator_Coercion checks numeric parsing and the range rules built on it.
*/
func TestValidator_Coercion(t *testing.T) {
	t.Run("int_ok", func(t *testing.T) {
		v := &validate.Validator{}
		assert.Equal(t, 2019, v.Int("inv_year", " 2019 ", "Valid year required."))
		assert.NoError(t, v.Err())
	})

	t.Run("int_rejects_text", func(t *testing.T) {
		v := &validate.Validator{}
		assert.Equal(t, 0, v.Int("inv_year", "twenty", "Valid year required."))
		assert.True(t, v.Fails("inv_year"))
	})

	t.Run("float_ok", func(t *testing.T) {
		v := &validate.Validator{}
		assert.InDelta(t, 25999.99, v.Float("inv_price", "25999.99", "Price must be a positive number."), 0.001)
		assert.NoError(t, v.Err())
	})

	t.Run("float_rejects_nan", func(t *testing.T) {
		v := &validate.Validator{}
		v.Float("inv_price", "NaN", "Price must be a positive number.")
		assert.True(t, v.Fails("inv_price"))
	})

	t.Run("optional_int_blank", func(t *testing.T) {
		v := &validate.Validator{}
		assert.Equal(t, 0, v.OptionalInt("inv_miles", "", "Mileage must be a whole number."))
		assert.NoError(t, v.Err())
	})

	t.Run("range_bounds", func(t *testing.T) {
		v := &validate.Validator{}
		v.Range("inv_year", 1900, 1900, 2027).Range("inv_year", 2027, 1900, 2027)
		assert.NoError(t, v.Err())

		v.Range("inv_year", 1899, 1900, 2027, "Valid year required.")
		assert.True(t, v.Fails("inv_year"))
	})
}

/*
TestValidator_Chain_Failure tests error accumulation and ordering in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("classification_name", "").
		MinLen("classification_name", "ab", 3, "Must be at least 3 characters.").
		Email("account_email", "not-an-email").
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	require.Len(t, ae.Details, 3)
	assert.Equal(t, "classification_name", ae.Details[0].Field)
	assert.Equal(t, "Must be at least 3 characters.", ae.Details[1].Message)
	assert.Equal(t, "account_email", ae.Details[2].Field)
	assert.Len(t, ae.Messages(), 3)
}

/*
TestValidator_MaxLen tests the upper length bound counts characters, not bytes.
*/
func TestValidator_MaxLen(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"under", "Jeep", true},
		{"exact", "abcde", true},
		{"multibyte_exact", "ééééé", true},
		{"over", "abcdef", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.MaxLen("inv_make", tt.value, 5, "Make is too long.")
			assert.Equal(t, !tt.isValid, v.Fails("inv_make"))
			if !tt.isValid {
				assert.Equal(t, []string{"Make is too long."}, apperr.As(v.Err()).Messages())
			}
		})
	}

	v := &validate.Validator{}
	v.MaxLen("inv_model", "abcdef", 5)
	assert.Equal(t, []string{"Maximum 5 characters"}, apperr.As(v.Err()).Messages())
}

/*
TestRequiredError tests the single-field shortcut produces a validation error.
*/
func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("classification_id", "Classification is required.")

	assert.Equal(t, apperr.CodeValidation, err.Code)
	require.Len(t, err.Details, 1)
	assert.Equal(t, "classification_id", err.Details[0].Field)
	assert.Equal(t, "Classification is required.", err.Details[0].Message)
}
