// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Every form handler builds one Validator per request, runs its route rules
// and stops before any store call when [Validator.Err] is non-nil. Field
// errors keep the order in which rules ran so forms list them top to bottom.
package validate

import (
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
)

// PasswordMinLength is the minimum number of characters in a password.
const PasswordMinLength = 12

// PasswordRuleMessage describes the password strength rule to visitors.
const PasswordRuleMessage = "Password must be at least 12 characters and include an uppercase letter, a number, and a special character."

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty. An optional message replaces the default.
func (v *Validator) Required(field, value string, message ...string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, pick("This field is required", message))
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max. An optional message replaces the default.
func (v *Validator) MaxLen(field, value string, max int, message ...string) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, pick(fmt.Sprintf("Maximum %d characters", max), message))
	}
	return v
}

// MinLen fails if the Unicode character count is below min. An optional message replaces the default.
func (v *Validator) MinLen(field, value string, min int, message ...string) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, pick(fmt.Sprintf("Minimum %d characters", min), message))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int, message ...string) *Validator {
	if value < min || value > max {
		v.add(field, pick(fmt.Sprintf("Must be between %d and %d", min, max), message))
	}
	return v
}

// Email fails if the value is not a single bare RFC 5322 address.
// Display-name forms such as "Jo <jo@example.com>" are rejected.
func (v *Validator) Email(field, value string, message ...string) *Validator {
	address, err := mail.ParseAddress(value)
	if err != nil || address.Address != value || !strings.Contains(address.Address[strings.LastIndex(address.Address, "@")+1:], ".") {
		v.add(field, pick("Must be a valid email address", message))
	}
	return v
}

// StrongPassword fails unless value has at least [PasswordMinLength] characters
// with an uppercase letter, a digit and a symbol.
func (v *Validator) StrongPassword(field, value string) *Validator {
	if !IsStrongPassword(value) {
		v.add(field, PasswordRuleMessage)
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("inv_miles", miles < 0, "Mileage cannot be negative.")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// # Coercion

// Int parses raw as a base-10 integer. On failure it records message and returns 0.
func (v *Validator) Int(field, raw, message string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		v.add(field, message)
		return 0
	}
	return value
}

// Float parses raw as a finite decimal number. On failure it records message and returns 0.
func (v *Validator) Float(field, raw, message string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		v.add(field, message)
		return 0
	}
	return value
}

// OptionalInt parses raw like [Validator.Int] but treats a blank value as 0.
func (v *Validator) OptionalInt(field, raw, message string) int {
	if strings.TrimSpace(raw) == "" {
		return 0
	}
	return v.Int(field, raw, message)
}

// # Output

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// Call it once at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// Fails reports whether a rule has already failed for field.
func (v *Validator) Fails(field string) bool {
	for _, fieldError := range v.errs {
		if fieldError.Field == field {
			return true
		}
	}
	return false
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}

// IsStrongPassword reports whether value satisfies the password strength rule.
func IsStrongPassword(value string) bool {
	if utf8.RuneCountInString(value) < PasswordMinLength {
		return false
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasDigit && hasSymbol
}

func pick(fallback string, override []string) string {
	if len(override) > 0 && override[0] != "" {
		return override[0]
	}
	return fallback
}
