// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import "github.com/taibuivan/csemotors/internal/platform/validate"

// Form field names shared by templates, rules and handlers.
const (
	FieldFirstName = "account_firstname"
	FieldLastName  = "account_lastname"
	FieldEmail     = "account_email"
	FieldPassword  = "account_password"
)

const maxNameLength = 50

// # Route Rules
//
// Each rule set runs every check in form order and stops a field at its
// first failure, so one field never shows two messages.

func loginRules(email, password string) error {
	v := &validate.Validator{}
	v.Required(FieldEmail, email, "A valid email is required.")
	if !v.Fails(FieldEmail) {
		v.Email(FieldEmail, email, "A valid email is required.")
	}
	v.Required(FieldPassword, password, "Password is required.")
	return v.Err()
}

func registrationRules(input RegisterInput) error {
	v := &validate.Validator{}
	nameRules(v, FieldFirstName, input.FirstName, "Please provide a first name.", "First name must be at most 50 characters.")
	nameRules(v, FieldLastName, input.LastName, "Please provide a last name.", "Last name must be at most 50 characters.")
	emailRules(v, input.Email)
	passwordRules(v, input.Password)
	return v.Err()
}

func profileRules(input ProfileInput) error {
	v := &validate.Validator{}
	nameRules(v, FieldFirstName, input.FirstName, "First name is required.", "First name must be at most 50 characters.")
	nameRules(v, FieldLastName, input.LastName, "Last name is required.", "Last name must be at most 50 characters.")
	emailRules(v, input.Email)
	return v.Err()
}

func changePasswordRules(password string) error {
	v := &validate.Validator{}
	passwordRules(v, password)
	return v.Err()
}

func nameRules(v *validate.Validator, field, value, requiredMessage, tooLongMessage string) {
	v.Required(field, value, requiredMessage)
	v.MaxLen(field, value, maxNameLength, tooLongMessage)
}

func emailRules(v *validate.Validator, email string) {
	v.Required(FieldEmail, email, "Email is required.")
	if !v.Fails(FieldEmail) {
		v.Email(FieldEmail, email, "A valid email is required.")
	}
}

func passwordRules(v *validate.Validator, password string) {
	v.Required(FieldPassword, password, "Password is required.")
	if !v.Fails(FieldPassword) {
		v.StrongPassword(FieldPassword, password)
	}
}
