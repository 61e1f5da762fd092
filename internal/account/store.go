// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import "context"

// Repository defines the data access contract for accounts.
//
// Every email argument is already normalized by the service.
type Repository interface {
	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no account uses it.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id int) (*Account, error)

	// Create inserts a new account and sets its ID. The role column is
	// always written as Client regardless of account.Role.
	//
	// Returns [apperr.Conflict] if the email is already taken.
	Create(ctx context.Context, account *Account) error

	// UpdateProfile replaces the name and email of an account.
	UpdateProfile(ctx context.Context, account *Account) error

	// UpdatePassword replaces only the password hash. It is separate from
	// [Repository.UpdateProfile] so profile edits cannot touch credentials.
	UpdatePassword(ctx context.Context, id int, hash string) error
}
