// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/platform/dberr"
	"github.com/taibuivan/csemotors/internal/platform/sec"
)

// Visitor-facing outcome messages.
const (
	CredentialsMessage     = "Please check your credentials and try again."
	EmailRegisteredMessage = "Email already registered."
	EmailExistsMessage     = "Email already exists."
)

// Hasher hashes and verifies passwords. [sec.PasswordHasher] implements it.
type Hasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(ctx context.Context, plain, hash string) (bool, error)
}

// ErrInvalidCredentials is returned by [Service.Authenticate] for an unknown
// email and a wrong password alike.
var ErrInvalidCredentials = apperr.Unauthorized(CredentialsMessage)

// Service implements the account use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing,
// registration or login logic must be reviewed with care.
type Service struct {
	repository Repository
	hasher     Hasher
	logger     *slog.Logger
}

// NewService constructs a [Service].
func NewService(repository Repository, hasher Hasher, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		hasher:     hasher,
		logger:     logger,
	}
}

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register hashes the password and persists a new Client account.
//
// # Returns
//   - The new [*Account] with its ID set.
//   - [apperr.Conflict] if the email is taken ignoring case. No record is written.
func (service *Service) Register(context context.Context, input RegisterInput) (*Account, error) {
	email := NormalizeEmail(input.Email)

	// 1. Uniqueness check
	_, err := service.repository.FindByEmail(context, email)
	switch {
	case err == nil:
		return nil, apperr.Conflict(EmailRegisteredMessage)
	case !apperr.IsNotFound(err):
		return nil, fmt.Errorf("account_register_lookup_failed: %w", err)
	}

	// 2. Hashing
	hash, err := service.hasher.Hash(context, input.Password)
	if err != nil {
		return nil, err
	}

	// 3. Persistence. The unique index still guards the race between check and insert.
	account := &Account{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        email,
		PasswordHash: hash,
		Role:         sec.RoleClient,
	}
	if err := service.repository.Create(context, account); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) || dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict(EmailRegisteredMessage)
		}
		return nil, fmt.Errorf("account_register_failed: %w", err)
	}

	service.logger.InfoContext(context, "account_registered", slog.Int("account_id", account.ID))
	return account, nil
}

// Authenticate checks an email and password pair.
//
// # Returns
//   - The matching [*Account].
//   - [ErrInvalidCredentials] for an unknown email or a wrong password, so
//     callers cannot tell which one failed.
func (service *Service) Authenticate(context context.Context, email, password string) (*Account, error) {
	account, err := service.repository.FindByEmail(context, NormalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("account_authenticate_lookup_failed: %w", err)
	}

	ok, err := service.hasher.Verify(context, password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("account_authenticate_verify_failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// Get returns the account with the given ID.
func (service *Service) Get(context context.Context, id int) (*Account, error) {
	return service.repository.FindByID(context, id)
}

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
}

// UpdateProfile replaces the name and email of account id.
//
// The email must not belong to another account; keeping one's own email is
// allowed. Concurrent updates to the same account are last-writer-wins.
func (service *Service) UpdateProfile(context context.Context, id int, input ProfileInput) (*Account, error) {
	email := NormalizeEmail(input.Email)

	existing, err := service.repository.FindByEmail(context, email)
	switch {
	case err == nil && existing.ID != id:
		return nil, apperr.Conflict(EmailExistsMessage)
	case err != nil && !apperr.IsNotFound(err):
		return nil, fmt.Errorf("account_update_lookup_failed: %w", err)
	}

	account, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	account.FirstName = input.FirstName
	account.LastName = input.LastName
	account.Email = email

	if err := service.repository.UpdateProfile(context, account); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict(EmailExistsMessage)
		}
		return nil, fmt.Errorf("account_update_failed: %w", err)
	}
	return account, nil
}

// ChangePassword hashes and stores a new password for account id.
func (service *Service) ChangePassword(context context.Context, id int, password string) error {
	hash, err := service.hasher.Hash(context, password)
	if err != nil {
		return err
	}

	if err := service.repository.UpdatePassword(context, id, hash); err != nil {
		return fmt.Errorf("account_change_password_failed: %w", err)
	}

	service.logger.InfoContext(context, "account_password_changed", slog.Int("account_id", id))
	return nil
}
