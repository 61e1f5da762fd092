// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package account implements visitor accounts: registration, login,
// profile updates and password changes.
//
// # Architecture
//
// The package follows the same layering as every domain package:
//   - account.go: entity and normalization rules
//   - store.go / store_postgres.go / store_memory.go: persistence contract, pgx
//     implementation and the in-process implementation
//   - service.go: use cases, technology-agnostic
//   - rules.go: per-route form validation
//   - http.go: server-rendered handlers
package account

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/csemotors/internal/platform/sec"
	"github.com/taibuivan/csemotors/internal/session"
)

// Account is a registered visitor.
//
// # Rules
//   - Email is unique ignoring case and is stored normalized (see [NormalizeEmail]).
//   - PasswordHash is produced by the password hasher only and never leaves the server.
//   - Role is Client on registration. Promotion happens outside the application.
//   - Accounts are never hard-deleted.
type Account struct {
	ID           int      `json:"account_id"`
	FirstName    string   `json:"account_firstname"`
	LastName     string   `json:"account_lastname"`
	Email        string   `json:"account_email"`
	PasswordHash string   `json:"-"`
	Role         sec.Role `json:"account_type"`
}

// emailFold lowercases without locale-specific mappings.
var emailFold = cases.Lower(language.Und)

// NormalizeEmail trims, NFC-normalizes and lowercases an address.
// It is applied before every comparison and every write, and is idempotent.
func NormalizeEmail(email string) string {
	return emailFold.String(norm.NFC.String(strings.TrimSpace(email)))
}

// Snapshot copies the display fields into a session snapshot.
func (account *Account) Snapshot() session.Snapshot {
	return session.Snapshot{
		AccountID: account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		Role:      account.Role,
	}
}

// Claims builds the token claims for the account. The hash is never included.
func (account *Account) Claims() sec.AuthClaims {
	return sec.AuthClaims{
		AccountID: account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		Role:      account.Role,
	}
}
