// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"sync"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/platform/sec"
)

// MemoryRepository is an in-process [Repository] for the memory storage
// driver and for tests. It enforces the same email uniqueness as the
// database index.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[int]Account
	nextID   int
}

// NewMemoryRepository creates an empty [MemoryRepository].
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[int]Account), nextID: 1}
}

func (repository *MemoryRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, account := range repository.accounts {
		if NormalizeEmail(account.Email) == NormalizeEmail(email) {
			found := account
			return &found, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repository *MemoryRepository) FindByID(_ context.Context, id int) (*Account, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	account, ok := repository.accounts[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return &account, nil
}

func (repository *MemoryRepository) Create(_ context.Context, account *Account) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.emailTaken(account.Email, 0) {
		return apperr.Conflict("A record with the same value already exists.")
	}

	account.ID = repository.nextID
	account.Role = sec.RoleClient
	repository.nextID++
	repository.accounts[account.ID] = *account
	return nil
}

func (repository *MemoryRepository) UpdateProfile(_ context.Context, account *Account) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.accounts[account.ID]
	if !ok {
		return apperr.NotFound("Account")
	}
	if repository.emailTaken(account.Email, account.ID) {
		return apperr.Conflict("A record with the same value already exists.")
	}

	stored.FirstName = account.FirstName
	stored.LastName = account.LastName
	stored.Email = account.Email
	repository.accounts[account.ID] = stored
	return nil
}

func (repository *MemoryRepository) UpdatePassword(_ context.Context, id int, hash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	stored.PasswordHash = hash
	repository.accounts[id] = stored
	return nil
}

// SetRole changes the role of an account. The application never promotes
// accounts itself; this is for seeding staff accounts.
func (repository *MemoryRepository) SetRole(id int, role sec.Role) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	stored.Role = role
	repository.accounts[id] = stored
	return nil
}

// Len returns the number of stored accounts.
func (repository *MemoryRepository) Len() int {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return len(repository.accounts)
}

// emailTaken must be called with the lock held.
func (repository *MemoryRepository) emailTaken(email string, exceptID int) bool {
	for id, account := range repository.accounts {
		if id != exceptID && NormalizeEmail(account.Email) == NormalizeEmail(email) {
			return true
		}
	}
	return false
}
