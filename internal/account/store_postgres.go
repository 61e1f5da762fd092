// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/csemotors/internal/platform/apperr"
	"github.com/taibuivan/csemotors/internal/platform/database/schema"
	"github.com/taibuivan/csemotors/internal/platform/dberr"
	"github.com/taibuivan/csemotors/internal/platform/sec"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL [Repository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectAccount = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.Account.Columns(), ", "),
	schema.Account.Table,
)

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*Account, error) {
	account := &Account{}
	var role string
	if err := row.Scan(
		&account.ID,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.PasswordHash,
		&role,
	); err != nil {
		return nil, err
	}
	account.Role = sec.Role(role)
	return account, nil
}

// FindByEmail matches case-insensitively so rows written by other tools are found too.
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`%s WHERE lower(%s) = lower($1)`, selectAccount, schema.Account.Email)

	account, err := scanAccount(repository.db.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.WrapAs(err, "find_account_by_email", "Account")
	}
	return account, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int) (*Account, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectAccount, schema.Account.ID)

	account, err := scanAccount(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapAs(err, "find_account_by_id", "Account")
	}
	return account, nil
}

func (repository *PostgresRepository) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s;
	`,
		schema.Account.Table,
		schema.Account.FirstName,
		schema.Account.LastName,
		schema.Account.Email,
		schema.Account.Password,
		schema.Account.Type,
		schema.Account.ID,
	)

	err := repository.db.QueryRow(context, query,
		account.FirstName,
		account.LastName,
		account.Email,
		account.PasswordHash,
		string(sec.RoleClient),
	).Scan(&account.ID)
	if err != nil {
		return dberr.Wrap(err, "insert_account")
	}

	account.Role = sec.RoleClient
	return nil
}

func (repository *PostgresRepository) UpdateProfile(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1;
	`,
		schema.Account.Table,
		schema.Account.FirstName,
		schema.Account.LastName,
		schema.Account.Email,
		schema.Account.ID,
	)

	tag, err := repository.db.Exec(context, query, account.ID, account.FirstName, account.LastName, account.Email)
	if err != nil {
		return dberr.Wrap(err, "update_account_profile")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}

func (repository *PostgresRepository) UpdatePassword(context context.Context, id int, hash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1;`,
		schema.Account.Table,
		schema.Account.Password,
		schema.Account.ID,
	)

	tag, err := repository.db.Exec(context, query, id, hash)
	if err != nil {
		return dberr.Wrap(err, "update_account_password")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}
