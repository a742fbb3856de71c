// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/moka/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, nickname, provider
		FROM users.account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Nickname,
		&user.Provider,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_id")
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Email is the identity key across both provider kinds, including
the synthesized "kakao_<id>" addresses of externally-provisioned accounts.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, nickname, provider
		FROM users.account
		WHERE email = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Nickname,
		&user.Provider,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_email")
	}

	return user, nil
}

/*
CreateOrFetch atomically persists a candidate user, or fetches the account that
already holds the same email.

Description: The insert carries ON CONFLICT (email) DO NOTHING, so the loser of
a concurrent first-provisioning race never errors; it reads back the winner's
row instead. This is the single storage primitive behind find-or-create.

Parameters:
  - context: context.Context
  - user: *User (Candidate entity)

Returns:
  - *User: Canonical persisted entity
  - error: Persistence failures
*/
func (repository *PostgresUserRepository) CreateOrFetch(context context.Context, user *User) (*User, error) {
	const query = `
		INSERT INTO users.account (
			id, email, passwordhash, nickname, provider, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email, passwordhash, nickname, provider`

	persisted := &User{}
	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Nickname,
		user.Provider,
		time.Now(),
	).Scan(
		&persisted.ID,
		&persisted.Email,
		&persisted.PasswordHash,
		&persisted.Nickname,
		&persisted.Provider,
	)

	if err == nil {
		return persisted, nil
	}

	// No row returned means the insert hit the email constraint: another
	// request provisioned this identity first. Fetch the canonical row.
	if errors.Is(err, pgx.ErrNoRows) {
		existing, findErr := repository.FindByEmail(context, user.Email)
		if findErr != nil {
			return nil, fmt.Errorf("postgres_user_repo_create_or_fetch_conflict_refetch: %w", findErr)
		}
		return existing, nil
	}

	return nil, dberr.Wrap(err, "postgres_user_repo_create_or_fetch")
}
