// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// The storage layer owns the email uniqueness constraint; [CreateOrFetch] is
// the atomic insert-or-fetch-on-conflict primitive built on top of it, so the
// service never performs a racy lookup-then-insert for provisioning.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		CreateOrFetch atomically persists the candidate user, or returns the
		existing account holding the same email when the insert loses a race.

		The returned entity is the canonical row; callers must not assume it
		matches the candidate (compare IDs to detect a lost race).

		Parameters:
		  - context: context.Context
		  - user: *User (Candidate entity)

		Returns:
		  - *User: Canonical persisted entity
		  - error: Persistence failures
	*/
	CreateOrFetch(context context.Context, user *User) (*User, error)
}

// # Volatile Data Access

// StateRepository defines the contract for storing single-use OAuth state values.
type StateRepository interface {

	/*
		Set stores a state value for a limited duration.

		Parameters:
		  - context: context.Context
		  - state: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, state string, ttl time.Duration) error

	/*
		Consume atomically retrieves and deletes a state value, enforcing
		single use.

		Parameters:
		  - context: context.Context
		  - state: string

		Returns:
		  - error: dberr-style NotFound when absent or expired, or retrieval failures
	*/
	Consume(context context.Context, state string) error
}
