// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taibuivan/moka/internal/auth"
	"github.com/taibuivan/moka/internal/platform/apperr"
	"github.com/taibuivan/moka/internal/platform/dberr"
)

// # In-Memory Test Doubles

// fakeUserRepository is a map-backed UserRepository with the same conflict
// semantics as the PostgreSQL implementation: email is the uniqueness key and
// CreateOrFetch returns the existing row when an insert loses.
type fakeUserRepository struct {
	mu           sync.Mutex
	usersByEmail map[string]*auth.User

	// Injectable failures.
	findErr   error
	createErr error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{usersByEmail: map[string]*auth.User{}}
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.findErr != nil {
		return nil, repository.findErr
	}
	for _, user := range repository.usersByEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.findErr != nil {
		return nil, repository.findErr
	}
	user, found := repository.usersByEmail[email]
	if !found {
		return nil, dberr.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (repository *fakeUserRepository) CreateOrFetch(_ context.Context, candidate *auth.User) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.createErr != nil {
		return nil, repository.createErr
	}
	if existing, found := repository.usersByEmail[candidate.Email]; found {
		copied := *existing
		return &copied, nil
	}
	stored := *candidate
	repository.usersByEmail[candidate.Email] = &stored
	copied := stored
	return &copied, nil
}

// count returns the number of stored accounts.
func (repository *fakeUserRepository) count() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.usersByEmail)
}

// seed stores a user directly, bypassing the conflict path.
func (repository *fakeUserRepository) seed(user *auth.User) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored := *user
	repository.usersByEmail[user.Email] = &stored
}

// fakeStateRepository is a map-backed StateRepository with single-use
// consumption and TTL expiry.
type fakeStateRepository struct {
	mu     sync.Mutex
	states map[string]time.Time

	setErr error
}

func newFakeStateRepository() *fakeStateRepository {
	return &fakeStateRepository{states: map[string]time.Time{}}
}

func (repository *fakeStateRepository) Set(_ context.Context, state string, ttl time.Duration) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.setErr != nil {
		return repository.setErr
	}
	repository.states[state] = time.Now().Add(ttl)
	return nil
}

func (repository *fakeStateRepository) Consume(_ context.Context, state string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	expiry, found := repository.states[state]
	if !found || time.Now().After(expiry) {
		return apperr.NotFound("State")
	}
	delete(repository.states, state)
	return nil
}

func (repository *fakeStateRepository) count() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.states)
}

// stubProvider is an OAuthProvider returning canned values.
type stubProvider struct {
	profile     *auth.ExternalProfile
	exchangeErr error
	profileErr  error

	// lastCode records what ExchangeCode received.
	mu       sync.Mutex
	lastCode string
}

func (provider *stubProvider) Name() auth.Provider {
	return auth.ProviderKakao
}

func (provider *stubProvider) AuthorizationURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (provider *stubProvider) ExchangeCode(_ context.Context, code string) (string, error) {
	provider.mu.Lock()
	provider.lastCode = code
	provider.mu.Unlock()

	if provider.exchangeErr != nil {
		return "", provider.exchangeErr
	}
	return "provider-access-token", nil
}

func (provider *stubProvider) FetchProfile(_ context.Context, accessToken string) (*auth.ExternalProfile, error) {
	if provider.profileErr != nil {
		return nil, provider.profileErr
	}
	if accessToken != "provider-access-token" {
		return nil, fmt.Errorf("unexpected access token %q", accessToken)
	}
	return provider.profile, nil
}

// stubTokenProvider issues predictable token strings.
type stubTokenProvider struct {
	generateErr error
}

func (provider *stubTokenProvider) GenerateAccessToken(userID, nickname string, _ time.Duration) (string, error) {
	if provider.generateErr != nil {
		return "", provider.generateErr
	}
	return "token-for-" + userID, nil
}
