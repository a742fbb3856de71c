// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/moka/internal/platform/apperr"
	"github.com/taibuivan/moka/internal/platform/dberr"
	"github.com/taibuivan/moka/internal/platform/sec"
	"github.com/taibuivan/moka/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating signed session tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed session token string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account, embedded as the token subject.
	//   - nickname: The display name of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed token string, or an err if signing fails.
	GenerateAccessToken(userID, nickname string, timeToLive time.Duration) (string, error)
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, provisioning,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository  UserRepository
	stateRepository StateRepository
	provider        OAuthProvider
	tokenProvider   TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	stateRepo StateRepository,
	provider OAuthProvider,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:  userRepo,
		stateRepository: stateRepo,
		provider:        provider,
		tokenProvider:   tokenProv,
	}
}

// IssuedSession represents a successfully established stateless session.
//
// The token is the entire session: nothing is persisted server-side, and the
// session ends when the token expires or the client discards its cookie.
type IssuedSession struct {
	AccessToken string
	User        *User
}

// # Local Login-or-Signup Flow

// LoginInput defines credentials for a local authentication attempt.
type LoginInput struct {
	Email    string
	Password string
	Nickname string
}

/*
LoginLocal authenticates a local account, provisioning it on first contact.

Description: Looks the account up by email. A known account must pass the
bcrypt credential check; an account without a local credential (external
provisioning) fails closed with the same generic error as a wrong password.
An unknown email is enrolled on the spot with provider=local.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *IssuedSession: Signed token plus the resolved account
  - err: InvalidCredentials or storage failures
*/
func (service *Service) LoginLocal(context context.Context, input LoginInput) (*IssuedSession, error) {

	user, err := service.userRepository.FindByEmail(context, input.Email)

	switch {
	case err == nil:
		// Existing account: verify the password against the stored hash.
		// HasLocalCredential guards the external-account case (no hash).
		if !user.HasLocalCredential() || !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
			return nil, apperr.InvalidCredentials()
		}

	case errors.Is(err, dberr.ErrNotFound):
		// First contact: enroll a new local account.
		hashedPassword, hashErr := sec.HashPassword(input.Password)
		if hashErr != nil {
			return nil, fmt.Errorf("auth_service_hash_failed: %w", hashErr)
		}

		// Time-sortable ID to prevent PG index fragmentation.
		candidate := &User{
			ID:           uuid.New(),
			Email:        input.Email,
			PasswordHash: hashedPassword,
			Nickname:     input.Nickname,
			Provider:     ProviderLocal,
		}

		user, err = service.userRepository.CreateOrFetch(context, candidate)
		if err != nil {
			return nil, fmt.Errorf("auth_service_local_provision_failed: %w", err)
		}

		// A different ID means a concurrent request won the provisioning race.
		// Fall back to an ordinary login against the canonical row.
		if user.ID != candidate.ID {
			if !user.HasLocalCredential() || !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
				return nil, apperr.InvalidCredentials()
			}
		}

	default:
		return nil, fmt.Errorf("auth_service_local_lookup_failed: %w", err)
	}

	return service.issueSession(user)
}

// # External Login Flow

/*
LoginExternal completes a social login from a provider authorization code.

Description: Runs the strictly sequential exchange → profile-fetch → resolve →
issue pipeline. Each step depends on the previous one's output; the first
failure is terminal and no user, cookie, or token is produced past it.

Parameters:
  - context: context.Context
  - code: string (Single-use authorization code from the provider)

Returns:
  - *IssuedSession: Signed token plus the resolved account
  - err: ExternalAuthFailed, ExternalProfileFailed, or storage failures
*/
func (service *Service) LoginExternal(context context.Context, code string) (*IssuedSession, error) {

	// 1. Trade the single-use authorization code for a provider access token.
	accessToken, err := service.provider.ExchangeCode(context, code)
	if err != nil {
		return nil, apperr.ExternalAuthFailed(err)
	}

	// 2. Use the access token exactly once to read the provider profile.
	profile, err := service.provider.FetchProfile(context, accessToken)
	if err != nil {
		return nil, apperr.ExternalProfileFailed(err)
	}

	// 3. Resolve the external identity to a local account. The provider
	// supplies no email, so one is synthesized from the provider name and
	// account id; the email uniqueness constraint makes this idempotent
	// under concurrent callbacks for the same new identity.
	candidate := &User{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("%s_%s", service.provider.Name(), profile.ID),
		Nickname: profile.Nickname,
		Provider: service.provider.Name(),
	}

	user, err := service.userRepository.CreateOrFetch(context, candidate)
	if err != nil {
		return nil, fmt.Errorf("auth_service_external_provision_failed: %w", err)
	}

	// 4. Issue the session token.
	return service.issueSession(user)
}

/*
BeginAuthorization starts the provider-driven login flow.

Description: Generates a single-use CSRF state value, stores it with a TTL,
and returns the provider consent-screen URL the browser should be sent to.

Parameters:
  - context: context.Context

Returns:
  - string: Provider authorization URL carrying the state
  - err: Generation or storage failures
*/
func (service *Service) BeginAuthorization(context context.Context) (string, error) {
	state, err := sec.GenerateSecureToken(StateLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_state_generation_failed: %w", err)
	}

	if err := service.stateRepository.Set(context, state, StateTTL); err != nil {
		return "", fmt.Errorf("auth_service_state_store_failed: %w", err)
	}

	return service.provider.AuthorizationURL(state), nil
}

/*
ConsumeState redeems a single-use CSRF state value from a provider callback.

Parameters:
  - context: context.Context
  - state: string

Returns:
  - err: Validation error when the state is unknown, expired, or already used
*/
func (service *Service) ConsumeState(context context.Context, state string) error {
	if err := service.stateRepository.Consume(context, state); err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return apperr.ValidationError("Invalid or expired state parameter")
		}
		return fmt.Errorf("auth_service_state_consume_failed: %w", err)
	}
	return nil
}

// # Identity Reads

/*
CurrentUser resolves validated token claims to the current account record.

Description: The token is trusted for authentication; this read exists so the
profile reflects the stored account, not a stale token snapshot.

Parameters:
  - context: context.Context
  - userID: string (Token subject)

Returns:
  - *User: Hydrated account entity
  - err: Unauthenticated when the account no longer exists
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.Unauthenticated("Account no longer exists")
		}
		return nil, fmt.Errorf("auth_service_current_user_failed: %w", err)
	}
	return user, nil
}

// issueSession signs a session token for the resolved account.
//
// This is the single token-issuance point for every flow: nothing upstream of
// a fully resolved user can mint a token.
func (service *Service) issueSession(user *User) (*IssuedSession, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Nickname, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &IssuedSession{
		AccessToken: accessToken,
		User:        user,
	}, nil
}
