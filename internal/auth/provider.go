// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # External Identity Exchange

// ExternalProfile is the subset of a provider account the resolver needs.
type ExternalProfile struct {
	// ID is the provider's stable account identifier, already stringified.
	ID string

	// Nickname is the display name reported by the provider.
	Nickname string
}

// OAuthProvider defines the contract for trading a one-time authorization
// code for an external identity.
//
// Both round-trips are single-attempt by design: the authorization code is
// single-use per provider contract, so retrying an exchange can never succeed.
// Failures are terminal for the request.
type OAuthProvider interface {

	// Name returns the provider identifier used in synthesized emails
	// ("<name>_<profile id>") and on the User entity.
	Name() Provider

	// AuthorizationURL builds the provider's consent-screen URL with
	// response_type=code, the configured client id and redirect URI, and the
	// given CSRF state value.
	AuthorizationURL(state string) string

	/*
		ExchangeCode trades an authorization code for an external access token.

		Parameters:
		  - context: context.Context
		  - code: string (Single-use authorization code)

		Returns:
		  - string: External access token, used exactly once to fetch the profile
		  - error: Any non-success response or malformed body
	*/
	ExchangeCode(context context.Context, code string) (string, error)

	/*
		FetchProfile retrieves the external account's profile.

		Parameters:
		  - context: context.Context
		  - accessToken: string

		Returns:
		  - *ExternalProfile: Provider account identity
		  - error: Any non-success response or malformed body
	*/
	FetchProfile(context context.Context, accessToken string) (*ExternalProfile, error)
}
