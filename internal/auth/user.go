// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session-issuance layer.

It defines the core domain entity (User) and the logic for the three
authentication flows: local login-or-signup, Kakao social login, and
authenticated identity reads.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
external dependencies and encapsulates all business rules related to identity.
Sessions are deliberately NOT entities: a session exists only as a signed,
self-describing token held by the client.
*/
package auth

// # Identity Providers

// Provider identifies the credential authority of an account.
// It is fixed at creation time and never changes afterwards.
type Provider string

const (
	// ProviderLocal marks accounts authenticated by email + password.
	ProviderLocal Provider = "local"

	// ProviderKakao marks accounts provisioned through Kakao social login.
	// These accounts carry no local credential.
	ProviderKakao Provider = "kakao"
)

// Valid reports whether the provider is one of the known authorities.
func (p Provider) Valid() bool {
	return p == ProviderLocal || p == ProviderKakao
}

// # Domain Entities

// User represents a registered member of the Moka platform.
//
// Email is the de-facto identity key across both provider kinds: for Kakao
// accounts it is synthesized as "kakao_<provider user id>" since Kakao
// supplies no email. The uniqueness constraint on email is what makes
// find-or-create idempotent under concurrent requests.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"` // Explicitly omitted from JSON for security. Empty for external accounts.
	Nickname     string   `json:"nickname"`
	Provider     Provider `json:"provider"`
}

// HasLocalCredential reports whether the account can be verified by password.
//
// External accounts have no stored hash; a local login attempt against them
// must fail closed rather than error out.
func (u *User) HasLocalCredential() bool {
	return u.PasswordHash != ""
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNickname    = "nickname"
	FieldCode        = "code"
	FieldState       = "state"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
)
