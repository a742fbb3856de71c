// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenProvider] interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failure modes.
//
// Callers must distinguish the two: an expired token is a normal lifecycle
// event, a signature failure is evidence of tampering. Both are terminal
// for the request.
var (
	// ErrTokenExpired indicates a well-formed, correctly signed token past its expiry.
	ErrTokenExpired = errors.New("sec: token has expired")

	// ErrTokenInvalid indicates a token whose signature, shape, or claims are invalid.
	ErrTokenInvalid = errors.New("sec: token is invalid")
)

// minSecretLength guards against trivially brute-forceable HMAC keys.
const minSecretLength = 32

// AuthClaims represents the payload embedded inside a session token.
//
// # Why custom claims?
//
// By embedding the nickname next to the standard subject (user ID), handlers
// and the front-end can render the logged-in identity WITHOUT querying the
// database on every request. The token alone is the source of truth.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Nickname is the user's display name at issuance time.
	Nickname string `json:"nickname"`
}

// UserID returns the token subject, which Moka defines as the user's ID.
func (c *AuthClaims) UserID() string {
	return c.Subject
}

// TokenService handles generation and verification of session tokens using HS256.
//
// The signing secret is process-wide configuration: loaded once at startup,
// shared read-only by all requests, never mutated.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService from the configured signing secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("sec: signing secret must be at least %d bytes", minSecretLength)
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// GenerateAccessToken creates a new signed session token for a user.
func (service *TokenService) GenerateAccessToken(userID, nickname string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Nickname: nickname,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a session token string.
//
// It returns [ErrTokenExpired] for a correctly signed token past its expiry
// and [ErrTokenInvalid] for every other failure. No partial trust: claims are
// only returned when the token is fully valid.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
