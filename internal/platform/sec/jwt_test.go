// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/moka/internal/platform/sec"
)

const testIssuer = "moka.app"

func testSecret() string {
	return strings.Repeat("s", 32)
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	_, err := sec.NewTokenService("too-short", testIssuer)
	require.Error(t, err)
}

func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService(testSecret(), testIssuer)
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-123", "mochi", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "mochi", claims.Nickname)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	service, err := sec.NewTokenService(testSecret(), testIssuer)
	require.NoError(t, err)

	// Negative TTL produces an already-expired token.
	token, err := service.GenerateAccessToken("user-123", "mochi", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
	assert.NotErrorIs(t, err, sec.ErrTokenInvalid)
}

func TestTokenService_InvalidTokens(t *testing.T) {
	service, err := sec.NewTokenService(testSecret(), testIssuer)
	require.NoError(t, err)

	otherService, err := sec.NewTokenService(strings.Repeat("x", 32), testIssuer)
	require.NoError(t, err)

	validToken, err := service.GenerateAccessToken("user-123", "mochi", time.Hour)
	require.NoError(t, err)

	foreignToken, err := otherService.GenerateAccessToken("user-123", "mochi", time.Hour)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "garbage string", token: "not-a-jwt"},
		{name: "empty string", token: ""},
		{name: "tampered payload", token: tamper(validToken)},
		{name: "signed with a different secret", token: foreignToken},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.VerifyToken(testCase.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, sec.ErrTokenInvalid)
		})
	}
}

// tamper flips a character in the token's payload segment.
func tamper(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || len(parts[1]) == 0 {
		return token + "x"
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}
