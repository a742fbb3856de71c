// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/moka/internal/platform/sec"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The hash is salted and must never equal the input.
	assert.NotEqual(t, "correct horse battery staple", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
}

func TestCheckPasswordHash_Failures(t *testing.T) {
	hash, err := sec.HashPassword("secret-password")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		password string
		hash     string
	}{
		{name: "wrong password", password: "wrong-password", hash: hash},
		{name: "empty password", password: "", hash: hash},
		// External accounts store no hash; a login attempt must fail closed.
		{name: "empty stored hash", password: "secret-password", hash: ""},
		{name: "malformed stored hash", password: "secret-password", hash: "not-a-bcrypt-hash"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.False(t, sec.CheckPasswordHash(testCase.password, testCase.hash))
		})
	}
}
