// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/moka/internal/platform/apperr"
	"github.com/taibuivan/moka/internal/platform/validate"
)

func TestValidator_PassingChain(t *testing.T) {
	validator := &validate.Validator{}
	err := validator.
		Required("email", "user@example.com").
		Email("email", "user@example.com").
		MaxLen("nickname", "mochi", 100).
		OneOf("provider", "local", "local", "kakao").
		Err()

	require.NoError(t, err)
	assert.False(t, validator.HasErrors())
}

func TestValidator_Rules(t *testing.T) {
	testCases := []struct {
		name  string
		chain func(v *validate.Validator)
	}{
		{
			name:  "required rejects blank",
			chain: func(v *validate.Validator) { v.Required("email", "   ") },
		},
		{
			name:  "email rejects malformed address",
			chain: func(v *validate.Validator) { v.Email("email", "not-an-email") },
		},
		{
			name:  "max length rejects overflow",
			chain: func(v *validate.Validator) { v.MaxLen("nickname", "abcdef", 5) },
		},
		{
			name:  "min length rejects underflow",
			chain: func(v *validate.Validator) { v.MinLen("password", "ab", 3) },
		},
		{
			name:  "one-of rejects unknown value",
			chain: func(v *validate.Validator) { v.OneOf("provider", "github", "local", "kakao") },
		},
		{
			name:  "custom rejects on condition",
			chain: func(v *validate.Validator) { v.Custom("provider", true, "Unknown identity provider") },
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			validator := &validate.Validator{}
			testCase.chain(validator)

			err := validator.Err()
			require.Error(t, err)
			assert.True(t, validator.HasErrors())
			assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
		})
	}
}

func TestValidator_CollectsMultipleFieldErrors(t *testing.T) {
	validator := &validate.Validator{}
	err := validator.
		Required("email", "").
		Required("password", "").
		Err()

	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	require.Len(t, appError.Details, 2)
	assert.Equal(t, "email", appError.Details[0].Field)
	assert.Equal(t, "password", appError.Details[1].Field)
}

func TestValidator_MaxLenCountsRunes(t *testing.T) {
	validator := &validate.Validator{}

	// Five runes, fifteen bytes. Rune count is what matters.
	err := validator.MaxLen("nickname", "안녕하세요", 5).Err()
	require.NoError(t, err)
}
