// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/moka/internal/platform/apperr"
)

func TestErrorTaxonomy(t *testing.T) {
	testCases := []struct {
		name           string
		err            *apperr.AppError
		expectedCode   string
		expectedStatus int
	}{
		{name: "invalid credentials", err: apperr.InvalidCredentials(), expectedCode: "INVALID_CREDENTIALS", expectedStatus: http.StatusBadRequest},
		{name: "external auth failed", err: apperr.ExternalAuthFailed(errors.New("boom")), expectedCode: "EXTERNAL_AUTH_FAILED", expectedStatus: http.StatusBadRequest},
		{name: "external profile failed", err: apperr.ExternalProfileFailed(errors.New("boom")), expectedCode: "EXTERNAL_PROFILE_FAILED", expectedStatus: http.StatusBadRequest},
		{name: "invalid token", err: apperr.InvalidToken(), expectedCode: "INVALID_TOKEN", expectedStatus: http.StatusUnauthorized},
		{name: "expired token", err: apperr.ExpiredToken(), expectedCode: "EXPIRED_TOKEN", expectedStatus: http.StatusUnauthorized},
		{name: "unauthenticated", err: apperr.Unauthenticated("Authentication required"), expectedCode: "UNAUTHENTICATED", expectedStatus: http.StatusUnauthorized},
		{name: "missing parameter", err: apperr.MissingParameter("code"), expectedCode: "MISSING_PARAMETER", expectedStatus: http.StatusBadRequest},
		{name: "not found", err: apperr.NotFound("User"), expectedCode: "NOT_FOUND", expectedStatus: http.StatusNotFound},
		{name: "conflict", err: apperr.Conflict("Email already registered"), expectedCode: "CONFLICT", expectedStatus: http.StatusConflict},
		{name: "validation error", err: apperr.ValidationError("Validation failed"), expectedCode: "VALIDATION_ERROR", expectedStatus: http.StatusBadRequest},
		{name: "internal", err: apperr.Internal(errors.New("boom")), expectedCode: "INTERNAL_ERROR", expectedStatus: http.StatusInternalServerError},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expectedCode, testCase.err.Code)
			assert.Equal(t, testCase.expectedStatus, testCase.err.HTTPStatus)
			assert.NotEmpty(t, testCase.err.Error())
		})
	}
}

func TestMissingParameter_NamesTheField(t *testing.T) {
	err := apperr.MissingParameter("code")
	assert.Equal(t, "Missing required parameter: code", err.Error())
}

func TestHelpers_TraverseWrappedChains(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", apperr.InvalidCredentials())

	assert.True(t, apperr.IsAppError(wrapped))
	assert.True(t, apperr.HasCode(wrapped, "INVALID_CREDENTIALS"))
	assert.False(t, apperr.HasCode(wrapped, "NOT_FOUND"))

	extracted := apperr.As(wrapped)
	require.NotNil(t, extracted)
	assert.Equal(t, http.StatusBadRequest, extracted.HTTPStatus)
}

func TestHelpers_PlainErrors(t *testing.T) {
	plain := errors.New("boom")

	assert.False(t, apperr.IsAppError(plain))
	assert.Nil(t, apperr.As(plain))
	assert.False(t, apperr.HasCode(plain, "INTERNAL_ERROR"))
}

func TestUnwrap_ExposesCause(t *testing.T) {
	cause := errors.New("provider timeout")
	err := apperr.ExternalAuthFailed(cause)

	assert.ErrorIs(t, err, cause)
	// The cause never leaks into the client-facing message.
	assert.NotContains(t, err.Error(), "timeout")
}
