// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/moka/internal/platform/ctxutil"
	"github.com/taibuivan/moka/internal/platform/sec"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

func TestRequestID_MissingReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", ctxutil.GetRequestID(context.Background()))
}

func TestLogger_RoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := ctxutil.WithLogger(context.Background(), logger)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

func TestLogger_MissingFallsBackToDefault(t *testing.T) {
	require.NotNil(t, ctxutil.GetLogger(context.Background()))
}

func TestAuthUser_RoundTrip(t *testing.T) {
	claims := &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
		Nickname:         "mochi",
	}

	ctx := ctxutil.WithAuthUser(context.Background(), claims)

	got := ctxutil.GetAuthUser(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "user-123", got.UserID())
	assert.Equal(t, "mochi", got.Nickname)
}

func TestAuthUser_MissingReturnsNil(t *testing.T) {
	assert.Nil(t, ctxutil.GetAuthUser(context.Background()))
}
