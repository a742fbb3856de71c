// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a session token remains valid. There is
	// no refresh mechanism: when the token expires the user logs in again.
	AccessTokenTTL = 60 * time.Minute

	// StateTTL is the duration an OAuth state value remains redeemable.
	// It only needs to outlive one trip through the provider's consent screen.
	StateTTL = 10 * time.Minute

	// StateLength is the byte length of the random OAuth state value.
	StateLength = 32
)
