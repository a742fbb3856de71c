// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away form parsing and identity extraction, ensuring consistent
error handling across handlers. The login and callback endpoints are
form-encoded (the external provider and the SPA both submit forms), so form
helpers are the primary surface here.
*/
package requestutil

import (
	"net/http"

	"github.com/taibuivan/moka/internal/platform/apperr"
	"github.com/taibuivan/moka/internal/platform/ctxutil"
	"github.com/taibuivan/moka/internal/platform/sec"
	"github.com/taibuivan/moka/internal/platform/validate"
)

/*
ParseForm parses the request body as application/x-www-form-urlencoded data.

Returns:
  - error: validate.ErrInvalidForm if parsing fails, otherwise nil
*/
func ParseForm(request *http.Request) error {
	if err := request.ParseForm(); err != nil {
		return validate.ErrInvalidForm
	}
	return nil
}

/*
RequiredFormValue returns a named form field, failing when it is absent or blank.

FormValue covers both POST form bodies and URL query parameters, matching the
dual GET/POST callback surface.

Returns:
  - string: The field value
  - error: apperr.MissingParameter when the field is missing
*/
func RequiredFormValue(request *http.Request, name string) (string, error) {
	value := request.FormValue(name)
	if value == "" {
		return "", apperr.MissingParameter(name)
	}
	return value, nil
}

/*
Claims extracts the authenticated session claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the session claims.

Returns:
  - *sec.AuthClaims: The authenticated session claims
  - error: apperr.Unauthenticated if the request carries no verified token
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get session claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthenticated("Authentication required")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthenticated if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get session claims
	claims, err := RequiredClaims(request)

	// If the user is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claims.UserID(), nil
}
