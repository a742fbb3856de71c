// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/moka/internal/platform/constants"
	"github.com/taibuivan/moka/internal/platform/middleware"
	requestutil "github.com/taibuivan/moka/internal/platform/request"
	"github.com/taibuivan/moka/internal/platform/respond"
	"github.com/taibuivan/moka/internal/platform/validate"
)

// # HTTP Layer

// Handler exposes the authentication endpoints over HTTP.
type Handler struct {
	service        *Service
	frontendOrigin string
	secureCookie   bool
}

// NewHandler creates a new auth HTTP handler.
//
// frontendOrigin is where browser-facing callback redirects land after a
// successful external login. secureCookie marks the session cookie
// Secure-only, enabled outside development.
func NewHandler(service *Service, frontendOrigin string, secureCookie bool) *Handler {
	return &Handler{
		service:        service,
		frontendOrigin: frontendOrigin,
		secureCookie:   secureCookie,
	}
}

// Routes assembles the /auth router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.Login)
	router.Get("/kakao/authorize", handler.KakaoAuthorize)

	// The callback is served twice: GET for the browser redirect from the
	// provider, POST for clients that relay the code themselves and want the
	// token in the body.
	router.Get("/kakao/callback", handler.KakaoCallbackRedirect)
	router.Post("/kakao/callback", handler.KakaoCallbackJSON)

	router.Post("/logout", handler.Logout)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.Me)
	})

	return router
}

// tokenResponse is the unenveloped body of a successful token issuance.
//
// The shape is part of the login contract. Do not wrap it in the standard
// success envelope.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// userResponse is the identity payload for /auth/me.
type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Provider string `json:"provider"`
}

func newUserResponse(user *User) userResponse {
	return userResponse{
		ID:       user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
		Provider: string(user.Provider),
	}
}

/*
Login handles POST /auth/login.

Description: Form-encoded email/password login-or-signup. An unknown email is
enrolled on the fly; a known one must match its stored credential. On success
the token is returned in the body and set as a cookie.

Responses:
  - 200: {"access_token": "...", "token_type": "bearer"}
  - 400: MISSING_PARAMETER, VALIDATION_ERROR, INVALID_CREDENTIALS
*/
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {

	// Parse the form payload
	if err := requestutil.ParseForm(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Extract required fields
	email, err := requestutil.RequiredFormValue(request, FieldEmail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	password, err := requestutil.RequiredFormValue(request, FieldPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Nickname is part of the login form contract even for returning
	// accounts; it is only stored on first-contact enrollment.
	nickname, err := requestutil.RequiredFormValue(request, FieldNickname)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Validate field shapes
	validator := &validate.Validator{}
	validator.
		Email(FieldEmail, email).
		MaxLen(FieldEmail, email, 254).
		MaxLen(FieldNickname, nickname, 100)
	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	// Authenticate or enroll
	session, err := handler.service.LoginLocal(request.Context(), LoginInput{
		Email:    email,
		Password: password,
		Nickname: nickname,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Success: cookie plus the bare token body
	handler.setSessionCookie(writer, session.AccessToken)
	respond.JSON(writer, http.StatusOK, tokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
	})
}

/*
KakaoAuthorize handles GET /auth/kakao/authorize.

Description: Issues a single-use state value and redirects the browser to
Kakao's consent screen.

Responses:
  - 302: Location set to the provider authorization URL
*/
func (handler *Handler) KakaoAuthorize(writer http.ResponseWriter, request *http.Request) {
	authorizationURL, err := handler.service.BeginAuthorization(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	http.Redirect(writer, request, authorizationURL, http.StatusFound)
}

/*
KakaoCallbackRedirect handles GET /auth/kakao/callback.

Description: Browser-facing leg of the external login. Validates the state
when one is present, completes the code exchange, sets the session cookie, and
redirects to the frontend. All errors are returned as JSON rather than
redirected, so a failure never reaches the frontend carrying a cookie.

Responses:
  - 302: Location set to the frontend origin, session cookie attached
  - 400: MISSING_PARAMETER, VALIDATION_ERROR, EXTERNAL_AUTH_FAILED, EXTERNAL_PROFILE_FAILED
*/
func (handler *Handler) KakaoCallbackRedirect(writer http.ResponseWriter, request *http.Request) {

	code, err := requestutil.RequiredFormValue(request, FieldCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// A state is bound on the authorize leg; when the callback carries one it
	// must redeem. Flows initiated outside /authorize arrive without state.
	if state := request.FormValue(FieldState); state != "" {
		if err := handler.service.ConsumeState(request.Context(), state); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	session, err := handler.service.LoginExternal(request.Context(), code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, session.AccessToken)
	http.Redirect(writer, request, handler.frontendOrigin, http.StatusFound)
}

/*
KakaoCallbackJSON handles POST /auth/kakao/callback.

Description: Machine-to-machine leg of the external login. The client relays
the authorization code in a form body and receives the token in a JSON body,
mirroring the local login's response shape. No state is involved on this leg.

Responses:
  - 200: {"access_token": "...", "token_type": "bearer"}
  - 400: MISSING_PARAMETER, EXTERNAL_AUTH_FAILED, EXTERNAL_PROFILE_FAILED
*/
func (handler *Handler) KakaoCallbackJSON(writer http.ResponseWriter, request *http.Request) {

	if err := requestutil.ParseForm(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	code, err := requestutil.RequiredFormValue(request, FieldCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.LoginExternal(request.Context(), code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, session.AccessToken)
	respond.JSON(writer, http.StatusOK, tokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
	})
}

/*
Me handles GET /auth/me.

Description: Returns the authenticated account, freshly read from storage so
the profile reflects current data rather than the token snapshot. Guarded by
RequireAuth; token-shape failures never reach this handler.

Responses:
  - 200: {"data": {"id", "email", "nickname", "provider"}}
  - 401: UNAUTHENTICATED (account deleted since the token was issued)
*/
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newUserResponse(user))
}

/*
Logout handles POST /auth/logout.

Description: The session is stateless, so logout is purely client-side: the
cookie is expired. Tokens already handed out stay valid until their expiry.

Responses:
  - 204: No content, cookie cleared
*/
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    "",
		Path:     constants.AccessTokenCookiePath,
		MaxAge:   -1,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
		Secure:   handler.secureCookie,
	})
	respond.NoContent(writer)
}

// setSessionCookie attaches the session token as a cookie.
//
// HttpOnly is intentionally off: the SPA reads the token to send it as a
// Bearer header on API calls. SameSite=Lax still blocks cross-site POSTs.
func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    token,
		Path:     constants.AccessTokenCookiePath,
		MaxAge:   int(AccessTokenTTL.Seconds()),
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
		Secure:   handler.secureCookie,
	})
}
