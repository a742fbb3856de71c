// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultKakaoAuthURL     = "https://kauth.kakao.com/oauth/authorize"
	defaultKakaoTokenURL    = "https://kauth.kakao.com/oauth/token"
	defaultKakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"

	// kakaoHTTPTimeout bounds each provider round-trip. Kakao is outside our
	// control; a hung exchange must not pin the request worker forever.
	kakaoHTTPTimeout = 10 * time.Second
)

// KakaoConfig holds the Kakao OAuth application settings.
type KakaoConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// Endpoint overrides for tests. Empty values fall back to the public
	// Kakao endpoints.
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// KakaoProvider implements [OAuthProvider] against Kakao's OAuth 2.0 API.
type KakaoProvider struct {
	config KakaoConfig
	client *http.Client
}

// NewKakaoProvider creates a KakaoProvider with its own timeout-bounded HTTP client.
func NewKakaoProvider(config KakaoConfig) *KakaoProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultKakaoAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultKakaoTokenURL
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = defaultKakaoUserInfoURL
	}
	return &KakaoProvider{
		config: config,
		client: &http.Client{Timeout: kakaoHTTPTimeout},
	}
}

// Name returns the provider identifier for Kakao.
func (provider *KakaoProvider) Name() Provider {
	return ProviderKakao
}

// AuthorizationURL builds Kakao's consent-screen URL.
func (provider *KakaoProvider) AuthorizationURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {provider.config.ClientID},
		"redirect_uri":  {provider.config.RedirectURI},
	}
	if state != "" {
		params.Set("state", state)
	}
	return provider.config.AuthURL + "?" + params.Encode()
}

// kakaoTokenResponse is the body of Kakao's token endpoint response.
type kakaoTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// kakaoUserInfo is the body of Kakao's user-info endpoint response.
//
// Kakao reports the account id as a number and nests the nickname under
// "properties".
type kakaoUserInfo struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname string `json:"nickname"`
	} `json:"properties"`
}

// ExchangeCode trades an authorization code for a Kakao access token.
//
// Any non-200 response, unreadable body, or missing access_token field is an
// error; the caller surfaces it as EXTERNAL_AUTH_FAILED.
func (provider *KakaoProvider) ExchangeCode(context context.Context, code string) (string, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {provider.config.ClientID},
		"client_secret": {provider.config.ClientSecret},
		"redirect_uri":  {provider.config.RedirectURI},
		"code":          {code},
	}

	request, err := http.NewRequestWithContext(context, http.MethodPost, provider.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("kakao: failed to create token request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := provider.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("kakao: token request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("kakao: failed to read token response: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("kakao: token exchange failed with status %d: %s", response.StatusCode, string(body))
	}

	var tokenResponse kakaoTokenResponse
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return "", fmt.Errorf("kakao: failed to parse token response: %w", err)
	}

	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("kakao: empty access token in response")
	}

	return tokenResponse.AccessToken, nil
}

// FetchProfile retrieves the Kakao account's id and nickname.
//
// Any non-200 response, unreadable body, or zero account id is an error; the
// caller surfaces it as EXTERNAL_PROFILE_FAILED.
func (provider *KakaoProvider) FetchProfile(context context.Context, accessToken string) (*ExternalProfile, error) {
	request, err := http.NewRequestWithContext(context, http.MethodGet, provider.config.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("kakao: failed to create user info request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)

	response, err := provider.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("kakao: user info request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("kakao: failed to read user info response: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao: user info fetch failed with status %d: %s", response.StatusCode, string(body))
	}

	var userInfo kakaoUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("kakao: failed to parse user info response: %w", err)
	}

	if userInfo.ID == 0 {
		return nil, fmt.Errorf("kakao: missing account id in user info response")
	}

	return &ExternalProfile{
		ID:       strconv.FormatInt(userInfo.ID, 10),
		Nickname: userInfo.Properties.Nickname,
	}, nil
}

// compile-time interface check
var _ OAuthProvider = (*KakaoProvider)(nil)
