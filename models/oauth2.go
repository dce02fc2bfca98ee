package models

import "time"

// OAuth2Token is the token blob persisted per OAuth-backed account.
type OAuth2Token struct {
	AuthCode     string `json:"auth_code"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Expire       int64  `json:"expire"` // epoch milliseconds
}

// TokenResponse is the OAuth2 token endpoint response, for both the
// authorization-code and refresh-token grants.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshToken     string `json:"refresh_token,omitempty"` // may be absent on refresh
	Scope            string `json:"scope,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// Complete reports whether the response carries a usable token set.
func (r *TokenResponse) Complete() bool {
	return r.AccessToken != "" && r.RefreshToken != "" && r.ExpiresIn > 0
}

// NewOAuth2Token builds a token blob from an authorization-code exchange.
func NewOAuth2Token(authCode string, response TokenResponse) *OAuth2Token {
	return &OAuth2Token{
		AuthCode:     authCode,
		AccessToken:  response.AccessToken,
		RefreshToken: response.RefreshToken,
		Expire:       time.Now().Add(time.Duration(response.ExpiresIn) * time.Second).UnixMilli(),
	}
}

// UpdateFromRefresh folds a refresh-grant response into the token. The
// refresh token is kept when the server does not rotate it.
func (t *OAuth2Token) UpdateFromRefresh(response TokenResponse) {
	t.AccessToken = response.AccessToken
	if response.RefreshToken != "" {
		t.RefreshToken = response.RefreshToken
	}
	t.Expire = time.Now().Add(time.Duration(response.ExpiresIn) * time.Second).UnixMilli()
}

// IsExpired reports whether the access token is past its expiry.
func (t *OAuth2Token) IsExpired() bool {
	return time.Now().UnixMilli() > t.Expire
}

// IsValid reports whether the token holds a non-expired access token.
func (t *OAuth2Token) IsValid() bool {
	return t.AccessToken != "" && !t.IsExpired()
}
