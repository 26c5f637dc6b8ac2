package oauthmodel

import "strings"

// TokenResponse is the body returned by the provider's token endpoint.
// On success it carries the access token; on failure the error fields from
// RFC 6749 section 5.2. It holds a bearer credential and must never be logged
// as a whole.
type TokenResponse struct {
	// AccessToken authorizes calls to the provider API.
	// Usage: "Authorization: Bearer <access_token>"
	AccessToken string `json:"access_token,omitempty"`

	// TokenType is "Bearer" for Discord.
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in,omitempty"`

	// RefreshToken is returned by the provider but never used or stored here.
	RefreshToken string `json:"refresh_token,omitempty"`

	// Scope is the space separated list of granted scopes.
	Scope string `json:"scope,omitempty"`

	// Error is the OAuth2 error code, e.g. "invalid_grant" for a reused code.
	Error string `json:"error,omitempty"`

	// ErrorDescription is the provider's human readable explanation.
	ErrorDescription string `json:"error_description,omitempty"`
}

func (t TokenResponse) HasAccessToken() bool {
	return strings.TrimSpace(t.AccessToken) != ""
}

// Failed reports whether the response cannot be used to call the provider.
func (t TokenResponse) Failed() bool {
	return t.Error != "" || !t.HasAccessToken()
}
