package oauthmodel

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Token request includes: client_id, client_secret, code, redirect_uri
	AuthorizationCodeGrant GrantType = "authorization_code"
)

// TokenTypeBearer is the token type used in the Authorization header.
const TokenTypeBearer = "Bearer"

// Form field names sent to the token endpoint.
const (
	ParamClientID     = "client_id"
	ParamClientSecret = "client_secret"
	ParamGrantType    = "grant_type"
	ParamCode         = "code"
	ParamRedirectURI  = "redirect_uri"
	ParamState        = "state"
)
