package oauthmodel

import "errors"

var (
	ErrEmptyCode        = errors.New("authorization code is empty")
	ErrEmptyAccessToken = errors.New("access token is empty")
	ErrInvalidEndpoint  = errors.New("invalid or no endpoint url")
)
