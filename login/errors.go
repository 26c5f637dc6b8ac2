package login

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/trinity-login/internal/errors"
)

// Kind classifies a failed exchange. The value is the "error" field of the
// JSON error body.
type Kind string

const (
	KindConfiguration   Kind = "configuration_error"
	KindInput           Kind = "invalid_request"
	KindProviderToken   Kind = "provider_token_error"
	KindProviderProfile Kind = "provider_profile_error"
	KindTransport       Kind = "transport_error"
)

// Error is a terminal failure of one login exchange. It never holds the
// client secret or an access token.
type Error struct {
	Kind    Kind
	Status  int
	Message string

	// Missing lists absent configuration keys (names only).
	Missing []string
	// ProviderStatus and ProviderResponse describe what Discord answered.
	ProviderStatus   int
	ProviderResponse map[string]any
	// RedirectURI is the redirect_uri sent with the code, to diagnose
	// mismatches with the one registered at Discord.
	RedirectURI string

	err error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.err
}

// Body is the JSON document returned to the browser.
func (e *Error) Body() map[string]any {
	body := map[string]any{"error": string(e.Kind)}
	if e.Message != "" {
		body["message"] = e.Message
	}
	if len(e.Missing) > 0 {
		body["missing"] = e.Missing
	}
	if e.ProviderStatus != 0 {
		body["provider_status"] = e.ProviderStatus
	}
	if e.ProviderResponse != nil {
		body["provider_response"] = e.ProviderResponse
	}
	if e.RedirectURI != "" {
		body["redirect_uri"] = e.RedirectURI
	}
	return body
}

func configurationError(missing []string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Status:  http.StatusInternalServerError,
		Message: "server is missing required Discord configuration",
		Missing: missing,
		err:     errors.ErrConfiguration,
	}
}

func inputError(cause error) *Error {
	return &Error{
		Kind:    KindInput,
		Status:  http.StatusBadRequest,
		Message: cause.Error(),
		err:     cause,
	}
}

func transportError(err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Status:  http.StatusInternalServerError,
		Message: err.Error(),
		err:     fmt.Errorf("%w: %w", errors.ErrTransport, err),
	}
}

// AsError returns err as an *Error, wrapping anything else as a 500.
func AsError(err error) *Error {
	var le *Error
	if errors.As(err, &le) {
		return le
	}
	return &Error{
		Kind:    KindTransport,
		Status:  http.StatusInternalServerError,
		Message: err.Error(),
		err:     err,
	}
}
