package login

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/trinity-login/discord"
	"github.com/jrsteele09/trinity-login/internal/config"
	"github.com/jrsteele09/trinity-login/internal/errors"
	"github.com/rs/zerolog"
)

// Provider is the identity provider side of the exchange.
type Provider interface {
	ExchangeCode(ctx context.Context, code string) (discord.ExchangeResult, error)
	CurrentUser(ctx context.Context, accessToken string) (discord.ProfileResult, error)
	AuthCodeURL(state string) string
}

var _ Provider = (*discord.Client)(nil)

// PublicUser is the user record handed back to the website.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Service completes a Discord login: authorization code in, public user
// record out. It keeps no state between calls.
type Service struct {
	cfg      config.DiscordConfig
	provider Provider
}

func NewService(cfg config.DiscordConfig, provider Provider) *Service {
	return &Service{cfg: cfg, provider: provider}
}

// Exchange runs one login. Failures are returned as *Error.
func (s *Service) Exchange(ctx context.Context, code string) (PublicUser, error) {
	logger := zerolog.Ctx(ctx)

	if missing := s.cfg.MissingKeys(); len(missing) > 0 {
		logger.Error().Strs("missing", missing).Msg("login rejected: configuration incomplete")
		return PublicUser{}, configurationError(missing)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return PublicUser{}, inputError(errors.ErrMissingCode)
	}

	token, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error().Err(err).Msg("login failed: token request")
		return PublicUser{}, transportError(err)
	}
	if !token.OK() {
		logger.Warn().
			Int("provider_status", token.StatusCode).
			Str("oauth_error", token.Token.Error).
			Msg("login failed: code rejected by provider")
		return PublicUser{}, &Error{
			Kind:             KindProviderToken,
			Status:           http.StatusBadRequest,
			Message:          tokenFailureMessage(token),
			ProviderStatus:   token.StatusCode,
			ProviderResponse: token.Payload,
			RedirectURI:      s.cfg.RedirectURI,
			err:              errors.ErrProviderToken,
		}
	}

	profile, err := s.provider.CurrentUser(ctx, token.Token.AccessToken)
	if err != nil {
		logger.Error().Err(err).Msg("login failed: profile request")
		return PublicUser{}, transportError(err)
	}
	if !profile.OK() {
		logger.Warn().Int("provider_status", profile.StatusCode).Msg("login failed: profile rejected by provider")
		return PublicUser{}, &Error{
			Kind:             KindProviderProfile,
			Status:           profileFailureStatus(profile.StatusCode),
			Message:          errors.ErrProviderProfile.Error(),
			ProviderStatus:   profile.StatusCode,
			ProviderResponse: profile.Payload,
			err:              errors.ErrProviderProfile,
		}
	}

	user := PublicUser{
		ID:       profile.User.ID,
		Username: profile.User.Username,
		Avatar:   profile.User.AvatarURL(s.cfg.CDNBaseURL),
	}
	logger.Info().Str("user_id", user.ID).Msg("login succeeded")
	return user, nil
}

// AuthorizeURL returns the Discord consent URL for state.
func (s *Service) AuthorizeURL(state string) (string, error) {
	var missing []string
	for _, key := range s.cfg.MissingKeys() {
		// the secret is not needed to build the consent URL
		if key != config.ClientSecretEnvVar {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return "", configurationError(missing)
	}
	return s.provider.AuthCodeURL(state), nil
}

func tokenFailureMessage(r discord.ExchangeResult) string {
	switch {
	case r.Token.ErrorDescription != "":
		return r.Token.ErrorDescription
	case r.Token.Error != "":
		return r.Token.Error
	default:
		return errors.ErrProviderToken.Error()
	}
}

// A 5xx from Discord is reported as a server error, anything else as a
// rejected request.
func profileFailureStatus(providerStatus int) int {
	if providerStatus >= http.StatusInternalServerError {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
