package discord

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/jrsteele09/trinity-login/internal/config"
	"github.com/jrsteele09/trinity-login/internal/errors"
	"github.com/jrsteele09/trinity-login/oauthmodel"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const tracerName = "github.com/jrsteele09/trinity-login/discord"

// Payload keys that carry credentials and are stripped before a provider
// payload is handed back to callers.
var credentialKeys = []string{"access_token", "refresh_token", "id_token"}

// Client talks to the Discord OAuth2 and user endpoints through a Transport.
type Client struct {
	cfg       config.DiscordConfig
	transport Transport
	oauth     *oauth2.Config
	tracer    trace.Tracer
}

func NewClient(cfg config.DiscordConfig, transport Transport) *Client {
	return &Client{
		cfg:       cfg,
		transport: transport,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizeURL,
				TokenURL:  cfg.TokenURL(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		tracer: otel.Tracer(tracerName),
	}
}

// ExchangeResult is the outcome of a token request that reached the provider.
type ExchangeResult struct {
	StatusCode int
	Token      oauthmodel.TokenResponse
	// Payload is the provider body as a JSON object with credentials removed.
	// A body that is not a JSON object yields an empty map.
	Payload map[string]any
}

// OK reports whether the exchange produced a usable access token.
func (r ExchangeResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300 && !r.Token.Failed()
}

// ProfileResult is the outcome of a current user request that reached the
// provider.
type ProfileResult struct {
	StatusCode int
	User       User
	Payload    map[string]any
}

func (r ProfileResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300 && strings.TrimSpace(r.User.ID) != ""
}

// ExchangeCode trades an authorization code for an access token. A returned
// error means the provider was not reached or did not answer; provider
// rejections come back as a result that is not OK.
func (c *Client) ExchangeCode(ctx context.Context, code string) (ExchangeResult, error) {
	if code == "" {
		return ExchangeResult{}, oauthmodel.ErrEmptyCode
	}

	ctx, span := c.tracer.Start(ctx, "discord.exchange_code")
	defer span.End()

	form := url.Values{}
	form.Set(oauthmodel.ParamClientID, c.cfg.ClientID)
	form.Set(oauthmodel.ParamClientSecret, c.cfg.ClientSecret)
	form.Set(oauthmodel.ParamGrantType, string(oauthmodel.AuthorizationCodeGrant))
	form.Set(oauthmodel.ParamCode, code)
	form.Set(oauthmodel.ParamRedirectURI, c.cfg.RedirectURI)

	resp, err := c.transport.PostForm(ctx, c.cfg.TokenURL(), form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token request failed")
		return ExchangeResult{}, errors.Wrapf(err, "[discord.ExchangeCode] POST %s", c.cfg.TokenURL())
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	result := ExchangeResult{StatusCode: resp.StatusCode, Payload: decodeObject(resp.Body)}
	if err := json.Unmarshal(resp.Body, &result.Token); err != nil {
		result.Token = oauthmodel.TokenResponse{}
	}
	if !result.OK() {
		span.SetStatus(codes.Error, "token rejected")
		span.SetAttributes(attribute.String("oauth.error", result.Token.Error))
	}

	zerolog.Ctx(ctx).Debug().
		Int("status", resp.StatusCode).
		Bool("access_token", result.Token.HasAccessToken()).
		Str("oauth_error", result.Token.Error).
		Msg("discord token exchange")

	return result, nil
}

// CurrentUser fetches the profile of the user the access token belongs to.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (ProfileResult, error) {
	ctx, span := c.tracer.Start(ctx, "discord.current_user")
	defer span.End()

	resp, err := c.transport.GetWithBearer(ctx, c.cfg.CurrentUserURL(), accessToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile request failed")
		return ProfileResult{}, errors.Wrapf(err, "[discord.CurrentUser] GET %s", c.cfg.CurrentUserURL())
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	result := ProfileResult{StatusCode: resp.StatusCode, Payload: decodeObject(resp.Body)}
	if err := json.Unmarshal(resp.Body, &result.User); err != nil {
		result.User = User{}
	}
	if !result.OK() {
		span.SetStatus(codes.Error, "profile rejected")
	}

	zerolog.Ctx(ctx).Debug().
		Int("status", resp.StatusCode).
		Str("user_id", result.User.ID).
		Msg("discord current user")

	return result, nil
}

// AuthCodeURL returns the consent page URL the browser is sent to.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

func decodeObject(body []byte) map[string]any {
	payload := map[string]any{}
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return map[string]any{}
	}
	for _, k := range credentialKeys {
		delete(payload, k)
	}
	return payload
}
