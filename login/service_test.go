package login_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jrsteele09/trinity-login/discord"
	"github.com/jrsteele09/trinity-login/discord/discordfake"
	"github.com/jrsteele09/trinity-login/internal/config"
	apperrors "github.com/jrsteele09/trinity-login/internal/errors"
	"github.com/jrsteele09/trinity-login/login"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "client-1"
	testClientSecret = "super-secret"
	testRedirectURI  = "https://trinity.example/login/callback"
	testAccessToken  = "tok1"
)

type testFixture struct {
	transport *discordfake.Transport
	service   *login.Service
}

func setupTestFixture(t *testing.T, cfg config.DiscordConfig) *testFixture {
	t.Helper()
	fake := discordfake.NewTransport()
	return &testFixture{
		transport: fake,
		service:   login.NewService(cfg, discord.NewClient(cfg, fake)),
	}
}

func completeConfig() config.DiscordConfig {
	return config.DiscordConfig{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURI:  testRedirectURI,
		APIBaseURL:   "https://discord.com/api",
		AuthorizeURL: "https://discord.com/oauth2/authorize",
		CDNBaseURL:   "https://cdn.discordapp.com",
		Scopes:       []string{"identify"},
	}
}

func requireLoginError(t *testing.T, err error, kind login.Kind, status int) *login.Error {
	t.Helper()
	require.Error(t, err)
	var le *login.Error
	require.True(t, errors.As(err, &le), "expected *login.Error, got %T", err)
	require.Equal(t, kind, le.Kind)
	require.Equal(t, status, le.Status)
	return le
}

func requireNoSecrets(t *testing.T, le *login.Error) {
	t.Helper()
	raw, err := json.Marshal(le.Body())
	require.NoError(t, err)
	require.NotContains(t, string(raw), testClientSecret)
	require.NotContains(t, string(raw), testAccessToken)
}

func TestService_Exchange_EndToEnd(t *testing.T) {
	f := setupTestFixture(t, completeConfig())
	f.transport.
		WithToken(http.StatusOK, `{"access_token":"tok1","token_type":"Bearer","expires_in":604800,"scope":"identify"}`).
		WithProfile(http.StatusOK, `{"id":"42","username":"ana","avatar":null,"discriminator":"0007"}`)

	user, err := f.service.Exchange(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, login.PublicUser{
		ID:       "42",
		Username: "ana",
		Avatar:   "https://cdn.discordapp.com/embed/avatars/2.png",
	}, user)

	calls := f.transport.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, "abc123", calls[0].Form.Get("code"))
	require.Equal(t, testAccessToken, calls[1].AccessToken)
}

func TestService_Exchange_AvatarHash(t *testing.T) {
	f := setupTestFixture(t, completeConfig())
	f.transport.
		WithToken(http.StatusOK, `{"access_token":"tok1"}`).
		WithProfile(http.StatusOK, `{"id":"80351110224678912","username":"nelly","avatar":"8342729096ea3675442027381ff50dfe","discriminator":"1337"}`)

	user, err := f.service.Exchange(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.discordapp.com/avatars/80351110224678912/8342729096ea3675442027381ff50dfe.png", user.Avatar)
}

func TestService_Exchange_DefaultAvatarIsStable(t *testing.T) {
	f := setupTestFixture(t, completeConfig())
	f.transport.
		WithToken(http.StatusOK, `{"access_token":"tok1"}`).
		WithProfile(http.StatusOK, `{"id":"42","username":"ana","avatar":null,"discriminator":"1234"}`)

	first, err := f.service.Exchange(context.Background(), "code-a")
	require.NoError(t, err)
	second, err := f.service.Exchange(context.Background(), "code-b")
	require.NoError(t, err)
	require.Equal(t, first.Avatar, second.Avatar)
	require.Equal(t, "https://cdn.discordapp.com/embed/avatars/4.png", first.Avatar)
}

func TestService_Exchange_MissingConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.DiscordConfig)
		missing []string
	}{
		{"no client id", func(c *config.DiscordConfig) { c.ClientID = "" }, []string{config.ClientIDEnvVar}},
		{"no client secret", func(c *config.DiscordConfig) { c.ClientSecret = "" }, []string{config.ClientSecretEnvVar}},
		{"no redirect uri", func(c *config.DiscordConfig) { c.RedirectURI = "" }, []string{config.RedirectURIEnvVar}},
		{"nothing", func(c *config.DiscordConfig) { *c = config.DiscordConfig{} },
			[]string{config.ClientIDEnvVar, config.ClientSecretEnvVar, config.RedirectURIEnvVar}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := completeConfig()
			tc.mutate(&cfg)
			f := setupTestFixture(t, cfg)

			_, err := f.service.Exchange(context.Background(), "abc123")
			le := requireLoginError(t, err, login.KindConfiguration, http.StatusInternalServerError)
			require.ErrorIs(t, err, apperrors.ErrConfiguration)
			require.Equal(t, tc.missing, le.Missing)
			require.Empty(t, f.transport.Calls())
			requireNoSecrets(t, le)
		})
	}
}

func TestService_Exchange_ConfigurationCheckedBeforeCode(t *testing.T) {
	f := setupTestFixture(t, config.DiscordConfig{})

	_, err := f.service.Exchange(context.Background(), "")
	requireLoginError(t, err, login.KindConfiguration, http.StatusInternalServerError)
}

func TestService_Exchange_MissingCode(t *testing.T) {
	for _, code := range []string{"", "   "} {
		f := setupTestFixture(t, completeConfig())

		_, err := f.service.Exchange(context.Background(), code)
		requireLoginError(t, err, login.KindInput, http.StatusBadRequest)
		require.ErrorIs(t, err, apperrors.ErrMissingCode)
		require.Empty(t, f.transport.Calls())
	}
}

func TestService_Exchange_ProviderTokenError(t *testing.T) {
	t.Run("reused code", func(t *testing.T) {
		f := setupTestFixture(t, completeConfig())
		f.transport.WithToken(http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Invalid \"code\" in request."}`)

		_, err := f.service.Exchange(context.Background(), "abc123")
		le := requireLoginError(t, err, login.KindProviderToken, http.StatusBadRequest)
		require.ErrorIs(t, err, apperrors.ErrProviderToken)
		require.Equal(t, `Invalid "code" in request.`, le.Message)
		require.Equal(t, http.StatusBadRequest, le.ProviderStatus)
		require.Equal(t, "invalid_grant", le.ProviderResponse["error"])
		require.Equal(t, testRedirectURI, le.RedirectURI)
		require.Equal(t, 0, f.transport.CallCount(discordfake.MethodGetWithBearer))
		requireNoSecrets(t, le)
	})

	t.Run("success status without access token", func(t *testing.T) {
		f := setupTestFixture(t, completeConfig())
		f.transport.WithToken(http.StatusOK, `{"token_type":"Bearer"}`)

		_, err := f.service.Exchange(context.Background(), "abc123")
		requireLoginError(t, err, login.KindProviderToken, http.StatusBadRequest)
		require.Equal(t, 0, f.transport.CallCount(discordfake.MethodGetWithBearer))
	})

	t.Run("malformed json", func(t *testing.T) {
		f := setupTestFixture(t, completeConfig())
		f.transport.WithToken(http.StatusOK, `{"access_token":`)

		_, err := f.service.Exchange(context.Background(), "abc123")
		le := requireLoginError(t, err, login.KindProviderToken, http.StatusBadRequest)
		require.Equal(t, map[string]any{}, le.ProviderResponse)
		require.Equal(t, 0, f.transport.CallCount(discordfake.MethodGetWithBearer))
	})

	t.Run("error field alongside a token", func(t *testing.T) {
		f := setupTestFixture(t, completeConfig())
		f.transport.WithToken(http.StatusOK, `{"access_token":"tok1","error":"invalid_scope"}`)

		_, err := f.service.Exchange(context.Background(), "abc123")
		le := requireLoginError(t, err, login.KindProviderToken, http.StatusBadRequest)
		require.NotContains(t, le.ProviderResponse, "access_token")
		requireNoSecrets(t, le)
	})
}

func TestService_Exchange_ProviderProfileError(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		f := setupTestFixture(t, completeConfig())
		f.transport.
			WithToken(http.StatusOK, `{"access_token":"tok1"}`).
			WithProfile(http.StatusUnauthorized, `{"message":"401: Unauthorized","code":0}`)

		_, err := f.service.Exchange(context.Background(), "abc123")
		le := requireLoginError(t, err, login.KindProviderProfile, http.StatusBadRequest)
		require.ErrorIs(t, err, apperrors.ErrProviderProfile)
		require.Equal(t, http.StatusUnauthorized, le.ProviderStatus)
		requireNoSecrets(t, le)
	})

	t.Run("provider outage", func(t *testing.T) {
		f := setupTestFixture(t, completeConfig())
		f.transport.
			WithToken(http.StatusOK, `{"access_token":"tok1"}`).
			WithProfile(http.StatusBadGateway, `upstream`)

		_, err := f.service.Exchange(context.Background(), "abc123")
		requireLoginError(t, err, login.KindProviderProfile, http.StatusInternalServerError)
	})

	t.Run("profile without id", func(t *testing.T) {
		f := setupTestFixture(t, completeConfig())
		f.transport.
			WithToken(http.StatusOK, `{"access_token":"tok1"}`).
			WithProfile(http.StatusOK, `{}`)

		_, err := f.service.Exchange(context.Background(), "abc123")
		requireLoginError(t, err, login.KindProviderProfile, http.StatusBadRequest)
	})
}

func TestService_Exchange_TransportError(t *testing.T) {
	t.Run("token endpoint unreachable", func(t *testing.T) {
		f := setupTestFixture(t, completeConfig())
		f.transport.WithTokenError(errors.New("dial tcp: i/o timeout"))

		_, err := f.service.Exchange(context.Background(), "abc123")
		le := requireLoginError(t, err, login.KindTransport, http.StatusInternalServerError)
		require.ErrorIs(t, err, apperrors.ErrTransport)
		require.Contains(t, le.Message, "i/o timeout")
		require.Equal(t, 0, f.transport.CallCount(discordfake.MethodGetWithBearer))
		requireNoSecrets(t, le)
	})

	t.Run("profile endpoint unreachable", func(t *testing.T) {
		f := setupTestFixture(t, completeConfig())
		f.transport.
			WithToken(http.StatusOK, `{"access_token":"tok1"}`).
			WithProfileError(errors.New("connection reset by peer"))

		_, err := f.service.Exchange(context.Background(), "abc123")
		le := requireLoginError(t, err, login.KindTransport, http.StatusInternalServerError)
		require.Contains(t, le.Message, "connection reset by peer")
		requireNoSecrets(t, le)
	})
}

func TestService_AuthorizeURL(t *testing.T) {
	t.Run("secret not needed", func(t *testing.T) {
		cfg := completeConfig()
		cfg.ClientSecret = ""
		f := setupTestFixture(t, cfg)

		u, err := f.service.AuthorizeURL("state-1")
		require.NoError(t, err)
		require.Contains(t, u, "client_id="+testClientID)
		require.Contains(t, u, "state=state-1")
	})

	t.Run("missing client id", func(t *testing.T) {
		cfg := completeConfig()
		cfg.ClientID = ""
		f := setupTestFixture(t, cfg)

		_, err := f.service.AuthorizeURL("state-1")
		le := requireLoginError(t, err, login.KindConfiguration, http.StatusInternalServerError)
		require.Equal(t, []string{config.ClientIDEnvVar}, le.Missing)
	})
}

func TestError_Body(t *testing.T) {
	le := login.AsError(errors.New("boom"))
	require.Equal(t, map[string]any{"error": "transport_error", "message": "boom"}, le.Body())
}
