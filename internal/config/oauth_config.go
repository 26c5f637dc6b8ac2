package config

import (
	"strings"
	"time"
)

const (
	ClientIDEnvVar     = "DISCORD_CLIENT_ID"
	ClientSecretEnvVar = "DISCORD_CLIENT_SECRET"
	RedirectURIEnvVar  = "DISCORD_REDIRECT_URI"
)

// DiscordConfig holds the OAuth2 application credentials and the Discord
// endpoints used for the code exchange.
type DiscordConfig struct {
	ClientID     string `env:"DISCORD_CLIENT_ID"`
	ClientSecret string `env:"DISCORD_CLIENT_SECRET"`
	RedirectURI  string `env:"DISCORD_REDIRECT_URI"`

	APIBaseURL   string   `env:"DISCORD_API_BASE_URL" envDefault:"https://discord.com/api"`
	AuthorizeURL string   `env:"DISCORD_AUTHORIZE_URL" envDefault:"https://discord.com/oauth2/authorize"`
	CDNBaseURL   string   `env:"DISCORD_CDN_BASE_URL" envDefault:"https://cdn.discordapp.com"`
	Scopes       []string `env:"DISCORD_SCOPES" envSeparator:"," envDefault:"identify"`

	// HTTPTimeout bounds each outbound call. Zero leaves it to the request
	// context.
	HTTPTimeout time.Duration `env:"DISCORD_HTTP_TIMEOUT" envDefault:"0s"`
}

// MissingKeys lists the environment variable names of required settings that
// are empty. Values are never included.
func (d DiscordConfig) MissingKeys() []string {
	var missing []string
	if strings.TrimSpace(d.ClientID) == "" {
		missing = append(missing, ClientIDEnvVar)
	}
	if strings.TrimSpace(d.ClientSecret) == "" {
		missing = append(missing, ClientSecretEnvVar)
	}
	if strings.TrimSpace(d.RedirectURI) == "" {
		missing = append(missing, RedirectURIEnvVar)
	}
	return missing
}

func (d DiscordConfig) TokenURL() string {
	return strings.TrimRight(d.APIBaseURL, "/") + "/oauth2/token"
}

func (d DiscordConfig) CurrentUserURL() string {
	return strings.TrimRight(d.APIBaseURL, "/") + "/users/@me"
}
