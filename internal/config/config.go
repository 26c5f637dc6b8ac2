package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the complete service configuration. It is built once at startup
// and handed to the constructors that need it.
type Config struct {
	EnvVars
	Discord   DiscordConfig
	Cors      CorsConfig
	Telemetry TelemetryConfig
}

// TelemetryConfig controls the optional OTLP trace exporter.
type TelemetryConfig struct {
	Enabled     bool   `env:"TRINITY_OTEL_ENABLED" envDefault:"true"`
	Endpoint    string `env:"TRINITY_OTEL_ENDPOINT"`
	ServiceName string `env:"TRINITY_OTEL_SERVICE_NAME" envDefault:"trinity-login"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return Parse(nil)
}

// Parse reads the configuration from the given environment map. A nil map
// means the process environment.
func Parse(environment map[string]string) (Config, error) {
	var c Config
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Config{}, fmt.Errorf("[config.Parse] parse env: %w", err)
	}
	c.Cors.AllowedOrigins = trimOrigins(c.Cors.AllowedOrigins)
	return c, nil
}
