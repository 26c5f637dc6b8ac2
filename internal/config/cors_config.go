package config

import "strings"

const wildcardOrigin = "*"

type CorsConfig struct {
	AllowedOrigins AllowedOrigins `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods string         `env:"CORS_ALLOWED_METHODS" envDefault:"GET, POST, OPTIONS"`
	AllowedHeaders string         `env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type, Authorization"`
	MaxAge         string         `env:"CORS_MAX_AGE" envDefault:"86400"`
}

// AllowedOrigins is the ordered list of origins the browser may call from.
// A single "*" entry allows any origin.
type AllowedOrigins []string

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	for _, o := range a {
		if o == origin {
			return true
		}
	}
	return false
}

func (a AllowedOrigins) IsWildcard() bool {
	return len(a) == 0 || a.IsAllowedOrigin(wildcardOrigin)
}

// Resolve returns the Access-Control-Allow-Origin value for a request from
// requestOrigin. Unknown origins get the first configured origin, which the
// browser will then reject.
func (a AllowedOrigins) Resolve(requestOrigin string) string {
	if a.IsWildcard() {
		return wildcardOrigin
	}
	if requestOrigin != "" && a.IsAllowedOrigin(requestOrigin) {
		return requestOrigin
	}
	return a[0]
}

func (a AllowedOrigins) String() string {
	return strings.Join(a, ", ")
}

func trimOrigins(origins AllowedOrigins) AllowedOrigins {
	trimmed := make(AllowedOrigins, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			trimmed = append(trimmed, o)
		}
	}
	return trimmed
}
