package config

import (
	"fmt"
	"strings"
)

const (
	EnvDev  = "DEV"
	EnvProd = "PROD"
)

type EnvVars struct {
	Port    string `env:"PORT" envDefault:"8080"`
	AppName string `env:"APP_NAME" envDefault:"Trinity Login"`
	Env     string `env:"ENV" envDefault:"DEV"`
}

// Addr returns the listen address for the HTTP server, e.g. ":8080".
func (e EnvVars) Addr() string {
	port := strings.TrimSpace(e.Port)
	if port == "" {
		port = "8080"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

func (e EnvVars) IsDev() bool {
	return e.Env == "" || strings.EqualFold(e.Env, EnvDev)
}
