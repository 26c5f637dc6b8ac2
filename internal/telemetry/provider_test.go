package telemetry_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/trinity-login/internal/config"
	"github.com/jrsteele09/trinity-login/internal/telemetry"
	"github.com/stretchr/testify/require"
)

func TestSetup_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TelemetryConfig
	}{
		{"no endpoint", config.TelemetryConfig{Enabled: true}},
		{"switched off", config.TelemetryConfig{Enabled: false, Endpoint: "http://127.0.0.1:4318"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shutdown, err := telemetry.Setup(context.Background(), tc.cfg)
			require.NoError(t, err)
			require.NoError(t, shutdown(context.Background()))
		})
	}
}

func TestSetup_Enabled(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), config.TelemetryConfig{
		Enabled:     true,
		Endpoint:    "http://127.0.0.1:4318/v1/traces",
		ServiceName: "trinity-login-test",
	})
	require.NoError(t, err)
	// nothing was recorded, so shutdown has nothing to export
	require.NoError(t, shutdown(context.Background()))
}
