package config_test

import (
	"testing"

	"github.com/jrsteele09/go-travel-booking/internal/config"
	"github.com/stretchr/testify/require"
)

func TestEnvVars_Getters(t *testing.T) {
	vars := config.EnvVars{
		Port:         "8080",
		Env:          "prod",
		FlightAPIURL: "http://flights.local/",
		Origins:      []string{" https://app.example.com ", ""},
	}

	require.Equal(t, ":8080", vars.GetPort())
	require.Equal(t, "PROD", vars.GetEnv())
	require.Equal(t, "http://flights.local", vars.GetFlightAPIURL())
	require.Equal(t, 30, vars.GetUpstreamTimeoutSeconds())

	origins := vars.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://app.example.com"))
	require.False(t, origins.IsAllowedOrigin(""))
	require.Len(t, origins, 1)
}

func TestEnvVars_DefaultsToDev(t *testing.T) {
	require.Equal(t, "DEV", config.EnvVars{}.GetEnv())
	require.Equal(t, ":9000", config.EnvVars{Port: ":9000"}.GetPort())
}

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := config.New()
	require.NoError(t, err)
	require.Equal(t, ":9191", c.GetPort())
	require.Equal(t, "localhost:6379", c.GetRedisAddr())
	require.Equal(t, []string{"k1:9092", "k2:9092"}, c.GetKafkaBrokers())
	require.Equal(t, "USD", c.GetDefaultCurrency())
}
