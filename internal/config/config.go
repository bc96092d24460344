package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const configFileEnvVar = "CONFIG_FILE"

type Config interface {
	EnvConfig
	UpstreamConfig
	StorageConfig
	MessagingConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetDefaultCurrency() string
}

type UpstreamConfig interface {
	GetFlightAPIURL() string
	GetFlightAPIKey() string
	GetHotelAPIURL() string
	GetHotelAPIClientID() string
	GetHotelAPIClientSecret() string
	GetHotelAPITokenURL() string
	GetUpstreamTimeoutSeconds() int
	GetUseMockData() bool
}

type StorageConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetSessionKeyPrefix() string
	GetDatabaseURL() string
}

type MessagingConfig interface {
	GetKafkaBrokers() []string
	GetKafkaItineraryTopic() string
}

type SecurityConfig interface {
	GetClientTokenSecret() string
	GetAllowedOrigins() AllowedOrigins
}

type mainConfig struct {
	EnvVars
}

var _ Config = mainConfig{}

// New loads the configuration from the environment, optionally layered on a
// YAML file named by CONFIG_FILE.
func New() (Config, error) {
	vars := EnvVars{}
	if path := os.Getenv(configFileEnvVar); path != "" {
		if err := cleanenv.ReadConfig(path, &vars); err != nil {
			return nil, fmt.Errorf("[config.New] failed to read config file %s: %w", path, err)
		}
		return mainConfig{EnvVars: vars}, nil
	}
	if err := cleanenv.ReadEnv(&vars); err != nil {
		return nil, fmt.Errorf("[config.New] failed to read environment variables: %w", err)
	}
	return mainConfig{EnvVars: vars}, nil
}
