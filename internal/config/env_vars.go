package config

import (
	"fmt"
	"strings"
)

// DefaultClientTokenSecret is the CLIENT_TOKEN_SECRET fallback. It is only
// accepted when running in DEV.
const DefaultClientTokenSecret = "change-me"

// EnvVars is the raw configuration as read by cleanenv.
type EnvVars struct {
	Port            string `yaml:"port" env:"PORT" env-default:"8080"`
	AppName         string `yaml:"app_name" env:"APP_NAME" env-default:"Go Travel Booking"`
	Env             string `yaml:"env" env:"ENV" env-default:"DEV"`
	LogLevel        string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	DefaultCurrency string `yaml:"default_currency" env:"DEFAULT_CURRENCY" env-default:"USD"`

	FlightAPIURL           string `yaml:"flight_api_url" env:"FLIGHT_API_URL" env-default:"http://localhost:9001"`
	FlightAPIKey           string `yaml:"flight_api_key" env:"FLIGHT_API_KEY"`
	HotelAPIURL            string `yaml:"hotel_api_url" env:"HOTEL_API_URL" env-default:"http://localhost:9002"`
	HotelAPIClientID       string `yaml:"hotel_api_client_id" env:"HOTEL_API_CLIENT_ID"`
	HotelAPIClientSecret   string `yaml:"hotel_api_client_secret" env:"HOTEL_API_CLIENT_SECRET"`
	HotelAPITokenURL       string `yaml:"hotel_api_token_url" env:"HOTEL_API_TOKEN_URL"`
	UpstreamTimeoutSeconds int    `yaml:"upstream_timeout_seconds" env:"UPSTREAM_TIMEOUT_SECONDS" env-default:"30"`
	UseMockData            bool   `yaml:"use_mock_data" env:"USE_MOCK_DATA" env-default:"false"`

	RedisAddr        string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword    string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB          int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	SessionKeyPrefix string `yaml:"session_key_prefix" env:"SESSION_KEY_PREFIX" env-default:"travel-booking"`
	DatabaseURL      string `yaml:"database_url" env:"DATABASE_URL"`

	KafkaBrokers        []string `yaml:"kafka_brokers" env:"KAFKA_BROKERS" env-separator:","`
	KafkaItineraryTopic string   `yaml:"kafka_itinerary_topic" env:"KAFKA_ITINERARY_TOPIC" env-default:"itinerary-bookings"`

	ClientTokenSecret string   `yaml:"client_token_secret" env:"CLIENT_TOKEN_SECRET" env-default:"change-me"`
	Origins           []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetDefaultCurrency() string {
	return e.DefaultCurrency
}

func (e EnvVars) GetFlightAPIURL() string {
	return strings.TrimRight(e.FlightAPIURL, "/")
}

func (e EnvVars) GetFlightAPIKey() string {
	return e.FlightAPIKey
}

func (e EnvVars) GetHotelAPIURL() string {
	return strings.TrimRight(e.HotelAPIURL, "/")
}

func (e EnvVars) GetHotelAPIClientID() string {
	return e.HotelAPIClientID
}

func (e EnvVars) GetHotelAPIClientSecret() string {
	return e.HotelAPIClientSecret
}

// GetHotelAPITokenURL returns the OAuth2 token endpoint of the hotel API.
// Empty means the hotel API is called without credentials.
func (e EnvVars) GetHotelAPITokenURL() string {
	return e.HotelAPITokenURL
}

func (e EnvVars) GetUpstreamTimeoutSeconds() int {
	if e.UpstreamTimeoutSeconds <= 0 {
		return 30
	}
	return e.UpstreamTimeoutSeconds
}

func (e EnvVars) GetUseMockData() bool {
	return e.UseMockData
}

// GetRedisAddr returns the Redis address. Empty selects the in-memory
// session store.
func (e EnvVars) GetRedisAddr() string {
	return e.RedisAddr
}

func (e EnvVars) GetRedisPassword() string {
	return e.RedisPassword
}

func (e EnvVars) GetRedisDB() int {
	return e.RedisDB
}

func (e EnvVars) GetSessionKeyPrefix() string {
	return e.SessionKeyPrefix
}

func (e EnvVars) GetDatabaseURL() string {
	return e.DatabaseURL
}

func (e EnvVars) GetKafkaBrokers() []string {
	return e.KafkaBrokers
}

func (e EnvVars) GetKafkaItineraryTopic() string {
	return e.KafkaItineraryTopic
}

func (e EnvVars) GetClientTokenSecret() string {
	return e.ClientTokenSecret
}

func (e EnvVars) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	for _, o := range e.Origins {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = nullValue{}
		}
	}
	return origins
}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}
