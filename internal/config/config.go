package config

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"time"
)

const (
	DefaultMapboxBaseURL      = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	DefaultMBTABaseURL        = "https://api-v3.mbta.com"
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultArrivalLimit       = 5
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	Port        string

	// Upstream endpoints and credentials. Credentials are passed through as-is;
	// a missing key shows up as an authentication failure from the remote API.
	MapboxBaseURL      string
	MapboxToken        string
	MBTABaseURL        string
	MBTAAPIKey         string
	OpenWeatherBaseURL string
	OpenWeatherAPIKey  string

	ArrivalLimit int

	// Inbound rate limiting for the HTTP server, per client IP
	RequestsPerSecond int
	RequestBurst      int
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the timeout for outbound API calls
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithPort(port string) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// WithMapbox sets the geocoding endpoint and access token
func WithMapbox(baseURL, token string) Option {
	return func(c *Config) {
		if baseURL != "" {
			c.MapboxBaseURL = baseURL
		}
		c.MapboxToken = token
	}
}

// WithMBTA sets the transit API endpoint and key
func WithMBTA(baseURL, apiKey string) Option {
	return func(c *Config) {
		if baseURL != "" {
			c.MBTABaseURL = baseURL
		}
		c.MBTAAPIKey = apiKey
	}
}

// WithOpenWeather sets the weather endpoint and key
func WithOpenWeather(baseURL, apiKey string) Option {
	return func(c *Config) {
		if baseURL != "" {
			c.OpenWeatherBaseURL = baseURL
		}
		c.OpenWeatherAPIKey = apiKey
	}
}

// WithArrivalLimit caps the number of predictions fetched per stop
func WithArrivalLimit(limit int) Option {
	return func(c *Config) {
		if limit > 0 {
			c.ArrivalLimit = limit
		}
	}
}

// WithRateLimit configures the inbound request limiter. A non-positive rate disables it.
func WithRateLimit(perSecond, burst int) Option {
	return func(c *Config) {
		c.RequestsPerSecond = perSecond
		c.RequestBurst = burst
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:        "production",
		LogLevel:           zerolog.InfoLevel,
		HTTPTimeout:        10 * time.Second,
		Port:               "8080",
		MapboxBaseURL:      DefaultMapboxBaseURL,
		MBTABaseURL:        DefaultMBTABaseURL,
		OpenWeatherBaseURL: DefaultOpenWeatherBaseURL,
		ArrivalLimit:       DefaultArrivalLimit,
		RequestsPerSecond:  5,
		RequestBurst:       10,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// IsDevelopment reports whether human-readable console logging should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// LoadDotEnv reads a .env file into the process environment when one exists.
// Variables already set in the environment win.
func LoadDotEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithPort(getEnvOrDefault("PORT", "8080")),
		WithMapbox(os.Getenv("MAPBOX_BASE_URL"), os.Getenv("MAPBOX_TOKEN")),
		WithMBTA(os.Getenv("MBTA_BASE_URL"), os.Getenv("MBTA_API_KEY")),
		WithOpenWeather(os.Getenv("OPENWEATHER_BASE_URL"), os.Getenv("OPENWEATHER_API_KEY")),
		WithArrivalLimit(getEnvInt("ARRIVAL_LIMIT", DefaultArrivalLimit)),
		WithRateLimit(getEnvInt("RATE_LIMIT_RPS", 5), getEnvInt("RATE_LIMIT_BURST", 10)),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
