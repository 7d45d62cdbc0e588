package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Session  SessionConfig
	Database DatabaseConfig
	Screen   ScreenConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Version        string
	AllowedOrigins []string
	Timezone       string
}

// BackendConfig points at the attendance REST API
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds the console session cookie configuration
type SessionConfig struct {
	Secret        string
	MaxLifetime   time.Duration
	CookieSecure  bool
	PurgeInterval time.Duration
}

// DatabaseConfig is optional. Without a host sessions are kept in memory.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// ScreenConfig sizes the per-session attendance screen cache
type ScreenConfig struct {
	MaxScreens   int
	TTL          time.Duration
	TickInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		Timezone:       getEnv("APP_TIMEZONE", "Local"),
	}

	// Backend configuration
	backendTimeout, err := getDuration("BACKEND_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	config.Backend = BackendConfig{
		BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8080"),
		Timeout: backendTimeout,
	}

	// Session configuration
	maxLifetime, err := getDuration("SESSION_MAX_LIFETIME", "12h")
	if err != nil {
		return nil, err
	}
	purgeInterval, err := getDuration("SESSION_PURGE_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	cookieSecure, err := strconv.ParseBool(getEnv("SESSION_COOKIE_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_COOKIE_SECURE: %w", err)
	}

	config.Session = SessionConfig{
		Secret:        getEnv("SESSION_SECRET", ""),
		MaxLifetime:   maxLifetime,
		CookieSecure:  cookieSecure,
		PurgeInterval: purgeInterval,
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_console"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Screen configuration
	maxScreens, err := strconv.Atoi(getEnv("SCREEN_CACHE_SIZE", "1024"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCREEN_CACHE_SIZE: %w", err)
	}
	screenTTL, err := getDuration("SCREEN_CACHE_TTL", "30m")
	if err != nil {
		return nil, err
	}
	tickInterval, err := getDuration("SCREEN_TICK_INTERVAL", "1s")
	if err != nil {
		return nil, err
	}

	config.Screen = ScreenConfig{
		MaxScreens:   maxScreens,
		TTL:          screenTTL,
		TickInterval: tickInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters")
	}
	if c.Session.MaxLifetime <= 0 {
		return fmt.Errorf("SESSION_MAX_LIFETIME must be positive")
	}
	if c.Session.PurgeInterval <= 0 {
		return fmt.Errorf("SESSION_PURGE_INTERVAL must be positive")
	}
	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an absolute URL")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.Screen.MaxScreens <= 0 {
		return fmt.Errorf("SCREEN_CACHE_SIZE must be positive")
	}
	if c.Screen.TickInterval <= 0 {
		return fmt.Errorf("SCREEN_TICK_INTERVAL must be positive")
	}
	if c.HasDatabase() && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required when DB_HOST is set")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// HasDatabase reports whether sessions should be stored in PostgreSQL.
func (c *Config) HasDatabase() bool {
	return c.Database.Host != ""
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location is the zone used for "today" and for backend timestamps sent
// without an offset.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

func getDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
