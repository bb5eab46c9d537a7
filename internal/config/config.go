package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Store         StoreConfig
	Auth          AuthConfig
	Cache         CacheConfig
	Notifications NotificationConfig
	Cloudinary    CloudinaryConfig
	Logging       LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Environment     string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	MaxHeaderBytes  int
	CORSOrigin      string
	SwaggerUser     string
	SwaggerPassword string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	SlowQueryThreshold time.Duration
	MigrationsPath     string
	AutoMigrate        bool
}

// StoreConfig selects the comment store backend
type StoreConfig struct {
	Provider      string // postgres, mongo, memory
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

// CacheConfig holds cache configuration for handle lookups
type CacheConfig struct {
	Provider       string // memory, redis
	RedisURL       string
	RedisDB        int
	PoolSize       int
	HandleCacheTTL time.Duration
}

// NotificationConfig holds notification dispatch configuration
type NotificationConfig struct {
	Workers      int
	BufferSize   int
	MaxRetries   int
	RetryDelay   time.Duration
	WriteTimeout time.Duration
}

// CloudinaryConfig holds avatar image configuration
type CloudinaryConfig struct {
	CloudName  string
	APIKey     string
	APISecret  string
	AvatarSize int
}

// Enabled reports whether Cloudinary credentials are configured
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level                string
	SlowRequestThreshold time.Duration
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	// Load environment file based on GO_ENV
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load() // fallback to .env
		}
	}

	config := &Config{
		Server:        loadServerConfig(env),
		Database:      loadDatabaseConfig(env),
		Store:         loadStoreConfig(),
		Auth:          loadAuthConfig(),
		Cache:         loadCacheConfig(),
		Notifications: loadNotificationConfig(),
		Cloudinary:    loadCloudinaryConfig(),
		Logging:       loadLoggingConfig(env),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadServerConfig(env string) ServerConfig {
	config := ServerConfig{
		Port:            getEnv("PORT", "9000"),
		Environment:     env,
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
		SwaggerUser:     getEnv("SWAGGER_USERNAME", ""),
		SwaggerPassword: getEnv("SWAGGER_PASSWORD", ""),
	}
	if env == "development" {
		config.GracefulTimeout = 10 * time.Second
	}
	return config
}

func loadDatabaseConfig(env string) DatabaseConfig {
	config := DatabaseConfig{
		URL:                getEnv("DATABASE_URL", ""),
		MaxOpenConns:       getIntEnv("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:       getIntEnv("DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime:    getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		ConnMaxIdleTime:    getDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		SlowQueryThreshold: getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "migrations"),
		AutoMigrate:        getBoolEnv("AUTO_MIGRATE", env != "production"),
	}
	if env == "production" && config.MaxOpenConns < 20 {
		config.MaxOpenConns = 50
	}
	return config
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		Provider:      strings.ToLower(getEnv("COMMENT_STORE", "postgres")),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "socialfeed"),
		MongoTimeout:  getDurationEnv("MONGO_TIMEOUT", 10*time.Second),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", ""),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Provider:       strings.ToLower(getEnv("CACHE_PROVIDER", "memory")),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		RedisDB:        getIntEnv("REDIS_DB", 0),
		PoolSize:       getIntEnv("REDIS_POOL_SIZE", 10),
		HandleCacheTTL: getDurationEnv("HANDLE_CACHE_TTL", 5*time.Minute),
	}
}

func loadNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Workers:      getIntEnv("NOTIFY_WORKERS", 4),
		BufferSize:   getIntEnv("NOTIFY_BUFFER", 1000),
		MaxRetries:   getIntEnv("NOTIFY_MAX_RETRIES", 3),
		RetryDelay:   getDurationEnv("NOTIFY_RETRY_DELAY", 200*time.Millisecond),
		WriteTimeout: getDurationEnv("NOTIFY_TIMEOUT", 5*time.Second),
	}
}

func loadCloudinaryConfig() CloudinaryConfig {
	return CloudinaryConfig{
		CloudName:  getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:     getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:  getEnv("CLOUDINARY_API_SECRET", ""),
		AvatarSize: getIntEnv("AVATAR_SIZE", 64),
	}
}

func loadLoggingConfig(env string) LoggingConfig {
	level := "debug"
	if env == "production" {
		level = "info"
	}
	return LoggingConfig{
		Level:                getEnv("LOG_LEVEL", level),
		SlowRequestThreshold: getDurationEnv("SLOW_REQUEST_THRESHOLD", 2*time.Second),
	}
}

// ===============================
// VALIDATION
// ===============================

// Validate checks every configuration section
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}
	if c.Store.Provider == "postgres" {
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("database config: %w", err)
		}
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	if err := c.Notifications.Validate(); err != nil {
		return fmt.Errorf("notification config: %w", err)
	}
	return nil
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	port, err := strconv.Atoi(s.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %s", s.Port)
	}
	return nil
}

// Validate validates database configuration
func (d DatabaseConfig) Validate() error {
	if d.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	parsed, err := url.Parse(d.URL)
	if err != nil {
		return fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return fmt.Errorf("unsupported database scheme: %s", parsed.Scheme)
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		return fmt.Errorf("max idle connections (%d) cannot exceed max open connections (%d)", d.MaxIdleConns, d.MaxOpenConns)
	}
	return nil
}

// Validate validates store configuration
func (s StoreConfig) Validate() error {
	switch s.Provider {
	case "postgres", "memory":
		return nil
	case "mongo":
		if s.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo store")
		}
		return nil
	default:
		return fmt.Errorf("unsupported comment store: %s", s.Provider)
	}
}

// Validate validates auth configuration
func (a AuthConfig) Validate() error {
	if len(a.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

// Validate validates cache configuration
func (c CacheConfig) Validate() error {
	switch c.Provider {
	case "memory":
		return nil
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis cache")
		}
		return nil
	default:
		return fmt.Errorf("unsupported cache provider: %s", c.Provider)
	}
}

// Validate validates notification configuration
func (n NotificationConfig) Validate() error {
	if n.Workers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be positive")
	}
	if n.BufferSize < 1 {
		return fmt.Errorf("NOTIFY_BUFFER must be positive")
	}
	if n.MaxRetries < 0 {
		return fmt.Errorf("NOTIFY_MAX_RETRIES cannot be negative")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
