package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment configuration
type Config struct {
	// Database
	DatabaseHost     string
	DatabasePort     string
	PostgresUser     string
	PostgresPassword string
	DatabaseName     string

	// Server
	Port     string
	LogLevel string

	// Authentication
	JWTSecret string

	// Response cache
	CacheBackend     string
	RedisHost        string
	RedisPassword    string
	MemcachedHosts   []string
	CacheFallbackTTL time.Duration
	MaxPageLimit     int

	// Ingestion
	SchedulingEnabled bool
	ItemsInterval     time.Duration
	TasksInterval     time.Duration
	UpstreamURL       string
	UpstreamTimeout   time.Duration
	ItemsFile         string
	TasksFile         string

	// Other
	KafkaBroker         string
	KafkaIngestionTopic string
}

const (
	MinPageLimit = 100
	MaxPageLimit = 300

	DefaultJWTSecret = "dummyjwt"
)

var (
	appConfig *Config
	onceEnv   sync.Once
)

// LoadConfig loads and validates all environment variables
func loadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	pageLimit := getEnvAsInt("MAX_PAGE_LIMIT", MinPageLimit)
	if pageLimit < MinPageLimit {
		pageLimit = MinPageLimit
	}
	if pageLimit > MaxPageLimit {
		pageLimit = MaxPageLimit
	}

	return &Config{
		// Database - required
		DatabaseHost:     getEnvWithDefault("DATABASE_HOST", "localhost"),
		DatabasePort:     getEnvWithDefault("DATABASE_PORT", "5432"),
		PostgresUser:     getEnvWithDefault("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnvWithDefault("POSTGRES_PASSWORD", "postgres"),
		DatabaseName:     getEnvWithDefault("DATABASE_NAME", "postgres"),

		Port:     getEnvWithDefault("PORT", "8000"),
		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		// JWT - required in production for the ingest endpoint
		JWTSecret: getEnvWithDefault("JWT_SECRET", DefaultJWTSecret),

		CacheBackend:     strings.ToLower(getEnvWithDefault("CACHE_BACKEND", "memory")),
		RedisHost:        getEnvWithDefault("REDIS_HOST", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		MemcachedHosts:   strings.Split(getEnvWithDefault("MEMCACHED_HOSTS", "localhost:11211"), ","),
		CacheFallbackTTL: time.Duration(getEnvAsInt("CACHE_FALLBACK_TTL_SECONDS", 10800)) * time.Second,
		MaxPageLimit:     pageLimit,

		SchedulingEnabled: getEnvAsBool("SCHEDULING_ENABLED", IsProduction()),
		ItemsInterval:     time.Duration(getEnvAsInt("ITEMS_INTERVAL_SECONDS", 900)) * time.Second,
		TasksInterval:     time.Duration(getEnvAsInt("TASKS_INTERVAL_SECONDS", 86400)) * time.Second,
		UpstreamURL:       getEnvWithDefault("UPSTREAM_URL", "https://api.tarkov.dev/graphql"),
		UpstreamTimeout:   time.Duration(getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 30)) * time.Second,
		ItemsFile:         getEnvWithDefault("ITEMS_FILE", "most_recent_items.json"),
		TasksFile:         getEnvWithDefault("TASKS_FILE", "most_recent_tasks.json"),

		// Kafka is optional, an empty broker disables ingestion events
		KafkaBroker:         os.Getenv("KAFKA_BROKER"),
		KafkaIngestionTopic: getEnvWithDefault("KAFKA_INGESTION_TOPIC", "ingestion-runs"),
	}
}

func Env() *Config {
	onceEnv.Do(func() {
		appConfig = loadConfig()
	})
	return appConfig
}

// Validate rejects settings that are only acceptable during development.
func (c *Config) Validate(production bool) error {
	if production && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set to a non-default value in production")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DatabaseHost, c.DatabasePort, c.PostgresUser, c.PostgresPassword, c.DatabaseName)
}

// Helper functions
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// IsProduction returns true if running in production
func IsProduction() bool {
	return getEnvWithDefault("ENVIRONMENT", "development") == "production"
}

// IsDevelopment returns true if running in development
func IsDevelopment() bool {
	return !IsProduction()
}
