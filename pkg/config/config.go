// ABOUTME: Configuration management for the widgets with environment variable support
// ABOUTME: Defines configuration structures for the feed, fetching, cache, data files and logging

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Goodreads identifies the feed to read
	Goodreads GoodreadsConfig

	// Fetch controls outbound requests
	Fetch FetchConfig

	// Snapshot configures the bundled static snapshot
	Snapshot SnapshotConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Data points at the writing and featured article files
	Data DataConfig

	// Log configures logging output
	Log LogConfig
}

// GoodreadsConfig holds the upstream feed settings
type GoodreadsConfig struct {
	// UserID is the Goodreads user whose shelves are shown
	UserID string

	// FeedBaseURL is the shelf RSS endpoint; empty uses the built-in default
	FeedBaseURL string

	// Relays lists relay names in the order they are tried
	Relays []string

	// ProfileURL is the link-out shown when nothing can be loaded
	ProfileURL string
}

// FetchConfig holds outbound request settings
type FetchConfig struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	Retries      int
	UserAgent    string

	// RateLimit is requests per second across all relays; 0 disables limiting
	RateLimit float64
	RateBurst int
}

// SnapshotConfig holds static snapshot settings
type SnapshotConfig struct {
	// Location is a file path or http(s) URL
	Location string

	// MaxReadBooks caps the read shelf when the snapshot is regenerated
	MaxReadBooks int
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (sqlite/memory/redis)
	Type string

	// Key is the slot the snapshot is stored under
	Key string

	// TTL is how long a cached snapshot is served
	TTL time.Duration

	SQLite SQLiteConfig
	Redis  RedisConfig
	Memory MemoryConfig
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix namespaces every key
	KeyPrefix string
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// CleanupInterval is how often expired entries are purged
	CleanupInterval time.Duration
}

// DataConfig holds paths to the writing widgets' data files
type DataConfig struct {
	WritingPath  string
	FeaturedPath string
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string

	// Format is text or json
	Format string

	// File enables rotating file output when set
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultUserID is the Goodreads account the widgets were built for
const DefaultUserID = "45140929-santi-ruiz"

// LoadDotEnv loads variables from the given .env files, ignoring files that do not exist.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	userID := getEnvOrDefault("GOODREADS_USER_ID", DefaultUserID)

	cfg := &Config{
		Goodreads: GoodreadsConfig{
			UserID:      userID,
			FeedBaseURL: getEnvOrDefault("GOODREADS_FEED_URL", ""),
			Relays:      getEnvAsListOrDefault("RELAYS", []string{"allorigins", "corsproxy"}),
			ProfileURL:  getEnvOrDefault("PROFILE_URL", "https://www.goodreads.com/user/show/"+userID),
		},
		Fetch: FetchConfig{
			Timeout:      getEnvAsDurationOrDefault("FETCH_TIMEOUT", 8*time.Second),
			MaxBodyBytes: int64(getEnvAsIntOrDefault("MAX_BODY_BYTES", 5<<20)),
			Retries:      getEnvAsIntOrDefault("HTTP_RETRIES", 3),
			UserAgent:    getEnvOrDefault("USER_AGENT", "ShelfWidgets/1.0"),
			RateLimit:    getEnvAsFloatOrDefault("RATE_LIMIT", 2),
			RateBurst:    getEnvAsIntOrDefault("RATE_BURST", 2),
		},
		Snapshot: SnapshotConfig{
			Location:     getEnvOrDefault("STATIC_SNAPSHOT", "data/goodreads-cache.json"),
			MaxReadBooks: getEnvAsIntOrDefault("SNAPSHOT_MAX_READ", 10),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "sqlite"),
			Key:  getEnvOrDefault("CACHE_KEY", "goodreads_cache"),
			TTL:  getEnvAsDurationOrDefault("CACHE_TTL", 24*time.Hour),
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "cache.db"),
			},
			Redis: RedisConfig{
				Address:   getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:        getEnvAsIntOrDefault("REDIS_DB", 0),
				KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "shelf-widgets:"),
			},
			Memory: MemoryConfig{
				CleanupInterval: getEnvAsDurationOrDefault("MEMORY_CLEANUP_INTERVAL", 10*time.Minute),
			},
		},
		Data: DataConfig{
			WritingPath:  getEnvOrDefault("WRITING_DATA", "data/writing.json"),
			FeaturedPath: getEnvOrDefault("FEATURED_DATA", "data/featured.json"),
		},
		Log: LogConfig{
			Level:      strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
			Format:     strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
			File:       getEnvOrDefault("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsIntOrDefault("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsIntOrDefault("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsIntOrDefault("LOG_MAX_AGE_DAYS", 28),
			Compress:   getEnvAsBoolOrDefault("LOG_COMPRESS", true),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float64 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable as bool or a default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go durations ("8s") or plain milliseconds ("8000")
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// getEnvAsListOrDefault splits a comma separated variable, dropping empty items
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Goodreads.UserID == "" {
		return errors.New("goodreads user id cannot be empty")
	}

	if c.Fetch.Timeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}

	if c.Fetch.MaxBodyBytes <= 0 {
		return errors.New("max body bytes must be positive")
	}

	if c.Fetch.Retries < 1 {
		return errors.New("http retries must be at least 1")
	}

	if c.Fetch.RateLimit < 0 {
		return errors.New("rate limit cannot be negative")
	}

	if c.Fetch.RateLimit > 0 && c.Fetch.RateBurst < 1 {
		return errors.New("rate burst must be at least 1 when rate limiting")
	}

	if c.Snapshot.MaxReadBooks < 1 {
		return errors.New("snapshot max read books must be at least 1")
	}

	if c.Cache.TTL <= 0 {
		return errors.New("cache ttl must be positive")
	}

	switch c.Cache.Type {
	case "sqlite":
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case "memory":
	default:
		return errors.New("cache type must be 'sqlite', 'memory' or 'redis'")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("log format must be 'text' or 'json'")
	}

	return nil
}
