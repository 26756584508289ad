// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, HTTP communication, and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/sqlite: File-backed cache, the default; survives restarts
// - cache/memory: In-process cache on patrickmn/go-cache
// - cache/redis: Redis-based cache on go-redis
// - http/standard: net/http client with retries and an outbound rate limit
// - logger/structured: logrus logger with optional lumberjack file rotation
//
// # Cache Implementations
//
// SQLite Cache Example:
//
//	cache, err := sqlite.NewSQLiteCache("cache.db", logger)
//	defer cache.Close()
//	err = cache.Set(ctx, "goodreads_cache", data, 24*time.Hour)
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address:   "localhost:6379",
//	    KeyPrefix: "shelf-widgets:",
//	})
//
// # HTTP Client
//
// The HTTP client retries network errors and 5xx responses. Deadlines come from
// the request context:
//
//	client := standard.NewStandardHTTPClient(0,
//	    standard.WithRetries(3),
//	    standard.WithRateLimit(2, 2),
//	)
//	resp, err := client.Get(ctx, "https://corsproxy.io/?...")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	logger, err := structured.New(config.LogConfig{Level: "info", Format: "json"})
//	logger.Info("Relay attempt finished", map[string]interface{}{
//	    "relay":   "allorigins",
//	    "current": 1,
//	})
package infrastructure
