package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// BackendBadger selects the embedded on-device store.
	BackendBadger = "badger"
	// BackendRedis selects the remote per-user store.
	BackendRedis = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Owner        string // owner reference namespacing all saved links
	StoreBackend string // "badger" | "redis"

	// Badger
	BadgerDir string // on-disk location of the embedded store

	// Redis
	RedisAddr           string        // ex: "localhost:6379", required when backend=redis
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDialTimeout    time.Duration // ex: 5s
	RedisPoolSize       int           // connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // initial wait between retries (ex: 2s, grows exponentially)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)

	FetchTimeout    time.Duration // preview fetch timeout (ex: 10s)
	ReloadInterval  time.Duration // interval between cache reloads (default: 5m)
	RefreshInterval time.Duration // interval between preview refresh sweeps (default: 1h)
	RefreshBatch    int           // max links re-extracted per sweep

	SeedFile string // optional yaml file of links imported at startup

	RateLimitBurst  int  // token bucket capacity per client IP
	RateLimitPerMin int  // refill rate per client IP per minute
	TrustProxy      bool // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKD_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKD_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKD_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKD_PRETTY_LOG", true),

		// Ownership and storage
		Owner:        getenv("LINKD_OWNER", "local-user"),
		StoreBackend: getenv("LINKD_STORE_BACKEND", BackendBadger),
		BadgerDir:    getenv("LINKD_BADGER_DIR", "./data/linkd"),

		// Redis settings (only validated when the backend is redis)
		RedisAddr:           getenv("LINKD_REDIS_ADDR", ""),
		RedisPassword:       getenv("LINKD_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("LINKD_REDIS_DB", 0),
		RedisDialTimeout:    mustDuration("LINKD_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("LINKD_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("LINKD_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("LINKD_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("LINKD_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("LINKD_REDIS_PING_TIMEOUT", 5*time.Second),

		// Background work
		FetchTimeout:    mustDuration("LINKD_FETCH_TIMEOUT", 10*time.Second),
		ReloadInterval:  mustDuration("LINKD_RELOAD_INTERVAL", 5*time.Minute),
		RefreshInterval: mustDuration("LINKD_REFRESH_INTERVAL", time.Hour),
		RefreshBatch:    getenvInt("LINKD_REFRESH_BATCH", 5),

		SeedFile: getenv("LINKD_SEED_FILE", ""),

		// Access restrictions
		RateLimitBurst:  getenvInt("LINKD_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("LINKD_RATE_LIMIT_PER_MIN", 60),
		TrustProxy:      mustBool("LINKD_TRUST_PROXY", false),
	}

	switch cfg.StoreBackend {
	case BackendBadger, BackendRedis:
	default:
		panic(fmt.Sprintf("❌ FATAL: Invalid LINKD_STORE_BACKEND %q, expected %q or %q",
			cfg.StoreBackend, BackendBadger, BackendRedis))
	}

	if cfg.StoreBackend == BackendRedis {
		cfg.RedisAddr = requireEnv("LINKD_REDIS_ADDR")
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
