package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server needs from its environment.
type Config struct {
	Addr string

	Provider ProviderConfig
	Cache    CacheConfig
	Redis    RedisConfig

	// AuditDatabaseURL enables the postgres audit store when set.
	// Empty means audit events stay in the in-memory store.
	AuditDatabaseURL string
}

// ProviderConfig holds credentials and limits for the registry suggestion API.
type ProviderConfig struct {
	BaseURL   string
	APIKey    string
	SecretKey string
	Timeout   time.Duration
}

// CacheConfig bounds the verification cache.
type CacheConfig struct {
	Capacity int
	TTL      time.Duration
}

// RedisConfig configures the optional shared verification cache.
// An empty URL means redis is not used and caching stays in-process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("FNSGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	baseURL := os.Getenv("DADATA_BASE_URL")
	if baseURL == "" {
		baseURL = "https://suggestions.dadata.ru/suggestions/api/4_1/rs/findById/party"
	}

	return Config{
		Addr: addr,
		Provider: ProviderConfig{
			BaseURL:   baseURL,
			APIKey:    os.Getenv("DADATA_API_KEY"),
			SecretKey: os.Getenv("DADATA_SECRET_KEY"),
			Timeout:   durationEnv("PROVIDER_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			Capacity: intEnv("CACHE_CAPACITY", 100),
			TTL:      durationEnv("CACHE_TTL", time.Hour),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		AuditDatabaseURL: os.Getenv("AUDIT_DATABASE_URL"),
	}
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
