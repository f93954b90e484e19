package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	DatabaseURL string
	// Market
	MarketTZ string
	// Cache
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Provider
	Provider       string
	MagnetAPIBase  string
	MagnetAPIToken string
	RequestTimeout time.Duration
	// Holiday sync command
	SyncCountries []string
	SyncYear      int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:            getEnv("ENV", "local"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MarketTZ:       getEnv("MARKET_TZ", "America/Santiago"),
		CacheBackend:   getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        atoiDef(getEnv("REDIS_DB", "0"), 0),
		Provider:       getEnv("PROVIDER", "fake"),
		MagnetAPIBase:  getEnv("MAGNET_API_BASE", "https://data.magnet.cl"),
		MagnetAPIToken: getEnv("MAGNET_API_TOKEN", ""),
		RequestTimeout: time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "3000"), 3000)) * time.Millisecond,
		SyncCountries:  splitCSV(getEnv("SYNC_COUNTRIES", "CL")),
		SyncYear:       atoiDef(getEnv("SYNC_YEAR", "0"), 0),
	}
}
