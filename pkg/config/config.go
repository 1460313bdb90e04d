package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	GRPCPort int
	HTTPPort int

	RequestTimeout time.Duration
	Timezone       string
	SeedDemo       bool

	Store StoreConfig
}

// StoreConfig selects and configures the key-value backend.
type StoreConfig struct {
	Driver string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	SQLitePath string
}

func Load() Config {
	return Config{
		AppEnv:         getEnv("APP_ENV", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		GRPCPort:       getEnvInt("GRPC_PORT", 8081),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		Timezone:       getEnv("TIMEZONE", "Local"),
		SeedDemo:       getEnvBool("SEED_DEMO", false),
		Store: StoreConfig{
			Driver:        strings.ToLower(getEnv("STORE_DRIVER", "memory")),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			RedisPrefix:   getEnv("REDIS_PREFIX", "credpos"),
			SQLitePath:    getEnv("SQLITE_PATH", "credpos.db"),
		},
	}
}

// Location resolves Timezone, falling back to time.Local for unknown names.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
