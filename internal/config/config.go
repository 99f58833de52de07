package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr string

	// Token URL pieces: https://<TokenHost>/<TokenPath>?data=...
	TokenHost    string
	TokenPath    string
	CodecVersion int // 1 = legacy escaped JSON, 2 = deflate+base64url

	CacheSize int
	CacheTTL  time.Duration

	DevLog bool
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:         getEnv("LUKCHAN_ADDR", ":8080"),
		TokenHost:    getEnv("LUKCHAN_TOKEN_HOST", "luk.gg"),
		TokenPath:    getEnv("LUKCHAN_TOKEN_PATH", "bpsr"),
		CodecVersion: getEnvInt("LUKCHAN_CODEC_VERSION", 2),
		CacheSize:    getEnvInt("LUKCHAN_CACHE_SIZE", 1024),
		CacheTTL:     getEnvDuration("LUKCHAN_CACHE_TTL", 3*time.Hour),
		DevLog:       getEnvBool("LUKCHAN_DEV_LOG", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
