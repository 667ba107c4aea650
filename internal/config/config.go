package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all server configuration, read from the environment.
type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	Port          string
	JWTSecret     string

	// DuelTTLMinutes is the age past which the reaper deletes a duel record
	// regardless of its status.
	DuelTTLMinutes int
	ReapInterval   time.Duration
}

// Load reads configuration from the environment with sane defaults.
func Load() *Config {
	return &Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnvOrDefault("MONGO_DB", "codeclash"),
		RedisAddr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Port:           getEnvOrDefault("PORT", "8080"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
		DuelTTLMinutes: getEnvInt("DUEL_TTL_MINUTES", 30),
		ReapInterval:   time.Duration(getEnvInt("REAP_INTERVAL_SECONDS", 300)) * time.Second,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
