package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string

	ServerPort int

	StoragePath string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		APIBaseURL:  EnvDefault("API_BASE_URL", "http://localhost:3000/api"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		StoragePath: EnvDefault("STORAGE_PATH", "storefront.db"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),
	}

	MustNonEmpty(cfg.APIBaseURL, "API_BASE_URL")

	return cfg
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
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

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
