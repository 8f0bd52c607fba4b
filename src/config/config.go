package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// HTTP settings
	AllowedOrigins []string

	// Instrument name lookup settings
	NameAPIBaseURL   string
	NameLookupRPS    float64
	NameLookupBurst  int
	NameCacheExpiry  time.Duration
	NameCacheCleanup time.Duration
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found. Relying on OS environment variables (expected in production).")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./investrack.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		AllowedOrigins: getOriginList("ALLOWED_ORIGINS", "http://localhost:3000"),

		NameAPIBaseURL:   getEnv("NAME_API_BASE_URL", "https://query1.finance.yahoo.com"),
		NameLookupRPS:    getEnvAsFloat("NAME_LOOKUP_RPS", 2.0),
		NameLookupBurst:  getEnvAsInt("NAME_LOOKUP_BURST", 5),
		NameCacheExpiry:  getEnvAsDuration("NAME_CACHE_EXPIRY", 24*time.Hour),
		NameCacheCleanup: getEnvAsDuration("NAME_CACHE_CLEANUP", time.Hour),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath)
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsFloat retrieves an environment variable as a float64 or returns a fallback.
func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %f", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getOriginList retrieves and parses a comma-separated list of allowed origins.
func getOriginList(key, fallback string) []string {
	originsStr := getEnv(key, fallback)
	if originsStr == "" {
		return []string{}
	}
	origins := strings.Split(originsStr, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return origins
}
