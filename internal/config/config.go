package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Allocation tables override (YAML); empty uses the built-in tables
	AllocationTablesPath string

	// Text generation
	GenAIAPIKey           string
	GenAIModel            string
	RecommendationTimeout time.Duration

	// Fire-and-forget persistence of calculation results
	PersistTimeout time.Duration

	// Optional X-API-Key required on /metrics
	MetricsAPIKey string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "weddingbudget"),
		DBPassword: getEnv("DB_PASSWORD", "weddingbudget"),
		DBName:     getEnv("DB_NAME", "weddingbudget"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		AllocationTablesPath: getEnv("ALLOCATION_TABLES", ""),

		GenAIAPIKey: getEnv("GENAI_API_KEY", ""),
		GenAIModel:  getEnv("GENAI_MODEL", "gemini-2.0-flash"),

		MetricsAPIKey: getEnv("METRICS_API_KEY", ""),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.RecommendationTimeout = getDuration("RECOMMENDATION_TIMEOUT", 4*time.Second)
	config.PersistTimeout = getDuration("PERSIST_TIMEOUT", 10*time.Second)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a positive duration, falling back to the default on
// missing or invalid values.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
