package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config carries every tunable the process reads from the environment,
// with its default spelled out in one place.
type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// LoadEnv loads environment variables from a .env file, if present.
func LoadEnv() {
	_ = godotenv.Load(".env")
}

// Load builds the process configuration from the environment.
func Load() *Config {
	return &Config{
		Port:       GetEnv("PORT", "3000"),
		MongoURI:   GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:    GetEnv("MONGODB_DATABASE", "storefront"),
		JWTSecret:  GetEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// GetEnv retrieves an environment variable with a fallback.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
