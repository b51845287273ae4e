package utils

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env into the process environment. Variables already set
// take precedence, so repeated calls are harmless.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  No .env file found, continuing...")
	}
}

// GetEnv returns the named environment variable or fallback when unset.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
