package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs from the environment.
type Config struct {
	Port         string
	DatabaseDSN  string
	JWTSecret    string
	MLServiceURL string
	MLTimeout    time.Duration
}

// Load reads a .env file if one exists, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	dbPort := getenv("DB_PORT", "5432")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getenv("DB_NAME", "edu2job"),
		dbPort)

	timeout := 10 * time.Second
	if v := os.Getenv("ML_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	return &Config{
		Port:         getenv("PORT", "3000"),
		DatabaseDSN:  dsn,
		JWTSecret:    getenv("JWT_SECRET", "dev_secret_key"),
		MLServiceURL: getenv("ML_SERVICE_URL", "http://127.0.0.1:5000"),
		MLTimeout:    timeout,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
