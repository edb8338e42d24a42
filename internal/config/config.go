package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr               string
	MongoURI           string
	MongoDatabase      string
	LocationCollection string
	Timeout            time.Duration
	ServerLog          *log.Logger
	JWTSecret          []byte
	JWTIssuer          string
	JWTAudience        string
	AllowedOrigins     []string
}

// AuthEnabled reports whether review mutations require a Bearer token.
func (c Config) AuthEnabled() bool {
	return len(c.JWTSecret) > 0
}

// Load reads environment variables and returns a fully populated Config.
// Auth settings are optional: without AUTH_JWT_SECRET the review endpoints
// stay open, which suits local development and the test suite.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	var jwtSecret []byte
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		jwtSecret = []byte(secret)
	}

	cfg := Config{
		Addr:               envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:           envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:      envOrDefault("MONGO_DB", "loc8r"),
		LocationCollection: envOrDefault("LOCATION_COLLECTION", "locations"),
		Timeout:            timeout,
		ServerLog:          log.New(os.Stdout, "[loc8r-api] ", log.LstdFlags|log.Lshortfile),
		JWTSecret:          jwtSecret,
		JWTIssuer:          envOrDefault("AUTH_JWT_ISSUER", "loc8r-auth"),
		JWTAudience:        strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		AllowedOrigins:     parseList("API_ALLOWED_ORIGINS", []string{"*"}),
	}

	if !cfg.AuthEnabled() {
		cfg.ServerLog.Printf("AUTH_JWT_SECRET 未設定のためレビュー書き込み API は認証なしで公開されます")
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
