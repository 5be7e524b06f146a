package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything read from the environment at startup. The JWT
// settings and the base URL have no defaults: a missing value fails Load.
type Config struct {
	Port        string
	DatabaseDSN string

	JWTKey             string
	JWTIssuer          string
	JWTAudience        string
	AccessTokenMinutes int

	// BaseURL is used to build the confirmation and reset links sent by mail.
	BaseURL string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string
}

func Load() (*Config, error) {
	var missing []string
	require := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		Port:        envOr("PORT", "8080"),
		DatabaseDSN: require("DATABASE_DSN"),
		JWTKey:      require("JWT_KEY"),
		JWTIssuer:   require("JWT_ISSUER"),
		JWTAudience: require("JWT_AUDIENCE"),
		BaseURL:     require("APP_BASE_URL"),
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		EmailFrom:   os.Getenv("EMAIL_FROM"),
	}

	minutesRaw := require("JWT_EXPIRES_MINUTES")
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	minutes, err := strconv.Atoi(minutesRaw)
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES_MINUTES must be a positive integer, got %q", minutesRaw)
	}
	cfg.AccessTokenMinutes = minutes

	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 {
			return nil, fmt.Errorf("SMTP_PORT must be a positive integer, got %q", raw)
		}
		cfg.SMTPPort = port
	} else if cfg.SMTPHost != "" {
		// Submission port, matching the relay setup the mailer expects.
		cfg.SMTPPort = 587
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
