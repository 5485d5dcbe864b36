package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings is the service configuration, read from the environment after
// .env has been loaded.
type Settings struct {
	Port          string
	Environment   string
	LogLevel      string
	MongoURI      string
	MongoDatabase string
	RedisAddress  string
	RedisPassword string
	JWTSecret     string
	TokenTTL      time.Duration
	CookieDomain  string
	CORSOrigins   []string

	IssueLimitQueue  string
	IssueCreateLimit int
	IssueLimitWindow time.Duration
	EnrichTimeout    time.Duration

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func (s Settings) Production() bool {
	return s.Environment == "production"
}

// Load reads Settings from the environment. MONGODB_URI and JWT_SECRET are
// required.
func Load() (Settings, error) {
	s := Settings{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("GO_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MongoURI:         os.Getenv("MONGODB_URI"),
		MongoDatabase:    getEnv("MONGODB_DATABASE", "civicsync"),
		RedisAddress:     os.Getenv("REDIS_ADDRESS"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CookieDomain:     os.Getenv("DOMAIN"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		IssueLimitQueue:  getEnv("REDIS_QUEUE_FOR_ISSUE_LIMIT", "issue-limit"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		AdminName:        getEnv("ADMIN_NAME", "Administrator"),
		IssueCreateLimit: 10,
		IssueLimitWindow: 24 * time.Hour,
		TokenTTL:         72 * time.Hour,
		EnrichTimeout:    5 * time.Second,
	}

	var errs []error
	if s.MongoURI == "" {
		errs = append(errs, errors.New("MONGODB_URI is not set"))
	}
	if s.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if v := os.Getenv("ISSUE_CREATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, fmt.Errorf("ISSUE_CREATE_LIMIT must be a positive integer, got %q", v))
		} else {
			s.IssueCreateLimit = n
		}
	}
	for _, d := range []struct {
		key    string
		target *time.Duration
	}{
		{"ENRICH_TIMEOUT", &s.EnrichTimeout},
		{"TOKEN_TTL", &s.TokenTTL},
		{"ISSUE_LIMIT_WINDOW", &s.IssueLimitWindow},
	} {
		if err := durationEnv(d.key, d.target); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// durationEnv overwrites target when key holds a positive duration.
func durationEnv(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	*target = d
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
