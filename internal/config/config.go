package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultClassifierURL = "https://nyenyak-model-api-z2dhcxitca-et.a.run.app/prediction"

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	JWTSecret      string
	TokenTTL       time.Duration
	APIKey         string
	Port           string
	ResendAPIKey   string
	MailFrom       string
	AllowedOrigins string
	LogLevel       string
	LogFormat      string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	ClassifierURL              string
	ClassifierTimeout          time.Duration
	ClassifierBreakerTimeout   time.Duration
	ClassifierBreakerThreshold float64
	ClassifierBreakerMinCalls  uint32
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable must be set")

// Load reads the environment, after merging a local .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "nyenyak"),
		DBPassword:     getEnv("DB_PASSWORD", "nyenyak_pass"),
		DBName:         getEnv("DB_NAME", "nyenyak"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		APIKey:         getEnv("API_KEY", ""),
		Port:           getEnv("PORT", "8080"),
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		MailFrom:       getEnv("MAIL_FROM", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		ClassifierURL:  getEnv("CLASSIFIER_URL", defaultClassifierURL),
	}

	var err error
	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"TOKEN_TTL", time.Hour, &cfg.TokenTTL},
		{"SERVER_READ_TIMEOUT", 10 * time.Second, &cfg.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", 45 * time.Second, &cfg.WriteTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", 10 * time.Second, &cfg.ShutdownTimeout},
		{"CLASSIFIER_TIMEOUT", 30 * time.Second, &cfg.ClassifierTimeout},
		{"CLASSIFIER_BREAKER_TIMEOUT", 30 * time.Second, &cfg.ClassifierBreakerTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, d.fallback); err != nil {
			return nil, err
		}
	}

	if cfg.ClassifierBreakerThreshold, err = getFloat("CLASSIFIER_BREAKER_THRESHOLD", 0.6); err != nil {
		return nil, err
	}
	minCalls, err := getInt("CLASSIFIER_BREAKER_MIN_CALLS", 5)
	if err != nil {
		return nil, err
	}
	cfg.ClassifierBreakerMinCalls = uint32(minCalls)

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4&loc=UTC"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, v)
	}
	return n, nil
}
