package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"peopleflow-hr/internal/payroll"
	"peopleflow-hr/internal/shared/connection"
)

const (
	defaultPort             = "3000"
	defaultCacheTTL         = 10 * time.Minute
	defaultJurisdictionsYML = "config/jurisdictions.yaml"
	defaultConnectRetries   = 5
)

// Config is everything the binaries read from the environment.
type Config struct {
	Port                  string
	DB                    connection.DBConfig
	RedisAddr             string
	KafkaBroker           string
	RBACModelPath         string
	PayrollRunConcurrency int
	JurisdictionCacheTTL  time.Duration
	JurisdictionsPath     string
	ConnectRetries        int
	CORSAllowedOrigins    []string
}

// LoadConfig reads the environment, filling defaults for optional keys.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port: getEnv("PORT", defaultPort),
		DB: connection.DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		KafkaBroker:           os.Getenv("KAFKA_BROKER"),
		RBACModelPath:         os.Getenv("RBAC_MODEL_PATH"),
		PayrollRunConcurrency: payroll.DefaultRunConcurrency,
		JurisdictionCacheTTL:  defaultCacheTTL,
		JurisdictionsPath:     getEnv("JURISDICTIONS_PATH", defaultJurisdictionsYML),
		ConnectRetries:        defaultConnectRetries,
		CORSAllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if v := os.Getenv("PAYROLL_RUN_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("PAYROLL_RUN_CONCURRENCY must be a positive integer, got %q", v)
		}
		cfg.PayrollRunConcurrency = n
	}

	if v := os.Getenv("JURISDICTION_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("JURISDICTION_CACHE_TTL must be a duration like 10m, got %q", v)
		}
		cfg.JurisdictionCacheTTL = d
	}

	if cfg.DB.User == "" || cfg.DB.Name == "" {
		return Config{}, fmt.Errorf("DB_USER and DB_NAME are required")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
