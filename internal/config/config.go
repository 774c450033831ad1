package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	RedisAddr      string
	KafkaBrokers   []string
	AnalyticsTopic string
	JWTSecret      string

	PaymentWindow     time.Duration
	PaymentProcessing time.Duration
}

const (
	defaultAppPort           = "8080"
	defaultAnalyticsTopic    = "bakery-analytics"
	defaultPaymentWindow     = 120 * time.Second
	defaultPaymentProcessing = 1500 * time.Millisecond
)

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:         os.Getenv("DB_HOST"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBPort:         os.Getenv("DB_PORT"),
		AppPort:        getEnv("APP_PORT", defaultAppPort),
		AppEnv:         os.Getenv("APP_ENV"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		KafkaBrokers:   splitCSV(os.Getenv("KAFKA_BROKERS")),
		AnalyticsTopic: getEnv("ANALYTICS_TOPIC", defaultAnalyticsTopic),
		JWTSecret:      os.Getenv("JWT_SECRET"),

		PaymentWindow:     getSeconds("PAYMENT_WINDOW_SECONDS", defaultPaymentWindow),
		PaymentProcessing: getMillis("PAYMENT_PROCESSING_MS", defaultPaymentProcessing),
	}

	return cfg
}

// HasDatabase reports whether the Postgres admin mirror and catalog can be used.
func (c *Config) HasDatabase() bool {
	return c.DBHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getSeconds(key string, fallback time.Duration) time.Duration {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

func getMillis(key string, fallback time.Duration) time.Duration {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return fallback
	}
	return time.Duration(n) * time.Millisecond
}

func splitCSV(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
