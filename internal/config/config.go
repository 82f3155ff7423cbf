package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; DATABASE_URL and REDIS_URL are required.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// Redis (charge queue)
	RedisURL string
	QueueKey string

	// WhatsApp gateway
	GatewayBaseURL string
	GatewaySession string
	GatewayToken   string
	GatewayTimeout time.Duration

	// Session behaviour
	MaxReconnect int
	SendTimeout  time.Duration
	SendPerMin   int // outbound message pacing; 0 disables the limiter
	CountryCode  string

	// Delivery worker
	TickInterval time.Duration
	MaxAttempts  int

	// Reporting
	ManagerPhone string
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 2)),

		RedisURL: redisURL,
		QueueKey: getEnv("QUEUE_KEY", "fila:cobrancas"),

		GatewayBaseURL: getEnv("GATEWAY_BASE_URL", "http://localhost:21465"),
		GatewaySession: getEnv("GATEWAY_SESSION", "sistema-cobranca"),
		GatewayToken:   os.Getenv("GATEWAY_TOKEN"),
		GatewayTimeout: getDuration("GATEWAY_TIMEOUT", 30*time.Second),

		MaxReconnect: getInt("MAX_RECONNECT", 5),
		SendTimeout:  getDuration("SEND_TIMEOUT", 30*time.Second),
		SendPerMin:   getInt("SEND_PER_MIN", 20),
		CountryCode:  getEnv("COUNTRY_CODE", "55"),

		TickInterval: getDuration("TICK_INTERVAL", time.Minute),
		MaxAttempts:  getInt("MAX_ATTEMPTS", 3),

		ManagerPhone: os.Getenv("MANAGER_PHONE"),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
