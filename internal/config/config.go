package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; DATABASE_URL and the VAPID key pair
// are required.
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

	// Runtime environment; the reminder clock only arms in production
	// unless SCHEDULER_ENABLED overrides it, guarding against duplicate
	// schedulers from hot-reloading development instances.
	Env              string
	SchedulerEnabled bool

	// Reminder cadence
	ReminderInterval time.Duration

	// Web push
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string
	PushTTL         time.Duration
	PushTimeout     time.Duration
	PushRateLimit   int

	// Base URL of the admin panel, used in notification links.
	AdminBaseURL string
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	vapidPublic := os.Getenv("VAPID_PUBLIC_KEY")
	vapidPrivate := os.Getenv("VAPID_PRIVATE_KEY")
	if vapidPublic == "" || vapidPrivate == "" {
		return nil, fmt.Errorf("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY are required")
	}

	env := getEnv("APP_ENV", "development")

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 2)),

		Env:              env,
		SchedulerEnabled: getBool("SCHEDULER_ENABLED", env == "production"),

		ReminderInterval: getDuration("REMINDER_INTERVAL", time.Hour),

		VAPIDPublicKey:  vapidPublic,
		VAPIDPrivateKey: vapidPrivate,
		VAPIDSubscriber: getEnv("VAPID_SUBSCRIBER", "mailto:webmaster@dorfportal.example"),
		PushTTL:         getDuration("PUSH_TTL", 12*time.Hour),
		PushTimeout:     getDuration("PUSH_TIMEOUT", 10*time.Second),
		PushRateLimit:   getInt("PUSH_RATE_LIMIT", 50),

		AdminBaseURL: getEnv("ADMIN_BASE_URL", "https://dorfportal.example"),
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

func getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
