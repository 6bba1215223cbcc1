package configsapp

import (
	"os"

	"github.com/joho/godotenv"

	"envitefy.link/configs/configslog"
)

// Config holds the application-level settings read from the environment.
type Config struct {
	// ListenAddr is the HTTP listen address, e.g. ":3000".
	ListenAddr string
	// BaseURL is the public origin used when building absolute links
	// (the ICS endpoint URL on event pages is relative to it).
	BaseURL string
	// ReminderCron is the cron spec driving the reminder dispatcher.
	ReminderCron string
}

// Load reads .env (if present) and assembles the Config. Missing variables
// fall back to development defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Info("no .env file found, using process environment")
	}
	return Config{
		ListenAddr:   envOr("APP_LISTEN", ":3000"),
		BaseURL:      envOr("APP_BASE_URL", "http://localhost:3000"),
		ReminderCron: envOr("REMINDER_CRON", "*/5 * * * *"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
