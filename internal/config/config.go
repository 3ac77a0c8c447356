// Package config reads service settings from the environment.
package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
)

type Config struct {
	Port          string
	PublicBaseURL string
	LogLevel      string

	UploadDir         string
	MaxUploadBytes    int64
	CreateLimitPerMin int

	ShutdownTimeout time.Duration

	MetricsEnabled bool
	MetricsToken   string
}

func (c Config) Addr() string { return ":" + c.Port }

// Load collects configuration from the environment. Malformed values fall back to defaults.
func Load() Config {
	port := getenv("PORT", "3001")
	return Config{
		Port:              port,
		PublicBaseURL:     getenv("PUBLIC_BASE_URL", "http://localhost:"+port),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		UploadDir:         getenv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:    int64env("MAX_UPLOAD_BYTES", 10<<20),
		CreateLimitPerMin: intenv("CREATE_LIMIT_PER_MIN", 30),
		ShutdownTimeout:   durenv("SHUTDOWN_TIMEOUT", 10*time.Second),
		MetricsEnabled:    boolenv("METRICS_ENABLED", true),
		MetricsToken:      os.Getenv("METRICS_TOKEN"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func intenv(k string, def int) int {
	n, err := cast.ToIntE(os.Getenv(k))
	if err != nil || os.Getenv(k) == "" {
		return def
	}
	return n
}

func int64env(k string, def int64) int64 {
	n, err := cast.ToInt64E(os.Getenv(k))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func boolenv(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// durenv accepts Go durations ("15s") or bare seconds ("15").
func durenv(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if secs, err := cast.ToInt64E(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := cast.ToDurationE(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
