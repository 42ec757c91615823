package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Search    SearchConfig
	Targets   TargetsConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxSessions is the page pool capacity (max concurrent tabs).
	MaxSessions int // default: 3

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is an optional proxy URL for all requests.
	Proxy string

	// Stealth enables anti-bot-detection JS injection before navigation.
	Stealth bool // default: true

	// BlockedResourceTypes lists resource types the browser never loads.
	// Pharmacy search pages only need their DOM, not imagery.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// SearchConfig controls the price comparison run.
type SearchConfig struct {
	// Engine selects the fetch engine: "browser" (rod) or "http".
	Engine string // default: "browser"

	// MaxConcurrency bounds the number of pharmacies queried in parallel.
	// Kept small to stay polite toward vendor sites.
	MaxConcurrency int // default: 3

	// TargetTimeout is the per-pharmacy deadline (navigate + render + extract).
	TargetTimeout time.Duration // default: 25s

	// QueryTimeout is the deadline for the whole comparison.
	QueryTimeout time.Duration // default: 60s
}

// TargetsConfig controls where the pharmacy registry is loaded from.
type TargetsConfig struct {
	// File is an optional path to a JSON registry file. When empty, the
	// built-in Apollo/PharmEasy/NetMeds set is used.
	File string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key or IP.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per identity.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("MEDCOMPARE_HOST", "0.0.0.0"),
			Port: envIntOr("MEDCOMPARE_PORT", 8080),
			Mode: envOr("MEDCOMPARE_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:    envBoolOr("MEDCOMPARE_HEADLESS", true),
			MaxSessions: envIntOr("MEDCOMPARE_MAX_SESSIONS", 3),
			NoSandbox:   envBoolOr("MEDCOMPARE_NO_SANDBOX", false),
			BrowserBin:  os.Getenv("MEDCOMPARE_BROWSER_BIN"),
			Proxy:       os.Getenv("MEDCOMPARE_PROXY"),
			Stealth:     envBoolOr("MEDCOMPARE_STEALTH", true),
			BlockedResourceTypes: envSliceOr("MEDCOMPARE_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Search: SearchConfig{
			Engine:         envOr("MEDCOMPARE_FETCH_ENGINE", "browser"),
			MaxConcurrency: envIntOr("MEDCOMPARE_MAX_CONCURRENCY", 3),
			TargetTimeout:  envDurationOr("MEDCOMPARE_TARGET_TIMEOUT", 25*time.Second),
			QueryTimeout:   envDurationOr("MEDCOMPARE_QUERY_TIMEOUT", 60*time.Second),
		},
		Targets: TargetsConfig{
			File: os.Getenv("MEDCOMPARE_TARGETS_FILE"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("MEDCOMPARE_AUTH_ENABLED", false),
			APIKeys: envSliceOr("MEDCOMPARE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("MEDCOMPARE_RATE_RPS", 2.0),
			Burst:             envIntOr("MEDCOMPARE_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("MEDCOMPARE_LOG_LEVEL", "info"),
			Format: envOr("MEDCOMPARE_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
