package config

import (
	"fmt"
	"os"
	"strings"
)

// Mode selects between real Ollama API calls and canned demo responses.
const (
	ModeAPI  = "api"
	ModeDemo = "demo"
)

type OllamaConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	VisionModel string
}

type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	SentryDSN      string
	Mode           string
	AllowedOrigins []string

	Ollama OllamaConfig
}

// Load reads the process environment into a Config. DATABASE_URL and
// JWT_SECRET have no safe defaults and are required.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "3001"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		Mode:           getEnv("MODE", ModeAPI),
		AllowedOrigins: allowedOrigins(),
		Ollama: OllamaConfig{
			BaseURL:     getEnv("OLLAMA_BASE_URL", "https://ollama.com/api"),
			APIKey:      os.Getenv("OLLAMA_API_KEY"),
			Model:       getEnv("OLLAMA_MODEL", "gpt-oss:120b"),
			VisionModel: getEnv("OLLAMA_VISION_MODEL", "qwen3-vl:235b-cloud"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	if cfg.Mode != ModeAPI && cfg.Mode != ModeDemo {
		return nil, fmt.Errorf("invalid MODE %q, expected %q or %q", cfg.Mode, ModeAPI, ModeDemo)
	}

	return cfg, nil
}

// defaultOrigins keep local frontends working without any CORS config.
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func allowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
