package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultAllowedOrigins are the desktop shell's webview origins.
const DefaultAllowedOrigins = "tauri://localhost,http://tauri.localhost,http://localhost:1420"

type Config struct {
	Host           string
	Port           string
	DatabaseURL    string
	JWTSecret      string
	AuthRequired   bool
	UpstreamURL    string
	UpstreamAPIKey string
	ChatModel      string
	ImageModel     string
	TTSURL         string
	TTSCharacter   string
	CommandLogPath string
	AllowedOrigins []string
	Limits         Limits

	// InvokeToken is the shared secret the shell sends on /invoke calls.
	// Empty means one is generated per run and written to InvokeTokenPath.
	InvokeToken     string
	InvokeTokenPath string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	authRequired, err := envBool("AUTH_REQUIRED", false)
	if err != nil {
		return nil, err
	}

	limits, err := loadLimits()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:           envOrDefault("HOST", "127.0.0.1"),
		Port:           envOrDefault("PORT", "3000"),
		DatabaseURL:    envOrDefault("DATABASE_URL", "data.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AuthRequired:   authRequired,
		UpstreamURL:    envOrDefault("UPSTREAM_URL", "https://openrouter.ai/api"),
		UpstreamAPIKey: os.Getenv("UPSTREAM_API_KEY"),
		ChatModel:      envOrDefault("CHAT_MODEL", "stepfun/step-3.5-flash:free"),
		ImageModel:     envOrDefault("IMAGE_MODEL", "sourceful/riverflow-v2-pro"),
		TTSURL:         envOrDefault("TTS_URL", "http://localhost:5001"),
		TTSCharacter:   envOrDefault("TTS_CHARACTER", "mika"),
		CommandLogPath: envOrDefault("COMMAND_LOG_PATH", "commands.log"),
		AllowedOrigins: splitList(envOrDefault("ALLOWED_ORIGINS", DefaultAllowedOrigins)),
		Limits:         limits,

		InvokeToken:     os.Getenv("INVOKE_TOKEN"),
		InvokeTokenPath: envOrDefault("INVOKE_TOKEN_PATH", "invoke.token"),
	}

	if cfg.AuthRequired && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set when AUTH_REQUIRED=true")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
