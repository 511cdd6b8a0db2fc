package config

import (
	"fmt"
	"os"
	"strings"
)

type APIConfig struct {
	Addr          string
	DatabaseURL   string
	BotToken      string
	RedisAddr     string
	AllowedOrigin string
}

type CLIConfig struct {
	APIBaseURL string
	BotToken   string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := strings.TrimSpace(os.Getenv("PORT"))
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("TOKENTAP_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:          addr,
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		BotToken:      strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		AllowedOrigin: strings.TrimSpace(os.Getenv("ALLOWED_ORIGIN")),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	// Without the bot token every signature check would fail open or
	// closed at random; treat absence as fatal misconfiguration.
	if cfg.BotToken == "" {
		return cfg, fmt.Errorf("BOT_TOKEN is required")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("TAPCTL_API_BASE_URL", "http://localhost:8080"), "/"),
		BotToken:   strings.TrimSpace(os.Getenv("TAPCTL_BOT_TOKEN")),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
