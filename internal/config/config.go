package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath          string
	ServerPort      string
	LogLevel        string
	LogPretty       bool
	SessionLifetime time.Duration
	AllowedOrigins  []string
	ShareCodeLength int

	DiscordKey         string
	DiscordSecret      string
	DiscordCallbackURL string
	GoogleKey          string
	GoogleSecret       string
	GoogleCallbackURL  string
}

// Load reads .env when present and falls back to the process environment.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	lifetime, err := time.ParseDuration(getEnv("SESSION_LIFETIME", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_LIFETIME: %w", err)
	}

	codeLength, err := strconv.Atoi(getEnv("SHARE_CODE_LENGTH", "8"))
	if err != nil || codeLength < 4 {
		return nil, fmt.Errorf("SHARE_CODE_LENGTH must be a number of at least 4")
	}

	cfg := &Config{
		DBPath:          getEnv("DB_PATH", "arena.db?_journal_mode=WAL&_foreign_keys=on&_txlock=immediate"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       getEnv("LOG_PRETTY", "false") == "true",
		SessionLifetime: lifetime,
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		ShareCodeLength: codeLength,

		DiscordKey:         os.Getenv("DISCORD_KEY"),
		DiscordSecret:      os.Getenv("DISCORD_SECRET"),
		DiscordCallbackURL: os.Getenv("DISCORD_CALLBACK_URL"),
		GoogleKey:          os.Getenv("GOOGLE_KEY"),
		GoogleSecret:       os.Getenv("GOOGLE_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("session_lifetime", cfg.SessionLifetime).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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
