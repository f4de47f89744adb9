package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the notifier service.
type Config struct {
	Environment string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TelegramToken    string
	TelegramAdminIDs []int64

	WhatsAppURL    string
	WhatsAppAPIKey string

	PlaytomicBaseURL string
	OffsetMinutes    int

	HTTPAddr      string
	Timezone      string
	CheckInterval time.Duration
}

// Load reads configuration from the environment. Outside production a .env
// file is loaded first if present.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("⚠️ .env file not loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:      env,
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		WhatsAppURL:      os.Getenv("WHATSAPP_EMULATOR_URL"),
		WhatsAppAPIKey:   os.Getenv("WHATSAPP_API_KEY"),
		PlaytomicBaseURL: getenv("PLAYTOMIC_BASE_URL", "https://api.playtomic.io"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		Timezone:         getenv("TIMEZONE", "Europe/Madrid"),
	}

	var err error
	if cfg.RedisDB, err = atoiEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.OffsetMinutes, err = atoiEnv("PLAYTOMIC_OFFSET_MINUTES", 60); err != nil {
		return nil, err
	}

	interval := getenv("CHECK_INTERVAL", "1m")
	if cfg.CheckInterval, err = time.ParseDuration(interval); err != nil {
		return nil, fmt.Errorf("CHECK_INTERVAL: %w", err)
	}

	if ids := os.Getenv("TELEGRAM_ADMIN_IDS"); ids != "" {
		for _, part := range strings.Split(ids, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("TELEGRAM_ADMIN_IDS: %w", err)
			}
			cfg.TelegramAdminIDs = append(cfg.TelegramAdminIDs, id)
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
