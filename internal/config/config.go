package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	GrocyURL    string
	GrocyAPIKey string

	DatabasePath   string
	SnapshotDir    string
	ShoppingLocale string
	HTTPAddr       string
	LogMode        string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	grocyURL := os.Getenv("GROCY_API_URL")
	if grocyURL == "" {
		return nil, fmt.Errorf("GROCY_API_URL environment variable not set")
	}

	grocyAPIKey := os.Getenv("GROCY_API_KEY")
	if grocyAPIKey == "" {
		return nil, fmt.Errorf("GROCY_API_KEY environment variable not set")
	}

	allowed, err := parseIDList(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	var adminID int64
	if s := os.Getenv("TELEGRAM_ADMIN_ID"); s != "" {
		adminID, err = strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_ID: %w", err)
		}
	}

	return &Config{
		GrocyURL:               strings.TrimRight(grocyURL, "/"),
		GrocyAPIKey:            grocyAPIKey,
		DatabasePath:           getEnv("DATABASE_PATH", "data/grocy-planner.db"),
		SnapshotDir:            getEnv("SNAPSHOT_DIR", "data/snapshots"),
		ShoppingLocale:         getEnv("SHOPPING_LOCALE", "en"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		LogMode:                getEnv("LOG_MODE", "development"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
