package config

import (
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Success", func(t *testing.T) {
		setEnv("GROCY_API_URL", "http://grocy.test/")
		setEnv("GROCY_API_KEY", "grocy_key")
		setEnv("DATABASE_PATH", "")
		setEnv("SHOPPING_LOCALE", "de")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "12, 34")
		setEnv("TELEGRAM_ADMIN_ID", "12")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GrocyURL != "http://grocy.test" {
			t.Errorf("Expected GrocyURL to be 'http://grocy.test', got '%s'", cfg.GrocyURL)
		}
		if cfg.GrocyAPIKey != "grocy_key" {
			t.Errorf("Expected GrocyAPIKey to be 'grocy_key', got '%s'", cfg.GrocyAPIKey)
		}
		if cfg.DatabasePath != "data/grocy-planner.db" {
			t.Errorf("Expected default DatabasePath, got '%s'", cfg.DatabasePath)
		}
		if cfg.ShoppingLocale != "de" {
			t.Errorf("Expected ShoppingLocale 'de', got '%s'", cfg.ShoppingLocale)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 34 {
			t.Errorf("Expected allowed ids [12 34], got %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 12 {
			t.Errorf("Expected AdminTelegramID 12, got %d", cfg.AdminTelegramID)
		}
	})

	t.Run("MissingGrocyURL", func(t *testing.T) {
		setEnv("GROCY_API_URL", "")
		setEnv("GROCY_API_KEY", "grocy_key")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GROCY_API_URL, got nil")
		}
		expectedError := "GROCY_API_URL environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingGrocyAPIKey", func(t *testing.T) {
		setEnv("GROCY_API_URL", "http://grocy.test")
		setEnv("GROCY_API_KEY", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GROCY_API_KEY, got nil")
		}
		expectedError := "GROCY_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("InvalidAllowedUserIDs", func(t *testing.T) {
		setEnv("GROCY_API_URL", "http://grocy.test")
		setEnv("GROCY_API_KEY", "grocy_key")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for a non-numeric user id, got nil")
		}
	})
}
