package main

import (
	"errors"
	"testing"
	"time"

	"grocy-planner/internal/shopping"
)

func TestResolveRange(t *testing.T) {
	// Sunday
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{"Default", "", "", "2024-03-11", "2024-03-17", false},
		{"StartOnly", "2024-04-02", "", "2024-04-02", "2024-04-08", false},
		{"Both", "2024-04-02", "2024-04-04", "2024-04-02", "2024-04-04", false},
		{"SingleDay", "2024-04-02", "2024-04-02", "2024-04-02", "2024-04-02", false},
		{"EndOnly", "", "2024-04-04", "", "", true},
		{"BadStart", "04/02/2024", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := resolveRange(tt.start, tt.end, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}

	if _, _, err := resolveRange("2024-04-04", "2024-04-02", now); !errors.Is(err, shopping.ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange, got %v", err)
	}
}
