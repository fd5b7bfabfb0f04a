package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"ERROR", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := New("info", "yaml"); err == nil {
		t.Error("New() with invalid format returned nil error")
	}
	if _, err := New("loud", "text"); err == nil {
		t.Error("New() with invalid level returned nil error")
	}

	log, err := New("debug", "json")
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level not enabled")
	}
}
