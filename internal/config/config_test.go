package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.ButtonHeight != 0.04 {
		t.Errorf("ButtonHeight = %v, want 0.04", cfg.ButtonHeight)
	}
	if cfg.ButtonGap != 0.01 {
		t.Errorf("ButtonGap = %v, want 0.01", cfg.ButtonGap)
	}
	if cfg.ShareTTL != 168*time.Hour {
		t.Errorf("ShareTTL = %v, want 168h", cfg.ShareTTL)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BUTTON_HEIGHT", "0.05")
	t.Setenv("LINE_WIDTH", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.ButtonHeight != 0.05 {
		t.Errorf("ButtonHeight = %v, want 0.05", cfg.ButtonHeight)
	}
	if cfg.LineWidth != 4 {
		t.Errorf("LineWidth = %v, want 4", cfg.LineWidth)
	}
}

func TestLoadRejectsBadValue(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error")
	}
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: " http://a.test, ,http://b.test "}
	got := cfg.Origins()
	want := []string{"http://a.test", "http://b.test"}
	if len(got) != len(want) {
		t.Fatalf("Origins() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Origins()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFigureOptions(t *testing.T) {
	cfg := &Config{FigureHeight: 600, LineWidth: 3, ButtonHeight: 0.05, ButtonGap: 0.02}
	opts := cfg.FigureOptions()
	if opts.Height != 600 || opts.LineWidth != 3 {
		t.Errorf("FigureOptions() = %+v", opts)
	}
	if opts.Spacing.ButtonHeight != 0.05 || opts.Spacing.Gap != 0.02 {
		t.Errorf("Spacing = %+v", opts.Spacing)
	}
	if opts.Title != "neuron" {
		t.Errorf("Title = %q, want neuron", opts.Title)
	}
}

func TestOriginHosts(t *testing.T) {
	cfg := &Config{AllowedOrigins: "http://localhost:5173,https://viewer.test,bare.test"}
	got := cfg.OriginHosts()
	want := []string{"localhost:5173", "viewer.test", "bare.test"}
	if len(got) != len(want) {
		t.Fatalf("OriginHosts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("OriginHosts()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
