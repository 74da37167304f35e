package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"TopModule", cfg.TopModule, ""},
		{"BlifFlavor", cfg.BlifFlavor, FlavorStandard},
		{"BlifConn", cfg.BlifConn, false},
		{"BlifParam", cfg.BlifParam, false},
		{"LogLevel", cfg.LogLevel, "info"},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("DefaultConfig().%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *Config
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid defaults",
			cfg:     DefaultConfig(),
			wantErr: false,
		},
		{
			name: "valid icells flavor",
			cfg: &Config{
				BlifFlavor: FlavorICells,
				LogLevel:   "debug",
			},
			wantErr: false,
		},
		{
			name: "invalid flavor",
			cfg: &Config{
				BlifFlavor: "edif",
				LogLevel:   "info",
			},
			wantErr:     true,
			errContains: "invalid blif_flavor",
		},
		{
			name: "invalid log level",
			cfg: &Config{
				BlifFlavor: FlavorStandard,
				LogLevel:   "loud",
			},
			wantErr:     true,
			errContains: "invalid log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error containing %q, got nil", tt.errContains)
				} else if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Error = %q, should contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.TopModule = "cpu"
	cfg.BlifFlavor = FlavorICells
	cfg.BlifParam = true
	cfg.LogLevel = "warn"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if loaded.TopModule != "cpu" {
		t.Errorf("TopModule = %q, want %q", loaded.TopModule, "cpu")
	}
	if loaded.BlifFlavor != FlavorICells {
		t.Errorf("BlifFlavor = %q, want %q", loaded.BlifFlavor, FlavorICells)
	}
	if !loaded.BlifParam {
		t.Errorf("BlifParam = false, want true")
	}
	if loaded.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", loaded.LogLevel, "warn")
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("YOGO_TOP_MODULE", "soc_top")
	os.Setenv("YOGO_VERBOSE", "1")
	defer os.Unsetenv("YOGO_TOP_MODULE")
	defer os.Unsetenv("YOGO_VERBOSE")

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if loaded.TopModule != "soc_top" {
		t.Errorf("TopModule = %q, want env override %q", loaded.TopModule, "soc_top")
	}
	if !loaded.Verbose {
		t.Errorf("Verbose = false, want env override true")
	}
}
