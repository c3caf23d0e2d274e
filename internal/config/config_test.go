package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LinesPerSubtitle != 2 {
		t.Errorf("expected 2 lines per subtitle, got %d", cfg.LinesPerSubtitle)
	}
	if !cfg.MergeExpandLines {
		t.Error("expected line merging to be enabled by default")
	}
	if cfg.BlankPlaceholder != "\u3000" {
		t.Errorf("expected ideographic space placeholder, got %q", cfg.BlankPlaceholder)
	}
	if cfg.LineSeparator != " / " {
		t.Errorf("expected \" / \" separator, got %q", cfg.LineSeparator)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"single line", func(c *Config) { c.LinesPerSubtitle = 1 }, false},
		{"zero lines", func(c *Config) { c.LinesPerSubtitle = 0 }, true},
		{"negative lines", func(c *Config) { c.LinesPerSubtitle = -3 }, true},
		{"empty placeholder", func(c *Config) { c.BlankPlaceholder = "" }, true},
		{"empty separator", func(c *Config) { c.LineSeparator = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	content := `lines_per_subtitle: 3
line_separator: " | "
`
	path := filepath.Join(t.TempDir(), "mergesub.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.LinesPerSubtitle != 3 {
		t.Errorf("expected 3 lines per subtitle, got %d", cfg.LinesPerSubtitle)
	}
	if cfg.LineSeparator != " | " {
		t.Errorf("expected \" | \" separator, got %q", cfg.LineSeparator)
	}
	// untouched keys keep their defaults
	if !cfg.MergeExpandLines {
		t.Error("expected merge_expand_lines to keep its default")
	}
	if cfg.BlankPlaceholder != IdeographicSpace {
		t.Errorf("expected default placeholder, got %q", cfg.BlankPlaceholder)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("lines_per_subtitle: [1, 2"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
