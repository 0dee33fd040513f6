package config

import (
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Input:        InputConfig{Path: "offers.csv", Encoding: "ISO-8859-1"},
		TargetColumn: DefaultColumn,
		Missing:      "literal",
		Empty:        "drop",
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("CARDSPLIT_INPUT", "offers.csv")
	t.Setenv("CARDSPLIT_COLUMN", "")
	t.Setenv("CARDSPLIT_ENCODING", "")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Input.Path != "offers.csv" {
		t.Errorf("expected input from env, got %q", cfg.Input.Path)
	}
	if cfg.TargetColumn != DefaultColumn {
		t.Errorf("expected default column, got %q", cfg.TargetColumn)
	}
	if cfg.Input.Encoding != "ISO-8859-1" {
		t.Errorf("expected default encoding, got %q", cfg.Input.Encoding)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no input", func(c *Config) { c.Input.Path = "" }},
		{"blank column", func(c *Config) { c.TargetColumn = "  " }},
		{"bad encoding", func(c *Config) { c.Input.Encoding = "klingon-1" }},
		{"bad missing policy", func(c *Config) { c.Missing = "skip" }},
		{"bad empty policy", func(c *Config) { c.Empty = "keep" }},
		{"output overwrites input", func(c *Config) { c.Output.Path = "./offers.csv" }},
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	cfg := validConfig()
	cfg.Input.Path = filepath.Join("data", "Abhibus 13 Aug Offers.csv")

	if got, want := cfg.OutputPath(), filepath.Join("data", "Abhibus 13 Aug Offers_expanded.csv"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	cfg.Output.Path = "Abhibus.csv"
	if got := cfg.OutputPath(); got != "Abhibus.csv" {
		t.Errorf("expected configured output, got %q", got)
	}
}
