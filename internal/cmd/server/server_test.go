package server

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Addr != "" {
		t.Fatalf("expected empty addr, got %q", cfg.Addr)
	}
	if cfg.DBPath != "emberwake.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("EMBERWAKE_SERVER_PORT", "9002")
	t.Setenv("EMBERWAKE_DB_PATH", "/tmp/game.db")
	t.Setenv("EMBERWAKE_NARRATOR_MODEL", "gpt-4o")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9002 {
		t.Fatalf("expected port 9002, got %d", cfg.Port)
	}
	if cfg.DBPath != "/tmp/game.db" {
		t.Fatalf("expected db path override, got %q", cfg.DBPath)
	}
	if cfg.NarratorModel != "gpt-4o" {
		t.Fatalf("expected model override, got %q", cfg.NarratorModel)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("EMBERWAKE_SERVER_PORT", "9002")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9005", "-addr", "127.0.0.1:9999"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9005 {
		t.Fatalf("expected flag port 9005, got %d", cfg.Port)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected addr override, got %q", cfg.Addr)
	}
}
