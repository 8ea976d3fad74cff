package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.PostCooldown != 10*time.Minute {
		t.Fatalf("expected 10m cooldown, got %s", cfg.PostCooldown)
	}
	if cfg.FeedPageSize != 20 {
		t.Fatalf("expected page size 20, got %d", cfg.FeedPageSize)
	}
	if cfg.SlugReplacement != "" {
		t.Fatalf("expected empty slug replacement, got %q", cfg.SlugReplacement)
	}
	if cfg.SlugDisambiguate {
		t.Fatal("expected slug disambiguation to be off by default")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("POST_COOLDOWN", "90s")
	t.Setenv("FEED_PAGE_SIZE", "5")
	t.Setenv("SLUG_REPLACEMENT", "_")
	t.Setenv("CSRF_TRUSTED_ORIGINS", "localhost:8080,blog.example.com")
	t.Setenv("SUPER_ROOT_USER_NAME", "  root  ")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.PostCooldown != 90*time.Second {
		t.Fatalf("expected 90s cooldown, got %s", cfg.PostCooldown)
	}
	if cfg.FeedPageSize != 5 {
		t.Fatalf("expected page size 5, got %d", cfg.FeedPageSize)
	}
	if cfg.SlugReplacement != "_" {
		t.Fatalf("expected replacement '_', got %q", cfg.SlugReplacement)
	}
	if len(cfg.CSRFTrustedOrigins) != 2 || cfg.CSRFTrustedOrigins[1] != "blog.example.com" {
		t.Fatalf("unexpected trusted origins: %v", cfg.CSRFTrustedOrigins)
	}
	if cfg.SuperRootUserName != "root" {
		t.Fatalf("expected trimmed user name, got %q", cfg.SuperRootUserName)
	}
}

func TestParseRejectsInvalidPageSize(t *testing.T) {
	t.Setenv("FEED_PAGE_SIZE", "0")

	if _, err := Parse(); err == nil {
		t.Fatal("expected error for zero page size")
	}
}
