package config

import (
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Remote.BaseURL != "http://192.168.1.12:8080" {
		t.Fatalf("unexpected remote base URL: %q", cfg.Remote.BaseURL)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env default dev, got %q", cfg.App.Env)
	}
	if !cfg.App.IsDev() {
		t.Fatal("expected IsDev with default env")
	}

	if got := cfg.Poll.ClubData; got != 3*time.Second {
		t.Fatalf("expected club data cadence 3s, got %v", got)
	}
	if got := cfg.Poll.ClubList; got != 15*time.Second {
		t.Fatalf("expected club list cadence 15s, got %v", got)
	}

	if cfg.Remote.PageSize != 50 {
		t.Fatalf("expected page size 50, got %d", cfg.Remote.PageSize)
	}
	if cfg.Viewport.NearBottomThreshold != 40 {
		t.Fatalf("expected near-bottom threshold 40, got %v", cfg.Viewport.NearBottomThreshold)
	}
	if cfg.State.DBPath != "clubsync.db" {
		t.Fatalf("unexpected state db path %q", cfg.State.DBPath)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	// No base URL set at all.
	if _, err := Load(); err == nil {
		t.Fatal("expected missing remote base URL to return an error")
	}
}

func TestLoad_RejectsNonPositivePageSize(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvRemotePageSize, "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected zero page size to be rejected")
	}
}

func TestLoad_CadenceOverrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvPollClubData, "500ms")
	t.Setenv(EnvPollStats, "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Poll.ClubData != 500*time.Millisecond {
		t.Fatalf("expected overridden club data cadence, got %v", cfg.Poll.ClubData)
	}
	if cfg.Poll.Stats != time.Minute {
		t.Fatalf("expected overridden stats cadence, got %v", cfg.Poll.Stats)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvRemoteBaseURL, "http://192.168.1.12:8080")
}
