package config

import (
	"path/filepath"
	"testing"
)

func TestLoadScanner_EnvOverrides(t *testing.T) {
	t.Setenv("CLAUDE_PROJECTS", "/srv/transcripts")
	t.Setenv("RIGHTCOUNT_DATA_DIR", "/srv/rightcount")
	t.Setenv("RIGHTCOUNT_API_URL", "https://counts.example.com")
	t.Setenv("RIGHTCOUNT_SECRET", "s3cret")
	t.Setenv("WORKSTATION_ID", "ws-1")
	t.Setenv("CHECK_INTERVAL", "5")

	cfg, err := LoadScanner()
	if err != nil {
		t.Fatalf("LoadScanner() error = %v", err)
	}

	if cfg.ProjectsDir != "/srv/transcripts" {
		t.Errorf("ProjectsDir = %q", cfg.ProjectsDir)
	}
	if cfg.APIURL != "https://counts.example.com" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.WorkstationID != "ws-1" {
		t.Errorf("WorkstationID = %q", cfg.WorkstationID)
	}
	if cfg.CheckInterval != 5 {
		t.Errorf("CheckInterval = %d, want 5", cfg.CheckInterval)
	}
	if got := cfg.LedgerPath(); got != filepath.Join("/srv/rightcount", "processed_ids.json") {
		t.Errorf("LedgerPath() = %q", got)
	}
	if got := cfg.CountsPath(); got != filepath.Join("/srv/rightcount", "daily_counts.json") {
		t.Errorf("CountsPath() = %q", got)
	}
	if got := cfg.PatternsPath(); got != filepath.Join("/srv/rightcount", "patterns.toml") {
		t.Errorf("PatternsPath() = %q", got)
	}
}

func TestLoadScanner_Defaults(t *testing.T) {
	t.Setenv("CLAUDE_PROJECTS", "")
	t.Setenv("RIGHTCOUNT_DATA_DIR", "")
	t.Setenv("WORKSTATION_ID", "")
	t.Setenv("CHECK_INTERVAL", "0")

	cfg, err := LoadScanner()
	if err != nil {
		t.Fatalf("LoadScanner() error = %v", err)
	}

	if cfg.ProjectsDir == "" {
		t.Error("ProjectsDir default is empty")
	}
	if filepath.Base(cfg.ProjectsDir) != "projects" {
		t.Errorf("ProjectsDir = %q, want .claude/projects default", cfg.ProjectsDir)
	}
	if cfg.WorkstationID == "" {
		t.Error("WorkstationID default is empty, want hostname")
	}
	if cfg.CheckInterval != 1 {
		t.Errorf("CheckInterval = %d, want clamped to 1", cfg.CheckInterval)
	}
	if cfg.CountRole != "assistant" {
		t.Errorf("CountRole = %q, want assistant default", cfg.CountRole)
	}
}

func TestLoadServer(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("RIGHTCOUNT_DATABASE_PATH", "/srv/rightcount/counts.db")
	t.Setenv("RIGHTCOUNT_SECRET", "s3cret")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DatabasePath != "/srv/rightcount/counts.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.Secret != "s3cret" {
		t.Errorf("Secret = %q", cfg.Secret)
	}
}

func TestLoadServer_DefaultPort(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RIGHTCOUNT_DATABASE_PATH", "/tmp/counts.db")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.Port != 3003 {
		t.Errorf("Port = %d, want 3003 default", cfg.Port)
	}
}
