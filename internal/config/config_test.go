package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// envVars lists every env var read by Load; they are cleared between tests.
var envVars = []string{
	"RELEASY_MANIFEST", "DISPATCH_TOKEN", "RELEASY_GITHUB_API_URL", "RELEASY_DISPATCH_TIMEOUT",
	"RELEASY_COMMIT_AUTHOR_NAME", "RELEASY_COMMIT_AUTHOR_EMAIL", "RELEASY_WORKDIR",
	"RELEASY_REMOTE", "RELEASY_DEFAULT_BRANCH", "RELEASY_GIT_TIMEOUT", "RELEASY_NATS_URL",
	"RELEASY_SNAPSHOT_S3_BUCKET", "RELEASY_SNAPSHOT_S3_KEY", "RELEASY_SNAPSHOT_S3_REGION",
	"RELEASY_SNAPSHOT_S3_ENDPOINT",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, tc := range []struct {
		name string
		got  string
		want string
	}{
		{"ManifestPath", cfg.ManifestPath, "repo-plan.toml"},
		{"GitHubAPIURL", cfg.GitHubAPIURL, "https://api.github.com"},
		{"CommitAuthorName", cfg.CommitAuthorName, "releasy"},
		{"CommitAuthorEmail", cfg.CommitAuthorEmail, "releasy@fuel.sh"},
		{"WorkDir", cfg.WorkDir, "."},
		{"Remote", cfg.Remote, "origin"},
		{"DefaultBranch", cfg.DefaultBranch, "master"},
		{"SnapshotS3Key", cfg.SnapshotS3Key, "releasy/plan.json"},
		{"SnapshotS3Region", cfg.SnapshotS3Region, "us-east-1"},
		{"NATSURL", cfg.NATSURL, ""},
	} {
		if tc.got != tc.want {
			t.Errorf("%s = %q, want %q", tc.name, tc.got, tc.want)
		}
	}
	if cfg.DispatchTimeout != 30*time.Second {
		t.Errorf("DispatchTimeout = %v, want 30s", cfg.DispatchTimeout)
	}
	if cfg.GitTimeout != 5*time.Minute {
		t.Errorf("GitTimeout = %v, want 5m", cfg.GitTimeout)
	}
	if !errors.Is(cfg.RequireDispatchToken(), ErrMissingDispatchToken) {
		t.Error("expected ErrMissingDispatchToken without DISPATCH_TOKEN")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("DISPATCH_TOKEN", "ghp_test")
	t.Setenv("RELEASY_GITHUB_API_URL", "http://localhost:9999")
	t.Setenv("RELEASY_DISPATCH_TIMEOUT", "5s")
	t.Setenv("RELEASY_DEFAULT_BRANCH", "main")
	t.Setenv("RELEASY_NATS_URL", "nats://localhost:4222")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.RequireDispatchToken(); err != nil {
		t.Errorf("RequireDispatchToken: %v", err)
	}
	if cfg.GitHubAPIURL != "http://localhost:9999" {
		t.Errorf("GitHubAPIURL = %q", cfg.GitHubAPIURL)
	}
	if cfg.DispatchTimeout != 5*time.Second {
		t.Errorf("DispatchTimeout = %v, want 5s", cfg.DispatchTimeout)
	}
	if cfg.DefaultBranch != "main" {
		t.Errorf("DefaultBranch = %q, want main", cfg.DefaultBranch)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"RELEASY_DISPATCH_TIMEOUT", "RELEASY_GIT_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			clearAllEnv(t)
			t.Setenv(key, "soon")
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=soon", key)
			}
			t.Setenv(key, "-1s")
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=-1s", key)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearAllEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("RELEASY_DEFAULT_BRANCH=develop\nRELEASY_REMOTE=upstream\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// clearAllEnv sets keys to "", which counts as set for godotenv.
	os.Unsetenv("RELEASY_DEFAULT_BRANCH")
	// Variables already set win over the file.
	t.Setenv("RELEASY_REMOTE", "fork")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultBranch != "develop" {
		t.Errorf("DefaultBranch = %q, want develop", cfg.DefaultBranch)
	}
	if cfg.Remote != "fork" {
		t.Errorf("Remote = %q, want fork", cfg.Remote)
	}
}
