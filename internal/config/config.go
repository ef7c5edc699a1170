package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingDispatchToken is returned by RequireDispatchToken when no token is set.
var ErrMissingDispatchToken = errors.New("DISPATCH_TOKEN env variable is missing; set it to a token that grants read and write access to repos in the dependency tree")

type Config struct {
	ManifestPath string // RELEASY_MANIFEST (default "repo-plan.toml")

	// Dispatch settings
	DispatchToken   string        // DISPATCH_TOKEN (required by emit)
	GitHubAPIURL    string        // RELEASY_GITHUB_API_URL (default "https://api.github.com")
	DispatchTimeout time.Duration // RELEASY_DISPATCH_TIMEOUT (default 30s)

	// Git automation settings
	CommitAuthorName  string        // RELEASY_COMMIT_AUTHOR_NAME (default "releasy")
	CommitAuthorEmail string        // RELEASY_COMMIT_AUTHOR_EMAIL (default "releasy@fuel.sh")
	WorkDir           string        // RELEASY_WORKDIR (default "."; local clone of the current repo)
	Remote            string        // RELEASY_REMOTE (default "origin")
	DefaultBranch     string        // RELEASY_DEFAULT_BRANCH (default "master")
	GitTimeout        time.Duration // RELEASY_GIT_TIMEOUT (default 5m)

	NATSURL string // RELEASY_NATS_URL (optional, empty = no events)

	// Snapshot settings
	SnapshotS3Bucket   string // RELEASY_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Key      string // RELEASY_SNAPSHOT_S3_KEY (default "releasy/plan.json")
	SnapshotS3Region   string // RELEASY_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Endpoint string // RELEASY_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) without overriding variables that are already set. A missing file is
// not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	c := &Config{
		ManifestPath:       envOrDefault("RELEASY_MANIFEST", "repo-plan.toml"),
		DispatchToken:      os.Getenv("DISPATCH_TOKEN"),
		GitHubAPIURL:       envOrDefault("RELEASY_GITHUB_API_URL", "https://api.github.com"),
		CommitAuthorName:   envOrDefault("RELEASY_COMMIT_AUTHOR_NAME", "releasy"),
		CommitAuthorEmail:  envOrDefault("RELEASY_COMMIT_AUTHOR_EMAIL", "releasy@fuel.sh"),
		WorkDir:            envOrDefault("RELEASY_WORKDIR", "."),
		Remote:             envOrDefault("RELEASY_REMOTE", "origin"),
		DefaultBranch:      envOrDefault("RELEASY_DEFAULT_BRANCH", "master"),
		NATSURL:            os.Getenv("RELEASY_NATS_URL"),
		SnapshotS3Bucket:   os.Getenv("RELEASY_SNAPSHOT_S3_BUCKET"),
		SnapshotS3Key:      envOrDefault("RELEASY_SNAPSHOT_S3_KEY", "releasy/plan.json"),
		SnapshotS3Region:   envOrDefault("RELEASY_SNAPSHOT_S3_REGION", "us-east-1"),
		SnapshotS3Endpoint: os.Getenv("RELEASY_SNAPSHOT_S3_ENDPOINT"),
	}

	var err error
	if c.DispatchTimeout, err = durationOrDefault("RELEASY_DISPATCH_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if c.GitTimeout, err = durationOrDefault("RELEASY_GIT_TIMEOUT", "5m"); err != nil {
		return nil, err
	}

	return c, nil
}

// RequireDispatchToken returns ErrMissingDispatchToken when no dispatch token is configured.
func (c *Config) RequireDispatchToken() error {
	if c.DispatchToken == "" {
		return ErrMissingDispatchToken
	}
	return nil
}

func durationOrDefault(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
