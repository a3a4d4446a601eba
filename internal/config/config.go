// Package config loads gitdrop's settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultBranch is the branch written to when neither the environment
	// nor the request names one.
	DefaultBranch = "main"

	// DefaultPort is the HTTP listen port.
	DefaultPort = "3000"

	// DefaultUserAgent identifies gitdrop to the GitHub API.
	DefaultUserAgent = "gitdrop"

	// DefaultWriteConcurrency keeps batch writes sequential unless raised.
	DefaultWriteConcurrency = 1
)

// Config holds everything the server needs to run.
type Config struct {
	// Target repository and credentials. All three are required.
	RepoOwner string
	RepoName  string
	Token     string

	// Branch receiving writes when a request does not name one.
	Branch string

	// Origins admitted by the request gate. Empty means every caller
	// is admitted.
	AllowedOrigins []string

	// HTTP listen port, without the colon.
	Port string

	// User-Agent sent on every GitHub API call.
	UserAgent string

	// Number of files written concurrently per batch. 1 preserves the
	// strict one-after-another ordering.
	WriteConcurrency int
}

// Load reads the environment and validates required settings.
func Load() (*Config, error) {
	cfg := &Config{
		RepoOwner:        os.Getenv("GITDROP_REPO_OWNER"),
		RepoName:         os.Getenv("GITDROP_REPO_NAME"),
		Token:            os.Getenv("GITDROP_TOKEN"),
		Branch:           getEnvString("GITDROP_BRANCH", DefaultBranch),
		AllowedOrigins:   splitOrigins(os.Getenv("GITDROP_ALLOWED_ORIGINS")),
		Port:             getEnvString("PORT", DefaultPort),
		UserAgent:        getEnvString("GITDROP_USER_AGENT", DefaultUserAgent),
		WriteConcurrency: getEnvInt("GITDROP_WRITE_CONCURRENCY", DefaultWriteConcurrency),
	}

	var missing []string
	if cfg.RepoOwner == "" {
		missing = append(missing, "GITDROP_REPO_OWNER")
	}
	if cfg.RepoName == "" {
		missing = append(missing, "GITDROP_REPO_NAME")
	}
	if cfg.Token == "" {
		missing = append(missing, "GITDROP_TOKEN")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}

	if cfg.WriteConcurrency < 1 {
		return nil, fmt.Errorf("GITDROP_WRITE_CONCURRENCY must be at least 1, got %d", cfg.WriteConcurrency)
	}

	return cfg, nil
}

// Addr returns the listen address for http.ListenAndServe.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// splitOrigins parses a comma-separated origin list, trimming whitespace
// and dropping empty entries.
func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnvString returns an environment variable or a default value.
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as int or a default value.
func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
