package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvToken is the environment variable carrying the access token used to
// clone and push the preview repository (and to talk to the forge API).
const EnvToken = "DOCPREVIEW_TOKEN"

// Config represents the application configuration. It is constructed once at
// process start and passed explicitly into every component.
type Config struct {
	MonitoredRepositories []string      `json:"monitoredRepositories" yaml:"monitoredRepositories"`
	PreviewRepository     RepositoryRef `json:"previewRepository" yaml:"previewRepository"`
	SourceHost            string        `json:"sourceHost,omitempty" yaml:"sourceHost,omitempty"`
	Branch                string        `json:"branch,omitempty" yaml:"branch,omitempty"`
	CommitAuthor          Author        `json:"commitAuthor,omitempty" yaml:"commitAuthor,omitempty"`
	Notifications         Notifications `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Metrics               Metrics       `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	monitored map[string]struct{}
}

// RepositoryRef identifies a repository on the forge. CloneURL, when set,
// overrides the URL derived from SourceHost (useful for mirrors and tests).
type RepositoryRef struct {
	Owner    string `json:"owner" yaml:"owner"`
	Name     string `json:"name" yaml:"name"`
	CloneURL string `json:"cloneURL,omitempty" yaml:"cloneURL,omitempty"`
}

// Author is the identity used for preview repository commits.
type Author struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Notifications configures the PR comment with the preview link.
type Notifications struct {
	Enabled        bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	PreviewBaseURL string `json:"previewBaseURL,omitempty" yaml:"previewBaseURL,omitempty"`
}

// Metrics configures the optional Prometheus textfile sink.
type Metrics struct {
	TextfilePath string `json:"textfilePath,omitempty" yaml:"textfilePath,omitempty"`
}

// Load loads configuration from the specified file. JSON is the canonical
// format; YAML is accepted as well for deployments that prefer it.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; missing files are fine.
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	default:
		if err := json.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SourceHost == "" {
		c.SourceHost = "https://github.com"
	}
	if c.Branch == "" {
		c.Branch = "main"
	}
	if c.CommitAuthor.Name == "" {
		c.CommitAuthor.Name = "docpreview"
	}
	if c.CommitAuthor.Email == "" {
		c.CommitAuthor.Email = "docpreview@noreply"
	}

	c.monitored = make(map[string]struct{}, len(c.MonitoredRepositories))
	for _, name := range c.MonitoredRepositories {
		c.monitored[name] = struct{}{}
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if len(c.MonitoredRepositories) == 0 {
		return fmt.Errorf("no monitored repositories configured")
	}
	if c.PreviewRepository.Owner == "" || c.PreviewRepository.Name == "" {
		return fmt.Errorf("previewRepository owner and name are required")
	}
	return nil
}

// IsMonitored reports whether the named source repository is eligible for
// preview generation.
func (c *Config) IsMonitored(name string) bool {
	_, ok := c.monitored[name]
	return ok
}

// PreviewCloneURL returns the clone URL for the destination repository.
func (c *Config) PreviewCloneURL() string {
	if c.PreviewRepository.CloneURL != "" {
		return c.PreviewRepository.CloneURL
	}
	return fmt.Sprintf("%s/%s/%s.git", c.SourceHost, c.PreviewRepository.Owner, c.PreviewRepository.Name)
}

// SourceCloneURL returns the clone URL for a source repository given its
// full name (owner/name).
func (c *Config) SourceCloneURL(fullName string) string {
	return fmt.Sprintf("%s/%s.git", c.SourceHost, fullName)
}

// Token returns the access token from the environment, or an error when it is
// absent. Checked eagerly, before any network action.
func Token() (string, error) {
	token := os.Getenv(EnvToken)
	if token == "" {
		return "", fmt.Errorf("%s is not set", EnvToken)
	}
	return token, nil
}
