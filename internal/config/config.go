// Package config resolves the tool's options from its sources: built-in
// defaults, an optional YAML file, environment variables (DOCGATE_ prefix),
// and the host build tool's preprocessor table. Later sources win.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docgate/internal/processor"
	"git.home.luguber.info/inful/docgate/internal/validator"
)

// DefaultInvalidMessage is emitted for out-of-date sections when no message
// is configured.
const DefaultInvalidMessage = "🚨 Warning, this content is out of date and is included for historical reasons. 🚨"

// Config holds all tunable behavior for one invocation.
type Config struct {
	// HideInvalid removes no-longer-valid sections from the output
	// entirely. A pointer so that "not set" can be told apart from an
	// explicit false; absent means true.
	HideInvalid *bool `yaml:"hide_invalid" env:"DOCGATE_HIDE_INVALID"`

	// InvalidMessage replaces the banner for sections that are no longer
	// valid but still shown.
	InvalidMessage string `yaml:"invalid_message" env:"DOCGATE_INVALID_MESSAGE"`

	// GithubAPI is the tracker API base URL for issue/PR state queries.
	GithubAPI string `yaml:"github_api" env:"DOCGATE_GITHUB_API"`

	// GithubToken, when set, authenticates state queries.
	GithubToken string `yaml:"github_token" env:"DOCGATE_GITHUB_TOKEN"`

	// Timeout bounds each remote check.
	Timeout time.Duration `yaml:"timeout" env:"DOCGATE_TIMEOUT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	hide := true
	return &Config{
		HideInvalid:    &hide,
		InvalidMessage: DefaultInvalidMessage,
		GithubAPI:      validator.DefaultAPIURL,
		Timeout:        30 * time.Second,
	}
}

// Load builds a Config from defaults, the optional YAML file at path (empty
// path skips the file), and DOCGATE_-prefixed environment variables. A .env
// file, if present, is loaded first without overriding the real environment.
func Load(path string) (*Config, error) {
	loadDotenv()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return cfg, nil
}

// ApplyTable overlays options from the host build tool's preprocessor
// configuration table. Keys use the file's underscore names; values of the
// wrong type are ignored and defaults apply.
func (c *Config) ApplyTable(table map[string]any) {
	if table == nil {
		return
	}
	if v, ok := table["hide_invalid"].(bool); ok {
		c.HideInvalid = &v
	}
	if v, ok := table["invalid_message"].(string); ok {
		c.InvalidMessage = v
	}
	if v, ok := table["github_api"].(string); ok && v != "" {
		c.GithubAPI = v
	}
}

// ProcessorOptions projects the document-rewriting subset of the config.
func (c *Config) ProcessorOptions() processor.Options {
	hide := true
	if c.HideInvalid != nil {
		hide = *c.HideInvalid
	}
	msg := c.InvalidMessage
	if msg == "" {
		msg = DefaultInvalidMessage
	}
	return processor.Options{HideInvalid: hide, InvalidMessage: msg}
}

// loadDotenv loads the first of .env/.env.local found. Existing environment
// variables are never overridden.
func loadDotenv() {
	for _, name := range []string{".env", ".env.local"} {
		if err := godotenv.Load(name); err == nil {
			slog.Debug("loaded environment file", "path", name)
			return
		}
	}
}
