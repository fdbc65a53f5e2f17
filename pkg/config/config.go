// Package config loads and persists pilot settings.
//
// Settings live in a YAML file at ~/.pilot/config.yaml. Loading a missing
// file returns defaults; saving is atomic (temp file plus rename) so a
// crash mid-write never leaves a truncated config behind.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BrowserSettings controls the Playwright browser lifecycle.
type BrowserSettings struct {
	Headless       bool `yaml:"headless"`
	ViewportWidth  int  `yaml:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height"`
	// NavigationTimeout bounds page.Goto, in milliseconds.
	NavigationTimeout float64 `yaml:"navigation_timeout_ms"`
	// ActionTimeout is the default timeout for page actions, in milliseconds.
	ActionTimeout float64 `yaml:"action_timeout_ms"`
}

// LLMSettings configures the OpenAI-compatible provider behind the
// semantic matcher and scroll strategist.
type LLMSettings struct {
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	Temperature float64 `yaml:"temperature"`
}

// Settings is the root configuration for pilot.
type Settings struct {
	Browser BrowserSettings `yaml:"browser"`
	LLM     LLMSettings     `yaml:"llm"`

	// CachePath is where the selector cache is persisted.
	CachePath string `yaml:"cache_path"`

	// AllowedURLs restricts navigation to matching glob patterns.
	// Empty means no restriction.
	AllowedURLs []string `yaml:"allowed_urls,omitempty"`

	// ScrollTierTimeout bounds each scroll strategy tier.
	ScrollTierTimeout time.Duration `yaml:"scroll_tier_timeout"`
}

// DefaultPath returns the default config file location, ~/.pilot/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pilot", "config.yaml"), nil
}

// Defaults returns the settings used when no config file exists.
func Defaults() *Settings {
	cachePath := "selector_cache.json"
	if homeDir, err := os.UserHomeDir(); err == nil {
		cachePath = filepath.Join(homeDir, ".pilot", "selector_cache.json")
	}

	return &Settings{
		Browser: BrowserSettings{
			Headless:          false,
			ViewportWidth:     1280,
			ViewportHeight:    800,
			NavigationTimeout: 30000,
			ActionTimeout:     10000,
		},
		LLM: LLMSettings{
			Model:       "gpt-4o-mini",
			Temperature: 0.1,
		},
		CachePath:         cachePath,
		ScrollTierTimeout: 10 * time.Second,
	}
}

// Load reads settings from path. If path is empty, DefaultPath is used.
// A missing file is not an error; defaults are returned. Fields absent
// from the file keep their default values.
func Load(path string) (*Settings, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	settings := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to path atomically, creating the directory if needed.
// If path is empty, DefaultPath is used.
func Save(settings *Settings, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp config file: %w", err)
	}

	return nil
}
