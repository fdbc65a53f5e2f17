package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", settings.LLM.Model)
	assert.Equal(t, 1280, settings.Browser.ViewportWidth)
	assert.Equal(t, 10*time.Second, settings.ScrollTierTimeout)
	assert.Empty(t, settings.AllowedURLs)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("llm:\n  model: gpt-4o\nbrowser:\n  headless: true\n")
	require.NoError(t, os.WriteFile(path, content, 0600))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.True(t, settings.Browser.Headless)
	// Untouched fields keep defaults.
	assert.Equal(t, float64(30000), settings.Browser.NavigationTimeout)
	assert.Equal(t, 0.1, settings.LLM.Temperature)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: [not a map"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	settings := Defaults()
	settings.LLM.Model = "gpt-4o"
	settings.AllowedURLs = []string{"https://*.example.com/*"}

	require.NoError(t, Save(settings, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", loaded.LLM.Model)
	assert.Equal(t, []string{"https://*.example.com/*"}, loaded.AllowedURLs)

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
