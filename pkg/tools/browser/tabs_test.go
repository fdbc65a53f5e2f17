package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabRegistryDerivedNames(t *testing.T) {
	registry := NewTabRegistry()

	tab, err := registry.Add("", "https://www.github.com/entrhq", nil)
	require.NoError(t, err)
	assert.Equal(t, "github", tab.Name)

	// Same domain again: numeric suffix.
	tab, err = registry.Add("", "https://github.com/other", nil)
	require.NoError(t, err)
	assert.Equal(t, "github_2", tab.Name)

	tab, err = registry.Add("", "github.com/third", nil)
	require.NoError(t, err)
	assert.Equal(t, "github_3", tab.Name)

	// No URL at all.
	tab, err = registry.Add("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "tab", tab.Name)
}

func TestTabRegistryExplicitNames(t *testing.T) {
	registry := NewTabRegistry()

	_, err := registry.Add("work", "https://example.com", nil)
	require.NoError(t, err)

	// Explicit duplicates are rejected rather than renamed.
	_, err = registry.Add("work", "https://example.com", nil)
	assert.Error(t, err)
}

func TestTabRegistryActiveSemantics(t *testing.T) {
	registry := NewTabRegistry()

	// Before any tab exists.
	_, err := registry.Active()
	assert.ErrorIs(t, err, ErrNoActivePage)

	first, err := registry.Add("first", "https://example.com", nil)
	require.NoError(t, err)

	active, err := registry.Active()
	require.NoError(t, err)
	assert.Equal(t, first, active)

	// A newly added tab becomes active.
	second, err := registry.Add("second", "https://example.org", nil)
	require.NoError(t, err)
	active, err = registry.Active()
	require.NoError(t, err)
	assert.Equal(t, second, active)

	// Switching back.
	_, err = registry.Switch("first")
	require.NoError(t, err)
	active, err = registry.Active()
	require.NoError(t, err)
	assert.Equal(t, first, active)

	_, err = registry.Switch("missing")
	assert.Error(t, err)
}

func TestTabRegistryCloseActiveRequiresReselection(t *testing.T) {
	registry := NewTabRegistry()
	_, err := registry.Add("first", "https://example.com", nil)
	require.NoError(t, err)
	_, err = registry.Add("second", "https://example.org", nil)
	require.NoError(t, err)

	// Closing the active tab must not silently promote another.
	require.NoError(t, registry.Close("second"))
	_, err = registry.Active()
	assert.ErrorIs(t, err, ErrActiveTabClosed)

	// Explicit reselection restores operation.
	_, err = registry.Switch("first")
	require.NoError(t, err)
	active, err := registry.Active()
	require.NoError(t, err)
	assert.Equal(t, "first", active.Name)
}

func TestTabRegistryCloseInactive(t *testing.T) {
	registry := NewTabRegistry()
	_, err := registry.Add("first", "https://example.com", nil)
	require.NoError(t, err)
	_, err = registry.Add("second", "https://example.org", nil)
	require.NoError(t, err)

	// Closing a background tab leaves the active one untouched.
	require.NoError(t, registry.Close("first"))
	active, err := registry.Active()
	require.NoError(t, err)
	assert.Equal(t, "second", active.Name)

	assert.Error(t, registry.Close("first"))
	assert.Equal(t, 1, registry.Len())
}

func TestTabRegistryList(t *testing.T) {
	registry := NewTabRegistry()
	_, err := registry.Add("first", "https://example.com", nil)
	require.NoError(t, err)
	_, err = registry.Add("second", "https://example.org", nil)
	require.NoError(t, err)

	infos := registry.List()
	require.Len(t, infos, 2)
	assert.Equal(t, "first", infos[0].Name)
	assert.False(t, infos[0].Active)
	assert.Equal(t, "second", infos[1].Name)
	assert.True(t, infos[1].Active)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fragment stripped", "https://example.com/page#section", "https://example.com/page"},
		{"trailing slash stripped", "https://example.com/page/", "https://example.com/page"},
		{"host lowercased", "https://EXAMPLE.com/Page", "https://example.com/Page"},
		{"query preserved", "https://example.com/search?q=go", "https://example.com/search?q=go"},
		{"root", "https://example.com/", "https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestEnsureScheme(t *testing.T) {
	assert.Equal(t, "https://example.com", ensureScheme("example.com"))
	assert.Equal(t, "http://example.com", ensureScheme("http://example.com"))
	assert.Equal(t, "", ensureScheme(""))
}
