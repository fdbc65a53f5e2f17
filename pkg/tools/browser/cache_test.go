package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSelectorStorePersistsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "selectors.json")

	store, err := NewFileSelectorStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("https://example.com", "the login button", "[data-pilot-el=\"a-0\"]"))
	require.NoError(t, store.Put("https://example.com", "the search box", "[data-pilot-el=\"a-1\"]"))
	require.NoError(t, store.Put("https://other.com", "the feed", "[data-pilot-el=\"b-0\"]"))

	// A fresh store over the same file sees the same entries.
	reopened, err := NewFileSelectorStore(path)
	require.NoError(t, err)

	locator, ok := reopened.Get("https://example.com", "the login button")
	require.True(t, ok)
	assert.Equal(t, "[data-pilot-el=\"a-0\"]", locator)

	locator, ok = reopened.Get("https://other.com", "the feed")
	require.True(t, ok)
	assert.Equal(t, "[data-pilot-el=\"b-0\"]", locator)
}

func TestFileSelectorStoreInvalidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.json")
	store, err := NewFileSelectorStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Put("https://example.com", "the login button", "loc"))
	require.NoError(t, store.Invalidate("https://example.com", "the login button"))

	_, ok := store.Get("https://example.com", "the login button")
	assert.False(t, ok)

	// Invalidating what isn't there is not an error.
	assert.NoError(t, store.Invalidate("https://example.com", "never cached"))
	assert.NoError(t, store.Invalidate("https://nowhere.com", "nothing"))
}

func TestFileSelectorStoreMissingFile(t *testing.T) {
	store, err := NewFileSelectorStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)

	_, ok := store.Get("https://example.com", "anything")
	assert.False(t, ok)
}

func TestFileSelectorStoreCorruptFileDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store, err := NewFileSelectorStore(path)
	require.NoError(t, err)

	_, ok := store.Get("https://example.com", "anything")
	assert.False(t, ok)

	// The store stays usable after discarding the corrupt content.
	require.NoError(t, store.Put("https://example.com", "the feed", "loc"))
	locator, ok := store.Get("https://example.com", "the feed")
	require.True(t, ok)
	assert.Equal(t, "loc", locator)
}

func TestMemorySelectorStore(t *testing.T) {
	store := NewMemorySelectorStore()

	_, ok := store.Get("page", "desc")
	assert.False(t, ok)

	require.NoError(t, store.Put("page", "desc", "loc"))
	locator, ok := store.Get("page", "desc")
	require.True(t, ok)
	assert.Equal(t, "loc", locator)

	require.NoError(t, store.Invalidate("page", "desc"))
	_, ok = store.Get("page", "desc")
	assert.False(t, ok)
}
