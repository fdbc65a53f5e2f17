package browser

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Tab is one named page handle owned by the TabRegistry.
type Tab struct {
	Name      string
	Page      playwright.Page
	CreatedAt time.Time
}

// Key returns the normalized page identity used as the outer selector
// cache key.
func (t *Tab) Key() string {
	return NormalizeURL(t.Page.URL())
}

// URL returns the tab's current URL.
func (t *Tab) URL() string {
	return t.Page.URL()
}

// LocatorCount returns how many visible elements match the locator.
func (t *Tab) LocatorCount(locator string) (int, error) {
	return t.Page.Locator(locator + ":visible").Count()
}

// Eval evaluates a script in the page, with an optional single argument.
func (t *Tab) Eval(script string, args ...interface{}) (interface{}, error) {
	if len(args) > 0 {
		return t.Page.Evaluate(script, args[0])
	}
	return t.Page.Evaluate(script)
}

// TabRegistry maps logical names to live tabs. Exactly one tab is active at
// a time; closing the active tab leaves the registry without an active
// handle until the caller explicitly switches, so operations never resolve
// elements in an unintended page.
type TabRegistry struct {
	mu           sync.Mutex
	tabs         map[string]*Tab
	order        []string
	active       string
	activeClosed bool
}

// NewTabRegistry creates an empty tab registry.
func NewTabRegistry() *TabRegistry {
	return &TabRegistry{
		tabs: make(map[string]*Tab),
	}
}

// Add registers a page under the given name and makes it the active tab.
// If name is empty, a name is derived from the URL's domain, falling back
// to a numeric suffix on collision.
func (r *TabRegistry) Add(name, rawURL string, page playwright.Page) (*Tab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		name = r.deriveName(rawURL)
	} else if _, exists := r.tabs[name]; exists {
		return nil, fmt.Errorf("tab %q already exists", name)
	}

	tab := &Tab{
		Name:      name,
		Page:      page,
		CreatedAt: time.Now(),
	}
	r.tabs[name] = tab
	r.order = append(r.order, name)
	r.active = name
	r.activeClosed = false
	return tab, nil
}

// Active returns the currently active tab. Returns ErrActiveTabClosed if
// the active tab was closed without a replacement being selected, and
// ErrNoActivePage if no tab exists yet.
func (r *TabRegistry) Active() (*Tab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != "" {
		return r.tabs[r.active], nil
	}
	if r.activeClosed {
		return nil, ErrActiveTabClosed
	}
	return nil, ErrNoActivePage
}

// Switch makes the named tab active and brings it to the front.
func (r *TabRegistry) Switch(name string) (*Tab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tab, exists := r.tabs[name]
	if !exists {
		return nil, fmt.Errorf("tab %q not found", name)
	}

	r.active = name
	r.activeClosed = false
	if tab.Page != nil {
		_ = tab.Page.BringToFront()
	}
	return tab, nil
}

// Close closes the named tab and removes it from the registry. Closing the
// active tab does not promote another tab; the caller must Switch first.
func (r *TabRegistry) Close(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tab, exists := r.tabs[name]
	if !exists {
		return fmt.Errorf("tab %q not found", name)
	}

	if tab.Page != nil {
		_ = tab.Page.Close()
	}
	delete(r.tabs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	if r.active == name {
		r.active = ""
		r.activeClosed = true
	}
	return nil
}

// List returns all tabs in creation order.
func (r *TabRegistry) List() []TabInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]TabInfo, 0, len(r.order))
	for _, name := range r.order {
		tab := r.tabs[name]
		info := TabInfo{
			Name:   name,
			Active: name == r.active,
		}
		if tab.Page != nil {
			info.URL = tab.Page.URL()
		}
		infos = append(infos, info)
	}
	return infos
}

// Len returns the number of registered tabs.
func (r *TabRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tabs)
}

// CloseAll closes every tab and clears the registry.
func (r *TabRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tab := range r.tabs {
		if tab.Page != nil {
			_ = tab.Page.Close()
		}
	}
	r.tabs = make(map[string]*Tab)
	r.order = nil
	r.active = ""
	r.activeClosed = false
}

// deriveName builds a tab name from the URL's domain ("github.com" becomes
// "github"), appending a numeric suffix on collision. Caller holds the lock.
func (r *TabRegistry) deriveName(rawURL string) string {
	base := "tab"
	if rawURL != "" {
		if u, err := url.Parse(ensureScheme(rawURL)); err == nil && u.Hostname() != "" {
			host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
			if i := strings.Index(host, "."); i > 0 {
				host = host[:i]
			}
			if host != "" {
				base = host
			}
		}
	}

	if _, exists := r.tabs[base]; !exists {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if _, exists := r.tabs[candidate]; !exists {
			return candidate
		}
	}
}

// ensureScheme defaults missing URL schemes to https.
func ensureScheme(rawURL string) string {
	if rawURL == "" || strings.Contains(rawURL, "://") {
		return rawURL
	}
	return "https://" + rawURL
}

// NormalizeURL produces the page identity used as a selector cache key:
// lowercased scheme and host, no fragment, no trailing slash. Unparseable
// input is returned as-is.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
