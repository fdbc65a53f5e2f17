package browser

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/gobwas/glob"
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pilot/pkg/config"
	"github.com/entrhq/pilot/pkg/logging"
)

// Manager owns the Playwright lifecycle: one browser, one context, and the
// registry of named tabs every other component operates through.
type Manager struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	tabs        *TabRegistry
	settings    *config.Settings
	allowlist   []glob.Glob
	logger      *logging.Logger
	loginSignal chan struct{}
	initialized bool
}

// NewManager creates a manager from settings. The browser is not launched
// until Initialize is called.
func NewManager(settings *config.Settings) (*Manager, error) {
	if settings == nil {
		settings = config.Defaults()
	}

	allowlist := make([]glob.Glob, 0, len(settings.AllowedURLs))
	for _, pattern := range settings.AllowedURLs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed_urls pattern %q: %w", pattern, err)
		}
		allowlist = append(allowlist, g)
	}

	logger, _ := logging.NewLogger("browser")
	return &Manager{
		tabs:        NewTabRegistry(),
		settings:    settings,
		allowlist:   allowlist,
		logger:      logger,
		loginSignal: make(chan struct{}, 1),
	}, nil
}

// Initialize installs and starts Playwright, launches the browser, and
// creates the shared context. Safe to call more than once.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.settings.Browser.Headless),
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  m.settings.Browser.ViewportWidth,
			Height: m.settings.Browser.ViewportHeight,
		},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return fmt.Errorf("failed to create browser context: %w", err)
	}

	m.pw = pw
	m.browser = browser
	m.context = browserCtx
	m.initialized = true
	m.logger.Infof("browser initialized (headless=%v)", m.settings.Browser.Headless)
	return nil
}

// Tabs returns the tab registry.
func (m *Manager) Tabs() *TabRegistry {
	return m.tabs
}

// ActiveTab returns the currently active tab.
func (m *Manager) ActiveTab() (*Tab, error) {
	return m.tabs.Active()
}

// OpenTab creates a new page, optionally navigates it, and registers it as
// the active tab. An empty name derives one from the URL's domain.
func (m *Manager) OpenTab(name, rawURL string) (*Tab, error) {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return nil, fmt.Errorf("browser manager not initialized")
	}
	browserCtx := m.context
	m.mu.Unlock()

	if rawURL != "" {
		rawURL = ensureScheme(rawURL)
		if !m.urlAllowed(rawURL) {
			return nil, fmt.Errorf("navigation to %s is not permitted by the allowed_urls configuration", rawURL)
		}
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(m.settings.Browser.ActionTimeout)

	if rawURL != "" {
		if err := m.goTo(page, rawURL); err != nil {
			page.Close()
			return nil, err
		}
	}

	tab, err := m.tabs.Add(name, rawURL, page)
	if err != nil {
		page.Close()
		return nil, err
	}

	m.logger.Infof("opened tab %q at %s", tab.Name, tab.Page.URL())
	return tab, nil
}

// Navigate drives the active tab to the URL, defaulting the scheme to
// https and enforcing the allowlist.
func (m *Manager) Navigate(rawURL string) error {
	tab, err := m.tabs.Active()
	if err != nil {
		return err
	}

	rawURL = ensureScheme(rawURL)
	if !m.urlAllowed(rawURL) {
		return fmt.Errorf("navigation to %s is not permitted by the allowed_urls configuration", rawURL)
	}

	if err := m.goTo(tab.Page, rawURL); err != nil {
		return err
	}
	m.logger.Infof("tab %q navigated to %s", tab.Name, tab.Page.URL())
	return nil
}

func (m *Manager) goTo(page playwright.Page, url string) error {
	_, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(m.settings.Browser.NavigationTimeout),
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// urlAllowed checks the URL against the configured allowlist globs.
// An empty allowlist permits everything.
func (m *Manager) urlAllowed(url string) bool {
	if len(m.allowlist) == 0 {
		return true
	}
	for _, g := range m.allowlist {
		if g.Match(url) {
			return true
		}
	}
	return false
}

// WaitForLogin blocks until ConfirmLogin is called or the context is
// cancelled. There is no polling and no deadline: a human completing a
// login takes as long as it takes.
func (m *Manager) WaitForLogin(ctx context.Context) error {
	m.logger.Infof("waiting for manual login confirmation")
	select {
	case <-m.loginSignal:
		m.logger.Infof("manual login confirmed")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ConfirmLogin releases a pending WaitForLogin. Confirming with no waiter
// is remembered for the next wait; repeated confirms collapse into one.
func (m *Manager) ConfirmLogin() {
	select {
	case m.loginSignal <- struct{}{}:
	default:
	}
}

// Shutdown closes every tab, the browser, and Playwright itself.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}

	m.tabs.CloseAll()
	if m.context != nil {
		_ = m.context.Close()
	}
	if m.browser != nil {
		_ = m.browser.Close()
	}

	var err error
	if m.pw != nil {
		err = m.pw.Stop()
	}
	m.initialized = false
	m.logger.Infof("browser shut down")
	return err
}
