package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pilot/pkg/agent/tools"
	"github.com/entrhq/pilot/pkg/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	manager, err := NewManager(config.Defaults())
	require.NoError(t, err)
	return manager
}

func TestRegisterAll(t *testing.T) {
	manager := newTestManager(t)
	resolver := NewResolver(NewMemorySelectorStore(), nil)
	engine := NewScrollEngine(nil, resolver, time.Second)

	registry := tools.NewRegistry()
	require.NoError(t, RegisterAll(registry, manager, resolver, engine))

	all := registry.List()
	assert.Len(t, all, 14)

	expected := []string{
		"check_checkbox", "click_element", "close_tab", "find_element",
		"get_text", "list_tabs", "navigate", "open_tab", "scroll",
		"select_option", "switch_tab", "type_text", "wait_for_element",
		"wait_for_login",
	}
	for i, tool := range all {
		assert.Equal(t, expected[i], tool.Name())
		assert.NotEmpty(t, tool.Description())
		assert.NotNil(t, tool.Schema())
	}
}

func TestToolsRequireArguments(t *testing.T) {
	manager := newTestManager(t)
	resolver := NewResolver(NewMemorySelectorStore(), nil)
	engine := NewScrollEngine(nil, resolver, time.Second)
	ctx := context.Background()

	cases := []struct {
		tool tools.Tool
		args string
	}{
		{NewNavigateTool(manager), "<arguments></arguments>"},
		{NewSwitchTabTool(manager), "<arguments></arguments>"},
		{NewCloseTabTool(manager), "<arguments></arguments>"},
		{NewFindElementTool(manager, resolver), "<arguments></arguments>"},
		{NewClickTool(manager, resolver), "<arguments></arguments>"},
		{NewTypeTextTool(manager, resolver), "<arguments><text>hi</text></arguments>"},
		{NewSelectOptionTool(manager, resolver), "<arguments><option>First</option></arguments>"},
		{NewSelectOptionTool(manager, resolver), "<arguments><description>the dropdown</description></arguments>"},
		{NewCheckboxTool(manager, resolver), "<arguments></arguments>"},
		{NewWaitElementTool(manager, resolver), "<arguments></arguments>"},
		{NewScrollTool(manager, engine), "<arguments></arguments>"},
	}
	for _, tc := range cases {
		t.Run(tc.tool.Name(), func(t *testing.T) {
			_, _, err := tc.tool.Execute(ctx, []byte(tc.args))
			assert.Error(t, err)
		})
	}
}

func TestToolsRequireActiveTab(t *testing.T) {
	manager := newTestManager(t)
	resolver := NewResolver(NewMemorySelectorStore(), nil)
	ctx := context.Background()

	_, _, err := NewFindElementTool(manager, resolver).Execute(ctx,
		[]byte("<arguments><description>the button</description></arguments>"))
	assert.ErrorIs(t, err, ErrNoActivePage)

	_, _, err = NewNavigateTool(manager).Execute(ctx,
		[]byte("<arguments><url>example.com</url></arguments>"))
	assert.ErrorIs(t, err, ErrNoActivePage)

	_, _, err = NewGetTextTool(manager).Execute(ctx, []byte("<arguments></arguments>"))
	assert.ErrorIs(t, err, ErrNoActivePage)

	_, _, err = NewWaitElementTool(manager, resolver).Execute(ctx,
		[]byte("<arguments><description>the banner</description></arguments>"))
	assert.ErrorIs(t, err, ErrNoActivePage)
}

func TestListTabsToolEmpty(t *testing.T) {
	manager := newTestManager(t)

	result, _, err := NewListTabsTool(manager).Execute(context.Background(), []byte("<arguments></arguments>"))
	require.NoError(t, err)
	assert.Contains(t, result, "No tabs are open")
}

func TestCloseTabToolUnknown(t *testing.T) {
	manager := newTestManager(t)

	_, _, err := NewCloseTabTool(manager).Execute(context.Background(),
		[]byte("<arguments><name>ghost</name></arguments>"))
	assert.Error(t, err)
}

func TestWaitLoginToolConfirmed(t *testing.T) {
	manager := newTestManager(t)
	manager.ConfirmLogin()

	result, _, err := NewWaitLoginTool(manager).Execute(context.Background(), []byte("<arguments></arguments>"))
	require.NoError(t, err)
	assert.Contains(t, result, "confirmed")
}

func TestWaitLoginToolCancelled(t *testing.T) {
	manager := newTestManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewWaitLoginTool(manager).Execute(ctx, []byte("<arguments></arguments>"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManagerAllowlist(t *testing.T) {
	settings := config.Defaults()
	settings.AllowedURLs = []string{"https://*.example.com*", "https://example.com*"}

	manager, err := NewManager(settings)
	require.NoError(t, err)

	assert.True(t, manager.urlAllowed("https://app.example.com/login"))
	assert.True(t, manager.urlAllowed("https://example.com"))
	assert.False(t, manager.urlAllowed("https://evil.com"))

	// Invalid patterns are rejected at construction.
	settings.AllowedURLs = []string{"https://[invalid"}
	_, err = NewManager(settings)
	assert.Error(t, err)
}

func TestManagerOpenTabRequiresInitialize(t *testing.T) {
	manager := newTestManager(t)
	_, err := manager.OpenTab("", "https://example.com")
	assert.Error(t, err)
}
