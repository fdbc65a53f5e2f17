package browser

// InteractiveElement describes one visible interactive element found by a
// scan. Records are transient: a new scan reassigns indices and locator
// attributes, so records from a prior scan must not be reused after DOM
// mutation or another scan.
type InteractiveElement struct {
	// Index is the ordinal position within one scan, in document order.
	Index int `json:"index"`

	// Tag is the lowercase tag name
	Tag string `json:"tag"`

	// Text is the display text, whitespace-collapsed and capped at 80 chars.
	// For input/textarea it is the current value, else the placeholder.
	Text string `json:"text"`

	// Role is the ARIA role attribute, if any
	Role string `json:"role"`

	// AriaLabel is the aria-label attribute, if any
	AriaLabel string `json:"aria_label"`

	// Placeholder is resolved through a chain: direct attribute,
	// aria-placeholder, then the text of an aria-describedby reference
	Placeholder string `json:"placeholder"`

	// InputType is the type attribute for input elements
	InputType string `json:"input_type"`

	// Href is the link target for anchors, truncated to 100 chars
	Href string `json:"href"`

	// Bounding box in viewport pixels
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Locator is an attribute selector referencing the unique marker this
	// scan just injected into the live DOM
	Locator string `json:"locator"`
}

// ScrollMethod identifies how a scroll strategy moves the page.
type ScrollMethod string

const (
	// ScrollMethodWindow scrolls the window itself
	ScrollMethodWindow ScrollMethod = "window"

	// ScrollMethodElement scrolls a specific element
	ScrollMethodElement ScrollMethod = "element"

	// ScrollMethodContainer scrolls an inner scrollable container
	ScrollMethodContainer ScrollMethod = "container"
)

// ScrollStrategy is a scroll plan proposed by the strategist boundary.
// It is constructed per invocation, consumed once, and never cached.
type ScrollStrategy struct {
	Method    ScrollMethod `json:"method"`
	Selector  string       `json:"selector,omitempty"`
	Script    string       `json:"script"`
	Rationale string       `json:"rationale"`
}

// ScrollableInfo describes one scrollable container candidate on the page,
// fed to the strategist alongside the HTML snapshot.
type ScrollableInfo struct {
	Selector     string  `json:"selector"`
	Tag          string  `json:"tag"`
	ScrollHeight float64 `json:"scroll_height"`
	ClientHeight float64 `json:"client_height"`
}

// TierAttempt records why one scroll tier was rejected.
type TierAttempt struct {
	Tier   string `json:"tier"`
	Reason string `json:"reason"`
}

// ScrollReport describes the outcome of a scroll invocation: which tier
// succeeded, how far the page moved, and why earlier tiers were rejected.
type ScrollReport struct {
	Tier      string        `json:"tier"`
	Delta     float64       `json:"delta"`
	Rationale string        `json:"rationale,omitempty"`
	Attempts  []TierAttempt `json:"attempts,omitempty"`
}

// TabInfo is a read-only summary of one registered tab.
type TabInfo struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Scroll tier names used in reports.
const (
	TierSuggested = "suggested"
	TierElement   = "element"
	TierWindow    = "window"
)

// Default values for browser operations
const (
	DefaultNavigationTimeout = 30000.0 // milliseconds
	DefaultActionTimeout     = 10000.0 // milliseconds
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 800
	DefaultSnapshotLength    = 8000 // characters of simplified HTML
)
