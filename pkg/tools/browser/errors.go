package browser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoActivePage is returned when an operation needs a page but no tab
	// has been opened yet.
	ErrNoActivePage = errors.New("no active tab: open a tab before interacting with the page")

	// ErrActiveTabClosed is returned after the active tab is closed and no
	// replacement has been selected. The registry never picks one silently.
	ErrActiveTabClosed = errors.New("active tab was closed: switch to another tab before continuing")
)

// NotFoundError is returned when every resolution tier is exhausted without
// producing a locator. It carries the original description for diagnostics;
// callers may retry with a different description.
type NotFoundError struct {
	Description string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no element found matching description %q", e.Description)
}

// NoEffectError is returned when every scroll tier was attempted and none
// produced a measurable position change.
type NoEffectError struct {
	Attempts []TierAttempt
}

func (e *NoEffectError) Error() string {
	reasons := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		reasons = append(reasons, fmt.Sprintf("%s: %s", a.Tier, a.Reason))
	}
	return fmt.Sprintf("scroll had no effect after all tiers (%s)", strings.Join(reasons, "; "))
}
