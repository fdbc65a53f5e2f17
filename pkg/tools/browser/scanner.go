package browser

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Scan inventories the visible interactive elements on this tab, numbering
// them from start in document order. Each scan injects a fresh unique
// marker attribute into the selected elements and clears markers from any
// previous scan, so returned locators are only valid until the next scan
// or DOM mutation.
func (t *Tab) Scan(start int) ([]InteractiveElement, error) {
	nonce := uuid.NewString()

	raw, err := t.Page.Evaluate(elementScanScript, map[string]interface{}{
		"start": start,
		"nonce": nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("element scan failed: %w", err)
	}

	return decodeElements(raw)
}

// ScrollOffset returns the page's scroll-progress signal: the window
// offset plus every oversized container's offset.
func (t *Tab) ScrollOffset() (float64, error) {
	raw, err := t.Page.Evaluate(scrollOffsetScript)
	if err != nil {
		return 0, fmt.Errorf("scroll offset probe failed: %w", err)
	}
	return toFloat(raw), nil
}

// decodeElements converts the script's generic evaluate result into typed
// records via a JSON round trip.
func decodeElements(raw interface{}) ([]InteractiveElement, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scan records: %w", err)
	}

	var elements []InteractiveElement
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("failed to decode scan records: %w", err)
	}
	return elements, nil
}

// toFloat normalizes the numeric types Playwright's evaluate can return.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}
