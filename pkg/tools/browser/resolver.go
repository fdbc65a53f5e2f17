package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/pilot/pkg/logging"
)

// PageSurface is the slice of a tab the resolver and scroll engine need.
// Tab implements it against a live Playwright page; tests substitute fakes.
type PageSurface interface {
	// Key returns the normalized page identity for cache lookups.
	Key() string

	// LocatorCount returns how many visible elements match the locator.
	LocatorCount(locator string) (int, error)

	// Scan inventories visible interactive elements starting at the index.
	Scan(start int) ([]InteractiveElement, error)

	// Eval evaluates a script in the page with an optional argument.
	Eval(script string, args ...interface{}) (interface{}, error)

	// ScrollOffset returns the page's scroll-progress signal.
	ScrollOffset() (float64, error)
}

// ResolutionSource identifies which tier produced a locator.
type ResolutionSource string

const (
	// SourceCache means the cache fast path validated a stored locator
	SourceCache ResolutionSource = "cache"

	// SourceSemantic means the semantic matcher selected a candidate
	SourceSemantic ResolutionSource = "semantic"

	// SourceFallback means deterministic text scoring selected a candidate
	SourceFallback ResolutionSource = "fallback"
)

// Resolution is a successful element resolution.
type Resolution struct {
	// Locator re-finds the element in the live DOM at the moment of use
	Locator string

	// Element is the scanned record behind the locator; nil when the cache
	// fast path short-circuited without scanning
	Element *InteractiveElement

	// Source identifies the tier that produced the locator
	Source ResolutionSource

	// Rationale is the matcher's explanation, when Source is semantic
	Rationale string
}

// Resolver turns natural-language descriptions into element locators.
//
// Resolution is tiered and short-circuiting: cache fast path, then scan
// plus semantic match, then deterministic text fallback. The cache is a
// hint store: entries that no longer match exactly one visible element are
// discarded silently and resolution proceeds as if they never existed.
type Resolver struct {
	store   SelectorStore
	matcher Matcher
	logger  *logging.Logger
}

// NewResolver creates a resolver over the given cache store and semantic
// matcher. The matcher may be nil, in which case resolution relies on the
// cache and the deterministic fallback only.
func NewResolver(store SelectorStore, matcher Matcher) *Resolver {
	logger, _ := logging.NewLogger("resolver")
	return &Resolver{
		store:   store,
		matcher: matcher,
		logger:  logger,
	}
}

// Resolve returns exactly one locator for the description on the given
// page, or a NotFoundError once every tier is exhausted.
//
// Resolution is scoped to the one page it is given: it never searches
// across tabs or frames.
func (r *Resolver) Resolve(ctx context.Context, page PageSurface, description string) (*Resolution, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description must not be empty")
	}

	pageKey := page.Key()

	// Tier 1: cache fast path. A stored locator is only trusted if it
	// still matches exactly one visible element.
	if locator, ok := r.store.Get(pageKey, description); ok {
		count, err := page.LocatorCount(locator)
		if err == nil && count == 1 {
			r.logger.Debugf("cache hit for %q on %s", description, pageKey)
			return &Resolution{Locator: locator, Source: SourceCache}, nil
		}
		r.logger.Debugf("discarding stale cache entry for %q on %s (matches=%d, err=%v)", description, pageKey, count, err)
		if err := r.store.Invalidate(pageKey, description); err != nil {
			r.logger.Warnf("failed to invalidate cache entry: %v", err)
		}
	}

	// Tier 2: fresh scan plus semantic match.
	candidates, err := page.Scan(0)
	if err != nil {
		return nil, fmt.Errorf("failed to scan page: %w", err)
	}
	if len(candidates) == 0 {
		return nil, &NotFoundError{Description: description}
	}

	if r.matcher != nil {
		match, err := r.matcher.Match(ctx, description, candidates)
		if err != nil {
			r.logger.Warnf("semantic match failed for %q, using fallback: %v", description, err)
		} else if match.Index >= 0 && match.Index < len(candidates) {
			chosen := candidates[match.Index]
			if err := r.store.Put(pageKey, description, chosen.Locator); err != nil {
				r.logger.Warnf("failed to cache locator: %v", err)
			}
			return &Resolution{
				Locator:   chosen.Locator,
				Element:   &chosen,
				Source:    SourceSemantic,
				Rationale: match.Rationale,
			}, nil
		} else {
			r.logger.Warnf("semantic match returned out-of-range index %d for %q", match.Index, description)
		}
	}

	// Tier 3: deterministic text fallback. Not cached: text scoring is
	// cheap to redo and too coarse to trust across visits.
	if best := bestTextMatch(description, candidates); best != nil {
		r.logger.Debugf("fallback matched %q to [%d] %s", description, best.Index, best.Tag)
		return &Resolution{Locator: best.Locator, Element: best, Source: SourceFallback}, nil
	}

	return nil, &NotFoundError{Description: description}
}

// bestTextMatch scores candidates deterministically: exact text match,
// then case-insensitive partial text match, then aria-label, then
// placeholder. Ties keep the first candidate in document order, matching
// the "top of page first" expectation.
func bestTextMatch(description string, candidates []InteractiveElement) *InteractiveElement {
	var best *InteractiveElement
	bestScore := 0

	for i := range candidates {
		score := scoreCandidate(description, &candidates[i])
		if score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}
	return best
}

func scoreCandidate(description string, el *InteractiveElement) int {
	desc := strings.ToLower(strings.TrimSpace(description))

	text := strings.ToLower(el.Text)
	if text != "" && text == desc {
		return 4
	}
	if text != "" && partialMatch(desc, text) {
		return 3
	}
	if label := strings.ToLower(el.AriaLabel); label != "" && (partialMatch(desc, label) || label == desc) {
		return 2
	}
	if ph := strings.ToLower(el.Placeholder); ph != "" && (partialMatch(desc, ph) || ph == desc) {
		return 1
	}
	return 0
}

// partialMatch reports whether the description and the element text
// plausibly refer to each other: one contains the other, or a significant
// word of the description appears in the text.
func partialMatch(desc, text string) bool {
	if strings.Contains(text, desc) || strings.Contains(desc, text) {
		return true
	}
	for _, word := range strings.Fields(desc) {
		if len(word) > 2 && !stopwords[word] && strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// stopwords are description filler that would match almost any text.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true,
	"that": true, "this": true, "element": true,
}
