package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/entrhq/pilot/pkg/logging"
)

// scrollEpsilon is the minimum offset change counted as progress.
const scrollEpsilon = 0.5

// elementScrollScript scrolls a resolved element: its own content if it is
// a scrollable container, otherwise the window toward and past it.
const elementScrollScript = `(selector) => {
	const el = document.querySelector(selector);
	if (!el) return false;
	const amount = Math.max(el.clientHeight * 0.8, 200);
	if (el.scrollHeight > el.clientHeight + 10) {
		el.scrollTop += amount;
	} else {
		el.scrollIntoView({block: 'center'});
		window.scrollBy(0, amount);
	}
	return true;
}`

// windowScrollScript is the always-available final fallback.
const windowScrollScript = `() => { window.scrollBy(0, window.innerHeight * 0.8); }`

// ScrollEngine escalates through three scroll tiers, verifying progress
// after each: a strategist-proposed script, a direct element scroll through
// the resolver, and a window scroll. Each tier runs at most once per
// invocation and is bounded by a timeout.
type ScrollEngine struct {
	strategist  Strategist
	resolver    *Resolver
	tierTimeout time.Duration
	logger      *logging.Logger
}

// NewScrollEngine creates a scroll engine. The strategist may be nil, in
// which case every invocation starts at the element tier.
func NewScrollEngine(strategist Strategist, resolver *Resolver, tierTimeout time.Duration) *ScrollEngine {
	if tierTimeout <= 0 {
		tierTimeout = 10 * time.Second
	}
	logger, _ := logging.NewLogger("scroll")
	return &ScrollEngine{
		strategist:  strategist,
		resolver:    resolver,
		tierTimeout: tierTimeout,
		logger:      logger,
	}
}

// Scroll performs the scroll described by description on the given page.
// It returns a report naming the tier that produced measurable progress
// and why earlier tiers were rejected, or a NoEffectError once all three
// tiers are exhausted.
func (e *ScrollEngine) Scroll(ctx context.Context, page PageSurface, description string) (*ScrollReport, error) {
	var attempts []TierAttempt

	before, err := page.ScrollOffset()
	if err != nil {
		return nil, fmt.Errorf("failed to read scroll position: %w", err)
	}

	// Tier 1: strategist-proposed script.
	if e.strategist != nil {
		rationale, err := e.runSuggestedTier(ctx, page, description)
		if err != nil {
			attempts = append(attempts, TierAttempt{Tier: TierSuggested, Reason: err.Error()})
		} else if delta, moved := e.progressSince(page, before); moved {
			return &ScrollReport{Tier: TierSuggested, Delta: delta, Rationale: rationale, Attempts: attempts}, nil
		} else {
			attempts = append(attempts, TierAttempt{Tier: TierSuggested, Reason: "no measurable change"})
		}
	}

	// Tier 2: resolve the description and scroll that element directly.
	if err := e.runElementTier(ctx, page, description); err != nil {
		attempts = append(attempts, TierAttempt{Tier: TierElement, Reason: err.Error()})
	} else if delta, moved := e.progressSince(page, before); moved {
		return &ScrollReport{Tier: TierElement, Delta: delta, Attempts: attempts}, nil
	} else {
		attempts = append(attempts, TierAttempt{Tier: TierElement, Reason: "no measurable change"})
	}

	// Tier 3: window scroll, the final fallback.
	if err := e.runTier(ctx, func() error {
		_, err := page.Eval(windowScrollScript)
		return err
	}); err != nil {
		attempts = append(attempts, TierAttempt{Tier: TierWindow, Reason: err.Error()})
	} else if delta, moved := e.progressSince(page, before); moved {
		return &ScrollReport{Tier: TierWindow, Delta: delta, Attempts: attempts}, nil
	} else {
		attempts = append(attempts, TierAttempt{Tier: TierWindow, Reason: "no measurable change"})
	}

	e.logger.Warnf("scroll %q exhausted all tiers", description)
	return &ScrollReport{Attempts: attempts}, &NoEffectError{Attempts: attempts}
}

// runSuggestedTier gathers the strategist inputs, asks for a plan, and
// executes its script. Returns the strategy rationale on success.
func (e *ScrollEngine) runSuggestedTier(ctx context.Context, page PageSurface, description string) (string, error) {
	var rationale string
	err := e.runTier(ctx, func() error {
		scrollables, err := probeScrollables(page)
		if err != nil {
			return fmt.Errorf("scrollable probe failed: %w", err)
		}

		snapshot, err := snapshotPage(page)
		if err != nil {
			return fmt.Errorf("snapshot failed: %w", err)
		}

		strategy, err := e.strategist.Propose(ctx, description, scrollables, snapshot)
		if err != nil {
			return fmt.Errorf("strategy error: %w", err)
		}
		rationale = strategy.Rationale

		if _, err := page.Eval(strategy.Script); err != nil {
			return fmt.Errorf("strategy script failed: %w", err)
		}
		return nil
	})
	return rationale, err
}

// runElementTier resolves the description and scrolls the element.
func (e *ScrollEngine) runElementTier(ctx context.Context, page PageSurface, description string) error {
	return e.runTier(ctx, func() error {
		resolution, err := e.resolver.Resolve(ctx, page, description)
		if err != nil {
			return fmt.Errorf("resolution failed: %w", err)
		}

		found, err := page.Eval(elementScrollScript, resolution.Locator)
		if err != nil {
			return fmt.Errorf("element scroll failed: %w", err)
		}
		if ok, _ := found.(bool); !ok {
			return fmt.Errorf("resolved locator %s no longer present", resolution.Locator)
		}
		return nil
	})
}

// runTier executes fn bounded by the per-tier timeout. A tier that times
// out counts as failed and escalation proceeds.
func (e *ScrollEngine) runTier(ctx context.Context, fn func() error) error {
	tctx, cancel := context.WithTimeout(ctx, e.tierTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-tctx.Done():
		return fmt.Errorf("tier timed out after %v", e.tierTimeout)
	}
}

// progressSince reports whether the scroll signal moved from before.
func (e *ScrollEngine) progressSince(page PageSurface, before float64) (float64, bool) {
	after, err := page.ScrollOffset()
	if err != nil {
		return 0, false
	}
	delta := after - before
	return delta, math.Abs(delta) > scrollEpsilon
}

// probeScrollables lists scrollable container candidates via the surface.
func probeScrollables(page PageSurface) ([]ScrollableInfo, error) {
	raw, err := page.Eval(scrollableProbeScript)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var infos []ScrollableInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// snapshotPage captures and simplifies the page HTML for the strategist.
func snapshotPage(page PageSurface) (string, error) {
	raw, err := page.Eval(`() => document.body ? document.body.outerHTML : ''`)
	if err != nil {
		return "", err
	}
	rawHTML, _ := raw.(string)
	return SimplifyHTML(rawHTML, DefaultSnapshotLength)
}
