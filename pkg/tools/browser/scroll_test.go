package browser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStrategist returns a canned strategy.
type fakeStrategist struct {
	strategy *ScrollStrategy
	err      error
	calls    int
}

func (s *fakeStrategist) Propose(ctx context.Context, description string, scrollables []ScrollableInfo, snapshotHTML string) (*ScrollStrategy, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.strategy, nil
}

// scrollSurface builds a fakeSurface whose offset moves when the named
// scripts run. movers maps a script substring to the offset delta its
// execution produces.
func scrollSurface(elements []InteractiveElement, movers map[string]float64) *fakeSurface {
	f := &fakeSurface{key: "https://example.com", elements: elements}
	f.evalFn = func(script string, args ...interface{}) (interface{}, error) {
		if strings.Contains(script, "outerHTML") {
			return "<body><div>feed</div></body>", nil
		}
		if strings.Contains(script, "overflowY") {
			return []interface{}{}, nil
		}
		for fragment, delta := range movers {
			if strings.Contains(script, fragment) {
				f.offset += delta
				if strings.Contains(script, "querySelector(selector)") {
					return true, nil
				}
				return nil, nil
			}
		}
		if strings.Contains(script, "querySelector(selector)") {
			return true, nil
		}
		return nil, nil
	}
	return f
}

func newTestEngine(strategist Strategist, matcher Matcher) (*ScrollEngine, *Resolver) {
	resolver := NewResolver(NewMemorySelectorStore(), matcher)
	return NewScrollEngine(strategist, resolver, time.Second), resolver
}

func TestScrollSuggestedTierSucceeds(t *testing.T) {
	strategist := &fakeStrategist{strategy: &ScrollStrategy{
		Method:    ScrollMethodContainer,
		Script:    "document.querySelector('#feed').scrollTop += 400",
		Rationale: "the feed is the scrollable container",
	}}
	surface := scrollSurface(testElements(), map[string]float64{"#feed": 400})

	engine, _ := newTestEngine(strategist, nil)
	report, err := engine.Scroll(context.Background(), surface, "scroll the feed")
	require.NoError(t, err)

	assert.Equal(t, TierSuggested, report.Tier)
	assert.InDelta(t, 400, report.Delta, 0.1)
	assert.Equal(t, "the feed is the scrollable container", report.Rationale)
	assert.Empty(t, report.Attempts)
	// A successful first tier never scans for element resolution.
	assert.Zero(t, surface.scans)
}

func TestScrollEscalatesToElementTier(t *testing.T) {
	// The suggested script runs but moves nothing; the element tier works.
	strategist := &fakeStrategist{strategy: &ScrollStrategy{
		Method: ScrollMethodWindow,
		Script: "window.scrollTo(0, 0)",
	}}
	matcher := &fakeMatcher{match: &Match{Index: 1}}
	surface := scrollSurface(testElements(), map[string]float64{"querySelector(selector)": 250})

	engine, _ := newTestEngine(strategist, matcher)
	report, err := engine.Scroll(context.Background(), surface, "the conversation list")
	require.NoError(t, err)

	assert.Equal(t, TierElement, report.Tier)
	require.Len(t, report.Attempts, 1)
	assert.Equal(t, TierSuggested, report.Attempts[0].Tier)
	assert.Equal(t, "no measurable change", report.Attempts[0].Reason)
}

func TestScrollEscalatesToWindowTier(t *testing.T) {
	// Strategy errors, resolution fails, window scroll saves the day.
	strategist := &fakeStrategist{err: errors.New("model unavailable")}
	surface := scrollSurface(nil, map[string]float64{"window.scrollBy": 300})

	engine, _ := newTestEngine(strategist, nil)
	report, err := engine.Scroll(context.Background(), surface, "scroll down")
	require.NoError(t, err)

	assert.Equal(t, TierWindow, report.Tier)
	require.Len(t, report.Attempts, 2)
	assert.Equal(t, TierSuggested, report.Attempts[0].Tier)
	assert.Contains(t, report.Attempts[0].Reason, "strategy error")
	assert.Equal(t, TierElement, report.Attempts[1].Tier)
	assert.Contains(t, report.Attempts[1].Reason, "resolution failed")
}

func TestScrollAllTiersExhausted(t *testing.T) {
	strategist := &fakeStrategist{strategy: &ScrollStrategy{
		Method: ScrollMethodWindow,
		Script: "window.scrollTo(0, 0)",
	}}
	matcher := &fakeMatcher{match: &Match{Index: 0}}
	// No script moves anything.
	surface := scrollSurface(testElements(), nil)

	engine, _ := newTestEngine(strategist, matcher)
	report, err := engine.Scroll(context.Background(), surface, "scroll the feed")

	var noEffect *NoEffectError
	require.ErrorAs(t, err, &noEffect)
	assert.Len(t, noEffect.Attempts, 3)
	assert.Len(t, report.Attempts, 3)
	for i, tier := range []string{TierSuggested, TierElement, TierWindow} {
		assert.Equal(t, tier, noEffect.Attempts[i].Tier)
		assert.Equal(t, "no measurable change", noEffect.Attempts[i].Reason)
	}
}

func TestScrollWithoutStrategistStartsAtElementTier(t *testing.T) {
	matcher := &fakeMatcher{match: &Match{Index: 1}}
	surface := scrollSurface(testElements(), map[string]float64{"querySelector(selector)": 150})

	engine, _ := newTestEngine(nil, matcher)
	report, err := engine.Scroll(context.Background(), surface, "the conversation list")
	require.NoError(t, err)

	assert.Equal(t, TierElement, report.Tier)
	assert.Empty(t, report.Attempts)
}

func TestScrollTierTimeout(t *testing.T) {
	blocked := make(chan struct{})
	defer close(blocked)

	strategist := &fakeStrategist{strategy: &ScrollStrategy{
		Method: ScrollMethodWindow,
		Script: "slow-script",
	}}
	surface := scrollSurface(nil, map[string]float64{"window.scrollBy": 300})
	inner := surface.evalFn
	surface.evalFn = func(script string, args ...interface{}) (interface{}, error) {
		if strings.Contains(script, "slow-script") {
			<-blocked
			return nil, nil
		}
		return inner(script, args...)
	}

	resolver := NewResolver(NewMemorySelectorStore(), nil)
	engine := NewScrollEngine(strategist, resolver, 50*time.Millisecond)

	report, err := engine.Scroll(context.Background(), surface, "scroll down")
	require.NoError(t, err)

	// The stuck tier times out and escalation proceeds.
	assert.Equal(t, TierWindow, report.Tier)
	assert.Contains(t, report.Attempts[0].Reason, "timed out")
}
