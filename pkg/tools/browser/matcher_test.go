package browser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pilot/pkg/types"
)

// fakeProvider returns canned completions.
type fakeProvider struct {
	reply string
	err   error
	last  []*types.Message
}

func (p *fakeProvider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	p.last = messages
	if p.err != nil {
		return nil, p.err
	}
	return types.NewAssistantMessage(p.reply), nil
}

func (p *fakeProvider) GetModelInfo() *types.ModelInfo {
	return &types.ModelInfo{Provider: "fake", Name: "fake-model"}
}

func (p *fakeProvider) GetModel() string { return "fake-model" }

func TestLLMMatcherSelectsIndex(t *testing.T) {
	provider := &fakeProvider{reply: `{"index": 1, "rationale": "the anchor text mentions Alice"}`}
	matcher := NewLLMMatcher(provider)

	match, err := matcher.Match(context.Background(), "conversation with alice", testElements())
	require.NoError(t, err)
	assert.Equal(t, 1, match.Index)
	assert.Equal(t, "the anchor text mentions Alice", match.Rationale)

	// The prompt carries the formatted candidate list.
	require.Len(t, provider.last, 2)
	assert.Contains(t, provider.last[1].Content, `[1] a "Conversation with Alice"`)
	assert.Contains(t, provider.last[1].Content, "conversation with alice")
}

func TestLLMMatcherToleratesFencedReply(t *testing.T) {
	provider := &fakeProvider{reply: "Here you go:\n```json\n{\"index\": 0, \"rationale\": \"submit\"}\n```"}
	matcher := NewLLMMatcher(provider)

	match, err := matcher.Match(context.Background(), "submit", testElements())
	require.NoError(t, err)
	assert.Equal(t, 0, match.Index)
}

func TestLLMMatcherProviderError(t *testing.T) {
	matcher := NewLLMMatcher(&fakeProvider{err: errors.New("rate limited")})
	_, err := matcher.Match(context.Background(), "submit", testElements())
	assert.Error(t, err)
}

func TestLLMMatcherEmptyCandidates(t *testing.T) {
	matcher := NewLLMMatcher(&fakeProvider{reply: `{"index": 0}`})
	_, err := matcher.Match(context.Background(), "submit", nil)
	assert.Error(t, err)
}

func TestParseMatchReply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"plain object", `{"index": 2, "rationale": "r"}`, 2, false},
		{"surrounded by prose", `I pick {"index": 3, "rationale": "best fit"} for you`, 3, false},
		{"negative index passes through", `{"index": -1, "rationale": "nothing fits"}`, -1, false},
		{"missing index", `{"rationale": "no idea"}`, 0, true},
		{"no json", "element two looks right", 0, true},
		{"broken json", `{"index": }`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := parseMatchReply(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, match.Index)
		})
	}
}

func TestFormatCandidateFields(t *testing.T) {
	line := formatCandidate(InteractiveElement{
		Index:       4,
		Tag:         "input",
		Text:        "Search messages",
		Role:        "searchbox",
		Placeholder: "Search messages",
		InputType:   "text",
		X:           40,
		Y:           12,
	})

	assert.Contains(t, line, `[4] input "Search messages"`)
	assert.Contains(t, line, "role=searchbox")
	assert.Contains(t, line, `placeholder="Search messages"`)
	assert.Contains(t, line, "type=text")
	assert.Contains(t, line, "pos=(40,12)")
}

func TestFormatCandidatesRespectsBudget(t *testing.T) {
	elements := make([]InteractiveElement, 50)
	for i := range elements {
		elements[i] = InteractiveElement{Index: i, Tag: "a", Text: "some long anchor text that costs a handful of tokens"}
	}

	listing := formatCandidates(elements, 100)
	assert.Contains(t, listing, "omitted")
	// The listing must still open with the first candidates.
	assert.Contains(t, listing, "[0] a")
}

func TestLineCostWithoutEncoder(t *testing.T) {
	// When tokenizer data cannot be loaded, budgeting degrades to a
	// character estimate instead of being skipped, so the candidate
	// listing stays bounded either way.
	assert.Equal(t, 1, lineCost(nil, "abc"))
	assert.Equal(t, 3, lineCost(nil, strings.Repeat("x", 12)))
	assert.Positive(t, lineCost(matchEncoding(), "abc"))
}

func TestExtractJSONObjectNestedBraces(t *testing.T) {
	content := `note {"index": 1, "rationale": "the {curly} one"} trailing`
	assert.Equal(t, `{"index": 1, "rationale": "the {curly} one"}`, extractJSONObject(content))
}
