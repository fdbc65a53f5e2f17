package browser

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifyHTMLDropsNoise(t *testing.T) {
	raw := `<html><head><script>alert(1)</script><style>body{}</style></head>
<body><div id="app"><svg><path d="M0 0"/></svg><iframe src="x"></iframe>
<p>Hello world</p></div></body></html>`

	out, err := SimplifyHTML(raw, 4000)
	require.NoError(t, err)

	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "alert")
	assert.NotContains(t, out, "svg")
	assert.NotContains(t, out, "iframe")
	assert.Contains(t, out, "Hello world")
	assert.Contains(t, out, `id="app"`)
}

func TestSimplifyHTMLKeepsTargetingAttributes(t *testing.T) {
	raw := `<div class="feed" role="main" data-testid="feed" aria-label="Message feed" style="color:red" onmouseover="x()">
<a href="/next" target="_blank">Next</a>
<input type="search" name="q" placeholder="Search" autocomplete="off">
</div>`

	out, err := SimplifyHTML(raw, 4000)
	require.NoError(t, err)

	assert.Contains(t, out, `class="feed"`)
	assert.Contains(t, out, `role="main"`)
	assert.Contains(t, out, `data-testid="feed"`)
	assert.Contains(t, out, `aria-label="Message feed"`)
	assert.Contains(t, out, `href="/next"`)
	assert.Contains(t, out, `placeholder="Search"`)

	// Presentation and handler attributes are dropped.
	assert.NotContains(t, out, "style=")
	assert.NotContains(t, out, "onmouseover")
	assert.NotContains(t, out, "target=")
	assert.NotContains(t, out, "autocomplete")
}

func TestSimplifyHTMLBoundsAttributeHeavyMarkup(t *testing.T) {
	// Serialized framework state in a kept data-* attribute must not let
	// the output run past the cap.
	raw := `<div data-props="` + strings.Repeat("x", 100000) + `"><p>content</p></div>`

	out, err := SimplifyHTML(raw, 8000)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(out), 9000)
	assert.Contains(t, out, `data-props="`+strings.Repeat("x", 200)+`"`)
	assert.Contains(t, out, "content")
}

func TestSimplifyHTMLTruncatesOnRuneBoundary(t *testing.T) {
	raw := "<p>" + strings.Repeat("日本語テキスト", 200) + "</p>"

	out, err := SimplifyHTML(raw, 100)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(out))
}

func TestSimplifyHTMLCapsLength(t *testing.T) {
	raw := "<div>" + strings.Repeat("lorem ipsum dolor sit amet ", 500) + "</div>"

	out, err := SimplifyHTML(raw, 200)
	require.NoError(t, err)
	// The cap bounds content; tag overhead stays small.
	assert.Less(t, len(out), 400)
}
