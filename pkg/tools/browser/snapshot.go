package browser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// maxAttrLength bounds a single attribute value in the snapshot. React-style
// pages serialize multi-KB state blobs into data-* attributes; past this
// length the value carries no targeting signal.
const maxAttrLength = 200

// SimplifyHTML reduces raw page HTML to the semantic skeleton the scroll
// strategist reasons over: scripts, styles, and embedded media are dropped,
// structure and targeting attributes (id, class, role, aria-*, data-*) are
// preserved with oversized values truncated, and output is capped at
// maxLength bytes. Only closing tags for already-open elements may run past
// the cap.
func SimplifyHTML(rawHTML string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultSnapshotLength
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var b strings.Builder
	length := 0
	writeSimplified(doc, &b, &length, maxLength)
	return b.String(), nil
}

// writeSimplified walks the node tree, emitting kept elements and text.
// Returns true once the length cap is hit.
func writeSimplified(n *html.Node, b *strings.Builder, length *int, maxLength int) bool {
	if *length >= maxLength {
		return true
	}

	switch n.Type {
	case html.CommentNode:
		return false

	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return false
		}
		if *length+len(text) > maxLength {
			text = truncateAtRune(text, maxLength-*length)
			b.WriteString(text)
			*length = maxLength
			return true
		}
		b.WriteString(text)
		*length += len(text)
		return false

	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if droppedTags[tag] {
			return false
		}

		open := openTag(tag, n.Attr)
		if *length+len(open) > maxLength {
			return true
		}
		b.WriteString(open)
		*length += len(open)

		truncated := writeChildren(n, b, length, maxLength)

		if !voidTags[tag] {
			b.WriteString("</")
			b.WriteString(tag)
			b.WriteString(">")
			*length += len(tag) + 3
		}
		return truncated
	}

	return writeChildren(n, b, length, maxLength)
}

func writeChildren(n *html.Node, b *strings.Builder, length *int, maxLength int) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if writeSimplified(c, b, length, maxLength) {
			return true
		}
	}
	return false
}

// openTag renders the opening tag with kept attributes. Every byte emitted
// here is charged against the snapshot cap by the caller.
func openTag(tag string, attrs []html.Attribute) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, attr := range attrs {
		if !keepAttribute(tag, strings.ToLower(attr.Key)) {
			continue
		}
		val := attr.Val
		if len(val) > maxAttrLength {
			val = truncateAtRune(val, maxAttrLength)
		}
		fmt.Fprintf(&b, ` %s="%s"`, attr.Key, html.EscapeString(val))
	}
	b.WriteString(">")
	return b.String()
}

// truncateAtRune cuts s to at most n bytes without splitting a rune.
func truncateAtRune(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// droppedTags are removed entirely, subtree included.
var droppedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"embed":    true,
	"object":   true,
	"svg":      true,
	"link":     true,
	"meta":     true,
}

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"hr": true, "img": true, "input": true, "source": true,
	"track": true, "wbr": true,
}

// keepAttribute keeps what helps the strategist target elements.
func keepAttribute(tag, attr string) bool {
	switch attr {
	case "id", "class", "role":
		return true
	}
	if strings.HasPrefix(attr, "aria-") || strings.HasPrefix(attr, "data-") {
		return true
	}
	switch tag {
	case "a":
		return attr == "href"
	case "input", "textarea", "select":
		return attr == "name" || attr == "type" || attr == "placeholder"
	case "button":
		return attr == "type"
	}
	return false
}
