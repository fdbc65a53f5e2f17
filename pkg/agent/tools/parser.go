package tools

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

const maxXMLSize = 10 * 1024 * 1024 // 10MB limit for XML tool calls

var toolRegex = regexp.MustCompile(`(?s)<tool>.*?</tool>`)

// ampersandEntityRegex matches ampersands that are already part of XML entities
// to avoid double-escaping them. Matches: &amp; &lt; &gt; &quot; &apos; &#123; &#xAB;
var ampersandEntityRegex = regexp.MustCompile(`&(?:amp|lt|gt|quot|apos|#\d+|#x[0-9a-fA-F]+);`)

// ParseToolCall extracts a tool call from text containing an XML-formatted
// tool invocation.
//
// Expected format:
//
//	<tool>
//	<tool_name>navigate</tool_name>
//	<arguments>
//	  <url>example.com</url>
//	</arguments>
//	</tool>
//
// Returns the parsed ToolCall and the remaining text after removing the
// tool call, or an error if parsing fails.
func ParseToolCall(text string) (*ToolCall, string, error) {
	if len(text) > maxXMLSize {
		return nil, text, fmt.Errorf("tool call XML exceeds maximum size of %d bytes", maxXMLSize)
	}

	match := toolRegex.FindString(text)
	if match == "" {
		return nil, text, fmt.Errorf("no tool call found in text")
	}

	toolXML := strings.TrimSpace(match)

	var toolCall ToolCall
	if err := UnmarshalXMLWithFallback([]byte(toolXML), &toolCall); err != nil {
		snippet := toolXML
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		return nil, text, fmt.Errorf("failed to unmarshal tool call XML: %w\nXML snippet: %s", err, snippet)
	}

	if toolCall.ToolName == "" {
		return nil, text, fmt.Errorf("tool_name is required in tool call")
	}

	remainingText := strings.TrimSpace(toolRegex.ReplaceAllString(text, ""))

	return &toolCall, remainingText, nil
}

// HasToolCall checks if the text contains a tool call.
func HasToolCall(text string) bool {
	return toolRegex.MatchString(text)
}

// UnmarshalXMLWithFallback attempts to unmarshal XML, with fallback to
// escape unescaped ampersands if the initial parse fails. This improves
// robustness when callers paste URLs containing bare & characters.
func UnmarshalXMLWithFallback(data []byte, v interface{}) error {
	err := xml.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	escaped := escapeUnescapedAmpersands(data)
	return xml.Unmarshal(escaped, v)
}

// escapeUnescapedAmpersands replaces bare & with &amp; while preserving
// existing entities (&amp;, &lt;, &gt;, &quot;, &apos;, &#..;)
func escapeUnescapedAmpersands(data []byte) []byte {
	text := string(data)

	entityPositions := make(map[int]bool)
	matches := ampersandEntityRegex.FindAllStringIndex(text, -1)
	for _, match := range matches {
		entityPositions[match[0]] = true
	}

	var result strings.Builder
	result.Grow(len(text) + 20)

	for i := 0; i < len(text); i++ {
		if text[i] == '&' && !entityPositions[i] {
			result.WriteString("&amp;")
		} else {
			result.WriteByte(text[i])
		}
	}

	return []byte(result.String())
}
