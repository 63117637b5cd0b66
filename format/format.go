// Package format renders responses for display.
package format

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"

	"answerbase/agent"
)

var numberedItem = regexp.MustCompile(`^\d+\.\s`)

var quoteReplacer = strings.NewReplacer(
	"“", "\"",
	"”", "\"",
	"‘", "'",
	"’", "'",
)

// PreprocessText straightens curly quotes.
func PreprocessText(text string) string {
	if text == "" {
		return text
	}
	return quoteReplacer.Replace(text)
}

// ToHTML renders a response as an HTML fragment. Markdown goes through the markdown
// renderer, Text is escaped into a paragraph and JSON is pretty-printed in a <pre> block.
func ToHTML(r agent.ResponseFormat) (string, error) {
	switch v := r.(type) {
	case nil:
		return "", nil
	case agent.Text:
		return "<p>" + html.EscapeString(PreprocessText(string(v))) + "</p>\n", nil
	case agent.Markdown:
		md := normalizeMarkdownLists(PreprocessText(string(v)))
		return string(markdown.ToHTML([]byte(md), nil, nil)), nil
	case agent.JSON:
		pretty, err := json.MarshalIndent(v.Value, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode JSON response: %w", err)
		}
		return "<pre><code class=\"language-json\">" + html.EscapeString(string(pretty)) + "</code></pre>\n", nil
	default:
		return "", fmt.Errorf("unsupported response type %T", r)
	}
}

// Pretty renders a response for a terminal: JSON is indented, everything else is its text.
func Pretty(r agent.ResponseFormat) string {
	switch v := r.(type) {
	case nil:
		return ""
	case agent.JSON:
		pretty, err := json.MarshalIndent(v.Value, "", "  ")
		if err != nil {
			return v.String()
		}
		return string(pretty)
	case agent.Text:
		return PreprocessText(string(v))
	case agent.Markdown:
		return PreprocessText(string(v))
	default:
		return r.String()
	}
}

func isListItem(line string) bool {
	return strings.HasPrefix(line, "- ") ||
		strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "+ ") ||
		numberedItem.MatchString(line)
}

// normalizeMarkdownLists inserts the blank line markdown needs before a list that directly
// follows a paragraph line.
func normalizeMarkdownLists(text string) string {
	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))

	for i, line := range lines {
		if i > 0 && isListItem(strings.TrimSpace(line)) {
			prev := strings.TrimSpace(lines[i-1])
			if prev != "" && !isListItem(prev) {
				result = append(result, "")
			}
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
