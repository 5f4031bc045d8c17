// Package render turns assistant answers into HTML for the chat view.
package render

import (
	"strings"

	"github.com/russross/blackfriday"
)

// Markdown renders text as HTML. Blank input renders as an empty string.
func Markdown(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return string(blackfriday.MarkdownCommon([]byte(text)))
}
