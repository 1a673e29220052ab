package catalog

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripTags = bluemonday.StrictPolicy()

// cleanText drops markup from a form value and keeps the remaining text raw.
// bluemonday entity-encodes what it keeps; templates escape on output, so the
// stored value must not carry entities.
func cleanText(input string) string {
	return strings.TrimSpace(html.UnescapeString(stripTags.Sanitize(input)))
}
