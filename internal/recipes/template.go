package recipes

import (
	"regexp"
	"strings"
)

// Placeholder is replaced by the matched item's name in name and sprite templates.
const Placeholder = "{input}"

var whitespaceRun = regexp.MustCompile(`\s+`)

// ResolveName replaces every placeholder in template with inputName verbatim.
func ResolveName(template, inputName string) string {
	return strings.ReplaceAll(template, Placeholder, inputName)
}

// ResolveSpriteSlug replaces every placeholder in template with Slug(inputName).
func ResolveSpriteSlug(template, inputName string) string {
	return strings.ReplaceAll(template, Placeholder, Slug(inputName))
}

// Slug lower-cases name and collapses each whitespace run into one hyphen.
func Slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}
