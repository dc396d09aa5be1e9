package utils

import (
	"regexp"
	"strings"
)

var (
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugInvalid  = regexp.MustCompile(`[^a-z0-9\-_.]`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify normalizes a name for search matching: lowercased, spaces to
// dashes, everything outside [a-z0-9-_.] stripped, dash runs collapsed.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
