// Package util provides shared utility functions for ddsnap.
package util

import "strings"

// Slugify converts a label into a filesystem-safe slug: lowercase, with
// runs of non-alphanumeric characters collapsed into single hyphens.
// Returns fallback when the input produces an empty slug.
func Slugify(text, fallback string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return fallback
	}
	return slug
}

// Truncate truncates a string to max bytes, appending "..." if truncated.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
