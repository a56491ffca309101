// Package url provides URL manipulation utilities for the session engine.
package url

import (
	"net/url"
	"strings"
)

// BlankURL is the sentinel for an empty page.
const BlankURL = "about:blank"

// Normalize adds https:// prefix if missing for URL-like inputs.
// Returns the input unchanged if it already has a scheme or doesn't look
// like a URL.
func Normalize(input string) string {
	if input == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(input, "http://"):
		return input
	case strings.HasPrefix(input, "https://"):
		return input
	case strings.HasPrefix(input, "file://"):
		return input
	case strings.HasPrefix(input, "about:"):
		return input
	}

	if strings.Contains(input, ".") && !containsWhitespace(input) {
		return "https://" + input
	}

	return input
}

// LooksLikeURL checks if the input appears to be a URL rather than a search
// query: it contains a scheme separator, or contains a dot and no whitespace.
func LooksLikeURL(input string) bool {
	if input == "" {
		return false
	}
	if strings.Contains(input, "://") || strings.HasPrefix(input, "about:") {
		return true
	}
	return strings.Contains(input, ".") && !containsWhitespace(input)
}

func containsWhitespace(s string) bool {
	return strings.ContainsAny(s, " \t\n")
}

// ExtractHostname extracts the normalized hostname from a URL string,
// stripping any "www." prefix.
func ExtractHostname(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

// SanitizeHostForFilename converts a hostname to a safe .ico filename.
func SanitizeHostForFilename(host string) string {
	var b strings.Builder
	for _, r := range host {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String() + ".ico"
}
