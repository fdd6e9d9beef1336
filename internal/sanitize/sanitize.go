// Package sanitize cleans free-form user input before it reaches Reddit.
package sanitize

import (
	"regexp"
	"strings"
)

const maxQueryLength = 200

var (
	subredditPattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,21}$`)
	cursorPattern    = regexp.MustCompile(`^[A-Za-z0-9_]{1,50}$`)

	queryStripper = strings.NewReplacer(
		"<", "",
		">", "",
		`"`, "",
		"'", "",
		"&", "",
		"`", "",
	)
)

// SourceName normalizes a user supplied subreddit name. "r/golang" and
// " golang " both yield "golang". The second return value is false when the
// name cannot be used.
func SourceName(raw string) (string, bool) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(raw), "r/")
	if !subredditPattern.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}

// QueryText truncates search text to 200 characters and strips characters
// that are unsafe to echo back into HTML or URLs.
func QueryText(raw string) string {
	runes := []rune(raw)
	if len(runes) > maxQueryLength {
		raw = string(runes[:maxQueryLength])
	}
	return queryStripper.Replace(raw)
}

// Cursor reports whether a pagination token looks like one Reddit issued.
func Cursor(raw string) (string, bool) {
	if !cursorPattern.MatchString(raw) {
		return "", false
	}
	return raw, true
}
