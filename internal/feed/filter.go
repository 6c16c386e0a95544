// internal/feed/filter.go
package feed

import (
	"regexp"
	"strings"
)

// WordMatcher matches a keyword as a whole word, case-insensitively.
// Substring hits inside larger tokens do not count: "canon" does not match
// "canonical". Matchers are compiled once per source at startup and are safe
// for concurrent use.
type WordMatcher struct {
	re *regexp.Regexp
}

// MatchWord compiles a whole-word matcher for keyword.
func MatchWord(keyword string) WordMatcher {
	return WordMatcher{re: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)}
}

// MatchString reports whether the keyword occurs as a whole word in s.
func (m WordMatcher) MatchString(s string) bool {
	return m.re.MatchString(s)
}

// MatchesItem reports whether the keyword occurs in the item's title,
// summary or any of its category names.
func (m WordMatcher) MatchesItem(item Item) bool {
	if m.re.MatchString(item.Title) || m.re.MatchString(item.Summary) {
		return true
	}
	for _, category := range item.Categories {
		if m.re.MatchString(category) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether any of the matchers matches s.
func MatchesAny(s string, matchers ...WordMatcher) bool {
	for _, m := range matchers {
		if m.MatchString(s) {
			return true
		}
	}
	return false
}

// InSkipCategory reports whether any of the item's category names contains
// one of the skip strings. Unlike keyword matching this is deliberately a
// substring test, so "weekly deal zone picks" is still rejected by
// "deal zone". Skip strings must be lowercase.
func InSkipCategory(item Item, skip []string) bool {
	if len(skip) == 0 {
		return false
	}
	for _, category := range item.Categories {
		name := strings.ToLower(strings.TrimSpace(category))
		for _, s := range skip {
			if s != "" && strings.Contains(name, s) {
				return true
			}
		}
	}
	return false
}
