// internal/feed/transform.go
package feed

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Transform rewrites an item before it is cached. Every Transform must be
// idempotent: cached items pass through the source's transform again on
// later reads, so applying it twice has to equal applying it once.
type Transform func(Item) Item

// ComposeTransforms chains transforms left to right.
func ComposeTransforms(transforms ...Transform) Transform {
	return func(item Item) Item {
		for _, t := range transforms {
			item = t(item)
		}
		return item
	}
}

// ExtractImage returns a Transform that promotes the first <img> whose src
// matches pattern out of the item body into Image, then drops the body so
// the cached entry stays small. A nil pattern accepts any https image. An
// Image already set (media thumbnail from the fetch) is never overwritten.
func ExtractImage(pattern *regexp.Regexp) Transform {
	return func(item Item) Item {
		if item.BodyHTML == "" {
			return item
		}
		if item.Image == "" {
			if src := findImageSrc(item.BodyHTML, pattern); src != "" {
				item.Image = src
			}
		}
		item.BodyHTML = ""
		return item
	}
}

// findImageSrc scans an HTML fragment for the first <img> src accepted by
// pattern.
func findImageSrc(fragment string, pattern *regexp.Regexp) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	var found string
	doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, _ := sel.Attr("src")
		switch {
		case pattern == nil && strings.HasPrefix(src, "https://"):
			found = src
		case pattern != nil && pattern.MatchString(src):
			found = src
		default:
			return true
		}
		return false
	})
	return found
}

// StripReadMore returns a Transform that replaces a trailing boilerplate
// "read more" link in the item body. The replacement must not itself match
// re, otherwise the transform stops being idempotent.
func StripReadMore(re *regexp.Regexp, replacement string) Transform {
	return func(item Item) Item {
		if item.BodyHTML != "" {
			item.BodyHTML = re.ReplaceAllString(item.BodyHTML, replacement)
		}
		return item
	}
}

// ShortenSummary returns a Transform that reduces Summary to plain text of
// at most max runes, preferring to cut on a word boundary, with a trailing
// ellipsis when anything was dropped. A summary that is already plain and
// short enough passes through unchanged.
func ShortenSummary(max int) Transform {
	return func(item Item) Item {
		item.Summary = shortenText(item.Summary, max)
		return item
	}
}

func shortenText(s string, max int) string {
	plain := strings.TrimSpace(StripHTML(s))
	runes := []rune(plain)
	if len(runes) <= max {
		return plain
	}
	cut := runes[:max-1] // leave room for the ellipsis
	if idx := lastBoundary(cut); idx > max/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(string(cut), " \t\n.,([") + "…"
}

// lastBoundary returns the index of the last space or soft punctuation rune,
// or -1.
func lastBoundary(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case ' ', '\t', '\n', '.', ',', '(', '[':
			return i
		}
	}
	return -1
}

// StripHTML returns the text content of an HTML fragment. Entities are left
// exactly as written so that stripping already-stripped text is a no-op.
func StripHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return fragment
	}
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF or malformed markup; keep what we have.
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Raw())
		}
	}
}
