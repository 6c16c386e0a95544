// internal/feed/types.go
package feed

import "time"

// Item is the normalized representation of one entry from an upstream feed.
// ID is stable across fetches of the same logical item; when the upstream
// feed carries no GUID the permalink is used instead, so deduplication by ID
// keeps working.
type Item struct {
	ID          string      `json:"id"`
	Title       string      `json:"title,omitempty"`
	Link        string      `json:"link,omitempty"`
	PublishedAt time.Time   `json:"publishedAt"`
	Summary     string      `json:"summary,omitempty"`
	BodyHTML    string      `json:"bodyHtml,omitempty"`
	Author      string      `json:"author,omitempty"`
	Categories  []string    `json:"categories,omitempty"`
	Enclosures  []Enclosure `json:"enclosures,omitempty"`

	// Image is a representative image URL, set from a media thumbnail at
	// fetch time or promoted out of the body by a transformer. An
	// image-typed enclosure still wins over it when rendering.
	Image string `json:"image,omitempty"`

	// SortKey carries the numeric GUID of forum-style sources, where
	// monotonically increasing thread ids replace publish-date ordering.
	// Zero everywhere else.
	SortKey int64 `json:"sortKey,omitempty"`
}

// Enclosure describes one attachment on an item.
type Enclosure struct {
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Length int64  `json:"length,omitempty"`
}

// CacheEntry is the per-source persisted state: the bounded list of items
// from the last successful refresh, newest first. It is always read and
// written whole; there is no incremental append.
type CacheEntry struct {
	CachedAt time.Time `json:"cachedAt"`
	Items    []Item    `json:"items"`
}
