// internal/feed/policy.go
package feed

import "time"

// MergeStrategy selects how freshly fetched items are combined with the
// previously cached ones.
type MergeStrategy int

const (
	// AppendMissing keeps the fetched items in front and appends every
	// cached item whose ID is not among them. Used by date-ordered news
	// sources.
	AppendMissing MergeStrategy = iota

	// UnshiftAboveWatermark prepends only fetched items whose SortKey
	// strictly exceeds the highest SortKey already cached. Used by forum
	// sources whose numeric thread ids grow monotonically.
	UnshiftAboveWatermark
)

// ChannelInfo is the source metadata carried into the rendered feed
// document.
type ChannelInfo struct {
	Title       string
	Description string
	SiteURL     string
	Author      string // fallback author for items without one
	Logo        string
	Language    string
}

// SourcePolicy is the static per-source configuration: where to fetch,
// which items are relevant, how to rewrite them before caching, and how
// long the cache entry stays fresh. Policies are defined at startup and
// never persisted.
type SourcePolicy struct {
	Name      string        // short identifier used in logs and cache keys
	Category  string        // first path segment, e.g. "canon"
	Slug      string        // path stem: /<Category>/<Slug>feed.<ext>
	FeedURL   string        // upstream feed to fetch
	CacheKey  string        // owned exclusively by this source
	Freshness time.Duration // serve the cache unrefreshed while younger than this
	MaxItems  int           // bound on the cached and served item count
	Merge     MergeStrategy
	Keep      func(Item) bool // relevance predicate; nil keeps everything
	Transform Transform       // optional item rewrite; must be idempotent

	// TrustCached skips the Keep predicate for items read back from the
	// cache. Set it when the predicate inspects the body and Transform
	// drops the body before caching: such items passed the full check
	// once and would wrongly be pruned on re-read.
	TrustCached bool

	Channel ChannelInfo
}

// FilterItems applies the policy's relevance predicate and transform to
// freshly fetched items.
func (p SourcePolicy) FilterItems(items []Item) []Item {
	return p.filter(items, p.Keep)
}

// RefilterCached re-applies the policy to items read back from the cache,
// so a policy change (say, a new skip category) retroactively prunes old
// cache content without any migration. A TrustCached policy applies only
// the transform.
func (p SourcePolicy) RefilterCached(items []Item) []Item {
	if p.TrustCached {
		return p.filter(items, nil)
	}
	return p.filter(items, p.Keep)
}

func (p SourcePolicy) filter(items []Item, keep func(Item) bool) []Item {
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if keep != nil && !keep(item) {
			continue
		}
		if p.Transform != nil {
			item = p.Transform(item)
		}
		kept = append(kept, item)
	}
	return kept
}

// Path returns the route for this source with the given extension
// ("json" or "rss").
func (p SourcePolicy) Path(ext string) string {
	return "/" + p.Category + "/" + p.Slug + "feed." + ext
}
