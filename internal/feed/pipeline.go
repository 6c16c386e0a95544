// internal/feed/pipeline.go
package feed

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"feedbender/internal/cache"
)

// ItemFetcher retrieves and parses one upstream feed. A failed fetch is an
// empty slice, never an error.
type ItemFetcher interface {
	Fetch(ctx context.Context, url string) []Item
}

// Pipeline runs the load/filter/refresh/merge/persist cycle shared by every
// source.
//
// The cache store is the only state shared between requests. Two concurrent
// requests for the same cold source can both miss the freshness check, both
// fetch and both write; the second write wins. That race is accepted, not
// locked away: each write holds a superset of the relevant items and the
// next request reads a consistent entry again.
type Pipeline struct {
	store   cache.Store
	fetcher ItemFetcher
	logger  *log.Logger
	now     func() time.Time
}

func NewPipeline(store cache.Store, fetcher ItemFetcher, logger *log.Logger) *Pipeline {
	return &Pipeline{store: store, fetcher: fetcher, logger: logger, now: time.Now}
}

// Items returns the current item list for one source: the re-filtered cache
// entry when it is still fresh, otherwise the merge of a fresh fetch with
// the surviving cached items, truncated to the policy's maximum and written
// back. It never fails because the upstream is unreachable; an empty cache
// combined with a failed fetch simply yields an empty list.
func (p *Pipeline) Items(ctx context.Context, policy SourcePolicy) []Item {
	requestTime := p.now()

	entry := p.loadEntry(ctx, policy)
	cached := policy.RefilterCached(entry.Items)

	if len(cached) > 0 && requestTime.Sub(entry.CachedAt) < policy.Freshness {
		p.logger.Printf("%s: serving %d cached items (refreshed %s)",
			policy.Name, len(cached), entry.CachedAt.Format(time.RFC3339))
		return cached
	}

	fetched := policy.FilterItems(p.fetcher.Fetch(ctx, policy.FeedURL))

	merged := policy.Merge.Combine(fetched, cached)
	if policy.MaxItems > 0 && len(merged) > policy.MaxItems {
		merged = merged[:policy.MaxItems]
	}

	if len(merged) > len(cached) {
		p.logger.Printf("%s: %d new item(s)", policy.Name, len(merged)-len(cached))
	}
	if len(merged) > 0 {
		p.persist(ctx, policy, CacheEntry{CachedAt: requestTime, Items: merged})
	}
	return merged
}

// loadEntry reads and decodes the source's cache entry. A missing key, a
// read error and an unparseable value all come back as a zero entry: the
// pipeline then treats the source as cold and refreshes.
func (p *Pipeline) loadEntry(ctx context.Context, policy SourcePolicy) CacheEntry {
	raw, err := p.store.Get(ctx, policy.CacheKey)
	if err != nil {
		p.logger.Printf("%s: error reading cache: %v", policy.Name, err)
		return CacheEntry{}
	}
	if len(raw) == 0 {
		return CacheEntry{}
	}
	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		p.logger.Printf("%s: discarding corrupt cache entry: %v", policy.Name, err)
		return CacheEntry{}
	}
	return entry
}

// persist writes the merged entry back. A rejected write (typically the
// store's size cap) is logged and swallowed: the request is still served
// from the in-memory result and the store keeps its previous entry.
func (p *Pipeline) persist(ctx context.Context, policy SourcePolicy, entry CacheEntry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		p.logger.Printf("%s: error encoding cache entry: %v", policy.Name, err)
		return
	}
	if err := p.store.Set(ctx, policy.CacheKey, raw); err != nil {
		p.logger.Printf("%s: error updating cache: %v", policy.Name, err)
		return
	}
	p.logger.Printf("%s: cache updated (%d items)", policy.Name, len(entry.Items))
}
