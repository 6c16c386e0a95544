// internal/feed/pipeline_test.go
package feed

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"feedbender/internal/cache"
)

// stubFetcher returns canned items and counts calls, so tests can assert
// whether the freshness check short-circuited the network.
type stubFetcher struct {
	items []Item
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) []Item {
	s.calls++
	return s.items
}

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPipeline(store cache.Store, fetcher ItemFetcher) *Pipeline {
	p := NewPipeline(store, fetcher, log.New(io.Discard, "", 0))
	p.now = func() time.Time { return testTime }
	return p
}

func testPolicy() SourcePolicy {
	return SourcePolicy{
		Name:      "test",
		Category:  "canon",
		Slug:      "test",
		FeedURL:   "https://upstream.example.com/feed",
		CacheKey:  "test-cache",
		Freshness: time.Hour,
		MaxItems:  12,
		Merge:     AppendMissing,
	}
}

func seedCache(t *testing.T, store cache.Store, key string, entry CacheEntry) {
	t.Helper()
	raw, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}
	if err := store.Set(context.Background(), key, raw); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
}

func readCache(t *testing.T, store cache.Store, key string) (CacheEntry, bool) {
	t.Helper()
	raw, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	if raw == nil {
		return CacheEntry{}, false
	}
	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("decode cache: %v", err)
	}
	return entry, true
}

// Scenario: empty cache, successful fetch.
func TestPipeline_ColdCacheFetchAndPersist(t *testing.T) {
	store := cache.NewMemoryStore()
	fetcher := &stubFetcher{items: []Item{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	p := newTestPipeline(store, fetcher)

	got := p.Items(context.Background(), testPolicy())

	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	entry, ok := readCache(t, store, "test-cache")
	if !ok {
		t.Fatal("expected a cache entry after a successful refresh")
	}
	if len(entry.Items) != 3 {
		t.Errorf("cached %d items, want 3", len(entry.Items))
	}
	if !entry.CachedAt.Equal(testTime) {
		t.Errorf("CachedAt = %v, want request time %v", entry.CachedAt, testTime)
	}
}

// Scenario: fresh cache short-circuits the fetch entirely.
func TestPipeline_FreshCacheSkipsFetch(t *testing.T) {
	store := cache.NewMemoryStore()
	seedCache(t, store, "test-cache", CacheEntry{
		CachedAt: testTime.Add(-10 * time.Minute),
		Items:    []Item{{ID: "a"}, {ID: "b"}},
	})
	fetcher := &stubFetcher{items: []Item{{ID: "new"}}}
	p := newTestPipeline(store, fetcher)

	got := p.Items(context.Background(), testPolicy())

	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times, want 0", fetcher.calls)
	}
	if !sameIDs(got, "a", "b") {
		t.Errorf("got = %v, want the cached items", ids(got))
	}
}

// Re-filtering on read lets a policy change prune cached items.
func TestPipeline_RefiltersCacheOnRead(t *testing.T) {
	store := cache.NewMemoryStore()
	seedCache(t, store, "test-cache", CacheEntry{
		CachedAt: testTime.Add(-10 * time.Minute),
		Items: []Item{
			{ID: "keep", Categories: []string{"News"}},
			{ID: "drop", Categories: []string{"Deal Zone"}},
		},
	})
	policy := testPolicy()
	policy.Keep = func(item Item) bool { return !InSkipCategory(item, []string{"deal zone"}) }
	p := newTestPipeline(store, &stubFetcher{})

	got := p.Items(context.Background(), policy)

	if !sameIDs(got, "keep") {
		t.Errorf("got = %v, want the skip category pruned", ids(got))
	}
}

// A TrustCached policy inspects the body during fetch but caches items
// without one; re-reading must not prune them.
func TestPipeline_TrustCachedSkipsPredicateOnRead(t *testing.T) {
	store := cache.NewMemoryStore()
	seedCache(t, store, "test-cache", CacheEntry{
		CachedAt: testTime.Add(-10 * time.Minute),
		Items:    []Item{{ID: "vetted", Title: "unrelated title"}},
	})
	policy := testPolicy()
	policy.Keep = func(item Item) bool { return strings.Contains(item.BodyHTML, "wanted") }
	policy.TrustCached = true
	fetcher := &stubFetcher{}
	p := newTestPipeline(store, fetcher)

	got := p.Items(context.Background(), policy)

	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times, want 0", fetcher.calls)
	}
	if !sameIDs(got, "vetted") {
		t.Errorf("got = %v, want the cached item kept", ids(got))
	}
}

// Stale cache, failed fetch: serve the cached items, not an error.
func TestPipeline_FailOpenOnFetchFailure(t *testing.T) {
	store := cache.NewMemoryStore()
	seedCache(t, store, "test-cache", CacheEntry{
		CachedAt: testTime.Add(-2 * time.Hour),
		Items:    []Item{{ID: "a"}, {ID: "b"}},
	})
	fetcher := &stubFetcher{items: nil} // upstream down
	p := newTestPipeline(store, fetcher)

	got := p.Items(context.Background(), testPolicy())

	if fetcher.calls != 1 {
		t.Errorf("fetcher calls = %d, want 1", fetcher.calls)
	}
	if !sameIDs(got, "a", "b") {
		t.Errorf("got = %v, want cached items preserved", ids(got))
	}
	// The surviving items are re-persisted with a fresh timestamp, so the
	// upstream gets a grace period before the next attempt.
	entry, _ := readCache(t, store, "test-cache")
	if !entry.CachedAt.Equal(testTime) {
		t.Errorf("CachedAt = %v, want extended to %v", entry.CachedAt, testTime)
	}
}

// Cold cache and failed fetch yield an empty, valid result.
func TestPipeline_EmptyCacheEmptyFetch(t *testing.T) {
	store := cache.NewMemoryStore()
	p := newTestPipeline(store, &stubFetcher{})

	got := p.Items(context.Background(), testPolicy())

	if len(got) != 0 {
		t.Errorf("got %d items, want none", len(got))
	}
	if _, ok := readCache(t, store, "test-cache"); ok {
		t.Error("an empty result must not be persisted")
	}
}

// Scenario: forum-style watermark merge through the full pipeline.
func TestPipeline_WatermarkMerge(t *testing.T) {
	store := cache.NewMemoryStore()
	seedCache(t, store, "test-cache", CacheEntry{
		CachedAt: testTime.Add(-2 * time.Hour),
		Items:    []Item{{ID: "100", SortKey: 100}},
	})
	fetcher := &stubFetcher{items: []Item{
		{ID: "150", SortKey: 150},
		{ID: "90", SortKey: 90},
	}}
	policy := testPolicy()
	policy.Merge = UnshiftAboveWatermark
	p := newTestPipeline(store, fetcher)

	got := p.Items(context.Background(), policy)

	if !sameIDs(got, "150", "100") {
		t.Errorf("got = %v, want [150 100] (90 is below the watermark)", ids(got))
	}
}

func TestPipeline_TruncatesToMaxItems(t *testing.T) {
	store := cache.NewMemoryStore()
	var fetched []Item
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		fetched = append(fetched, Item{ID: id})
	}
	policy := testPolicy()
	policy.MaxItems = 3
	p := newTestPipeline(store, &stubFetcher{items: fetched})

	got := p.Items(context.Background(), policy)

	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	entry, _ := readCache(t, store, "test-cache")
	if len(entry.Items) != 3 {
		t.Errorf("cached %d items, want 3", len(entry.Items))
	}
}

// Scenario: oversized write is swallowed; the request still succeeds and
// the store keeps its previous entry.
func TestPipeline_OversizedWriteLeavesStoreUntouched(t *testing.T) {
	store := cache.NewMemoryStore()
	prior := CacheEntry{
		CachedAt: testTime.Add(-2 * time.Hour),
		Items:    []Item{{ID: "old"}},
	}
	seedCache(t, store, "test-cache", prior)

	huge := strings.Repeat("x", cache.MaxValueBytes)
	fetcher := &stubFetcher{items: []Item{{ID: "big", Summary: huge}}}
	p := newTestPipeline(store, fetcher)

	got := p.Items(context.Background(), testPolicy())

	if !sameIDs(got, "big", "old") {
		t.Errorf("got = %v, want the in-memory merge served anyway", ids(got))
	}
	entry, ok := readCache(t, store, "test-cache")
	if !ok {
		t.Fatal("prior entry is gone")
	}
	if !sameIDs(entry.Items, "old") || !entry.CachedAt.Equal(prior.CachedAt) {
		t.Errorf("store changed despite rejected write: %+v", entry)
	}
}

func TestPipeline_CorruptCacheTreatedAsCold(t *testing.T) {
	store := cache.NewMemoryStore()
	if err := store.Set(context.Background(), "test-cache", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	fetcher := &stubFetcher{items: []Item{{ID: "fresh"}}}
	p := newTestPipeline(store, fetcher)

	got := p.Items(context.Background(), testPolicy())

	if fetcher.calls != 1 {
		t.Errorf("fetcher calls = %d, want a refresh for a corrupt entry", fetcher.calls)
	}
	if !sameIDs(got, "fresh") {
		t.Errorf("got = %v", ids(got))
	}
}

func TestPipeline_TransformAppliedBeforeCaching(t *testing.T) {
	store := cache.NewMemoryStore()
	fetcher := &stubFetcher{items: []Item{{ID: "1", BodyHTML: "<p>huge body</p>", Summary: "s"}}}
	policy := testPolicy()
	policy.Transform = ExtractImage(nil)
	p := newTestPipeline(store, fetcher)

	got := p.Items(context.Background(), policy)

	if got[0].BodyHTML != "" {
		t.Error("transform not applied to served items")
	}
	entry, _ := readCache(t, store, "test-cache")
	if entry.Items[0].BodyHTML != "" {
		t.Error("transform not applied to cached items")
	}
}
