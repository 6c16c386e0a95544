// internal/feed/merge.go
package feed

import "sort"

// Combine merges freshly fetched relevant items with the previously cached
// ones according to the strategy. Neither input slice is modified.
func (m MergeStrategy) Combine(fetched, cached []Item) []Item {
	if m == UnshiftAboveWatermark {
		return mergeAboveWatermark(fetched, cached)
	}
	return mergeAppendMissing(fetched, cached)
}

// mergeAppendMissing starts from the fetched set and appends every cached
// item not already present by ID. Fetched items keep their upstream
// positions; stale-but-cached items survive as a tail. The result is not
// re-sorted by date: upstream feeds are served date-descending, so
// "new first, surviving old after" preserves the overall order.
func mergeAppendMissing(fetched, cached []Item) []Item {
	seen := make(map[string]struct{}, len(fetched))
	for _, item := range fetched {
		seen[item.ID] = struct{}{}
	}
	merged := make([]Item, len(fetched), len(fetched)+len(cached))
	copy(merged, fetched)
	for _, item := range cached {
		if _, ok := seen[item.ID]; !ok {
			merged = append(merged, item)
		}
	}
	return merged
}

// mergeAboveWatermark sorts the fetched items by SortKey descending and
// prepends those strictly above the highest SortKey already cached. The
// cached list passes through untouched, so the result stays sorted without
// a full merge and nothing already cached is reinserted. The explicit sort
// guarantees a monotonic prefix even when filtering disturbed the upstream
// order.
func mergeAboveWatermark(fetched, cached []Item) []Item {
	var watermark int64
	for _, item := range cached {
		if item.SortKey > watermark {
			watermark = item.SortKey
		}
	}

	sorted := make([]Item, len(fetched))
	copy(sorted, fetched)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortKey > sorted[j].SortKey
	})

	fresh := make([]Item, 0, len(sorted))
	for _, item := range sorted {
		if item.SortKey > watermark {
			fresh = append(fresh, item)
		}
	}
	return append(fresh, cached...)
}
