// internal/sources/sources.go
// Package sources holds the static catalogue of proxied feeds. Each entry
// binds an upstream feed URL to the filtering, caching and channel policy
// used when serving it.
package sources

import (
	"time"

	"feedbender/internal/config"
	"feedbender/internal/feed"
)

// All returns every configured source policy, in route registration order.
func All() []feed.SourcePolicy {
	var out []feed.SourcePolicy
	out = append(out, canonSources()...)
	out = append(out, miscSources()...)
	return out
}

// ApplyOverrides adjusts catalogue entries from config, keyed by
// "<category>/<slug>". Unknown keys are ignored, zero fields keep the
// compiled defaults.
func ApplyOverrides(catalogue []feed.SourcePolicy, overrides map[string]config.SourceOverride) {
	for i := range catalogue {
		o, ok := overrides[catalogue[i].Category+"/"+catalogue[i].Slug]
		if !ok {
			continue
		}
		if o.FreshnessMinutes > 0 {
			catalogue[i].Freshness = time.Duration(o.FreshnessMinutes) * time.Minute
		}
		if o.MaxItems > 0 {
			catalogue[i].MaxItems = o.MaxItems
		}
	}
}

// ByPath looks a source up by category and slug.
func ByPath(category, slug string) (feed.SourcePolicy, bool) {
	for _, s := range All() {
		if s.Category == category && s.Slug == slug {
			return s, true
		}
	}
	return feed.SourcePolicy{}, false
}
