// internal/sources/misc.go
package sources

import (
	"time"

	"feedbender/internal/feed"
)

var (
	matchAx88u = feed.MatchWord("rt-ax88u")
	// Broad on purpose, the model-specific threads alone are too rare to
	// make a useful feed.
	matchFirmware = feed.MatchWord("firmware")
)

func miscSources() []feed.SourcePolicy {
	return []feed.SourcePolicy{
		{
			Name:      "asuswrt-firmware",
			Category:  "misc",
			Slug:      "asuswrt",
			FeedURL:   "https://www.snbforums.com/forums/51/index.rss?order=post_date",
			CacheKey:  "asuswrt-cache",
			Freshness: 120 * time.Minute,
			MaxItems:  6,
			Merge:     feed.UnshiftAboveWatermark,
			Keep: func(item feed.Item) bool {
				return matchAx88u.MatchString(item.Title) || matchFirmware.MatchString(item.Title)
			},
			Channel: feed.ChannelInfo{
				Title:       "Asus WRT - New RT-AX88U firmware threads (topics)",
				Description: "Keeping track of new RT-AX88U firmware threads (topics) in Asus WRT Forum",
				SiteURL:     "https://www.snbforums.com/forums/asuswrt-official.51/",
				Author:      "ASUS WRT Forum users",
				Logo:        "https://www.snbforums.com/styles/snb_new_round.jpg",
			},
		},
	}
}
