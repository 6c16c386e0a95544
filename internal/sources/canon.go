// internal/sources/canon.go
package sources

import (
	"regexp"
	"strings"
	"time"

	"feedbender/internal/feed"
)

var (
	matchCanon   = feed.MatchWord("canon")
	matchEOS     = feed.MatchWord("eos")
	matchRF      = feed.MatchWord("rf")
	matchRFMount = feed.MatchWord("rf-mount")

	ymcImagePattern   = regexp.MustCompile(`^https://ymcinema\.com/wp-content/uploads/.+\.(webp|jpg|avif|jxl)$`)
	cinedImagePattern = regexp.MustCompile(`^https://www\.cined\.com/content/uploads/.+\.(webp|jpg|jpeg|avif|jxl)`)

	dprReadMorePattern = regexp.MustCompile(`<a\s+href="https://www\.dpreview\.com/forums/threads/[a-zA-Z0-9./_-]+"\s+class="link\s+link--internal">Read\s+more</a></div>$`)
)

// crForumArticleSuffix and crForumBotSuffix identify forum threads that are
// auto-created comment sections for main-site posts. Detection is a
// heuristic over the thread body, the feed itself carries no thread type.
const (
	crForumArticleSuffix = `See full article...</a></div>`
	crForumBotSuffix     = "\n\t\t\t\t\t\t\n\t\t\t\t\t</span>\n\t\t\t\t\twww.canonrumors.com\n\t\t\t\t</div>\n\t\t\t</div>\n\t\t</div>\n\t</div></div>"
	crForumBotAuthor     = "(Richard CR)"
)

func isCommentThread(item feed.Item) bool {
	if strings.HasSuffix(item.BodyHTML, crForumArticleSuffix) {
		return true
	}
	return strings.HasSuffix(item.BodyHTML, crForumBotSuffix) &&
		strings.HasSuffix(item.Author, crForumBotAuthor)
}

func canonSources() []feed.SourcePolicy {
	crSkip := []string{"deal zone", "dealzone", "buyers guide", "smart picks", "industry news", "canon reviews"}
	ymcSkip := []string{"deals", "amazon"}

	return []feed.SourcePolicy{
		{
			Name:      "canon-rumors",
			Category:  "canon",
			Slug:      "cr",
			FeedURL:   "https://www.canonrumors.com/feed/",
			CacheKey:  "cr-cache",
			Freshness: 60 * time.Minute,
			MaxItems:  12,
			Merge:     feed.AppendMissing,
			Keep: func(item feed.Item) bool {
				return !feed.InSkipCategory(item, crSkip)
			},
			Channel: feed.ChannelInfo{
				Title:       "Canon Rumors - Essential posts only",
				Description: "This is a filtered version of the official news feed from Canon Rumors. Posts in some categories are omitted",
				SiteURL:     "https://www.canonrumors.com/",
				Author:      "Canon Rumors",
				Logo:        "https://www.canonrumors.com/wp-content/uploads/2022/05/logo-alt.png",
			},
		},
		{
			Name:      "canon-rumors-forum",
			Category:  "canon",
			Slug:      "crforum",
			FeedURL:   "https://www.canonrumors.com/forum/forums/-/index.rss?order=post_date",
			CacheKey:  "crforum-cache",
			Freshness: 60 * time.Minute,
			MaxItems:  12,
			Merge:     feed.UnshiftAboveWatermark,
			Keep: func(item feed.Item) bool {
				return !isCommentThread(item)
			},
			Channel: feed.ChannelInfo{
				Title:       "Canon Rumors Forum - New threads",
				Description: "New threads from the Canon Rumors forum, without the comment threads auto-created for main site posts.",
				SiteURL:     "https://www.canonrumors.com/forum/",
				Author:      "Canon Rumors Forum user",
				Logo:        "https://www.canonrumors.com/wp-content/uploads/2022/05/logo-alt.png",
			},
		},
		{
			Name:      "ymcinema",
			Category:  "canon",
			Slug:      "ymc",
			FeedURL:   "https://ymcinema.com/tag/canon/feed/",
			CacheKey:  "ymc-cache",
			Freshness: 120 * time.Minute,
			MaxItems:  12,
			Merge:     feed.AppendMissing,
			Keep: func(item feed.Item) bool {
				return !feed.InSkipCategory(item, ymcSkip)
			},
			Transform: feed.ExtractImage(ymcImagePattern),
			Channel: feed.ChannelInfo{
				Title:       "Y.M Cinema - Canon related post only",
				Description: "This is a filtered version of the official news feed from Y.M Cinema with only the Canon related posts.",
				SiteURL:     "https://ymcinema.com/",
				Author:      "Y.M Cinema",
				Logo:        "https://ymcinema.com/wp-content/uploads/2018/07/Company-Logo.png",
			},
		},
		{
			Name:      "cined",
			Category:  "canon",
			Slug:      "cined",
			FeedURL:   "https://www.cined.com/feed",
			CacheKey:  "cined-cache",
			Freshness: 120 * time.Minute,
			MaxItems:  12,
			Merge:     feed.AppendMissing,
			Keep: func(item feed.Item) bool {
				return feed.MatchesAny(item.Title, matchCanon, matchEOS, matchRF)
			},
			Transform: feed.ExtractImage(cinedImagePattern),
			Channel: feed.ChannelInfo{
				Title:       "CineD - Canon related post only",
				Description: "This is a filtered version of the official news feed from CineD with only the Canon related posts.",
				SiteURL:     "https://cined.com/",
				Author:      "CineD",
				Logo:        "https://www.cined.com/content/themes/cinemad/assets/images/favicons/android-icon-192x192.png",
			},
		},
		{
			Name:      "image-sensors-world",
			Category:  "canon",
			Slug:      "isw",
			FeedURL:   "https://image-sensors-world.blogspot.com/feeds/posts/default?alt=rss",
			CacheKey:  "isw-cache",
			Freshness: 240 * time.Minute,
			MaxItems:  6,
			Merge:     feed.AppendMissing,
			Keep:      matchCanon.MatchesItem,
			Channel: feed.ChannelInfo{
				Title:       "Image Sensor World - Canon related post only",
				Description: "This is a filtered version of the official news feed from Image Sensor World with only the Canon related posts.",
				SiteURL:     "https://image-sensors-world.blogspot.com/",
				Author:      "Image Sensor World",
			},
		},
		{
			Name:      "photons-to-photos",
			Category:  "canon",
			Slug:      "p2psensor",
			FeedURL:   "https://www.photonstophotos.net/rss.xml",
			CacheKey:  "p2psensor-cache",
			Freshness: 180 * time.Minute,
			MaxItems:  12,
			Merge:     feed.AppendMissing,
			Keep:      matchCanon.MatchesItem,
			Channel: feed.ChannelInfo{
				Title:       "Photons to Photos (Sensor updates) - Canon related post only",
				Description: "This is a filtered version of the official news feed from Photons to Photos with only the Canon related posts.",
				SiteURL:     "https://www.photonstophotos.net/",
				Author:      "Photons to Photos",
			},
		},
		{
			Name:      "dpreview-forum-eosr",
			Category:  "canon",
			Slug:      "dprfeosr",
			FeedURL:   "https://www.dpreview.com/feeds/forums/1070",
			CacheKey:  "dprforumeosr-cache",
			Freshness: 60 * time.Minute,
			MaxItems:  12,
			Merge:     feed.AppendMissing,
			Channel: feed.ChannelInfo{
				Title:       "DPReview Forums - Canon EOS R talk",
				Description: "Canon EOS R talk - Keeping track of new threads (topics) in the DPreview Forum.",
				SiteURL:     "https://www.dpreview.com/feeds/forums/1070",
				Author:      "DPReview Forum user",
				Logo:        "https://2.img-dpreview.com/resources/images/logo-site-header.png",
			},
		},
		{
			Name:      "dpreview-forum-powershot",
			Category:  "canon",
			Slug:      "dprfpowershot",
			FeedURL:   "https://www.dpreview.com/feeds/forums/1010",
			CacheKey:  "dprforumpowershot-cache",
			Freshness: 60 * time.Minute,
			MaxItems:  12,
			Merge:     feed.AppendMissing,
			Channel: feed.ChannelInfo{
				Title:       "DPReview Forums - Canon PowerShot talk",
				Description: "Canon PowerShot talk - Keeping track of new threads (topics) in the DPreview Forum.",
				SiteURL:     "https://www.dpreview.com/feeds/forums/1010",
				Author:      "DPReview Forum user",
				Logo:        "https://2.img-dpreview.com/resources/images/logo-site-header.png",
			},
		},
		{
			Name:      "dpreview-forum-all",
			Category:  "canon",
			Slug:      "dprforumall",
			FeedURL:   "https://www.dpreview.com/forums/forums/-/index.rss?order=post_date",
			CacheKey:  "dprforumall-cache",
			Freshness: 60 * time.Minute,
			MaxItems:  12,
			Merge:     feed.UnshiftAboveWatermark,
			Transform: feed.StripReadMore(dprReadMorePattern, "</div>"),
			Channel: feed.ChannelInfo{
				Title:       "DPReview Forums - New threads (topics)",
				Description: "Keeping track of new threads (topics) in DPReview Forums",
				SiteURL:     "https://www.dpreview.com/forums/",
				Author:      "DPreview Forums users",
				Logo:        "https://www.dpreview.com/forums/data/styles/4/styles/dpreview/xenforo/icon.png",
			},
		},
		{
			Name:      "opticallimits",
			Category:  "canon",
			Slug:      "optlimits",
			FeedURL:   "https://opticallimits.com/category/canon/feed",
			CacheKey:  "optlimits-cache",
			Freshness: 180 * time.Minute,
			MaxItems:  12,
			Merge:     feed.AppendMissing,
			Channel: feed.ChannelInfo{
				Title:       "OpticalLimits - Canon mount lens reviews",
				Description: "Canon mount lens reviews from OpticalLimits",
				SiteURL:     "https://opticallimits.com/",
				Author:      "OpticalLimits",
			},
		},
		{
			Name:      "nikkei-asia",
			Category:  "canon",
			Slug:      "nikkei",
			FeedURL:   "https://asia.nikkei.com/rss/feed/nar",
			CacheKey:  "nikkei-cache",
			Freshness: 120 * time.Minute,
			MaxItems:  8,
			Merge:     feed.AppendMissing,
			Keep: func(item feed.Item) bool {
				return matchCanon.MatchString(item.Title)
			},
			Channel: feed.ChannelInfo{
				Title:       "Nikkei Asia - Canon related post only",
				Description: "This is a filtered version of the official news feed from Nikkei Asia with only the Canon related posts.",
				SiteURL:     "https://asia.nikkei.com/",
				Author:      "Nikkei",
				Logo:        "https://asia.nikkei.com/images/frontend/favicons/288x288.png",
			},
		},
		{
			Name:      "eos-magazine",
			Category:  "canon",
			Slug:      "eosmag",
			FeedURL:   "https://eos-magazine-news.blogspot.com/feeds/posts/default?alt=rss",
			CacheKey:  "eosmag-cache",
			Freshness: 120 * time.Minute,
			MaxItems:  12,
			Merge:     feed.AppendMissing,
			Transform: feed.ShortenSummary(500),
			Channel: feed.ChannelInfo{
				Title:       "EOS Magazine News",
				Description: "Posts from the EOS Magazine news.",
				SiteURL:     "https://eos-magazine-news.blogspot.com/",
				Author:      "EOS Magazine",
			},
		},
		{
			Name:      "sigma-uk",
			Category:  "canon",
			Slug:      "sigmauk",
			FeedURL:   "https://sigmauk.com/feed",
			CacheKey:  "sigmauk-cache",
			Freshness: 120 * time.Minute,
			MaxItems:  12,
			Merge:     feed.AppendMissing,
			Keep:      sigmaHasCanonReference,
			Transform: feed.ExtractImage(nil),
			// The predicate needs the body, which the image transform
			// drops before caching.
			TrustCached: true,
			Channel: feed.ChannelInfo{
				Title:       "Sigma UK - Canon related post only",
				Description: "This is a filtered version of the official news feed from Sigma UK with only the Canon related posts.",
				SiteURL:     "https://sigmauk.com/category/discover/news",
				Author:      "Sigma UK",
				Logo:        "https://sigmauk.com/wp-content/uploads/2025/02/SIGMA_Wordmark_Black_RGB.svg",
			},
		},
	}
}

// sigmaHasCanonReference keeps items mentioning Canon or the RF mount in
// the title, summary or body.
func sigmaHasCanonReference(item feed.Item) bool {
	for _, field := range []string{item.Title, item.Summary, item.BodyHTML} {
		if feed.MatchesAny(field, matchCanon, matchRF, matchRFMount) {
			return true
		}
	}
	return false
}
