// internal/feed/fetcher.go
package feed

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"

	"feedbender/internal/security/netutil"
)

const (
	// DefaultFetchTimeout bounds one upstream request end to end.
	DefaultFetchTimeout = 15 * time.Second

	// maxFeedBytes limits how much of a response body is parsed, so a
	// misbehaving upstream cannot make us read forever.
	maxFeedBytes = 5 << 20
)

// Fetcher retrieves and parses remote feeds into normalized items.
//
// Fetch never reports an error to the caller: any network, status or parse
// failure is logged and degrades to an empty item list, which lets the
// pipeline fall back to cached content transparently.
type Fetcher struct {
	logger  *log.Logger
	parser  *gofeed.Parser
	client  *http.Client
	agent   string
	timeout time.Duration
}

// NewFetcher creates a fetcher identifying itself with userAgent. A zero
// timeout selects DefaultFetchTimeout.
func NewFetcher(logger *log.Logger, userAgent string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
	}
	return &Fetcher{
		logger: logger,
		parser: gofeed.NewParser(),
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		agent:   userAgent,
		timeout: timeout,
	}
}

// Fetch retrieves one feed and returns its items, newest first in upstream
// order. On any failure it returns an empty slice.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) []Item {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		f.logger.Printf("Error creating request for %s: %v", feedURL, err)
		return nil
	}
	req.Header.Set("User-Agent", f.agent)

	// Block destinations in private/reserved ranges (loopback stays allowed
	// for tests).
	if host := req.URL.Hostname(); privateDestination(host) {
		f.logger.Printf("Refusing to fetch %s: destination resolves to a private/reserved address", feedURL)
		return nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Printf("Error fetching feed %s: %v", feedURL, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Printf("Unexpected response status %d from %s", resp.StatusCode, feedURL)
		return nil
	}

	parsed, err := f.parser.Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		f.logger.Printf("Error parsing feed %s: %v", feedURL, err)
		return nil
	}

	fetchTime := time.Now()
	items := make([]Item, 0, len(parsed.Items))
	for _, raw := range parsed.Items {
		items = append(items, normalizeItem(raw, fetchTime))
	}
	f.logger.Printf("Fetched %d items from %s", len(items), feedURL)
	return items
}

func privateDestination(host string) bool {
	if host == "" {
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		return netutil.IsPrivateIP(ip) && !ip.IsLoopback()
	}
	addrs, err := net.LookupIP(host)
	if err != nil {
		// Unresolvable hosts fail at dial time with a clearer error.
		return false
	}
	for _, a := range addrs {
		if netutil.IsPrivateIP(a) && !a.IsLoopback() {
			return true
		}
	}
	return false
}

// normalizeItem converts a parsed feed entry into an Item. The GUID falls
// back to the permalink so dedup by ID keeps working; a missing publish
// date defaults to the fetch time.
func normalizeItem(raw *gofeed.Item, fetchTime time.Time) Item {
	item := Item{
		ID:       raw.GUID,
		Title:    raw.Title,
		Link:     raw.Link,
		Summary:  raw.Description,
		BodyHTML: raw.Content,
	}
	if item.ID == "" {
		item.ID = raw.Link
	}

	published := raw.PublishedParsed
	if published == nil {
		published = raw.UpdatedParsed
	}
	if published != nil {
		item.PublishedAt = *published
	} else {
		item.PublishedAt = fetchTime
	}

	if len(raw.Authors) > 0 && raw.Authors[0] != nil {
		item.Author = raw.Authors[0].Name
	} else if raw.Author != nil {
		item.Author = raw.Author.Name
	}

	item.Categories = append(item.Categories, raw.Categories...)

	for _, enc := range raw.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		length, _ := strconv.ParseInt(enc.Length, 10, 64)
		item.Enclosures = append(item.Enclosures, Enclosure{
			URL:    enc.URL,
			Type:   enc.Type,
			Length: length,
		})
	}

	if raw.Image != nil {
		item.Image = raw.Image.URL
	}

	// Forum feeds use bare numeric thread ids as GUIDs; carry the value so
	// the watermark merge can order by it.
	if key, err := strconv.ParseInt(raw.GUID, 10, 64); err == nil {
		item.SortKey = key
	}

	return item
}
