// internal/render/render.go
// Package render converts an ordered item list plus source metadata into a
// JSON Feed or RSS document. Missing optional item fields degrade to
// documented placeholders instead of being omitted, so the output schema
// stays stable across items.
package render

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"feedbender/internal/feed"
)

// Format selects the output document type.
type Format string

const (
	FormatJSON Format = "json"
	FormatRSS  Format = "rss"
)

const (
	jsonFeedVersion    = "https://jsonfeed.org/version/1.1"
	placeholderTitle   = "(No title)"
	placeholderContent = "<p>(No content)</p>"
	generatorName      = "feedbender"
	defaultLanguage    = "en-US"
)

// ParseFormat maps a path extension to a Format.
func ParseFormat(ext string) (Format, bool) {
	switch Format(ext) {
	case FormatJSON:
		return FormatJSON, true
	case FormatRSS:
		return FormatRSS, true
	}
	return "", false
}

// ContentType returns the response media type for the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/feed+json; charset=utf-8"
	}
	return "application/rss+xml; charset=utf-8"
}

// Render serializes items and channel metadata into a feed document.
// feedURL is the document's own address (the atom self link / feed_url).
// A serialization failure is the one error class with no fallback; callers
// turn it into a 5xx.
func Render(items []feed.Item, channel feed.ChannelInfo, feedURL string, format Format) ([]byte, error) {
	if channel.Language == "" {
		channel.Language = defaultLanguage
	}
	if format == FormatJSON {
		return renderJSON(items, channel, feedURL)
	}
	return renderRSS(items, channel, feedURL)
}

func renderJSON(items []feed.Item, channel feed.ChannelInfo, feedURL string) ([]byte, error) {
	author := &feeds.JSONAuthor{Name: channel.Author, Url: channel.SiteURL}
	document := &feeds.JSONFeed{
		Version:     jsonFeedVersion,
		Title:       channel.Title,
		Description: channel.Description,
		HomePageUrl: channel.SiteURL,
		FeedUrl:     feedURL,
		Icon:        channel.Logo,
		Language:    channel.Language,
		Authors:     []*feeds.JSONAuthor{author},
	}
	for _, item := range items {
		document.Items = append(document.Items, jsonItem(item, channel))
	}

	out, err := document.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding json feed: %w", err)
	}
	return []byte(out), nil
}

func jsonItem(item feed.Item, channel feed.ChannelInfo) *feeds.JSONItem {
	author := &feeds.JSONAuthor{Name: firstNonEmpty(item.Author, channel.Author)}
	out := &feeds.JSONItem{
		Id:          firstNonEmpty(item.ID, item.Link, channel.SiteURL),
		Url:         firstNonEmpty(item.Link, channel.SiteURL),
		Title:       firstNonEmpty(item.Title, placeholderTitle),
		ContentHTML: firstNonEmpty(item.BodyHTML, item.Summary, placeholderContent),
		Image:       itemImage(item),
		Author:      author,
		Authors:     []*feeds.JSONAuthor{author},
		Tags:        item.Categories,
	}
	if !item.PublishedAt.IsZero() {
		published := item.PublishedAt
		out.PublishedDate = &published
	}
	for _, enc := range item.Enclosures {
		out.Attachments = append(out.Attachments, feeds.JSONAttachment{
			Url:      enc.URL,
			MIMEType: enc.Type,
			Size:     int32(enc.Length),
		})
	}
	return out
}

func renderRSS(items []feed.Item, channel feed.ChannelInfo, feedURL string) ([]byte, error) {
	document := rssDocument{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		DCNS:    "http://purl.org/dc/elements/1.1/",
		Channel: rssChannel{
			Title:         channel.Title,
			Link:          channel.SiteURL,
			Description:   channel.Description,
			Language:      channel.Language,
			Generator:     generatorName,
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			SelfLink: rssAtomLink{
				Href: feedURL,
				Rel:  "self",
				Type: "application/rss+xml",
			},
		},
	}
	for _, item := range items {
		document.Channel.Items = append(document.Channel.Items, xmlItem(item, channel))
	}

	out, err := xml.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding rss feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func xmlItem(item feed.Item, channel feed.ChannelInfo) rssItem {
	out := rssItem{
		Title:       firstNonEmpty(item.Title, placeholderTitle),
		Link:        firstNonEmpty(item.Link, channel.SiteURL),
		Description: firstNonEmpty(item.BodyHTML, item.Summary, placeholderContent),
		Creator:     firstNonEmpty(item.Author, channel.Author),
		GUID: rssGUID{
			Value:       firstNonEmpty(item.ID, item.Link, channel.SiteURL),
			IsPermaLink: false,
		},
		Categories: item.Categories,
	}
	if !item.PublishedAt.IsZero() {
		out.PubDate = item.PublishedAt.Format(time.RFC1123Z)
	}
	for _, enc := range item.Enclosures {
		out.Enclosures = append(out.Enclosures, rssEnclosure{
			URL:    enc.URL,
			Type:   enc.Type,
			Length: enc.Length,
		})
	}
	return out
}

// itemImage picks the representative image for an item: an image-typed
// enclosure first, then whatever the fetcher (media thumbnail) or a
// transformer put on the item.
func itemImage(item feed.Item) string {
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return item.Image
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
