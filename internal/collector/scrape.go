package collector

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/model"
)

// scrapeSpec describes how one platform's public profile page maps onto
// payload fields. Social platforms publish their profile basics as Open
// Graph metadata for link previews, which is all the scrape collector reads.
type scrapeSpec struct {
	// urlTemplate builds the profile URL from the handle.
	urlTemplate string

	// titleKey and descriptionKey are the profile keys to store the
	// og:title and og:description values under.
	titleKey       string
	descriptionKey string

	// handleKey is the profile key for the handle itself, empty when the
	// platform keeps the handle outside the profile block.
	handleKey string

	// handleExtra stores the handle as a top-level extra instead.
	handleExtra string
}

var scrapeSpecs = map[model.Platform]scrapeSpec{
	model.PlatformTwitter: {
		urlTemplate:    "https://twitter.com/%s",
		titleKey:       "name",
		descriptionKey: "bio",
		handleKey:      "username",
	},
	model.PlatformInstagram: {
		urlTemplate:    "https://www.instagram.com/%s/",
		titleKey:       "full_name",
		descriptionKey: "bio",
		handleExtra:    "username",
	},
	model.PlatformFacebook: {
		urlTemplate:    "https://www.facebook.com/%s",
		titleKey:       "name",
		descriptionKey: "bio",
	},
	model.PlatformYouTube: {
		urlTemplate:    "https://www.youtube.com/@%s",
		titleKey:       "title",
		descriptionKey: "description",
	},
	model.PlatformLinkedIn: {
		urlTemplate:    "https://www.linkedin.com/in/%s/",
		titleKey:       "name",
		descriptionKey: "headline",
	},
}

// ScrapeCollector collects profile basics from a platform's public
// profile page by reading its Open Graph metadata. It backs the platforms
// without a public JSON API.
type ScrapeCollector struct {
	client   client
	platform model.Platform
	spec     scrapeSpec
	baseURL  string
	now      func() time.Time
}

// ScrapeOption configures a ScrapeCollector.
type ScrapeOption func(*ScrapeCollector)

// WithScrapeClock overrides the time source.
func WithScrapeClock(now func() time.Time) ScrapeOption {
	return func(c *ScrapeCollector) {
		c.now = now
	}
}

// NewScrape creates a scrape collector for the given platform. It returns
// an error for platforms that have a dedicated collector or no spec.
func NewScrape(platform model.Platform, cfg *config.Config, pc config.PlatformConfig, opts ...ScrapeOption) (*ScrapeCollector, error) {
	spec, ok := scrapeSpecs[platform]
	if !ok {
		return nil, fmt.Errorf("%w: no scrape support for %s", model.ErrInvalidPlatform, platform)
	}

	c := &ScrapeCollector{
		client:   newClient(cfg, pc),
		platform: platform,
		spec:     spec,
		baseURL:  pc.BaseURL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Platform returns the platform this collector serves.
func (c *ScrapeCollector) Platform() model.Platform {
	return c.platform
}

// Collect fetches the profile page and extracts its metadata. A page
// without any usable metadata maps to ErrNotFound, since login walls and
// interstitial pages typically strip the Open Graph tags.
func (c *ScrapeCollector) Collect(ctx context.Context, handle string) (*model.PlatformPayload, error) {
	pageURL := fmt.Sprintf(c.spec.urlTemplate, url.PathEscape(handle))
	if c.baseURL != "" {
		pageURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(c.baseURL, "/"), url.PathEscape(handle))
	}

	body, err := c.client.get(ctx, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s profile for %q: %w", c.platform, handle, err)
	}

	meta := parseMeta(body)
	title := meta["og:title"]
	description := meta["og:description"]
	if description == "" {
		description = meta["description"]
	}
	if title == "" && description == "" {
		return nil, fmt.Errorf("%s profile for %q: %w", c.platform, handle, ErrNotFound)
	}

	payload := &model.PlatformPayload{
		Platform:    c.platform,
		Profile:     map[string]any{},
		CollectedAt: c.now(),
	}
	if title != "" {
		payload.Profile[c.spec.titleKey] = title
	}
	if description != "" {
		payload.Profile[c.spec.descriptionKey] = description
	}
	if c.spec.handleKey != "" {
		payload.Profile[c.spec.handleKey] = handle
	}
	if c.spec.handleExtra != "" {
		payload.Extras = map[string]any{c.spec.handleExtra: handle}
	}
	return payload, nil
}

// parseMeta extracts meta tag content from an HTML document, keyed by the
// tag's property or name attribute. Parsing stops at the end of the head
// element since profile metadata never appears later.
func parseMeta(body []byte) map[string]string {
	meta := make(map[string]string)

	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return meta
		case html.EndTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "head" {
				return meta
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) != "meta" || !hasAttr {
				continue
			}

			var key, content string
			for {
				attr, val, more := tokenizer.TagAttr()
				switch string(attr) {
				case "property", "name":
					key = string(val)
				case "content":
					content = string(val)
				}
				if !more {
					break
				}
			}
			if key != "" && content != "" {
				meta[key] = content
			}
		}
	}
}
