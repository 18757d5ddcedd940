// Package article fetches headline metadata for a news article URL so the
// analysis prompt can be anchored to what the page actually says.
package article

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/doxa/internal/logger"
)

// Chrome user agent; many news sites refuse unknown clients.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxBodySize bounds how much of the page is read; metadata lives in <head>.
const maxBodySize = 2 << 20

// Article is the metadata found on a page.
type Article struct {
	URL         string
	Title       string
	Description string
	SiteName    string
}

// Empty reports whether no metadata was found.
func (a Article) Empty() bool {
	return a.Title == "" && a.Description == "" && a.SiteName == ""
}

// Config holds configuration for the fetcher.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent,
		Timeout:   15 * time.Second,
	}
}

// Fetcher retrieves article metadata over HTTP using colly.
type Fetcher struct {
	config Config
}

// NewFetcher creates a fetcher. Zero fields in cfg fall back to defaults.
func NewFetcher(cfg Config) *Fetcher {
	def := DefaultConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	return &Fetcher{config: cfg}
}

// Fetch downloads url and extracts its metadata. A non-2xx status is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Article, error) {
	logger.Debug("article fetch starting", "url", url)

	// A new collector per request; each fetch visits exactly one page.
	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
		colly.MaxBodySize(maxBodySize),
		colly.StdlibContext(ctx),
	)
	if f.config.Client != nil {
		c.SetClient(f.config.Client)
	} else {
		c.SetRequestTimeout(f.config.Timeout)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
	})

	var (
		a        *Article
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			fetchErr = fmt.Errorf("parse article: %w", err)
			return
		}
		a = Parse(doc)
		a.URL = url
		logger.Debug("article fetch complete",
			"status", r.StatusCode,
			"size", humanize.Bytes(uint64(len(r.Body))),
			"title", a.Title)
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("fetch article: unexpected status %d %s", r.StatusCode, http.StatusText(r.StatusCode))
			return
		}
		fetchErr = fmt.Errorf("fetch article: %w", err)
	})

	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = fmt.Errorf("fetch article: %w", err)
	}
	if fetchErr != nil {
		logger.Debug("article fetch failed", "url", url, "error", fetchErr)
		return nil, fetchErr
	}
	if a == nil {
		return nil, fmt.Errorf("fetch article: no response from %s", url)
	}
	return a, nil
}

// Parse extracts metadata from an HTML document. Open Graph tags win over
// their plain HTML equivalents.
func Parse(doc *goquery.Document) *Article {
	return &Article{
		Title: coalesce(
			metaContent(doc, `meta[property="og:title"]`),
			metaContent(doc, `meta[name="twitter:title"]`),
			cleanText(doc.Find("title").First().Text()),
		),
		Description: coalesce(
			metaContent(doc, `meta[property="og:description"]`),
			metaContent(doc, `meta[name="description"]`),
			metaContent(doc, `meta[name="twitter:description"]`),
		),
		SiteName: metaContent(doc, `meta[property="og:site_name"]`),
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return cleanText(content)
}

// cleanText normalizes whitespace in text.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
