// Package preview looks up landing-page metadata for affiliate links.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/rakuten-affiliate/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultTimeout   = 10 * time.Second
	userAgent        = "rakuten-affiliate-preview/1.0"
)

// Page is the metadata shown when a link is shared.
type Page struct {
	URL         string `json:"url" yaml:"url"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Logger is the structured logging surface the scraper reports failures through.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Scraper fetches pages and extracts metadata from OG tags.
type Scraper struct {
	client httpclient.Client
	log    Logger
}

// NewScraper constructs a scraper with the provided HTTP client (or a resty-backed default).
func NewScraper(client httpclient.Client, log Logger) *Scraper {
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	if log == nil {
		log = noopLogger{}
	}
	return &Scraper{client: client, log: log}
}

// Fetch downloads rawURL and returns its metadata. Redirects are followed by the transport, so
// a tracking link resolves to the advertiser's landing page.
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (Page, error) {
	page := Page{URL: strings.TrimSpace(rawURL)}
	if page.URL == "" {
		return page, errors.New("preview url is required")
	}

	resp, err := s.client.Get(ctx, page.URL, map[string]string{
		"User-Agent": userAgent,
		"Accept":     "text/html,application/xhtml+xml",
	})
	if err != nil {
		s.log.WarnObj("preview fetch failed", "preview_error", map[string]any{
			"url":   page.URL,
			"error": err.Error(),
		})
		return page, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return page, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return page, err
	}
	page.Title = meta.Title
	page.Description = meta.Description
	page.ImageURL = resolveURL(meta.ImageURL, page.URL)

	s.log.DebugObj("preview fetched", "preview", page)
	return page, nil
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
	}, nil
}

type pageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

// resolveURL makes ref absolute against base. Unparseable input is returned as is.
func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if refURL.IsAbs() {
		return refURL.String()
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
