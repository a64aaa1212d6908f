package preview

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samvad-hq/rakuten-affiliate/pkg/httpclient"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }
func (s stubHTTPResponse) Status() string  { return http.StatusText(s.statusCode) }

// stubHTTPClient returns a single response.
type stubHTTPClient struct {
	resp httpclient.Response
	err  error
}

func (s stubHTTPClient) Get(_ context.Context, _ string, _ map[string]string) (httpclient.Response, error) {
	return s.resp, s.err
}

func (s stubHTTPClient) Do(_ context.Context, _ httpclient.Request) (httpclient.Response, error) {
	return s.resp, s.err
}

func TestParseMetaPrefersOGTags(t *testing.T) {
	html := []byte(`
<html>
  <head>
    <title>Fallback</title>
    <meta name="description" content="Plain Desc">
    <meta property="og:title" content="OG Title">
    <meta property="og:description" content="OG Desc">
    <meta property="og:image" content="/img/og.png">
  </head>
</html>`)

	meta, err := parseMeta(html)
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if meta.Title != "OG Title" || meta.Description != "OG Desc" || meta.ImageURL != "/img/og.png" {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestParseMetaFallsBack(t *testing.T) {
	html := []byte(`<html><head><title> Shop </title><meta name="description" content="Deals"></head></html>`)
	meta, err := parseMeta(html)
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if meta.Title != "Shop" || meta.Description != "Deals" || meta.ImageURL != "" {
		t.Fatalf("unexpected meta %#v", meta)
	}
}

func TestResolveURLHandlesRelative(t *testing.T) {
	if got := resolveURL("/img.png", "https://example.com/products/1"); got != "https://example.com/img.png" {
		t.Fatalf("resolveURL got %q", got)
	}
	if got := resolveURL("https://cdn.example/x.png", "https://example.com"); got != "https://cdn.example/x.png" {
		t.Fatalf("absolute url changed: %q", got)
	}
	if got := resolveURL("", "https://example.com"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestFetchAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/go" {
			http.Redirect(w, r, "/landing", http.StatusFound)
			return
		}
		if r.Header.Get("User-Agent") != userAgent {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, `<html><head>
<meta property="og:title" content="Spring Sale">
<meta property="og:image" content="img/banner.jpg">
</head></html>`)
	}))
	defer srv.Close()

	page, err := NewScraper(nil, nil).Fetch(context.Background(), srv.URL+"/go")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.Title != "Spring Sale" {
		t.Fatalf("title = %q", page.Title)
	}
	if page.ImageURL != srv.URL+"/img/banner.jpg" {
		t.Fatalf("image = %q", page.ImageURL)
	}
}

func TestFetchLimitsBody(t *testing.T) {
	body := append(bytes.Repeat([]byte("a"), maxHTMLBodyBytes), []byte(`<title>late</title>`)...)
	scraper := NewScraper(stubHTTPClient{resp: stubHTTPResponse{body: body, statusCode: 200}}, nil)

	page, err := scraper.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.Title != "" {
		t.Fatalf("title past the cap should be ignored, got %q", page.Title)
	}
}

func TestFetchErrors(t *testing.T) {
	if _, err := NewScraper(stubHTTPClient{}, nil).Fetch(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty url")
	}

	notFound := NewScraper(stubHTTPClient{resp: stubHTTPResponse{body: []byte("gone"), statusCode: 404}}, nil)
	if _, err := notFound.Fetch(context.Background(), "https://example.com"); err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status error, got %v", err)
	}

	broken := NewScraper(stubHTTPClient{err: errors.New("dial")}, nil)
	if _, err := broken.Fetch(context.Background(), "https://example.com"); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", " ", "foo", "bar"); got != "foo" {
		t.Fatalf("firstNonEmpty got %q", got)
	}
}
