package feeds

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"accountintel/internal/config"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
<item><title>5G expansion announced</title><link>https://example.com/1</link><pubDate>Mon, 24 Aug 2026 09:00:00 GMT</pubDate></item>
<item><title>5G expansion announced</title><link>https://example.com/dup</link><pubDate>Mon, 24 Aug 2026 09:30:00 GMT</pubDate></item>
<item><title>New AI platform launched</title><link>https://example.com/2</link><description>&lt;p&gt;Platform &lt;b&gt;details&lt;/b&gt; here&lt;/p&gt;</description></item>
<item><title>Third story</title><link>https://example.com/3</link></item>
</channel>
</rss>`

const rdfDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns="http://purl.org/rss/1.0/" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel rdf:about="https://example.com"><title>PR Feed</title></channel>
<item><title>Press release one</title><link>https://example.com/pr1</link><dc:date>2026-08-20</dc:date></item>
<item><title>Press release two</title><link>https://example.com/pr2</link><dc:date>2026-08-21</dc:date></item>
</rdf:RDF>`

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Feeds.Timeout = "5s"
	cfg.Feeds.UserAgent = "AccountIntel/1.0"
	cfg.Feeds.NewsSearchURL = server.URL
	cfg.Feeds.PartnerPressURL = server.URL
	cfg.Feeds.CompanyPressURL = server.URL
	return NewFetcher(cfg), server
}

func TestSearch_DedupesByTitleAndCaps(t *testing.T) {
	fetcher, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDoc)
	})

	articles := fetcher.Search("KDDI", 2)
	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "5G expansion announced" {
		t.Errorf("Expected first title from feed order, got %q", articles[0].Title)
	}
	if articles[0].Link != "https://example.com/1" {
		t.Errorf("Duplicate title should keep the first link, got %q", articles[0].Link)
	}
	if articles[1].Title != "New AI platform launched" {
		t.Errorf("Expected second distinct title, got %q", articles[1].Title)
	}
}

func TestSearch_StripsDescriptionHTML(t *testing.T) {
	fetcher, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDoc)
	})

	articles := fetcher.Search("KDDI", 3)
	if len(articles) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(articles))
	}
	if articles[1].Description != "Platform details here" {
		t.Errorf("Expected stripped description, got %q", articles[1].Description)
	}
}

func TestPartnerPressReleases_ParsesRDF(t *testing.T) {
	fetcher, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rdfDoc)
	})

	articles := fetcher.PartnerPressReleases(8)
	if len(articles) != 2 {
		t.Fatalf("Expected 2 press releases, got %d", len(articles))
	}
	if articles[0].Published != "2026-08-20" {
		t.Errorf("Expected dc:date fallback for published, got %q", articles[0].Published)
	}
}

func TestSearch_FetchErrorReturnsEmpty(t *testing.T) {
	fetcher, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_ = server

	if articles := fetcher.Search("KDDI", 4); len(articles) != 0 {
		t.Errorf("Expected empty result on server error, got %d articles", len(articles))
	}
}
