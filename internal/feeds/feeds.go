// Package feeds fetches news and press-release articles from RSS sources.
// Results are ordered as the source feed orders them, deduplicated by title
// within one call, and capped at the requested count.
package feeds

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"accountintel/internal/config"
	"accountintel/internal/core"
	"accountintel/internal/logger"
)

// RSS represents an RSS 2.0 feed structure.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Channel Channel  `xml:"channel"`
}

// Channel represents an RSS channel.
type Channel struct {
	Title string    `xml:"title"`
	Items []RSSItem `xml:"item"`
}

// RDF represents an RSS 1.0 (RDF) feed, used by some press-release sources.
type RDF struct {
	XMLName xml.Name  `xml:"RDF"`
	Items   []RSSItem `xml:"item"`
}

// RSSItem represents one feed item in either dialect.
type RSSItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	DCDate      string `xml:"date"` // dc:date, RSS 1.0
}

// Fetcher retrieves articles from the configured feed sources.
type Fetcher struct {
	client    *http.Client
	userAgent string
	searchURL string
	partnerPR string
	companyPR string
}

// NewFetcher creates a feed fetcher from configuration.
func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.FeedTimeout()},
		userAgent: cfg.Feeds.UserAgent,
		searchURL: cfg.Feeds.NewsSearchURL,
		partnerPR: cfg.Feeds.PartnerPressURL,
		companyPR: cfg.Feeds.CompanyPressURL,
	}
}

// Search fetches up to n news articles for a keyword query. Fetch or parse
// failures degrade to an empty list; the aggregator is best-effort.
func (f *Fetcher) Search(query string, n int) []core.Article {
	feedURL := fmt.Sprintf("%s?q=%s&hl=ja&gl=JP&ceid=JP:ja", f.searchURL, url.QueryEscape(query))
	items, err := f.fetchItems(feedURL)
	if err != nil {
		logger.Warn("news search fetch failed", "query", query, "error", err.Error())
		return nil
	}

	seen := make(map[string]bool)
	var articles []core.Article
	for _, item := range items {
		if item.Title == "" || seen[item.Title] {
			continue
		}
		seen[item.Title] = true
		articles = append(articles, toArticle(item))
		if len(articles) >= n {
			break
		}
	}
	return articles
}

// PartnerPressReleases fetches up to n items from the partner organization's
// official press-release feed.
func (f *Fetcher) PartnerPressReleases(n int) []core.Article {
	return f.pressReleases(f.partnerPR, n)
}

// CompanyPressReleases fetches up to n items from the company's own
// press-release feed.
func (f *Fetcher) CompanyPressReleases(n int) []core.Article {
	return f.pressReleases(f.companyPR, n)
}

func (f *Fetcher) pressReleases(feedURL string, n int) []core.Article {
	items, err := f.fetchItems(feedURL)
	if err != nil {
		logger.Warn("press release fetch failed", "url", feedURL, "error", err.Error())
		return nil
	}

	var articles []core.Article
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		articles = append(articles, toArticle(item))
		if len(articles) >= n {
			break
		}
	}
	return articles
}

func (f *Fetcher) fetchItems(feedURL string) ([]RSSItem, error) {
	req, err := http.NewRequest("GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	return ParseItems(body)
}

// ParseItems parses a feed document as RSS 2.0, falling back to RSS 1.0
// (RDF) for sources that still publish the older dialect.
func ParseItems(body []byte) ([]RSSItem, error) {
	var rss RSS
	if err := xml.Unmarshal(body, &rss); err == nil && len(rss.Channel.Items) > 0 {
		return rss.Channel.Items, nil
	}

	var rdf RDF
	if err := xml.Unmarshal(body, &rdf); err == nil && len(rdf.Items) > 0 {
		return rdf.Items, nil
	}

	return nil, fmt.Errorf("document is neither RSS 2.0 nor RSS 1.0")
}

func toArticle(item RSSItem) core.Article {
	published := item.PubDate
	if published == "" {
		published = item.DCDate
	}
	return core.Article{
		Title:       strings.TrimSpace(item.Title),
		Link:        item.Link,
		Published:   published,
		Description: stripHTML(item.Description),
	}
}

// stripHTML flattens the HTML fragments some feeds embed in descriptions
// down to plain text.
func stripHTML(s string) string {
	if s == "" || !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
