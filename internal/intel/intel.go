// Package intel maintains the append-only partner intelligence log. Each
// accumulation run fetches press releases and news, appends entries whose
// titles have never been seen, and trims the log FIFO to a fixed cap.
// Re-running with the same feed results adds nothing.
package intel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"accountintel/internal/core"
	"accountintel/internal/logger"
)

const maxEntries = 1000

// Fetcher is the feed surface the accumulator needs.
type Fetcher interface {
	Search(query string, n int) []core.Article
	PartnerPressReleases(n int) []core.Article
}

// AccumulateResult summarizes one accumulation run.
type AccumulateResult struct {
	NewEntries   int      `json:"new_entries"`
	TotalEntries int      `json:"total_entries"`
	Themes       []string `json:"themes"`
}

// Log is the file-backed intelligence log.
type Log struct {
	mu   sync.Mutex
	path string
}

// NewLog creates an intelligence log under dataDir.
func NewLog(dataDir string) (*Log, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Log{path: filepath.Join(dataDir, "intelligence.json")}, nil
}

func (l *Log) load() []core.IntelligenceEntry {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil
	}
	var entries []core.IntelligenceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

func (l *Log) save(entries []core.IntelligenceEntry) error {
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal intelligence: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write intelligence: %w", err)
	}
	return nil
}

// Accumulate fetches the partner sources and appends unseen entries.
func (l *Log) Accumulate(fetcher Fetcher) AccumulateResult {
	press := fetcher.PartnerPressReleases(8)
	general := fetcher.Search("KDDI", 8)
	wakonx := fetcher.Search("KDDI WAKONX", 5)
	bx := fetcher.Search("KDDI BX 事業変革", 5)

	l.mu.Lock()
	defer l.mu.Unlock()

	existing := l.load()
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.Title] = true
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	var added []core.IntelligenceEntry
	appendArticles := func(articles []core.Article, source string) {
		for _, a := range articles {
			if a.Title == "" || seen[a.Title] {
				continue
			}
			seen[a.Title] = true
			added = append(added, core.IntelligenceEntry{
				Title:         a.Title,
				Link:          a.Link,
				Published:     a.Published,
				Description:   a.Description,
				Source:        source,
				AccumulatedAt: now,
			})
		}
	}
	appendArticles(press, "press")
	appendArticles(general, "news")
	appendArticles(wakonx, "news")
	appendArticles(bx, "news")

	if len(added) > 0 {
		existing = append(existing, added...)
		// Trim before counting so TotalEntries matches what is persisted.
		if len(existing) > maxEntries {
			existing = existing[len(existing)-maxEntries:]
		}
		if err := l.save(existing); err != nil {
			logger.Warn("intelligence save failed", "error", err.Error())
		}
	}

	var themes []string
	if len(added) > 0 {
		themes = extractThemes(added)
	}
	return AccumulateResult{
		NewEntries:   len(added),
		TotalEntries: len(existing),
		Themes:       themes,
	}
}

// Entries returns the full retained log, oldest first.
func (l *Log) Entries() []core.IntelligenceEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// Summary renders the newest entries as prompt text with source tags and a
// detected-theme footer.
func (l *Log) Summary(maxShown int) string {
	l.mu.Lock()
	entries := l.load()
	l.mu.Unlock()

	if len(entries) == 0 {
		return "KDDIインテリジェンスデータなし（初回蓄積が必要）"
	}

	recent := make([]core.IntelligenceEntry, len(entries))
	copy(recent, entries)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].AccumulatedAt > recent[j].AccumulatedAt
	})
	if len(recent) > maxShown {
		recent = recent[:maxShown]
	}

	var b strings.Builder
	b.WriteString("# KDDI最新インテリジェンス\n\n")
	for i, entry := range recent {
		tag := "[NEWS]"
		if entry.Source == "press" {
			tag = "[PR]"
		}
		desc := ""
		if entry.Description != "" {
			runes := []rune(entry.Description)
			if len(runes) > 100 {
				runes = runes[:100]
			}
			desc = " — " + string(runes)
		}
		fmt.Fprintf(&b, "%d. %s %s%s\n", i+1, tag, entry.Title, desc)
		if entry.Published != "" {
			fmt.Fprintf(&b, "   発行日: %s\n", entry.Published)
		}
	}

	if themes := extractThemes(recent); len(themes) > 0 {
		fmt.Fprintf(&b, "\n## 検出テーマ: %s\n", strings.Join(themes, ", "))
	}
	fmt.Fprintf(&b, "\n（蓄積データ総数: %d件、表示: 最新%d件）", len(entries), len(recent))
	return b.String()
}

// PoCFatigueReferences returns entries that mention proof-of-concept framing.
func (l *Log) PoCFatigueReferences() []core.IntelligenceEntry {
	keywords := []string{"PoC", "実証実験", "PoC疲れ", "PoC死", "概念実証", "パイロット"}

	l.mu.Lock()
	defer l.mu.Unlock()

	var results []core.IntelligenceEntry
	for _, entry := range l.load() {
		text := entry.Title + " " + entry.Description
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				results = append(results, entry)
				break
			}
		}
	}
	return results
}

// themeOrder keeps theme detection output deterministic.
var themeOrder = []string{
	"AI・生成AI", "5G・通信", "DX推進", "事業変革(BX)", "データ活用",
	"セキュリティ", "サステナビリティ", "金融・決済", "PoC疲れ",
}

var themeKeywords = map[string][]string{
	"AI・生成AI":   {"AI", "生成AI", "人工知能", "LLM", "ChatGPT"},
	"5G・通信":     {"5G", "通信", "ネットワーク", "OPEN RAN", "基地局"},
	"DX推進":      {"DX", "デジタル", "トランスフォーメーション", "WAKONX"},
	"事業変革(BX)":  {"BX", "事業変革", "共創", "イノベーション"},
	"データ活用":     {"データ", "ビッグデータ", "分析", "データドリブン"},
	"セキュリティ":    {"セキュリティ", "ゼロトラスト", "サイバー"},
	"サステナビリティ":  {"カーボン", "ESG", "サステナ", "グリーン"},
	"金融・決済":     {"金融", "決済", "フィンテック", "au PAY"},
	"PoC疲れ":     {"PoC", "実証実験", "PoC疲れ", "PoC死"},
}

func extractThemes(entries []core.IntelligenceEntry) []string {
	var all strings.Builder
	for _, e := range entries {
		all.WriteString(e.Title)
		all.WriteString(" ")
		all.WriteString(e.Description)
		all.WriteString(" ")
	}
	text := all.String()

	var found []string
	for _, theme := range themeOrder {
		for _, kw := range themeKeywords[theme] {
			if strings.Contains(text, kw) {
				found = append(found, theme)
				break
			}
		}
	}
	return found
}
