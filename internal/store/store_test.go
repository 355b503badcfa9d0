package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"accountintel/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testOpportunities(t *testing.T) []core.Opportunity {
	t.Helper()
	opp, err := core.NewOpportunity("5G協業提案", "Digital Shifts", 85, "新市場")
	if err != nil {
		t.Fatalf("NewOpportunity failed: %v", err)
	}
	return []core.Opportunity{opp}
}

func TestNewStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.db == nil {
		t.Error("Store database should not be nil")
	}

	dbPath := filepath.Join(tmpDir, "accountintel.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should be created")
	}
}

func TestNewStore_InvalidDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	invalidPath := filepath.Join(tmpDir, "file.txt")
	_ = os.WriteFile(invalidPath, []byte("test"), 0644)

	_, err := NewStore(invalidPath)
	if err == nil {
		t.Error("Expected error when creating store in invalid directory")
	}
}

func TestCacheOpportunities_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	opportunities := testOpportunities(t)

	if err := store.CacheOpportunities("default", opportunities); err != nil {
		t.Fatalf("CacheOpportunities failed: %v", err)
	}

	cached, err := store.GetCachedOpportunities("default", time.Hour)
	if err != nil {
		t.Fatalf("GetCachedOpportunities failed: %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("Expected 1 cached opportunity, got %d", len(cached))
	}
	if cached[0].Title != opportunities[0].Title {
		t.Errorf("Expected title %s, got %s", opportunities[0].Title, cached[0].Title)
	}
	if cached[0].Score != opportunities[0].Score {
		t.Errorf("Expected score %d, got %d", opportunities[0].Score, cached[0].Score)
	}
}

func TestGetCachedOpportunities_CacheMiss(t *testing.T) {
	store := newTestStore(t)

	cached, err := store.GetCachedOpportunities("non-existent", time.Hour)
	if err != nil {
		t.Fatalf("GetCachedOpportunities failed: %v", err)
	}
	if cached != nil {
		t.Error("Expected nil for cache miss")
	}
}

func TestPurgeOpportunities(t *testing.T) {
	store := newTestStore(t)

	if err := store.CacheOpportunities("default", testOpportunities(t)); err != nil {
		t.Fatalf("CacheOpportunities failed: %v", err)
	}
	if err := store.PurgeOpportunities("default"); err != nil {
		t.Fatalf("PurgeOpportunities failed: %v", err)
	}

	cached, err := store.GetCachedOpportunities("default", time.Hour)
	if err != nil {
		t.Fatalf("GetCachedOpportunities failed: %v", err)
	}
	if cached != nil {
		t.Error("Expected cache miss after purge")
	}
}

func TestCacheReport_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	report := core.DetailReport{
		OpportunityTitle: "5G協業提案",
		Sections: []core.Section{
			{Name: core.SectionHypothesis, Body: "仮説本文"},
		},
		Filename: "report_abc12345.html",
	}

	if err := store.CacheReport(report); err != nil {
		t.Fatalf("CacheReport failed: %v", err)
	}

	cached, err := store.GetCachedReport("5G協業提案", time.Hour)
	if err != nil {
		t.Fatalf("GetCachedReport failed: %v", err)
	}
	if cached == nil {
		t.Fatal("Expected cached report, got nil")
	}
	if cached.Filename != report.Filename {
		t.Errorf("Expected filename %s, got %s", report.Filename, cached.Filename)
	}
	if len(cached.Sections) != 1 || cached.Sections[0].Name != core.SectionHypothesis {
		t.Error("Expected section round trip")
	}
}

func TestGetCachedReport_CacheMiss(t *testing.T) {
	store := newTestStore(t)

	cached, err := store.GetCachedReport("non-existent", time.Hour)
	if err != nil {
		t.Fatalf("GetCachedReport failed: %v", err)
	}
	if cached != nil {
		t.Error("Expected nil for cache miss")
	}
}

func TestGetCacheStats(t *testing.T) {
	store := newTestStore(t)

	if err := store.CacheOpportunities("default", testOpportunities(t)); err != nil {
		t.Fatalf("CacheOpportunities failed: %v", err)
	}
	if err := store.CacheReport(core.DetailReport{OpportunityTitle: "t"}); err != nil {
		t.Fatalf("CacheReport failed: %v", err)
	}

	stats, err := store.GetCacheStats()
	if err != nil {
		t.Fatalf("GetCacheStats failed: %v", err)
	}

	if stats.OpportunityCount != 1 {
		t.Errorf("Expected 1 opportunity entry, got %d", stats.OpportunityCount)
	}
	if stats.ReportCount != 1 {
		t.Errorf("Expected 1 report entry, got %d", stats.ReportCount)
	}
	if stats.CacheSize <= 0 {
		t.Error("Cache size should be greater than 0")
	}
}

func TestClearCache(t *testing.T) {
	store := newTestStore(t)

	if err := store.CacheOpportunities("default", testOpportunities(t)); err != nil {
		t.Fatalf("CacheOpportunities failed: %v", err)
	}

	if err := store.ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}

	stats, err := store.GetCacheStats()
	if err != nil {
		t.Fatalf("GetCacheStats failed: %v", err)
	}
	if stats.OpportunityCount != 0 {
		t.Errorf("Expected 0 opportunity entries after clear, got %d", stats.OpportunityCount)
	}
}

func TestCleanupOldCache(t *testing.T) {
	store := newTestStore(t)

	// Insert an entry with an old timestamp directly.
	_, err := store.db.Exec(
		"INSERT INTO opportunity_cache (cache_key, payload, generated_at) VALUES (?, ?, ?)",
		"old", "[]", time.Now().UTC().Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := store.CacheOpportunities("recent", testOpportunities(t)); err != nil {
		t.Fatalf("CacheOpportunities failed: %v", err)
	}

	if err := store.CleanupOldCache(24*time.Hour, 24*time.Hour); err != nil {
		t.Fatalf("CleanupOldCache failed: %v", err)
	}

	old, err := store.GetCachedOpportunities("old", 72*time.Hour)
	if err != nil {
		t.Fatalf("GetCachedOpportunities failed: %v", err)
	}
	if old != nil {
		t.Error("Old entry should be cleaned up")
	}

	recent, err := store.GetCachedOpportunities("recent", 24*time.Hour)
	if err != nil {
		t.Fatalf("GetCachedOpportunities failed: %v", err)
	}
	if recent == nil {
		t.Error("Recent entry should remain after cleanup")
	}
}
