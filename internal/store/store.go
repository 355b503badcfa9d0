// Package store is the SQLite-backed cache for generated artifacts.
// Opportunity lists and detail reports are cached with a TTL so repeated
// dashboard loads do not re-run the language model.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"accountintel/internal/core"
)

// Store represents the SQLite-based caching store
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with SQLite database
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "accountintel.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	opportunitiesTable := `
	CREATE TABLE IF NOT EXISTS opportunity_cache (
		cache_key TEXT PRIMARY KEY,
		payload TEXT,
		generated_at DATETIME
	);`

	reportsTable := `
	CREATE TABLE IF NOT EXISTS report_cache (
		opportunity_title TEXT PRIMARY KEY,
		payload TEXT,
		generated_at DATETIME
	);`

	tables := []string{opportunitiesTable, reportsTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CacheOpportunities stores a generated opportunity list under a cache key.
func (s *Store) CacheOpportunities(key string, opportunities []core.Opportunity) error {
	payload, err := json.Marshal(opportunities)
	if err != nil {
		return fmt.Errorf("failed to marshal opportunities: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO opportunity_cache (cache_key, payload, generated_at)
	VALUES (?, ?, ?)`

	_, err = s.db.Exec(query, key, string(payload), time.Now().UTC())
	return err
}

// GetCachedOpportunities retrieves a cached opportunity list. A nil slice
// with a nil error is a cache miss.
func (s *Store) GetCachedOpportunities(key string, maxAge time.Duration) ([]core.Opportunity, error) {
	query := `
	SELECT payload FROM opportunity_cache
	WHERE cache_key = ? AND generated_at > ?`

	cutoff := time.Now().UTC().Add(-maxAge)
	row := s.db.QueryRow(query, key, cutoff)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan opportunities: %w", err)
	}

	var opportunities []core.Opportunity
	if err := json.Unmarshal([]byte(payload), &opportunities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal opportunities: %w", err)
	}
	return opportunities, nil
}

// PurgeOpportunities drops one cached opportunity list so the next read
// regenerates it.
func (s *Store) PurgeOpportunities(key string) error {
	_, err := s.db.Exec("DELETE FROM opportunity_cache WHERE cache_key = ?", key)
	return err
}

// CacheReport stores a generated detail report keyed by opportunity title.
func (s *Store) CacheReport(report core.DetailReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO report_cache (opportunity_title, payload, generated_at)
	VALUES (?, ?, ?)`

	_, err = s.db.Exec(query, report.OpportunityTitle, string(payload), time.Now().UTC())
	return err
}

// GetCachedReport retrieves a cached detail report. A nil report with a nil
// error is a cache miss.
func (s *Store) GetCachedReport(opportunityTitle string, maxAge time.Duration) (*core.DetailReport, error) {
	query := `
	SELECT payload FROM report_cache
	WHERE opportunity_title = ? AND generated_at > ?`

	cutoff := time.Now().UTC().Add(-maxAge)
	row := s.db.QueryRow(query, opportunityTitle, cutoff)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}

	var report core.DetailReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// CacheStats represents cache statistics
type CacheStats struct {
	OpportunityCount int
	ReportCount      int
	CacheSize        int64
	LastUpdated      time.Time
}

// GetCacheStats returns statistics about the cache
func (s *Store) GetCacheStats() (*CacheStats, error) {
	stats := &CacheStats{}

	queries := map[string]*int{
		"SELECT COUNT(*) FROM opportunity_cache": &stats.OpportunityCount,
		"SELECT COUNT(*) FROM report_cache":      &stats.ReportCount,
	}

	for query, target := range queries {
		err := s.db.QueryRow(query).Scan(target)
		if err != nil {
			return nil, fmt.Errorf("failed to get count: %w", err)
		}
	}

	if fileInfo, err := os.Stat(s.path); err == nil {
		stats.CacheSize = fileInfo.Size()
		stats.LastUpdated = fileInfo.ModTime()
	}

	return stats, nil
}

// ClearCache removes all cached data
func (s *Store) ClearCache() error {
	tables := []string{"opportunity_cache", "report_cache"}

	for _, table := range tables {
		_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			return fmt.Errorf("failed to clear %s table: %w", table, err)
		}
	}

	_, err := s.db.Exec("VACUUM")
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	return nil
}

// CleanupOldCache removes cached items older than the given ages.
func (s *Store) CleanupOldCache(opportunityMaxAge, reportMaxAge time.Duration) error {
	now := time.Now().UTC()

	_, err := s.db.Exec("DELETE FROM opportunity_cache WHERE generated_at < ?", now.Add(-opportunityMaxAge))
	if err != nil {
		return fmt.Errorf("failed to clean old opportunities: %w", err)
	}

	_, err = s.db.Exec("DELETE FROM report_cache WHERE generated_at < ?", now.Add(-reportMaxAge))
	if err != nil {
		return fmt.Errorf("failed to clean old reports: %w", err)
	}

	return nil
}
