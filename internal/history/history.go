// Package history persists the generation history and schedule state for
// hypothesis proposals. One JSON file holds both, guarded by a mutex; the
// scheduler is the only writer.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"accountintel/internal/core"
)

const retention = 50

// state is the on-disk document.
type state struct {
	LastGeneration  string                  `json:"last_generation,omitempty"`
	LastOpportunity string                  `json:"last_opportunity,omitempty"`
	LastGammaURL    string                  `json:"last_gamma_url,omitempty"`
	Records         []core.GenerationRecord `json:"history"`
}

// Store is the file-backed generation history.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a history store under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{path: filepath.Join(dataDir, "history.json")}, nil
}

func (s *Store) load() state {
	var st state
	data, err := os.ReadFile(s.path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return state{}
	}
	return st
}

func (s *Store) save(st state) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Append records one generation run. Old records beyond the retention limit
// are dropped. The schedule markers advance only on a successful run, so a
// failure leaves the next weekly attempt due.
func (s *Store) Append(rec core.GenerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	st.Records = append(st.Records, rec)
	if len(st.Records) > retention {
		st.Records = st.Records[len(st.Records)-retention:]
	}
	if rec.Success {
		st.LastGeneration = rec.GeneratedAt.Format(time.RFC3339)
		st.LastOpportunity = rec.OpportunityTitle
		st.LastGammaURL = rec.GammaURL
	}
	return s.save(st)
}

// Records returns all retained generation records, oldest first.
func (s *Store) Records() []core.GenerationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Records
}

// RecentTitles returns up to n opportunity titles from the most recent
// records, oldest first.
func (s *Store) RecentTitles(n int) []string {
	var titles []string
	for _, rec := range s.recent(n) {
		titles = append(titles, rec.OpportunityTitle)
	}
	return titles
}

// RecentTemplates returns the template names used by up to n most recent
// records, oldest first.
func (s *Store) RecentTemplates(n int) []string {
	var templates []string
	for _, rec := range s.recent(n) {
		name := rec.Metadata.TemplateUsed
		if name == "" {
			name = "STANDARD"
		}
		templates = append(templates, name)
	}
	return templates
}

// RecentVerticals returns the verticals targeted by up to n most recent
// records, oldest first. Records without a vertical are skipped.
func (s *Store) RecentVerticals(n int) []string {
	var verticals []string
	for _, rec := range s.recent(n) {
		if rec.Metadata.Vertical != "" {
			verticals = append(verticals, rec.Metadata.Vertical)
		}
	}
	return verticals
}

func (s *Store) recent(n int) []core.GenerationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.load().Records
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records
}

// LastGeneration returns the time of the most recent run, or false if none
// has happened or the stored timestamp is unreadable.
func (s *Store) LastGeneration() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	if st.LastGeneration == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, st.LastGeneration)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
