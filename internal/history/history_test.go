package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"accountintel/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func testRecord(title, template string) core.GenerationRecord {
	return core.GenerationRecord{
		ID:               uuid.NewString(),
		OpportunityTitle: title,
		GeneratedAt:      time.Now(),
		Success:          true,
		SlideText:        "# スライド1",
		Score:            75,
		Metadata: core.ProposalMetadata{
			TemplateUsed: template,
			Vertical:     "Digital Shifts",
		},
	}
}

func TestAppend_Records(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append(testRecord("提案A", "STANDARD")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(testRecord("提案B", "QUICK_WIN")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	records := store.Records()
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].OpportunityTitle != "提案A" || records[1].OpportunityTitle != "提案B" {
		t.Error("Records should be in append order")
	}
}

func TestAppend_RetentionLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < retention+10; i++ {
		if err := store.Append(testRecord(fmt.Sprintf("提案%d", i), "STANDARD")); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	records := store.Records()
	if len(records) != retention {
		t.Fatalf("Expected %d records after retention trim, got %d", retention, len(records))
	}
	if records[0].OpportunityTitle != "提案10" {
		t.Errorf("Expected oldest retained record 提案10, got %s", records[0].OpportunityTitle)
	}
	if records[len(records)-1].OpportunityTitle != fmt.Sprintf("提案%d", retention+9) {
		t.Errorf("Expected newest record last, got %s", records[len(records)-1].OpportunityTitle)
	}
}

func TestRecentTitlesAndTemplates(t *testing.T) {
	store := newTestStore(t)

	for i, tmpl := range []string{"STANDARD", "CO_CREATION", "QUICK_WIN"} {
		rec := testRecord(fmt.Sprintf("提案%d", i), tmpl)
		if err := store.Append(rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	titles := store.RecentTitles(2)
	if len(titles) != 2 || titles[0] != "提案1" || titles[1] != "提案2" {
		t.Errorf("Expected last 2 titles in order, got %v", titles)
	}

	templates := store.RecentTemplates(3)
	if len(templates) != 3 || templates[2] != "QUICK_WIN" {
		t.Errorf("Expected 3 templates ending with QUICK_WIN, got %v", templates)
	}
}

func TestRecentTemplates_DefaultsToStandard(t *testing.T) {
	store := newTestStore(t)

	rec := testRecord("提案", "")
	if err := store.Append(rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	templates := store.RecentTemplates(5)
	if len(templates) != 1 || templates[0] != "STANDARD" {
		t.Errorf("Expected default STANDARD template, got %v", templates)
	}
}

func TestLastGeneration(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.LastGeneration(); ok {
		t.Error("Expected no last generation on empty store")
	}

	rec := testRecord("提案", "STANDARD")
	if err := store.Append(rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	last, ok := store.LastGeneration()
	if !ok {
		t.Fatal("Expected last generation after append")
	}
	if time.Since(last) > time.Minute {
		t.Errorf("Last generation timestamp too old: %v", last)
	}
}

func TestAppend_FailedRunKeepsScheduleMarkers(t *testing.T) {
	store := newTestStore(t)

	failed := testRecord("失敗した提案", "STANDARD")
	failed.Success = false
	if err := store.Append(failed); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if _, ok := store.LastGeneration(); ok {
		t.Error("Failed run must not advance the last-generation marker")
	}
	if records := store.Records(); len(records) != 1 || records[0].Success {
		t.Fatalf("Expected one failed record retained, got %+v", records)
	}

	if err := store.Append(testRecord("成功した提案", "STANDARD")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, ok := store.LastGeneration(); !ok {
		t.Error("Successful run should advance the last-generation marker")
	}
}

func TestRecentVerticals_SkipsEmpty(t *testing.T) {
	store := newTestStore(t)

	rec := testRecord("提案A", "STANDARD")
	rec.Metadata.Vertical = ""
	if err := store.Append(rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(testRecord("提案B", "STANDARD")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	verticals := store.RecentVerticals(10)
	if len(verticals) != 1 || verticals[0] != "Digital Shifts" {
		t.Errorf("Expected single vertical, got %v", verticals)
	}
}
