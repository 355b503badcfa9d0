package opportunity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"accountintel/internal/core"
	"accountintel/internal/history"
	"accountintel/internal/llm"
	"accountintel/internal/store"
)

type stubClient struct {
	responses []string
	calls     int
}

func (s *stubClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	resp := s.responses[len(s.responses)-1]
	if s.calls < len(s.responses) {
		resp = s.responses[s.calls]
	}
	s.calls++
	return resp, nil
}

func testInput() Input {
	return Input{
		PartnerNews: []string{"KDDI、法人DX事業を拡大"},
		CompanyNews: []string{"富士通、Uvance売上が成長"},
	}
}

func newTestGenerator(t *testing.T, client llm.Client) *Generator {
	t.Helper()
	cache, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	hist, err := history.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return NewGenerator(client, cache, hist)
}

func TestGenerate_NoClientReturnsMock(t *testing.T) {
	g := newTestGenerator(t, nil)
	opps := g.Generate(context.Background(), testInput())
	if len(opps) != 5 {
		t.Fatalf("Expected 5 mock opportunities, got %d", len(opps))
	}
	if opps[0].Title != "WAKONX×Kozuchi生成AI 法人DX加速プラットフォーム" {
		t.Errorf("Unexpected first mock title: %s", opps[0].Title)
	}
}

func TestGenerate_ParsesAndRanks(t *testing.T) {
	client := &stubClient{responses: []string{`承知しました。以下が分析結果です。
[
  {"title": "提案A", "uvance_area": "Digital Shifts", "score": 70, "score_reason": "理由A"},
  {"title": "提案B", "uvance_area": "Hybrid IT", "score": 90, "score_reason": "理由B"},
  {"title": "提案C", "uvance_area": "Trusted Society", "score": 80, "score_reason": "理由C"},
  {"title": "提案D", "uvance_area": "Healthy Living", "score": 60, "score_reason": "理由D"}
]`}}
	g := newTestGenerator(t, client)

	opps := g.Generate(context.Background(), testInput())
	if len(opps) != 3 {
		t.Fatalf("Expected at most 3 opportunities, got %d", len(opps))
	}
	for i := 0; i < len(opps)-1; i++ {
		if opps[i].Score < opps[i+1].Score {
			t.Errorf("Opportunities not ranked descending: %d before %d", opps[i].Score, opps[i+1].Score)
		}
	}
	if opps[0].Title != "提案B" {
		t.Errorf("Expected highest score first, got %s", opps[0].Title)
	}
}

func TestGenerate_CachesResult(t *testing.T) {
	client := &stubClient{responses: []string{`[{"title": "提案A", "uvance_area": "Digital Shifts", "score": 70, "score_reason": "r"}]`}}
	g := newTestGenerator(t, client)

	first := g.Generate(context.Background(), testInput())
	second := g.Generate(context.Background(), testInput())
	if client.calls != 1 {
		t.Errorf("Expected 1 model call with cache hit, got %d", client.calls)
	}
	if len(first) != 1 || len(second) != 1 || first[0].Title != second[0].Title {
		t.Error("Cached result should match original")
	}
}

func TestGenerate_RetriesOnceThenMock(t *testing.T) {
	client := &stubClient{responses: []string{"no json here", "still no json"}}
	g := newTestGenerator(t, client)

	opps := g.Generate(context.Background(), testInput())
	if client.calls != 2 {
		t.Errorf("Expected exactly 2 model calls (retry once), got %d", client.calls)
	}
	if len(opps) != 5 {
		t.Errorf("Expected mock fallback after failed retry, got %d items", len(opps))
	}
}

func TestGenerate_RetrySucceeds(t *testing.T) {
	client := &stubClient{responses: []string{
		"garbled",
		`[{"title": "提案A", "uvance_area": "Digital Shifts", "score": 70, "score_reason": "r"}]`,
	}}
	g := newTestGenerator(t, client)

	opps := g.Generate(context.Background(), testInput())
	if len(opps) != 1 || opps[0].Title != "提案A" {
		t.Errorf("Expected retry result, got %v", opps)
	}
}

func TestParseOpportunities_DropsInvalidItems(t *testing.T) {
	text := `[
  {"title": "有効な提案", "uvance_area": "Digital Shifts", "score": 85, "score_reason": "r"},
  {"title": "", "uvance_area": "Digital Shifts", "score": 80, "score_reason": "missing title"},
  {"title": "範囲外スコア", "uvance_area": "Hybrid IT", "score": 120, "score_reason": "r"},
  {"title": "未知の領域", "uvance_area": "Quantum Leap", "score": 75, "score_reason": "r"}
]`
	opps := ParseOpportunities(text)
	if len(opps) != 1 {
		t.Fatalf("Expected 1 valid opportunity, got %d", len(opps))
	}
	if opps[0].Title != "有効な提案" {
		t.Errorf("Unexpected surviving opportunity: %s", opps[0].Title)
	}
}

func TestParseOpportunities_NoArray(t *testing.T) {
	if opps := ParseOpportunities("提案を生成できませんでした"); opps != nil {
		t.Errorf("Expected nil for output without JSON array, got %v", opps)
	}
}

func TestUnderrepresentedVerticals_OrdersByRarity(t *testing.T) {
	hist, err := history.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	for _, vertical := range []string{"Digital Shifts", "Digital Shifts", "Digital Shifts", "Hybrid IT"} {
		rec := core.GenerationRecord{
			ID:               uuid.NewString(),
			OpportunityTitle: "提案",
			GeneratedAt:      time.Now(),
			Metadata:         core.ProposalMetadata{Vertical: vertical},
		}
		if err := hist.Append(rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	g := NewGenerator(nil, nil, hist)

	// Never-used verticals come first, then the once-used one, then the
	// overused one last.
	want := []string{"Healthy Living", "Trusted Society", "Hybrid IT", "Digital Shifts"}
	verticals := g.UnderrepresentedVerticals()
	if len(verticals) != len(want) {
		t.Fatalf("Expected all %d verticals, got %d", len(want), len(verticals))
	}
	for i := range want {
		if verticals[i] != want[i] {
			t.Fatalf("Position %d: expected %s, got %v", i, want[i], verticals)
		}
	}
}
