package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"accountintel/internal/core"
	"accountintel/internal/gamma"
	"accountintel/internal/history"
	"accountintel/internal/intel"
	"accountintel/internal/llm"
	"accountintel/internal/proposal"
)

type stubResponse struct {
	text string
	err  error
}

type stubClient struct {
	responses []stubResponse
	calls     int
}

func (s *stubClient) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	if s.calls >= len(s.responses) {
		return "", errors.New("unexpected call")
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp.text, resp.err
}

type stubFeeds struct {
	partnerNews []core.Article
	companyNews []core.Article
	press       []core.Article
}

func (s *stubFeeds) Search(query string, n int) []core.Article {
	if strings.Contains(query, "KDDI") {
		return s.partnerNews
	}
	return s.companyNews
}

func (s *stubFeeds) PartnerPressReleases(n int) []core.Article { return s.press }
func (s *stubFeeds) CompanyPressReleases(n int) []core.Article { return nil }

type stubRenderer struct {
	available bool
	url       string
	err       error
}

func (s *stubRenderer) Available() bool { return s.available }

func (s *stubRenderer) GenerateAndWait(_ context.Context, _ string, _ int, callback func(string)) (*gamma.Generation, error) {
	if callback != nil {
		callback("スライド生成中...")
	}
	if s.err != nil {
		return nil, s.err
	}
	return &gamma.Generation{Status: "completed", GammaURL: s.url}, nil
}

// Pipeline call order is slide draft, critique, refinement, approach plan.
func pipelineResponses() []stubResponse {
	return []stubResponse{
		{text: "# スライド1: 課題\nROI 300%。Digital Shifts を活用。"},
		{text: "- 問題点: 根拠不足 → 改善提案: 実績引用"},
		{text: "短い改訂"},
		{text: "## 週次アプローチ計画"},
	}
}

func newTestScheduler(t *testing.T, client llm.Client, feeds FeedSource, renderer SlideRenderer) (*Scheduler, *history.Store, string) {
	t.Helper()
	dataDir := t.TempDir()
	staticDir := t.TempDir()

	hist, err := history.NewStore(dataDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	intelLog, err := intel.NewLog(dataDir)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}

	available := renderer != nil && renderer.Available()
	pipeline := proposal.NewPipeline(client, intelLog, nil, hist, available)
	return New(client, feeds, intelLog, pipeline, renderer, hist, staticDir), hist, staticDir
}

func TestIsGenerationDue(t *testing.T) {
	s, hist, _ := newTestScheduler(t, nil, &stubFeeds{}, nil)

	if !s.IsGenerationDue() {
		t.Error("Empty history should be due")
	}
	if s.DaysSinceLastGeneration() != -1 {
		t.Errorf("Expected -1 days for empty history, got %d", s.DaysSinceLastGeneration())
	}

	if err := hist.Append(core.GenerationRecord{
		ID:               "r1",
		OpportunityTitle: "提案",
		GeneratedAt:      time.Now(),
		Success:          true,
	}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if s.IsGenerationDue() {
		t.Error("Fresh run should not be due")
	}

	if err := hist.Append(core.GenerationRecord{
		ID:               "r2",
		OpportunityTitle: "提案",
		GeneratedAt:      time.Now().Add(-8 * 24 * time.Hour),
		Success:          true,
	}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if !s.IsGenerationDue() {
		t.Error("Eight-day-old run should be due")
	}
	if s.DaysSinceLastGeneration() != 8 {
		t.Errorf("Expected 8 days, got %d", s.DaysSinceLastGeneration())
	}
}

func TestRunManual_Success(t *testing.T) {
	client := &stubClient{responses: pipelineResponses()}
	renderer := &stubRenderer{available: true, url: "https://gamma.app/docs/xyz"}
	s, hist, staticDir := newTestScheduler(t, client, &stubFeeds{}, renderer)

	var stages []int
	result := s.RunManual(context.Background(), "5G協業提案", "# レポート", func(pct int, status string) {
		stages = append(stages, pct)
	})

	if !result.Success {
		t.Fatalf("Expected success, got error %q", result.Error)
	}
	if result.GammaURL != "https://gamma.app/docs/xyz" {
		t.Errorf("Unexpected gamma URL: %s", result.GammaURL)
	}
	if stages[0] != 10 || stages[len(stages)-1] != 100 {
		t.Errorf("Expected progress from 10 to 100, got %v", stages)
	}

	records := hist.Records()
	if len(records) != 1 || !records[0].Success {
		t.Fatalf("Expected one successful record, got %+v", records)
	}
	if records[0].Score == 0 {
		t.Error("Expected quality score on record")
	}

	matches, err := filepath.Glob(filepath.Join(staticDir, "proposals", "proposal_*.md"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("Expected one proposal artifact, got %v (err %v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "# 5G協業提案") {
		t.Error("Artifact missing title heading")
	}
	if !strings.Contains(content, "Gamma URL: https://gamma.app/docs/xyz") {
		t.Error("Artifact missing gamma URL")
	}
	if !strings.Contains(content, "# Executive Critique") || !strings.Contains(content, "# Approach Plan") {
		t.Error("Artifact missing critique or approach plan sections")
	}
}

func TestRunManual_EmptySlideText(t *testing.T) {
	client := &stubClient{responses: []stubResponse{{err: errors.New("connection refused")}}}
	s, hist, _ := newTestScheduler(t, client, &stubFeeds{}, nil)

	result := s.RunManual(context.Background(), "5G協業提案", "", nil)
	if result.Success {
		t.Fatal("Expected failure when slide generation fails")
	}
	if result.Error != "提案テキストの生成に失敗しました" {
		t.Errorf("Unexpected error message: %q", result.Error)
	}

	records := hist.Records()
	if len(records) != 1 || records[0].Success {
		t.Errorf("Expected one failed record, got %+v", records)
	}
}

func TestRunManual_FailureLeavesGenerationDue(t *testing.T) {
	client := &stubClient{responses: []stubResponse{{err: errors.New("overloaded")}}}
	s, _, _ := newTestScheduler(t, client, &stubFeeds{}, nil)

	result := s.RunManual(context.Background(), "5G協業提案", "", nil)
	if result.Success {
		t.Fatal("Expected failure when slide generation fails")
	}
	if !s.IsGenerationDue() {
		t.Error("Failed run must not suppress the next weekly generation")
	}
	if s.DaysSinceLastGeneration() != -1 {
		t.Errorf("Expected no successful generation on record, got %d days", s.DaysSinceLastGeneration())
	}
}

func TestRunManual_GammaNotConfigured(t *testing.T) {
	client := &stubClient{responses: pipelineResponses()}
	s, _, _ := newTestScheduler(t, client, &stubFeeds{}, nil)

	result := s.RunManual(context.Background(), "5G協業提案", "", nil)
	if !result.Success {
		t.Fatalf("Missing renderer should not fail the run: %q", result.Error)
	}
	if result.GammaURL != "" {
		t.Errorf("Expected no gamma URL, got %s", result.GammaURL)
	}
	if result.Metadata.GammaError != "GAMMA_API_KEY not configured" {
		t.Errorf("Unexpected gamma error annotation: %q", result.Metadata.GammaError)
	}
}

func TestRunManual_GammaFailureNonFatal(t *testing.T) {
	client := &stubClient{responses: pipelineResponses()}
	renderer := &stubRenderer{available: true, err: errors.New("gamma generation failed: content policy")}
	s, _, _ := newTestScheduler(t, client, &stubFeeds{}, renderer)

	result := s.RunManual(context.Background(), "5G協業提案", "", nil)
	if !result.Success {
		t.Fatalf("Renderer failure should not fail the run: %q", result.Error)
	}
	if !strings.Contains(result.Metadata.GammaError, "content policy") {
		t.Errorf("Expected gamma error annotation, got %q", result.Metadata.GammaError)
	}
}

func TestRunWeekly_TitleFromNews(t *testing.T) {
	// Call order: title selection, then the four pipeline stages.
	responses := append([]stubResponse{{text: "KDDI×UVANCE: 生成AI共創提案"}}, pipelineResponses()...)
	client := &stubClient{responses: responses}
	feeds := &stubFeeds{
		partnerNews: []core.Article{{Title: "KDDI、生成AI基盤を発表"}},
		companyNews: []core.Article{{Title: "富士通、Kozuchi拡充"}},
	}
	s, _, _ := newTestScheduler(t, client, feeds, nil)

	result := s.RunWeekly(context.Background(), nil)
	if !result.Success {
		t.Fatalf("RunWeekly failed: %q", result.Error)
	}
	if result.OpportunityTitle != "KDDI×UVANCE: 生成AI共創提案" {
		t.Errorf("Unexpected title: %q", result.OpportunityTitle)
	}
}

func TestRunWeekly_TitleFallbacks(t *testing.T) {
	// Title model failure falls back to the first news headline.
	responses := append([]stubResponse{{err: errors.New("overloaded")}}, pipelineResponses()...)
	client := &stubClient{responses: responses}
	feeds := &stubFeeds{partnerNews: []core.Article{{Title: "KDDI、生成AI基盤を発表"}}}
	s, _, _ := newTestScheduler(t, client, feeds, nil)

	result := s.RunWeekly(context.Background(), nil)
	if result.OpportunityTitle != "KDDI×UVANCE: KDDI、生成AI基盤を発表" {
		t.Errorf("Unexpected fallback title: %q", result.OpportunityTitle)
	}

	// No news at all falls back to the fixed title. No title call is made.
	client = &stubClient{responses: pipelineResponses()}
	s, _, _ = newTestScheduler(t, client, &stubFeeds{}, nil)
	result = s.RunWeekly(context.Background(), nil)
	if result.OpportunityTitle != "KDDI DX推進×UVANCE統合ソリューション提案" {
		t.Errorf("Unexpected fixed fallback title: %q", result.OpportunityTitle)
	}
}
