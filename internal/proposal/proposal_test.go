package proposal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"accountintel/internal/core"
	"accountintel/internal/llm"
)

type stubResponse struct {
	text string
	err  error
}

type stubClient struct {
	responses []stubResponse
	calls     int
	prompts   []string
}

func (s *stubClient) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	s.prompts = append(s.prompts, req.Messages[len(req.Messages)-1].Content)
	if s.calls >= len(s.responses) {
		return "", errors.New("unexpected call")
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp.text, resp.err
}

// Call order is slide draft, critique, refinement, approach plan.
func pipelineResponses(refined string) []stubResponse {
	return []stubResponse{
		{text: "# スライド1: 課題\nROI 300%。Digital Shifts を活用。"},
		{text: "- 問題点: 数値根拠が弱い → 改善提案: 実績を引用"},
		{text: refined},
		{text: "## 週次アプローチ計画\n### Week 1: 初期アプローチ"},
	}
}

func TestGenerate_NilClient(t *testing.T) {
	p := NewPipeline(nil, nil, nil, nil, false)

	proposal, err := p.Generate(context.Background(), "5G協業提案", "", nil, nil, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if proposal.SlideText != "" {
		t.Error("Expected empty slide text without AI client")
	}
	if !strings.Contains(proposal.ApproachPlan, "ANTHROPIC_API_KEY") {
		t.Errorf("Expected configuration hint, got %q", proposal.ApproachPlan)
	}
}

func TestGenerate_ShortRefinementKeepsDraft(t *testing.T) {
	client := &stubClient{responses: pipelineResponses("短すぎる改訂")}
	p := NewPipeline(client, nil, nil, nil, false)

	proposal, err := p.Generate(context.Background(), "5G協業提案", "レポート", nil, nil, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if proposal.Metadata.RefinementApplied {
		t.Error("Short refinement should be discarded")
	}
	if !strings.Contains(proposal.SlideText, "# スライド1: 課題") {
		t.Errorf("Expected original draft retained, got %q", proposal.SlideText)
	}
}

func TestGenerate_RefinementApplied(t *testing.T) {
	refined := "# スライド1: 改訂版\n" + strings.Repeat("改", 500)
	client := &stubClient{responses: pipelineResponses(refined)}
	p := NewPipeline(client, nil, nil, nil, false)

	proposal, err := p.Generate(context.Background(), "5G協業提案", "レポート", nil, nil, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !proposal.Metadata.RefinementApplied {
		t.Error("Long refinement should replace the draft")
	}
	if !strings.Contains(proposal.SlideText, "改訂版") {
		t.Error("Expected refined text in proposal")
	}
	if proposal.Metadata.ExecutiveCritique == "" {
		t.Error("Expected critique to be recorded")
	}
}

func TestGenerate_CritiqueFailureSkipsRefinement(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{text: "# スライド1: 課題\n本文"},
		{err: errors.New("rate limited")},
		{text: "## 週次アプローチ計画"},
	}}
	p := NewPipeline(client, nil, nil, nil, false)

	proposal, err := p.Generate(context.Background(), "5G協業提案", "", nil, nil, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if proposal.Metadata.RefinementApplied {
		t.Error("Refinement should be skipped when critique fails")
	}
	if client.calls != 3 {
		t.Errorf("Expected 3 calls (no refinement), got %d", client.calls)
	}
}

func TestGenerate_ApproachPlanErrorInline(t *testing.T) {
	responses := pipelineResponses("短い")
	responses[3] = stubResponse{err: errors.New("overloaded")}
	client := &stubClient{responses: responses}
	p := NewPipeline(client, nil, nil, nil, false)

	proposal, err := p.Generate(context.Background(), "5G協業提案", "", nil, nil, nil)
	if err != nil {
		t.Fatalf("Generate should not fail on approach plan error: %v", err)
	}
	if !strings.Contains(proposal.ApproachPlan, "アプローチ計画生成エラー") {
		t.Errorf("Expected inline error note, got %q", proposal.ApproachPlan)
	}
}

func TestGenerate_SlideFailure(t *testing.T) {
	client := &stubClient{responses: []stubResponse{{err: errors.New("connection refused")}}}
	p := NewPipeline(client, nil, nil, nil, false)

	proposal, err := p.Generate(context.Background(), "5G協業提案", "", nil, nil, nil)
	if err == nil {
		t.Fatal("Expected error when slide generation fails")
	}
	if !strings.Contains(err.Error(), "提案テキスト生成エラー") {
		t.Errorf("Unexpected error: %v", err)
	}
	if proposal == nil || proposal.SlideText != "" {
		t.Error("Expected empty proposal alongside the error")
	}
}

func TestGenerate_Metadata(t *testing.T) {
	refined := "短い"
	client := &stubClient{responses: pipelineResponses(refined)}
	p := NewPipeline(client, nil, nil, nil, true)

	proposal, err := p.Generate(context.Background(), "5G×AI協業提案", "", nil, nil, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	m := proposal.Metadata
	if !m.HasROI {
		t.Error("Expected ROI to be detected")
	}
	if m.HasPoCFatigue {
		t.Error("Draft has no PoC mention")
	}
	if !m.HasGammaAPI {
		t.Error("Expected gamma availability flag")
	}
	if m.UvanceSolutionsReferenced != 1 {
		t.Errorf("Expected 1 solution reference, got %d", m.UvanceSolutionsReferenced)
	}
	if m.Vertical == "" || m.TemplateUsed == "" {
		t.Errorf("Expected vertical and template recorded, got %+v", m)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		meta core.ProposalMetadata
		want int
	}{
		{"baseline", core.ProposalMetadata{HasPoCFatigue: true}, 50},
		{"no poc framing", core.ProposalMetadata{}, 58},
		{"references capped", core.ProposalMetadata{UvanceSolutionsReferenced: 5, HasPoCFatigue: true}, 74},
		{"everything", core.ProposalMetadata{
			UvanceSolutionsReferenced: 3,
			HasROI:                    true,
			HasGammaAPI:               true,
			RefinementApplied:         true,
		}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.meta); got != tt.want {
				t.Errorf("Score(%+v) = %d, want %d", tt.meta, got, tt.want)
			}
		})
	}
}

func TestCountUvanceReferences(t *testing.T) {
	text := "Digital Shiftsとプライベート5GとKozuchiを組み合わせる。Digital Shiftsは再掲。"
	if got := CountUvanceReferences(text); got != 3 {
		t.Errorf("Expected 3 distinct references, got %d", got)
	}
}

func TestCountSlides(t *testing.T) {
	text := "# スライド1: A\n本文\n# スライド2: B\n本文"
	if got := countSlides(text); got != 2 {
		t.Errorf("Expected 2 slides, got %d", got)
	}
	if got := countSlides("構成ヘッダなしのテキスト"); got != 10 {
		t.Errorf("Expected default 10 for unstructured text, got %d", got)
	}
}
