// Package proposal runs the hypothesis-proposal pipeline: slide-deck text
// generation, an executive self-critique pass, gated refinement, and a
// four-week approach plan. Stage failures degrade rather than abort; the
// returned metadata records what actually happened.
package proposal

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"accountintel/internal/core"
	"accountintel/internal/history"
	"accountintel/internal/knowledge"
	"accountintel/internal/llm"
	"accountintel/internal/logger"
)

// minRefinementRunes is the floor below which a refinement pass is judged
// degenerate and the original draft is kept.
const minRefinementRunes = 500

// IntelSource supplies the accumulated partner intelligence summary.
type IntelSource interface {
	Summary(maxShown int) string
}

// ContextSource supplies user-uploaded context document text.
type ContextSource interface {
	ActiveText() string
}

// ProgressFunc receives pipeline progress for UI display.
type ProgressFunc func(pct int, status string)

// Pipeline generates hypothesis proposals.
type Pipeline struct {
	client         llm.Client
	intel          IntelSource
	contexts       ContextSource
	history        *history.Store
	gammaAvailable bool
}

func NewPipeline(client llm.Client, intel IntelSource, contexts ContextSource, hist *history.Store, gammaAvailable bool) *Pipeline {
	return &Pipeline{client: client, intel: intel, contexts: contexts, history: hist, gammaAvailable: gammaAvailable}
}

// Generate runs the full pipeline for one opportunity. The returned proposal
// is always non-nil; a non-nil error means the slide draft itself could not
// be produced and SlideText is empty.
func (p *Pipeline) Generate(ctx context.Context, opportunityTitle, reportContent string, partnerNews, companyNews []string, progress ProgressFunc) (*core.HypothesisProposal, error) {
	notify := func(pct int, status string) {
		if progress != nil {
			progress(pct, status)
		}
	}

	proposal := &core.HypothesisProposal{
		OpportunityTitle: opportunityTitle,
		GeneratedAt:      time.Now(),
	}

	if p.client == nil {
		proposal.ApproachPlan = "AI APIが利用できません。ANTHROPIC_API_KEYを設定してください。"
		return proposal, nil
	}

	vertical := inferVertical(opportunityTitle)
	var pastTemplates []string
	if p.history != nil {
		pastTemplates = p.history.RecentTemplates(5)
	}
	template := knowledge.SelectTemplate(opportunityTitle, vertical, pastTemplates)

	notify(30, "スライドテキスト生成中...")
	slideText, err := p.complete(ctx, p.slidePrompt(opportunityTitle, reportContent, partnerNews, companyNews, template, vertical), 6000)
	if err != nil {
		logger.Error("slide text generation failed", err, "opportunity", opportunityTitle)
		return proposal, fmt.Errorf("提案テキスト生成エラー: %w", err)
	}

	notify(40, "エグゼクティブ批評中...")
	critique, err := p.complete(ctx, critiquePrompt(slideText), 2000)
	if err != nil {
		logger.Warn("executive critique failed, keeping draft as-is", "error", err.Error())
		critique = ""
	}

	refinementApplied := false
	if critique != "" {
		notify(50, "提案テキスト改善中...")
		refined, err := p.complete(ctx, refinePrompt(slideText, critique), 6000)
		switch {
		case err != nil:
			logger.Warn("refinement failed, keeping draft", "error", err.Error())
		case utf8.RuneCountInString(refined) < minRefinementRunes:
			logger.Warn("refinement too short, keeping draft", "runes", utf8.RuneCountInString(refined))
		default:
			slideText = refined
			refinementApplied = true
		}
	}

	notify(60, "アプローチ計画生成中...")
	approachPlan, err := p.complete(ctx, approachPrompt(slideText), 3000)
	if err != nil {
		logger.Warn("approach plan generation failed", "error", err.Error())
		approachPlan = fmt.Sprintf("アプローチ計画生成エラー: %v", err)
	}

	proposal.SlideText = slideText
	proposal.ApproachPlan = approachPlan
	proposal.Metadata = core.ProposalMetadata{
		SlideCount:                countSlides(slideText),
		HasPoCFatigue:             strings.Contains(slideText, "PoC"),
		HasROI:                    strings.Contains(slideText, "ROI") || strings.Contains(slideText, "投資回収"),
		HasGammaAPI:               p.gammaAvailable,
		UvanceSolutionsReferenced: CountUvanceReferences(slideText),
		ExecutiveCritique:         critique,
		RefinementApplied:         refinementApplied,
		TemplateUsed:              template.Name,
		Vertical:                  vertical,
	}
	proposal.QualityScore = Score(proposal.Metadata)
	return proposal, nil
}

func (p *Pipeline) complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	text, err := p.client.Complete(ctx, llm.CompletionRequest{
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens: maxTokens,
		Model:     llm.ModelQuality,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// uvanceKeywords are the solution names counted for the reference metric.
var uvanceKeywords = []string{
	"Digital Shifts", "Hybrid IT", "Healthy Living", "Trusted Society",
	"Kozuchi", "Data e-TRUST", "ゼロトラスト", "プライベート5G",
}

// CountUvanceReferences counts how many distinct solution keywords appear in
// the slide text.
func CountUvanceReferences(text string) int {
	count := 0
	for _, kw := range uvanceKeywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

// Score computes the 0-100 display quality score from proposal metadata.
func Score(m core.ProposalMetadata) int {
	score := 50
	refs := m.UvanceSolutionsReferenced * 8
	if refs > 24 {
		refs = 24
	}
	score += refs
	if m.HasROI {
		score += 12
	}
	if !m.HasPoCFatigue {
		score += 8
	}
	if m.HasGammaAPI {
		score += 6
	}
	if m.RefinementApplied {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	return score
}

func countSlides(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "# スライド") {
			count++
		}
	}
	if count == 0 {
		return 10
	}
	return count
}

// inferVertical picks the vertical whose catalog entries best match a title.
func inferVertical(opportunityTitle string) string {
	selected := knowledge.SelectRelevant(opportunityTitle, "")
	if len(selected) > 0 {
		return selected[0].Vertical
	}
	return "Digital Shifts"
}

func (p *Pipeline) slidePrompt(opportunityTitle, reportContent string, partnerNews, companyNews []string, template knowledge.Template, vertical string) string {
	intelSummary := ""
	if p.intel != nil {
		intelSummary = truncateRunes(p.intel.Summary(15), 2000)
	}

	contextSection := ""
	if p.contexts != nil {
		if data := p.contexts.ActiveText(); data != "" {
			contextSection = fmt.Sprintf("\n# IR資料・追加コンテキスト\n%s\n", truncateRunes(data, 5000))
		}
	}

	return fmt.Sprintf(`# 役割
あなたは「UVANCE×KDDI仮説提案書」を作成するエキスパートです。
KDDI経営層（CTO/CDO/事業部長クラス）が10枚のスライドで意思決定できる提案書を作成します。

# 入力情報

## オポチュニティ
%s

## レポート内容
%s

## KDDI最新動向
%s

## 富士通最新動向
%s

## KDDIインテリジェンス
%s

%s

%s
%s
# 出力指示
以下のスライド構成で**Gamma.app用のプレーンテキスト**を生成してください。

**フォーマットルール:**
- 各スライドは「# スライドN: タイトル」で開始
- タイトルの直後に1文のメッセージライン（メッセージラインだけを読めば全体のストーリーが通ること）
- 各スライド本文は200字以内、箇条書き主体、平易な日本語で
- 数値・ROIは具体的に
- **禁止用語**: 「PoC」「実証実験」「パイロット」「トライアル」。代わりに「本番Phase1」「スモールスタート本番導入」の枠組みで表現すること
- トーン: %s

%s

上記の構成に従い、提案書テキストを生成してください。`,
		opportunityTitle,
		truncateRunes(reportContent, 4000),
		bulletList(capList(partnerNews, 10), "（最新ニュースなし）"),
		bulletList(capList(companyNews, 10), "（最新ニュースなし）"),
		intelSummary,
		knowledge.ContextForProposal(opportunityTitle, vertical),
		knowledge.PoCFatigueContext(),
		contextSection,
		template.Tone,
		template.SlideStructure,
	)
}

func critiquePrompt(slideText string) string {
	return fmt.Sprintf(`# 役割
あなたはKDDIの懐疑的なエグゼクティブ（CFO相当）です。提案を厳しく審査する立場です。

# タスク
以下の提案書ドラフトを批判的にレビューし、弱点を指摘してください。

## 提案書ドラフト
%s

# 出力形式（マークダウン）

## 総合評価
A〜Eのレター評価と判定理由を1文で。

## 致命的な弱点（3件）
数値根拠・論理の飛躍・差別化の観点から、最も深刻な3件。

## 必須の修正（3件）
採択に進むために最低限必要な修正を3件。

## 想定される質問
経営会議で飛んでくる質問を3件。

## スライド別修正指示
問題のあるスライド番号ごとに、具体的な修正指示を1行で。`, truncateRunes(slideText, 4000))
}

func refinePrompt(slideText, critique string) string {
	return fmt.Sprintf(`# 役割
あなたは「UVANCE×KDDI仮説提案書」を作成するエキスパートです。

# タスク
エグゼクティブレビューの指摘を反映し、提案書ドラフトを改訂してください。

## 現行ドラフト
%s

## エグゼクティブレビュー指摘
%s

# 出力指示
- スライド構成（「# スライドN: タイトル」形式）は維持すること
- 指摘された弱点を具体的な数値・根拠で補強すること
- 全文を出力すること（差分ではなく完成版）`, truncateRunes(slideText, 4000), truncateRunes(critique, 1500))
}

func approachPrompt(slideText string) string {
	return fmt.Sprintf(`# 役割
あなたはKDDIアカウント戦略の専門家です。

# タスク
以下の仮説提案に基づき、**4週間のアプローチ計画**を作成してください。

## 提案内容
%s

# 出力形式（マークダウン）

## 週次アプローチ計画

### Week 1: 初期アプローチ
- 具体的なアクション（誰に・何を・どうやって）
- 準備すべき資料

### Week 2: 深堀り
- フォローアップアクション
- 追加調査項目

### Week 3: 提案精緻化
- 提案書のブラッシュアップ
- 社内承認プロセス

### Week 4: クロージング
- 最終プレゼンテーション
- 契約に向けたアクション

## Key Person Map
- アプローチすべきKDDI側のキーパーソン（役職・部門・関心事）

## リスクと対策
- 想定されるリスクと対策案

各週のアクションは具体的かつ実行可能な内容にしてください。`, truncateRunes(slideText, 3000))
}

func bulletList(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
