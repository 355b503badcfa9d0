// Package opportunity generates ranked business opportunities by
// cross-analyzing partner and company news with the language model. Output
// is validated, capped at three entries, and cached; a fixed mock list keeps
// the dashboard alive when no model is configured or output is unusable.
package opportunity

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"accountintel/internal/core"
	"accountintel/internal/history"
	"accountintel/internal/knowledge"
	"accountintel/internal/llm"
	"accountintel/internal/logger"
	"accountintel/internal/store"
)

const (
	maxOpportunities = 3
	cacheTTL         = 2 * time.Hour
)

// Input carries the news headlines fed into one generation run.
type Input struct {
	PartnerNews  []string
	CompanyNews  []string
	PartnerPress []string
	CompanyPress []string
}

// Generator produces the opportunity list. A nil llm client selects mock mode.
type Generator struct {
	client  llm.Client
	cache   *store.Store
	history *history.Store
}

func NewGenerator(client llm.Client, cache *store.Store, hist *history.Store) *Generator {
	return &Generator{client: client, cache: cache, history: hist}
}

// MockOpportunities is the fixed fallback list used without a model.
func MockOpportunities() []core.Opportunity {
	return []core.Opportunity{
		{Title: "WAKONX×Kozuchi生成AI 法人DX加速プラットフォーム", UvanceArea: "Digital Shifts", Score: 94, ScoreReason: "WAKONXの生成AI推進と完全合致。法人顧客へのAI導入支援で即座に提案可能"},
		{Title: "KDDI BX×Uvance共創プログラム 事業変革ワークショップ", UvanceArea: "Digital Shifts", Score: 88, ScoreReason: "KDDI BXの共創ニーズに直結。Uvance共創メソッドで差別化できる"},
		{Title: "WAKONX×Hybrid IT プライベート5G統合インフラ", UvanceArea: "Hybrid IT", Score: 82, ScoreReason: "WAKONXの5G法人展開と技術親和性高。既存インフラ刷新需要あり"},
		{Title: "KDDI BX×Data e-TRUST データ利活用基盤構築", UvanceArea: "Digital Shifts", Score: 76, ScoreReason: "BXのデータドリブン経営推進に合致。ただし競合他社の先行あり"},
		{Title: "WAKONX×ゼロトラスト セキュリティ統合提案", UvanceArea: "Digital Shifts", Score: 68, ScoreReason: "DXセキュリティは重要だが、既存契約の切替ハードルあり"},
	}
}

// Generate returns the ranked opportunity list for the given news. Model
// failures fall back to the mock list after one cache-purged retry.
func (g *Generator) Generate(ctx context.Context, input Input) []core.Opportunity {
	if g.client == nil {
		return MockOpportunities()
	}

	key := cacheKey(input)
	if g.cache != nil {
		if cached, err := g.cache.GetCachedOpportunities(key, cacheTTL); err == nil && len(cached) > 0 {
			return cached
		}
	}

	result := g.fetch(ctx, input)
	if len(result) == 0 {
		// A failed run may have cached an empty list upstream; purge and
		// give the model one more chance before falling back.
		if g.cache != nil {
			_ = g.cache.PurgeOpportunities(key)
		}
		result = g.fetch(ctx, input)
	}
	if len(result) == 0 {
		logger.Warn("opportunity generation produced no usable items, using mock list")
		return MockOpportunities()
	}

	if g.cache != nil {
		if err := g.cache.CacheOpportunities(key, result); err != nil {
			logger.Warn("opportunity cache write failed", "error", err.Error())
		}
	}
	return result
}

func (g *Generator) fetch(ctx context.Context, input Input) []core.Opportunity {
	if len(input.PartnerNews) == 0 && len(input.CompanyNews) == 0 {
		return nil
	}

	text, err := g.client.Complete(ctx, llm.CompletionRequest{
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: g.buildPrompt(input)}},
		MaxTokens: 800,
		Model:     llm.ModelFast,
	})
	if err != nil {
		logger.Warn("opportunity completion failed", "error", err.Error())
		return nil
	}
	return ParseOpportunities(text)
}

// ParseOpportunities extracts the JSON array from model output, validates
// each item, and returns at most three opportunities ranked by score.
// Invalid items are dropped and logged rather than failing the whole list.
func ParseOpportunities(text string) []core.Opportunity {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		logger.Warn("opportunity output contains no JSON array")
		return nil
	}

	var raw []struct {
		Title       string `json:"title"`
		UvanceArea  string `json:"uvance_area"`
		Score       int    `json:"score"`
		ScoreReason string `json:"score_reason"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		logger.Warn("opportunity JSON parse failed", "error", err.Error())
		return nil
	}

	var opportunities []core.Opportunity
	for _, item := range raw {
		opp, err := core.NewOpportunity(item.Title, item.UvanceArea, item.Score, item.ScoreReason)
		if err != nil {
			logger.Warn("dropping invalid opportunity", "title", item.Title, "error", err.Error())
			continue
		}
		opportunities = append(opportunities, opp)
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Score > opportunities[j].Score
	})
	if len(opportunities) > maxOpportunities {
		opportunities = opportunities[:maxOpportunities]
	}
	return opportunities
}

// UnderrepresentedVerticals orders all verticals by how rarely they appeared
// in the last ten generation records, least used first.
func (g *Generator) UnderrepresentedVerticals() []string {
	counts := make(map[string]int)
	if g.history != nil {
		for _, v := range g.history.RecentVerticals(10) {
			counts[v]++
		}
	}

	verticals := make([]string, len(core.Verticals))
	copy(verticals, core.Verticals)
	sort.SliceStable(verticals, func(i, j int) bool {
		return counts[verticals[i]] < counts[verticals[j]]
	})
	return verticals
}

func (g *Generator) buildPrompt(input Input) string {
	var pastTitles []string
	if g.history != nil {
		pastTitles = g.history.RecentTitles(10)
	}
	pastTitlesText := bulletList(pastTitles, "（過去提案なし）")

	underrepresented := g.UnderrepresentedVerticals()
	if len(underrepresented) > 3 {
		underrepresented = underrepresented[:3]
	}

	return fmt.Sprintf(`あなたは富士通のKDDI担当アカウントストラテジストです。**WAKONX（KDDIのDX事業ブランド）とKDDI BX（ビジネス変革部門）**での共創ビジネス創出がミッションです。

以下のKDDI（特にWAKONX/BX）と富士通の最新動向・公式プレスリリースをクロス分析し、**期待度スコアの高い上位3件のビジネスオポチュニティのみ**抽出してください。

【KDDI（WAKONX/BX重点）の最新動向】
%s

【KDDIプレスリリース（公式発表）】
%s

【富士通・Uvanceの最新動向】
%s

【富士通プレスリリース（UVANCE含む）】
%s

【KDDI中期経営戦略】
%s

【競合・業界トレンド】
%s

**重要:**
- KDDIプレスリリースから読み取れる課題・ニーズを仮説として活用
- 富士通プレスリリースのUVANCEソリューションとの交差点を見出す
- WAKONX（DX推進、AI活用、データ利活用）との連携機会を最優先
- KDDI BX（事業変革、共創、新規事業）との協業機会を重視
- 具体的な提案アクション（どのUvanceソリューションで何を提案するか）を明記

# バリエーション要求（必ず遵守）
- 3件のオポチュニティは必ず**異なるUvanceバーティカル**から選ぶこと
- 以下のバーティカルから最低2つ含めること: %s
- Uvanceバーティカル: Digital Shifts, Hybrid IT, Healthy Living, Trusted Society
- 過去に生成済みのテーマと重複しないこと

# 過去の提案テーマ（重複回避）
%s

以下のJSON形式で出力してください。他のテキストは一切不要です。JSONのみ出力してください。

[
  {"title": "オポチュニティのタイトル（WAKONX/BXとの具体的連携内容）", "uvance_area": "関連するUvance領域", "score": 85, "score_reason": "スコアの根拠（WAKONX/BXでの実現可能性とインパクト）"},
  ...
]

scoreは0-100のAI推奨度スコアです。WAKONX/BXでの実現可能性、事業インパクト、緊急度を総合評価してください。スコアの高い順に並べてください。`,
		bulletList(input.PartnerNews, "（取得なし）"),
		bulletList(input.PartnerPress, "（取得なし）"),
		bulletList(input.CompanyNews, "（取得なし）"),
		bulletList(input.CompanyPress, "（取得なし）"),
		truncateRunes(knowledge.PartnerStrategicContext(), 1500),
		truncateRunes(knowledge.IndustryContextForProposal("Digital Shifts"), 1500),
		strings.Join(underrepresented, ", "),
		pastTitlesText,
	)
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

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func cacheKey(input Input) string {
	var b strings.Builder
	for _, group := range [][]string{input.PartnerNews, input.CompanyNews, input.PartnerPress, input.CompanyPress} {
		b.WriteString(strings.Join(group, "\n"))
		b.WriteString("\x00")
	}
	return fmt.Sprintf("opps_%x", md5.Sum([]byte(b.String())))
}
