package knowledge

import (
	"fmt"
	"sort"
	"strings"
)

// titleTriggers are generic domain words that indicate an opportunity is in
// scope for the partnership at all, worth a flat relevance bonus.
var titleTriggers = []string{"kddi", "通信", "5g", "dx", "ai", "データ", "セキュリティ", "クラウド"}

// SelectRelevant scores catalog entries against an opportunity title and
// returns the five best matches. A non-empty preferredVertical gives entries
// in that vertical a +5 bonus so they outrank plain keyword hits. A title
// that matches nothing falls back to the first five catalog entries so the
// prompt is never empty.
func SelectRelevant(opportunityTitle, preferredVertical string) []Solution {
	titleLower := strings.ToLower(opportunityTitle)

	type scored struct {
		score int
		sol   Solution
	}
	var relevant []scored
	for _, sol := range Catalog {
		score := 0
		keywords := strings.Fields(strings.ToLower(sol.Name))
		keywords = append(keywords, strings.Fields(strings.ToLower(sol.Vertical))...)
		for i, feature := range sol.KeyFeatures {
			if i >= 3 {
				break
			}
			keywords = append(keywords, strings.ToLower(feature))
		}
		for _, kw := range keywords {
			if strings.Contains(titleLower, kw) {
				score++
			}
		}
		for _, trigger := range titleTriggers {
			if strings.Contains(titleLower, trigger) {
				score++
				break
			}
		}
		if preferredVertical != "" && sol.Vertical == preferredVertical {
			score += 5
		}
		if score > 0 {
			relevant = append(relevant, scored{score, sol})
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool { return relevant[i].score > relevant[j].score })
	if len(relevant) == 0 {
		for _, sol := range Catalog[:5] {
			relevant = append(relevant, scored{1, sol})
		}
	}
	if len(relevant) > 5 {
		relevant = relevant[:5]
	}

	selected := make([]Solution, 0, len(relevant))
	for _, r := range relevant {
		selected = append(selected, r.sol)
	}
	return selected
}

// ContextForProposal renders the relevant catalog entries as prompt text.
func ContextForProposal(opportunityTitle, preferredVertical string) string {
	var b strings.Builder
	b.WriteString("# 富士通Uvance ソリューション情報\n\n")
	for _, sol := range SelectRelevant(opportunityTitle, preferredVertical) {
		fmt.Fprintf(&b, "## %s (%s)\n", sol.Name, sol.Vertical)
		fmt.Fprintf(&b, "概要: %s\n", sol.Description)
		fmt.Fprintf(&b, "主要機能: %s\n", strings.Join(sol.KeyFeatures, ", "))
		useCases := sol.UseCases
		if len(useCases) > 3 {
			useCases = useCases[:3]
		}
		fmt.Fprintf(&b, "ユースケース: %s\n", strings.Join(useCases, ", "))
		fmt.Fprintf(&b, "差別化要素: %s\n", strings.Join(sol.Differentiators, ", "))
		if len(sol.ReferenceCases) > 0 {
			fmt.Fprintf(&b, "参考事例: %s\n", strings.Join(sol.ReferenceCases, ", "))
		}
		fmt.Fprintf(&b, "KDDI関連性: %s\n", sol.PartnerFit)
		fmt.Fprintf(&b, "典型的ROI: %s\n\n", sol.TypicalROI)
	}
	return b.String()
}

// PoCFatigueContext renders the proof-of-concept fatigue countermeasure
// narrative interpolated into every proposal prompt.
func PoCFatigueContext() string {
	lines := []string{
		"# PoC疲れ対策アプローチ\n",
		"## 背景",
		"- 松田社長の「PoC疲れ」「PoC死」言及 — 実証実験が本番展開に繋がらない課題を経営レベルで認識",
		"- 日本企業のDXプロジェクトの約70%がPoC段階で停滞（経産省DXレポート）\n",
		"## 富士通の回答:",
		"- 本番直結型設計: PoCから本番環境への移行を前提としたアーキテクチャ",
		"- 3ヶ月MVP: 最初の3ヶ月で最小限の本番稼働可能プロダクトを構築",
		"- 初期段階ROI試算: PoC開始前にビジネスケースを明確化",
		"- 段階的スケール: Small Start → Quick Win → Full Scale の3ステップ",
		"- 共創型開発: 顧客と富士通が共同でプロダクトオーナーを務める体制",
		"\n## アプローチ原則:",
		"- PoC ≠ 実験 → PoC = 本番Phase1",
		"- 成果物はプロトタイプではなくMVP（Minimum Viable Product）",
		"- 投資判断に必要な定量データを3ヶ月で取得",
		"- 技術検証と同時にビジネスバリデーションを実施",
	}
	return strings.Join(lines, "\n")
}

// AllVerticals returns the distinct vertical names in the catalog, sorted.
func AllVerticals() []string {
	seen := make(map[string]bool)
	var verticals []string
	for _, sol := range Catalog {
		if !seen[sol.Vertical] {
			seen[sol.Vertical] = true
			verticals = append(verticals, sol.Vertical)
		}
	}
	sort.Strings(verticals)
	return verticals
}

// SolutionsByVertical filters the catalog by vertical name.
func SolutionsByVertical(vertical string) []Solution {
	var out []Solution
	for _, sol := range Catalog {
		if sol.Vertical == vertical {
			out = append(out, sol)
		}
	}
	return out
}
