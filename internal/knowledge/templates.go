package knowledge

import (
	"math/rand"
	"strings"
)

// Template is one proposal slide-deck template. SlideStructure is prompt
// text handed verbatim to the generator.
type Template struct {
	Name           string
	Description    string
	SlideStructure string
	SuitableFor    []string
	Tone           string
}

// Templates holds the four deck templates by name.
var Templates = map[string]Template{
	"STANDARD": {
		Name:        "STANDARD",
		Description: "汎用提案書テンプレート。初回提案やフォーマルな場面に最適。8-12スライドで課題分析からROI、Why Fujitsuまで網羅的にカバー。",
		SlideStructure: `## スライド構成（STANDARD: 8-12スライド、Argument型: 状況→判断→実施策）

# スライド1: エグゼクティブサマリー
- 「KDDIの[課題]に対し、[UVANCEソリューション]で[期待成果]を実現する」を一言で
- KDDIの経営ビジョンへの共感（買い手目線）
- 期待成果（定量数値必須）

# スライド2: KDDI経営課題①（状況・事実）
- 最も重要な経営課題を構造化
- 外部環境の変化との因果関係
- 定量的インパクト（放置した場合のリスク）

# スライド3: KDDI経営課題②（状況・事実）
- 2番目の経営課題（スライド2とMECEの関係）
- 業界トレンドとの関連
- 定量的インパクト

# スライド4: 仮説提案（意味合い・判断）
- 「こうすればKDDIの課題が解決する」を明言
- 痛点→仮説のロジックを1枚で
- UVANCEソリューションとの紐付け

# スライド5: UVANCE具体提案①（実施策・How）
- ソリューション名と概要
- KDDIでの具体的適用シーン
- 課題→ソリューション→期待効果のマッピング

# スライド6: UVANCE具体提案②（実施策・How）
- 2つ目のソリューション
- スライド5とのシナジー効果
- 課題②との明確なマッピング

# スライド7: 共創型推進アプローチ（How）
- 本番環境を前提とした段階的推進（Small Start → Quick Win → Full Scale）
- 3ヶ月で本番稼働可能なMVP構築
- 初期段階からKPIを設定

# スライド8: ROI試算
- 定量効果（コスト削減額、売上向上額）を具体数値で
- 投資回収期間と試算根拠

# スライド9: Why Fujitsu
- KDDIの課題解決に対する富士通固有の差別化要素
- 競合（NEC/NTTデータ/アクセンチュア）との明確な差分

# スライド10: Next Steps
- 具体的な次のアクション（日程入り）
- 初回共創ワークショップ提案`,
		SuitableFor: []string{"Digital Shifts", "Hybrid IT", "Healthy Living", "Trusted Society"},
		Tone:        "フォーマル、論理的、データドリブン",
	},
	"CO_CREATION": {
		Name:        "CO_CREATION",
		Description: "共創ワークショップ型テンプレート。BX部門向け新規事業共創に最適。対等なパートナーシップの姿勢で、一緒に作る提案。6-8スライド。",
		SlideStructure: `## スライド構成（CO_CREATION: 6-8スライド、共創ワークショップ型）

# スライド1: 共創ビジョン — なぜKDDI×富士通なのか
- 両社のアセットが交わる「スイートスポット」を1枚で示す
- KDDIの通信基盤×富士通のクロスインダストリー知見

# スライド2: KDDI×富士通の接点マップ
- KDDIの事業ポートフォリオと富士通UVANCEの接点を可視化
- 既に成果が出ている領域と、未開拓の共創機会

# スライド3: 共創テーマ提案 — 3つの方向性
- テーマA: [KDDI課題起点のテーマ]
- テーマB: [業界トレンド起点のテーマ]
- テーマC: [両社アセット掛け合わせのテーマ]

# スライド4: ワークショップ設計
- Day 1: 課題共有・アイデア発散（両社混成チーム）
- Day 2: プロトタイプ検討・ビジネスモデル仮説
- アウトプット: 共創ロードマップドラフト

# スライド5: 期待アウトプットと成功イメージ
- ワークショップから3ヶ月後のマイルストーン
- MVP定義と本番への道筋

# スライド6: 3ヶ月ロードマップ
- Month 1: ワークショップ → テーマ選定 → チーム組成
- Month 2: 深掘りリサーチ → MVPスコープ定義
- Month 3: MVP開発 → 初期検証 → 本番移行判断

# スライド7: 参加者・体制
- KDDI側: BX部門、事業部門、技術部門
- 富士通側: UVANCE専門チーム、業界コンサル、技術アーキテクト

# スライド8: Next Steps — 最初の一歩
- ワークショップ日程候補（2週間以内に実施）`,
		SuitableFor: []string{"Digital Shifts", "Trusted Society"},
		Tone:        "対等なパートナーシップ、一緒に作る姿勢、カジュアルだが本質的",
	},
	"QUICK_WIN": {
		Name:        "QUICK_WIN",
		Description: "短期成果型テンプレート。PoC疲れ対策やスモールスタートに最適。3ヶ月で成果を出す具体性とスピード感を重視。5-7スライド。",
		SlideStructure: `## スライド構成（QUICK_WIN: 5-7スライド、短期成果型）

# スライド1: 課題の緊急性 — なぜ「今」動くべきか
- KDDIが直面する具体的な課題と、対応が遅れた場合の定量的リスク
- 「3ヶ月で初期成果を出す」というコミットメント

# スライド2: 3ヶ月で得られる成果（ゴール設定）
- 定量的な成果目標（コスト削減額、効率化率、売上インパクト）
- 成果測定の方法とKPI

# スライド3: MVPスコープ — やること・やらないこと
- スコープIN: 3ヶ月で実現する機能・範囲
- スコープOUT: Phase2以降に回す項目
- 「実験ではなく、本番Phase1」の位置付け

# スライド4: 実施体制と進め方
- Week 1-4: 要件確認・環境構築・初期開発
- Week 5-8: コア機能実装・データ連携
- Week 9-12: 統合テスト・本番投入・効果測定

# スライド5: 投資対効果（即効性重視）
- 初期投資額（3ヶ月分のみ）
- 3ヶ月後の定量効果と投資回収期間

# スライド6: リスクと対策
- 想定リスクTOP3と具体的な対策
- Go/No-Go判断基準（3ヶ月後の評価指標）

# スライド7: 即時アクション — 来週から動く
- 来週: キックオフミーティング設定
- 必要な意思決定事項（予算承認、担当者アサイン）`,
		SuitableFor: []string{"Digital Shifts", "Hybrid IT"},
		Tone:        "スピード重視、実行力アピール、具体的かつ簡潔",
	},
	"EXECUTIVE_BRIEF": {
		Name:        "EXECUTIVE_BRIEF",
		Description: "経営ブリーフ型テンプレート。CxOレベルの短時間プレゼンに最適。数字中心で判断材料を簡潔に提供。4-6スライド。",
		SlideStructure: `## スライド構成（EXECUTIVE_BRIEF: 4-6スライド、経営ブリーフ型）

# スライド1: 経営インパクト — 数字で語る
- ヘッドライン: 「[X億円]の事業機会」または「[Y%]のコスト構造改革」
- KDDI中期計画との整合（サテライトグロース戦略のどこに効くか）
- 3年間の財務インパクト試算（売上/利益/コスト削減）

# スライド2: 競合との差分 — なぜ今、富士通か
- 競合3社（NEC/NTTデータ/アクセンチュア）の動向と富士通の差別化
- 「富士通だからできること」を3つの具体的ファクトで

# スライド3: 提案骨子 — What × How × When
- What: 提案の核心を1行で
- How: UVANCEソリューションの組合せと導入アプローチ
- When: 3段階のタイムライン（3ヶ月/6ヶ月/12ヶ月）

# スライド4: 意思決定ポイント
- Go/No-Go の判断基準
- 必要な投資額と期待リターン（ROI表）
- 「今日決めていただきたいこと」を明確に

# スライド5（オプション）: 参考データ
- 類似案件の実績データ、業界ベンチマーク

# スライド6（オプション）: Next Steps
- 即時アクション（1週間以内）、30日ロードマップ`,
		SuitableFor: []string{"Digital Shifts", "Hybrid IT", "Healthy Living", "Trusted Society"},
		Tone:        "簡潔、数字中心、判断材料提供、経営者目線",
	},
}

// templateKeywords maps a template name to the title keywords that make it a
// strong fit.
var templateKeywords = map[string][]string{
	"CO_CREATION":     {"共創", "bx", "ワークショップ", "新規事業"},
	"QUICK_WIN":       {"poc", "スモール", "mvp", "短期", "即効"},
	"EXECUTIVE_BRIEF": {"経営", "cxo", "戦略", "投資"},
}

// SelectTemplate picks a deck template for an opportunity. Candidates are
// filtered to the vertical, templates used in the last three generations are
// avoided, and a keyword match on the title outweighs the random tiebreak.
func SelectTemplate(opportunityTitle, vertical string, pastTemplates []string) Template {
	var candidates []Template
	for _, tmpl := range Templates {
		if len(tmpl.SuitableFor) == 0 {
			candidates = append(candidates, tmpl)
			continue
		}
		for _, v := range tmpl.SuitableFor {
			if v == vertical {
				candidates = append(candidates, tmpl)
				break
			}
		}
	}
	if len(candidates) == 0 {
		for _, tmpl := range Templates {
			candidates = append(candidates, tmpl)
		}
	}

	recent := make(map[string]bool)
	start := len(pastTemplates) - 3
	if start < 0 {
		start = 0
	}
	for _, name := range pastTemplates[start:] {
		recent[name] = true
	}
	var filtered []Template
	for _, tmpl := range candidates {
		if !recent[tmpl.Name] {
			filtered = append(filtered, tmpl)
		}
	}
	if len(filtered) == 0 {
		filtered = candidates
	}

	titleLower := strings.ToLower(opportunityTitle)
	best := filtered[0]
	bestScore := -1.0
	for _, tmpl := range filtered {
		score := rand.Float64() * 2
		for _, kw := range templateKeywords[tmpl.Name] {
			if strings.Contains(titleLower, kw) {
				score += 3
				break
			}
		}
		if score > bestScore {
			bestScore = score
			best = tmpl
		}
	}
	return best
}
