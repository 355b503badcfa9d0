package knowledge

import (
	"fmt"
	"strings"
)

// CompetitorProfile captures what a rival vendor brings to the account.
type CompetitorProfile struct {
	Name         string
	Strengths    []string
	Weaknesses   []string
	Relationship string
	WatchAreas   []string
}

var Competitors = []CompetitorProfile{
	{
		Name:         "NEC",
		Strengths:    []string{"iExperience顔認証", "海底ケーブル", "公共系SI"},
		Weaknesses:   []string{"クラウドネイティブ弱い", "共創型提案の実績薄い"},
		Relationship: "ネットワーク機器で取引あり。AI/DX領域では富士通が優位。",
		WatchAreas:   []string{"生体認証×5G", "デジタルガバメント"},
	},
	{
		Name:         "NTTデータ",
		Strengths:    []string{"大規模SI実績", "グローバルデリバリー", "金融系基盤"},
		Weaknesses:   []string{"グループ内利益相反（NTTドコモ）", "プロダクト型提案が弱い"},
		Relationship: "NTTグループとの競合関係でKDDIは警戒。富士通は中立的パートナー。",
		WatchAreas:   []string{"Generative AI SI", "データセンター統合"},
	},
	{
		Name:         "アクセンチュア",
		Strengths:    []string{"戦略コンサル", "グローバルベストプラクティス", "DX変革手法"},
		Weaknesses:   []string{"実装力がSIベンダー依存", "コスト高", "日本固有課題への理解"},
		Relationship: "コンサル案件で採用あり。富士通は実装力＋コンサルの一体提供で差別化。",
		WatchAreas:   []string{"CxOアドバイザリー", "業務変革"},
	},
	{
		Name:         "AWS / Azure",
		Strengths:    []string{"クラウドインフラ", "AI/MLサービス", "エコシステム"},
		Weaknesses:   []string{"日本語対応", "カスタマイズ性", "オンプレ連携"},
		Relationship: "KDDIはAWSパートナー。富士通はハイブリッドIT＋日本固有要件で補完。",
		WatchAreas:   []string{"エッジAI", "業種別クラウド"},
	},
}

// Trend is one industry trend with its account impact and our angle.
type Trend struct {
	Trend            string
	PartnerImpact    string
	FujitsuAngle     string
	RelatedVerticals []string
}

var IndustryTrends = []Trend{
	{
		Trend:            "生成AI企業導入の本格化",
		PartnerImpact:    "法人向けAIサービス需要急増。WAKONXのAI機能強化が急務。",
		FujitsuAngle:     "Kozuchi AI Platformでセキュアなエンタープライズ生成AI基盤を提供",
		RelatedVerticals: []string{"Digital Shifts"},
	},
	{
		Trend:            "通信×非通信の収益多角化",
		PartnerImpact:    "ARPU成長鈍化→金融・エネルギー・ヘルスケア等の非通信事業拡大が経営課題",
		FujitsuAngle:     "Healthy Living, Trusted Societyの業種特化ソリューションで非通信領域を共同開拓",
		RelatedVerticals: []string{"Healthy Living", "Trusted Society"},
	},
	{
		Trend:            "サプライチェーンESG規制強化",
		PartnerImpact:    "Scope3排出量開示義務化に向けた準備。通信インフラのグリーン化圧力。",
		FujitsuAngle:     "Sustainability Transformationで排出量可視化→削減を一貫支援",
		RelatedVerticals: []string{"Digital Shifts"},
	},
	{
		Trend:            "ゼロトラスト・SASE移行の加速",
		PartnerImpact:    "法人セキュリティサービスの高付加価値化。KDDI自身のインフラ保護も。",
		FujitsuAngle:     "Zero Trust Securityの統合アプローチで差別化",
		RelatedVerticals: []string{"Hybrid IT"},
	},
	{
		Trend:            "デジタルツイン・メタバース都市",
		PartnerImpact:    "5G×XRのユースケース拡大。スマートシティ案件の増加。",
		FujitsuAngle:     "Trusted Societyのデジタルツイン技術でKDDI 5Gインフラと統合",
		RelatedVerticals: []string{"Trusted Society"},
	},
	{
		Trend:            "2027年問題（SAP ECC保守終了）",
		PartnerImpact:    "KDDI自身および法人顧客の基幹システム刷新需要。",
		FujitsuAngle:     "Business ApplicationsのSAP移行実績で大型案件獲得",
		RelatedVerticals: []string{"Digital Shifts"},
	},
}

// IndustryContextForProposal renders the trends matching a vertical plus the
// competitor landscape as prompt text. Unmatched verticals fall back to the
// first three trends.
func IndustryContextForProposal(vertical string) string {
	var b strings.Builder
	b.WriteString("# 業界トレンド・競合コンテキスト\n\n")
	b.WriteString("## 関連する業界トレンド\n")

	matched := false
	writeTrend := func(t Trend) {
		fmt.Fprintf(&b, "- **%s**\n", t.Trend)
		fmt.Fprintf(&b, "  KDDI影響: %s\n", t.PartnerImpact)
		fmt.Fprintf(&b, "  富士通アプローチ: %s\n", t.FujitsuAngle)
	}
	for _, trend := range IndustryTrends {
		for _, v := range trend.RelatedVerticals {
			if v == vertical {
				writeTrend(trend)
				matched = true
				break
			}
		}
	}
	if !matched {
		for _, trend := range IndustryTrends[:3] {
			writeTrend(trend)
		}
	}

	b.WriteString("\n## 主要競合との差別化ポイント\n")
	for _, c := range Competitors {
		fmt.Fprintf(&b, "- **%s**: %s\n", c.Name, c.Relationship)
		fmt.Fprintf(&b, "  弱点: %s\n", strings.Join(c.Weaknesses, ", "))
	}
	return b.String()
}

// CompetitorDifferentiation renders rival comparisons relevant to an
// opportunity title. NEC and NTTデータ are always included.
func CompetitorDifferentiation(opportunityTitle string) string {
	titleLower := strings.ToLower(opportunityTitle)
	var b strings.Builder
	b.WriteString("## 競合差別化\n")

	for _, c := range Competitors {
		relevant := c.Name == "NEC" || c.Name == "NTTデータ"
		if !relevant {
			for _, area := range c.WatchAreas {
				for _, kw := range strings.Split(strings.ToLower(area), "×") {
					if strings.Contains(titleLower, kw) {
						relevant = true
						break
					}
				}
			}
		}
		if !relevant {
			continue
		}
		fmt.Fprintf(&b, "### vs %s\n", c.Name)
		fmt.Fprintf(&b, "強み: %s\n", strings.Join(c.Strengths, ", "))
		fmt.Fprintf(&b, "弱点: %s\n", strings.Join(c.Weaknesses, ", "))
		fmt.Fprintf(&b, "KDDI関係: %s\n\n", c.Relationship)
	}
	return b.String()
}

// PartnerStrategicContext renders the partner's mid-term strategy from its
// investor-relations material as prompt text.
func PartnerStrategicContext() string {
	lines := []string{
		"# KDDI中期経営戦略\n",
		"## ビジョン: 「つなぐチカラ」を進化させ、誰もが思いを実現できる社会を作る",
		"## 中期計画: サテライトグロース戦略 — 通信を核に周辺領域（金融・エネルギー・教育・ヘルスケア）へ拡大\n",
		"## 重点施策:",
		"- WAKONX: 法人DXプラットフォーム事業（AI・データ・クラウド統合）",
		"- BX: ビジネス変革部門（新規共創事業の創出）",
		"- Starlink連携: 衛星通信によるカバレッジ拡大",
		"- 金融事業: auじぶん銀行・au PAYの金融エコシステム拡大",
		"- エネルギー事業: auでんき・カーボンニュートラル推進",
		"- ヘルスケア: 遠隔医療・健康管理サービス",
		"\n## 経営課題・ペインポイント:",
		"- 通信ARPU成長の限界 → 非通信収益の拡大が急務",
		"- 法人DX案件の大型化 → パートナーの実装力が必要",
		"- PoC疲れ → 本番直結のアプローチを求めている",
		"- セキュリティリスクの高度化 → ゼロトラスト対応",
		"- 人材不足 → AI/自動化による生産性向上",
		"- ESG/サステナビリティ → 投資家からの要請強化",
		"\n## 財務ハイライト:",
		"- 売上: 約5.7兆円（2024年度）",
		"- 営業利益: 約1.1兆円",
		"- 設備投資: 約6,500億円（うちDX投資比率拡大中）",
		"- 加入者: au: 約3,100万、UQ: 約1,200万",
	}
	return strings.Join(lines, "\n")
}
