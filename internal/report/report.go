// Package report generates the six-section detail strategy report for one
// opportunity and renders it as a standalone HTML artifact. Reports are
// cached by opportunity title; the artifact filename is content-addressed by
// a hash of the title so regeneration overwrites in place.
package report

import (
	"context"
	"crypto/md5"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"accountintel/internal/core"
	"accountintel/internal/llm"
	"accountintel/internal/logger"
	"accountintel/internal/store"
)

const cacheTTL = 2 * time.Hour

// Input carries the news headlines giving the report its grounding.
type Input struct {
	PartnerNews  []string
	CompanyNews  []string
	PartnerPress []string
	CompanyPress []string
}

// Generator produces detail reports. A nil llm client selects mock mode.
type Generator struct {
	client    llm.Client
	cache     *store.Store
	staticDir string
}

func NewGenerator(client llm.Client, cache *store.Store, staticDir string) *Generator {
	return &Generator{client: client, cache: cache, staticDir: staticDir}
}

// Generate builds the report for an opportunity, writing the HTML artifact
// under the static directory and caching the parsed result.
func (g *Generator) Generate(ctx context.Context, opportunityTitle string, input Input) (*core.DetailReport, error) {
	if g.cache != nil {
		if cached, err := g.cache.GetCachedReport(opportunityTitle, cacheTTL); err == nil && cached != nil {
			return cached, nil
		}
	}

	var text string
	if g.client == nil {
		text = mockReportText(opportunityTitle)
	} else {
		var err error
		text, err = g.client.Complete(ctx, llm.CompletionRequest{
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildPrompt(opportunityTitle, input)}},
			MaxTokens: 8000,
			Model:     llm.ModelFast,
		})
		if err != nil {
			return nil, fmt.Errorf("report completion failed: %w", err)
		}
	}

	sections := ParseSections(text)
	sectionsHTML := renderSections(sections)

	report := &core.DetailReport{
		OpportunityTitle: opportunityTitle,
		Sections:         sections,
		Filename:         Filename(opportunityTitle),
		SectionsHTML:     sectionsHTML,
	}

	if err := g.writeArtifact(report); err != nil {
		return nil, err
	}
	if g.cache != nil {
		if err := g.cache.CacheReport(*report); err != nil {
			logger.Warn("report cache write failed", "error", err.Error())
		}
	}
	return report, nil
}

// Filename derives the stable artifact name for an opportunity title.
func Filename(opportunityTitle string) string {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(opportunityTitle)))
	return fmt.Sprintf("report_%s.html", hash[:8])
}

// ParseSections splits model output into the six known sections. A section
// starts at a line whose ■ prefix is followed by exactly a known section
// name; any other line is body text for the current section. Markdown
// tokens the model slips in are stripped.
func ParseSections(text string) []core.Section {
	var sections []core.Section
	var current *core.Section

	flush := func() {
		if current != nil && current.Body != "" {
			sections = append(sections, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if name, ok := sectionHeader(line); ok {
			flush()
			current = &core.Section{Name: name}
			continue
		}
		if current == nil {
			continue // preamble before the first header
		}
		cleaned := cleanLine(line)
		if cleaned == "" {
			continue
		}
		if current.Body != "" {
			current.Body += "\n"
		}
		current.Body += cleaned
	}
	flush()
	return sections
}

// sectionHeader reports whether a line is exactly a ■-prefixed known
// section name.
func sectionHeader(line string) (core.SectionName, bool) {
	if !strings.HasPrefix(line, "■") {
		return "", false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "■"))
	for _, name := range core.SectionNames {
		if rest == string(name) {
			return name, true
		}
	}
	return "", false
}

var (
	mdHeadingRe = regexp.MustCompile(`^#{1,6}\s*`)
	mdRuleRe    = regexp.MustCompile(`^[\-\*]{3,}$`)
	mdBulletRe  = regexp.MustCompile(`^\*\s+`)
	subHeadRe   = regexp.MustCompile(`＜([^＞]+)＞`)
)

func cleanLine(line string) string {
	cleaned := strings.TrimLeft(line, "■・- ")
	cleaned = mdHeadingRe.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "**", "")
	cleaned = strings.ReplaceAll(cleaned, "__", "")
	cleaned = mdRuleRe.ReplaceAllString(cleaned, "")
	cleaned = mdBulletRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

var sectionIcons = map[core.SectionName]string{
	core.SectionHypothesis: "&#9670;",
	core.SectionConcept:    "&#9733;",
	core.SectionProposal:   "&#9654;",
	core.SectionEffects:    "&#9673;",
	core.SectionROI:        "&#9650;",
	core.SectionWhyUs:      "&#9632;",
}

// renderSections builds the inner HTML for the report page. Body text is
// escaped; ＜sub-heading＞ markers become styled spans afterwards since the
// full-width brackets survive escaping.
func renderSections(sections []core.Section) string {
	var b strings.Builder
	for _, section := range sections {
		icon := sectionIcons[section.Name]
		if icon == "" {
			icon = "&#9670;"
		}
		extraClass := ""
		if section.Name == core.SectionWhyUs {
			extraClass = " section-uvance"
		}

		var bodyLines []string
		for _, line := range strings.Split(section.Body, "\n") {
			escaped := template.HTMLEscapeString(line)
			escaped = subHeadRe.ReplaceAllString(escaped, `<span class="sub-heading">＜$1＞</span>`)
			bodyLines = append(bodyLines, escaped)
		}

		fmt.Fprintf(&b,
			`<div class="report-section%s"><div class="section-header">%s %s</div><div class="section-body">%s</div></div>`,
			extraClass, icon, template.HTMLEscapeString(string(section.Name)), strings.Join(bodyLines, "<br>"))
	}
	return b.String()
}

func (g *Generator) writeArtifact(report *core.DetailReport) error {
	if err := os.MkdirAll(g.staticDir, 0755); err != nil {
		return fmt.Errorf("failed to create static directory: %w", err)
	}

	var page strings.Builder
	err := pageTemplate.Execute(&page, map[string]any{
		"Title":     report.OpportunityTitle,
		"Generated": time.Now().Format("2006-01-02 15:04:05"),
		"Sections":  template.HTML(report.SectionsHTML),
	})
	if err != nil {
		return fmt.Errorf("failed to render report page: %w", err)
	}

	path := filepath.Join(g.staticDir, report.Filename)
	if err := os.WriteFile(path, []byte(page.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report artifact: %w", err)
	}
	return nil
}

func buildPrompt(opportunityTitle string, input Input) string {
	return fmt.Sprintf(`あなたは富士通のKDDI担当アカウントストラテジストです。**WAKONX（KDDIのDX事業ブランド）とKDDI BX（ビジネス変革部門）**でのビジネス創出がミッションです。

以下のオポチュニティについて、KDDIおよび富士通の公式プレスリリースの内容を踏まえた詳細戦略レポートを作成してください。

【オポチュニティ】
%s

【KDDI（WAKONX/BX重点）の最新動向】
%s

【KDDIプレスリリース（公式発表）】
%s

【富士通・Uvanceの最新動向】
%s

【富士通プレスリリース（UVANCE含む）】
%s

以下の6セクションで構成してください。**KDDIプレスリリースの内容を根拠とし、富士通プレスリリースのUVANCEソリューションを活用した具体的な提案**にしてください。

1. 想定仮説（KDDIプレスリリースから読み取れる課題・ニーズの仮説。公式発表の内容を引用・分析し、KDDIが抱える潜在課題と事業ニーズを構造化する）
2. 解決の方向性・コンセプト（UVANCE＋KDDI戦略の交差点。富士通UvanceのソリューションとKDDI/WAKONXの戦略が交わるポイントを明確化し、共創コンセプトを提示する）
3. 提案内容（具体的なソリューション提案。対象部門、展開シナリオ、想定案件規模を含む具体的な提案を記述する）
4. 期待される効果（定量・定性の効果。導入による定量的な効果（コスト削減額、売上増加見込み等）と定性的な効果（ブランド価値、競争力等）を明記する）
5. ROI試算（投資対効果。初期投資額、年間コスト、売上見込み、BreakEvenポイントを試算する）
6. Why Fujitsu（富士通だからこそのビジネス優位性。Uvanceのクロスインダストリー知見、Kozuchi AI、グローバルデリバリー体制、共創パートナーとしての信頼など、競合他社ではなく富士通を選ぶべき理由を明確に示す）

各セクションの見出しは「■ セクション名」形式で記述してください。
セクション内のサブ見出し・キーワード（KDDIの課題認識、潜在ニーズ、仮説、コンセプト、ソリューション構成、対象部門、定量効果、定性効果、初期投資、クロスインダストリー知見等）は必ず「＜サブ見出し＞」の形式（全角山括弧）で記述してください。マークダウン記法（#, **, * 等）は一切使わないでください。`,
		opportunityTitle,
		bulletList(input.PartnerNews),
		bulletList(input.PartnerPress),
		bulletList(input.CompanyNews),
		bulletList(input.CompanyPress),
	)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "（取得なし）"
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

func mockReportText(opportunityTitle string) string {
	return fmt.Sprintf(`■ 想定仮説
＜KDDIの課題認識＞ KDDIのプレスリリースから、法人DX領域での競争激化と5G/AI活用による新サービス創出への強いニーズが読み取れる。
＜潜在ニーズ＞ %sに関連して、WAKONX推進におけるパートナーエコシステム強化、データ利活用基盤の高度化が急務と推察される。
＜仮説＞ KDDIは自社単独でのDXソリューション開発に限界を感じており、Uvanceのようなクロスインダストリー知見を持つパートナーとの共創を模索している。

■ 解決の方向性・コンセプト
＜UVANCE×KDDI戦略の交差点＞ 富士通UvanceのDigital Shifts/Hybrid ITと、KDDIのWAKONXブランドが目指す「通信×DX」の融合領域に最大の共創機会がある。
＜コンセプト＞ 「WAKONX × Uvance 共創DXプラットフォーム」— KDDIの通信インフラ・顧客基盤と富士通のクロスインダストリーDX知見を統合し、法人顧客の事業変革を加速する。
＜アプローチ＞ Kozuchi AIプラットフォームをWAKONXサービス基盤に統合し、業界特化型AIソリューションを共同開発・展開する。

■ 提案内容
＜ソリューション構成＞ Uvance Hybrid ITのマルチクラウド統合管理基盤をKDDI法人向けクラウドサービスに連携。Kozuchi AI Platformによるネットワーク最適化・予知保全機能を付加。
＜対象部門＞ KDDIソリューション事業本部・WAKONX推進室・法人営業部門
＜展開シナリオ＞ Phase1: 製造業向けローカル5G＋エッジAIパッケージのPoC、Phase2: 3業種横展開、Phase3: WAKONX標準メニュー化
＜想定案件規模＞ 初年度8-12億円、3年間で30億円規模。

■ 期待される効果
＜定量効果＞ KDDI法人顧客のDX導入率20%%向上。運用コスト年間1.5億円削減。新規法人契約獲得による売上増: 年間5-8億円。
＜定性効果＞ WAKONXブランドの差別化強化。富士通のクロスインダストリー知見によるKDDI法人営業力の底上げ。エンタープライズ領域でのKDDI-富士通アライアンスの象徴案件化。
＜顧客価値＞ 法人顧客にとって「通信＋DX＋AI」のワンストップ提供が実現し、ベンダー統合による調達効率化とTime-to-Value短縮が期待できる。

■ ROI試算
＜初期投資＞ 約3億円（基盤構築・PoC・共同開発費用）
＜年間運用コスト＞ 約0.8億円（保守・運用・アップデート）
＜売上見込＞ 初年度: 8-12億円、2年目: 15-20億円、3年目: 25-30億円
＜コスト削減効果＞ 運用効率化による年間コスト削減: 1.5億円
＜想定ROI＞ 初年度150%%、3年累計で400%%超。BreakEven: 導入後8ヶ月。

■ Why Fujitsu
＜クロスインダストリー知見＞ Uvanceは7つの重点分野で業界横断のDX知見を蓄積。通信業界だけでなく製造・金融・公共など幅広い業界の課題解決実績が、KDDI法人顧客への提案力を飛躍的に高める。
＜Kozuchi AIの技術優位性＞ 富士通独自のAIプラットフォームKozuchiは、説明可能AI・因果発見など他社にない技術を保有。KDDIのAIサービスに組み込むことで明確な差別化を実現。
＜グローバルデリバリー体制＞ 国内最大級のSI人材リソースとグローバル13万人体制により、大規模案件の確実な遂行力を担保。NECやEricssonと比較し、End-to-End提案力で優位。
＜共創パートナーとしての信頼＞ KDDI既存取引関係による信頼基盤と、Uvance共創メソッドによる体系的な事業変革支援力が、単なるSIベンダーではなく戦略パートナーとしての価値を提供する。`, opportunityTitle)
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8">
<title>Strategic Report - {{.Title}}</title>
<style>
@import url('https://fonts.googleapis.com/css2?family=Orbitron:wght@400;700;900&family=Share+Tech+Mono&display=swap');
* { margin: 0; padding: 0; box-sizing: border-box; }
html, body {
    background: #000;
    color: #c8aaff;
    font-family: 'Share Tech Mono', monospace;
    min-height: 100vh;
}
.report-container {
    max-width: 900px;
    margin: 0 auto;
    padding: 40px 30px;
    position: relative;
}
.report-container::before {
    content: "";
    position: fixed; inset: 0;
    background: radial-gradient(ellipse at center, rgba(30,10,60,0.3) 0%, rgba(0,0,0,0.95) 70%);
    z-index: -1;
}
.report-header {
    text-align: center;
    margin-bottom: 40px;
    padding-bottom: 20px;
    border-bottom: 1px solid rgba(180,120,255,0.15);
}
.report-label {
    font-family: 'Orbitron', monospace;
    font-size: 0.55rem;
    letter-spacing: 6px;
    color: rgba(180,120,255,0.4);
    margin-bottom: 12px;
}
.report-title {
    font-family: 'Orbitron', monospace;
    font-size: 1.4rem;
    font-weight: 900;
    color: rgba(180,120,255,0.9);
    letter-spacing: 2px;
    text-shadow: 0 0 20px rgba(180,120,255,0.3);
    line-height: 1.6;
}
.report-meta {
    font-size: 0.6rem;
    color: rgba(180,120,255,0.3);
    margin-top: 10px;
    letter-spacing: 2px;
}
.report-section {
    margin-bottom: 28px;
    padding: 16px 20px;
    border: 1px solid rgba(180,120,255,0.08);
    border-radius: 6px;
    background: rgba(10,5,20,0.6);
    box-shadow: 0 0 15px rgba(180,120,255,0.02);
}
.section-header {
    font-family: 'Orbitron', monospace;
    font-size: 0.85rem;
    font-weight: 700;
    color: rgba(180,120,255,0.9);
    letter-spacing: 3px;
    margin-bottom: 14px;
    padding-bottom: 10px;
    border-bottom: 1px solid rgba(180,120,255,0.15);
    text-shadow: 0 0 8px rgba(180,120,255,0.3);
}
.section-body {
    font-size: 0.95rem;
    line-height: 2.2;
    color: rgba(220,200,255,0.85);
}
.sub-heading {
    color: rgba(255,200,120,0.9);
}
.section-uvance {
    border-color: rgba(0,180,255,0.2);
    background: rgba(0,20,40,0.6);
    box-shadow: 0 0 20px rgba(0,180,255,0.04);
}
.section-uvance .section-header {
    color: rgba(0,200,255,0.9);
    border-bottom-color: rgba(0,180,255,0.2);
    text-shadow: 0 0 10px rgba(0,180,255,0.4);
}
.report-footer {
    text-align: center;
    margin-top: 40px;
    padding-top: 20px;
    border-top: 1px solid rgba(180,120,255,0.08);
    font-family: 'Orbitron', monospace;
    font-size: 0.4rem;
    color: rgba(180,120,255,0.2);
    letter-spacing: 4px;
}
.scanlines {
    position: fixed; inset: 0; z-index: 100;
    background: repeating-linear-gradient(0deg, transparent, transparent 2px, rgba(0,0,0,0.03) 2px, rgba(0,0,0,0.03) 4px);
    pointer-events: none;
}
</style>
</head>
<body>
<div class="scanlines"></div>
<div class="report-container">
    <div class="report-header">
        <div class="report-label">FUJITSU // STRATEGIC INTELLIGENCE REPORT</div>
        <div class="report-title">{{.Title}}</div>
        <div class="report-meta">GENERATED: {{.Generated}} // CLASSIFICATION: CONFIDENTIAL</div>
    </div>
    {{.Sections}}
    <div class="report-footer">
        FUJITSU // ACCOUNT INTELLIGENCE DIVISION // KDDI SECTOR // END OF REPORT
    </div>
</div>
</body></html>`))
