// Package scheduler orchestrates proposal generation runs. A run accumulates
// partner intelligence, picks an opportunity title, drives the proposal
// pipeline, renders slides through the external service when configured, and
// records the outcome in the generation history. Weekly runs fire when the
// last run is seven days old or older; manual runs skip the due check.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"accountintel/internal/core"
	"accountintel/internal/gamma"
	"accountintel/internal/history"
	"accountintel/internal/intel"
	"accountintel/internal/llm"
	"accountintel/internal/logger"
	"accountintel/internal/proposal"
)

// generationInterval is the cadence of automatic runs.
const generationInterval = 7 * 24 * time.Hour

// fallbackTitle is used when no news is available to derive a title from.
const fallbackTitle = "KDDI DX推進×UVANCE統合ソリューション提案"

// FeedSource is the feed surface a run needs.
type FeedSource interface {
	Search(query string, n int) []core.Article
	PartnerPressReleases(n int) []core.Article
	CompanyPressReleases(n int) []core.Article
}

// SlideRenderer turns slide text into a hosted presentation.
type SlideRenderer interface {
	Available() bool
	GenerateAndWait(ctx context.Context, inputText string, numCards int, callback func(string)) (*gamma.Generation, error)
}

// Scheduler runs the weekly and manual generation flows.
type Scheduler struct {
	client    llm.Client
	feeds     FeedSource
	intel     *intel.Log
	pipeline  *proposal.Pipeline
	renderer  SlideRenderer
	history   *history.Store
	staticDir string
}

func New(client llm.Client, feeds FeedSource, intelLog *intel.Log, pipeline *proposal.Pipeline, renderer SlideRenderer, hist *history.Store, staticDir string) *Scheduler {
	return &Scheduler{
		client:    client,
		feeds:     feeds,
		intel:     intelLog,
		pipeline:  pipeline,
		renderer:  renderer,
		history:   hist,
		staticDir: staticDir,
	}
}

// IsGenerationDue reports whether an automatic run should fire. A store with
// no recorded run is always due.
func (s *Scheduler) IsGenerationDue() bool {
	last, ok := s.history.LastGeneration()
	if !ok {
		return true
	}
	return time.Since(last) >= generationInterval
}

// DaysSinceLastGeneration returns whole days since the last run, or -1 when
// no run has been recorded.
func (s *Scheduler) DaysSinceLastGeneration() int {
	last, ok := s.history.LastGeneration()
	if !ok {
		return -1
	}
	return int(time.Since(last).Hours() / 24)
}

// RunWeekly executes the full automatic flow: intelligence accumulation,
// title selection from the freshest partner news, then generation.
func (s *Scheduler) RunWeekly(ctx context.Context, progress proposal.ProgressFunc) *core.RunResult {
	notify := progressNotifier(progress)

	notify(10, "KDDIインテリジェンス蓄積中...")
	accResult := s.intel.Accumulate(s.feeds)
	logger.Info("intelligence accumulated",
		"new_entries", accResult.NewEntries,
		"total_entries", accResult.TotalEntries)

	notify(20, "最新ニュース取得中...")
	partnerNews := articleTitles(s.feeds.Search("KDDI", 8))
	companyNews := articleTitles(s.feeds.Search("富士通", 8))

	title := s.selectTitle(ctx, partnerNews)
	reportContent := newsContext(partnerNews, companyNews)

	return s.run(ctx, title, reportContent, partnerNews, companyNews, progress)
}

// RunManual executes a generation run for a user-chosen opportunity and its
// detail report, bypassing the seven-day due check.
func (s *Scheduler) RunManual(ctx context.Context, opportunityTitle, reportContent string, progress proposal.ProgressFunc) *core.RunResult {
	notify := progressNotifier(progress)

	notify(10, "KDDIインテリジェンス蓄積中...")
	s.intel.Accumulate(s.feeds)

	notify(20, "最新ニュース取得中...")
	partnerNews := articleTitles(s.feeds.Search("KDDI", 8))
	companyNews := articleTitles(s.feeds.Search("富士通", 8))

	if reportContent == "" {
		reportContent = newsContext(partnerNews, companyNews)
	}
	return s.run(ctx, opportunityTitle, reportContent, partnerNews, companyNews, progress)
}

func (s *Scheduler) run(ctx context.Context, title, reportContent string, partnerNews, companyNews []string, progress proposal.ProgressFunc) *core.RunResult {
	notify := progressNotifier(progress)
	generatedAt := time.Now()

	notify(25, "仮説提案書生成中...")
	prop, err := s.pipeline.Generate(ctx, title, reportContent, partnerNews, companyNews, progress)
	if err != nil || prop.SlideText == "" {
		if err != nil {
			logger.Error("proposal generation failed", err, "opportunity", title)
		}
		result := &core.RunResult{
			OpportunityTitle: title,
			Error:            "提案テキストの生成に失敗しました",
			GeneratedAt:      generatedAt,
		}
		s.record(prop, title, "", false)
		return result
	}

	gammaURL := ""
	notify(70, "Gamma APIでスライド生成中...")
	if s.renderer == nil || !s.renderer.Available() {
		prop.Metadata.GammaError = "GAMMA_API_KEY not configured"
		logger.Warn("slide rendering skipped", "reason", prop.Metadata.GammaError)
	} else {
		gen, err := s.renderer.GenerateAndWait(ctx, prop.SlideText, prop.Metadata.SlideCount, func(msg string) {
			notify(70, msg)
		})
		if err != nil {
			prop.Metadata.GammaError = err.Error()
			logger.Warn("slide rendering failed", "error", err.Error())
		} else {
			gammaURL = gen.GammaURL
			logger.Info("slides rendered",
				"gamma_url", gammaURL,
				"credits_remaining", gen.CreditsRemaining)
		}
	}

	notify(90, "結果を保存中...")
	if path, err := s.writeArtifact(prop, gammaURL); err != nil {
		logger.Warn("proposal artifact write failed", "error", err.Error())
	} else {
		logger.Info("proposal artifact written", "path", path)
	}
	s.record(prop, title, gammaURL, true)

	notify(100, "完了!")
	return &core.RunResult{
		Success:          true,
		OpportunityTitle: title,
		SlideText:        prop.SlideText,
		ApproachPlan:     prop.ApproachPlan,
		GammaURL:         gammaURL,
		Metadata:         prop.Metadata,
		GeneratedAt:      generatedAt,
	}
}

func (s *Scheduler) record(prop *core.HypothesisProposal, title, gammaURL string, success bool) {
	rec := core.GenerationRecord{
		ID:               uuid.NewString(),
		OpportunityTitle: title,
		GeneratedAt:      time.Now(),
		GammaURL:         gammaURL,
		Success:          success,
	}
	if prop != nil {
		rec.SlideText = prop.SlideText
		rec.ApproachPlan = prop.ApproachPlan
		rec.ExecutiveCritique = prop.Metadata.ExecutiveCritique
		rec.Score = prop.QualityScore
		rec.Metadata = prop.Metadata
	}
	if err := s.history.Append(rec); err != nil {
		logger.Warn("history append failed", "error", err.Error())
	}
}

// selectTitle asks the fast model for a concise opportunity title based on
// the freshest partner news, falling back to a derived or fixed title.
func (s *Scheduler) selectTitle(ctx context.Context, partnerNews []string) string {
	if s.client != nil && len(partnerNews) > 0 {
		prompt := fmt.Sprintf(`以下はKDDIの最新ニュースです。富士通UVANCEとの協業提案のタイトルを1つ生成してください。

%s

条件:
- 30〜50文字の日本語
- 「KDDI」と具体的なテーマを含める
- タイトルのみを出力（説明・引用符なし）`, strings.Join(capList(partnerNews, 10), "\n"))

		text, err := s.client.Complete(ctx, llm.CompletionRequest{
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
			MaxTokens: 100,
			Model:     llm.ModelFast,
		})
		if err == nil {
			title := strings.Trim(strings.TrimSpace(text), "「」\"'")
			if n := utf8.RuneCountInString(title); n > 0 && n <= 60 && !strings.Contains(title, "\n") {
				return title
			}
			logger.Warn("generated title rejected", "title", title)
		} else {
			logger.Warn("title generation failed", "error", err.Error())
		}
	}

	if len(partnerNews) > 0 {
		return "KDDI×UVANCE: " + truncateRunes(partnerNews[0], 40)
	}
	return fallbackTitle
}

// writeArtifact saves the proposal as a timestamped markdown file under the
// static proposals directory and returns the path.
func (s *Scheduler) writeArtifact(prop *core.HypothesisProposal, gammaURL string) (string, error) {
	dir := filepath.Join(s.staticDir, "proposals")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create proposals directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", prop.OpportunityTitle)
	fmt.Fprintf(&b, "Generated: %s\n", prop.GeneratedAt.Format("2006-01-02 15:04:05"))
	if gammaURL != "" {
		fmt.Fprintf(&b, "Gamma URL: %s\n", gammaURL)
	}
	b.WriteString("\n---\n\n")
	b.WriteString(prop.SlideText)
	b.WriteString("\n")
	if prop.Metadata.ExecutiveCritique != "" {
		fmt.Fprintf(&b, "\n# Executive Critique\n\n%s\n", prop.Metadata.ExecutiveCritique)
	}
	fmt.Fprintf(&b, "\n# Approach Plan\n\n%s\n", prop.ApproachPlan)

	path := filepath.Join(dir, fmt.Sprintf("proposal_%s.md", prop.GeneratedAt.Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write proposal artifact: %w", err)
	}
	return path, nil
}

func progressNotifier(progress proposal.ProgressFunc) proposal.ProgressFunc {
	return func(pct int, status string) {
		if progress != nil {
			progress(pct, status)
		}
	}
}

func newsContext(partnerNews, companyNews []string) string {
	var b strings.Builder
	b.WriteString("# KDDI最新動向\n")
	for _, title := range capList(partnerNews, 8) {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	b.WriteString("\n# 富士通最新動向\n")
	for _, title := range capList(companyNews, 8) {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	return b.String()
}

func articleTitles(articles []core.Article) []string {
	var titles []string
	for _, a := range articles {
		if a.Title != "" {
			titles = append(titles, a.Title)
		}
	}
	return titles
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
