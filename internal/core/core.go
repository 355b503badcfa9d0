package core

import (
	"fmt"
	"time"
)

// Article represents one news or press-release item as returned by a feed.
// Articles are immutable once fetched; uniqueness is by Title within one
// fetch call.
type Article struct {
	Title       string `json:"title"`       // Headline text
	Link        string `json:"link"`        // Source URL
	Published   string `json:"published"`   // Free-form publication date text from the feed
	Description string `json:"description"` // Optional summary/body excerpt
}

// Verticals is the fixed set of Uvance business-solution categories used to
// classify opportunities and catalog entries.
var Verticals = []string{"Digital Shifts", "Hybrid IT", "Healthy Living", "Trusted Society"}

// IsVertical reports whether v is one of the known Uvance verticals.
func IsVertical(v string) bool {
	for _, known := range Verticals {
		if v == known {
			return true
		}
	}
	return false
}

// Opportunity is a single candidate business angle. Created in bulk (at most
// 3) per generation run; never mutated; referenced by Title as a natural key
// in all downstream stages.
type Opportunity struct {
	Title       string `json:"title"`
	UvanceArea  string `json:"uvance_area"`
	Score       int    `json:"score"`        // 0-100 desirability score
	ScoreReason string `json:"score_reason"`
}

// NewOpportunity validates and constructs an Opportunity. It rejects scores
// outside 0-100 and unknown verticals so that malformed model output never
// travels downstream.
func NewOpportunity(title, uvanceArea string, score int, scoreReason string) (Opportunity, error) {
	if title == "" {
		return Opportunity{}, fmt.Errorf("opportunity title is empty")
	}
	if score < 0 || score > 100 {
		return Opportunity{}, fmt.Errorf("opportunity score %d outside 0-100", score)
	}
	if !IsVertical(uvanceArea) {
		return Opportunity{}, fmt.Errorf("unknown uvance vertical %q", uvanceArea)
	}
	return Opportunity{Title: title, UvanceArea: uvanceArea, Score: score, ScoreReason: scoreReason}, nil
}

// SectionName identifies one of the six fixed detail-report sections.
type SectionName string

const (
	SectionHypothesis SectionName = "想定仮説"
	SectionConcept    SectionName = "解決の方向性・コンセプト"
	SectionProposal   SectionName = "提案内容"
	SectionEffects    SectionName = "期待される効果"
	SectionROI        SectionName = "ROI試算"
	SectionWhyUs      SectionName = "Why Fujitsu"
)

// SectionNames lists the report sections in presentation order.
var SectionNames = []SectionName{
	SectionHypothesis,
	SectionConcept,
	SectionProposal,
	SectionEffects,
	SectionROI,
	SectionWhyUs,
}

// Section is one parsed report section with its accumulated body text.
type Section struct {
	Name SectionName `json:"name"`
	Body string      `json:"body"`
}

// DetailReport is the parsed six-section strategy report for one opportunity.
type DetailReport struct {
	OpportunityTitle string    `json:"opportunity_title"`
	Sections         []Section `json:"sections"`
	Filename         string    `json:"filename"` // Saved HTML artifact, content-addressed by title hash
	SectionsHTML     string    `json:"sections_html"`
}

// ProposalMetadata holds the derived boolean/count fields computed over the
// final slide text of a hypothesis proposal.
type ProposalMetadata struct {
	SlideCount                int    `json:"slide_count"`
	HasPoCFatigue             bool   `json:"has_poc_fatigue"` // Pilot-framing vocabulary present in slide text
	HasROI                    bool   `json:"has_roi"`
	HasGammaAPI               bool   `json:"has_gamma_api"`
	UvanceSolutionsReferenced int    `json:"uvance_solutions_referenced"`
	ExecutiveCritique         string `json:"executive_critique,omitempty"`
	RefinementApplied         bool   `json:"refinement_applied"`
	TemplateUsed              string `json:"template_used,omitempty"`
	Vertical                  string `json:"vertical,omitempty"`
	GammaError                string `json:"gamma_error,omitempty"`
}

// HypothesisProposal is the full output of one pipeline run: the 10-slide
// pitch text, the 4-week approach plan, and derived metadata.
type HypothesisProposal struct {
	OpportunityTitle string           `json:"opportunity_title"`
	SlideText        string           `json:"slide_text"`
	ApproachPlan     string           `json:"approach_plan"`
	Metadata         ProposalMetadata `json:"metadata"`
	GeneratedAt      time.Time        `json:"generated_at"`
	QualityScore     int              `json:"quality_score"`
}

// GenerationRecord is one persisted history entry for a pipeline run.
type GenerationRecord struct {
	ID                string           `json:"id"`
	OpportunityTitle  string           `json:"opportunity_title"`
	GeneratedAt       time.Time        `json:"generated_at"`
	GammaURL          string           `json:"gamma_url,omitempty"`
	Success           bool             `json:"success"`
	SlideText         string           `json:"slide_text"`
	ApproachPlan      string           `json:"approach_plan"`
	ExecutiveCritique string           `json:"executive_critique,omitempty"`
	Score             int              `json:"score"`
	Metadata          ProposalMetadata `json:"metadata"`
}

// IntelligenceEntry is one accumulated news/press item in the append-only
// intelligence log. Deduplicated by Title against the entire history.
type IntelligenceEntry struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	Published     string `json:"published"`
	Description   string `json:"description"`
	Source        string `json:"source"` // "press" or "news"
	AccumulatedAt string `json:"accumulated_at"`
}

// RunResult is the outcome of one weekly or manual scheduler run.
type RunResult struct {
	Success          bool             `json:"success"`
	OpportunityTitle string           `json:"opportunity_title"`
	SlideText        string           `json:"slide_text"`
	ApproachPlan     string           `json:"approach_plan"`
	GammaURL         string           `json:"gamma_url,omitempty"`
	Error            string           `json:"error,omitempty"`
	Metadata         ProposalMetadata `json:"metadata"`
	GeneratedAt      time.Time        `json:"generated_at"`
}
