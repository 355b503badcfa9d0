package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"accountintel/internal/core"
	"accountintel/internal/opportunity"
	"accountintel/internal/report"
)

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type statusResponse struct {
	AIProvider     string `json:"ai_provider"`
	AIConfigured   bool   `json:"ai_configured"`
	GammaAvailable bool   `json:"gamma_available"`
	HistoryCount   int    `json:"history_count"`
	IntelCount     int    `json:"intel_count"`
	GenerationDue  bool   `json:"generation_due"`
	DaysSinceRun   int    `json:"days_since_run"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"cache": "ok"}
	if _, err := s.deps.Cache.GetCacheStats(); err != nil {
		checks["cache"] = "error"
		s.respondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Checks: checks})
		return
	}
	s.respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Checks: checks})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, statusResponse{
		AIProvider:     s.deps.Config.AI.Provider,
		AIConfigured:   s.deps.Config.HasAI(),
		GammaAvailable: s.deps.Config.HasGamma(),
		HistoryCount:   len(s.deps.History.Records()),
		IntelCount:     len(s.deps.Intel.Entries()),
		GenerationDue:  s.deps.Scheduler.IsGenerationDue(),
		DaysSinceRun:   s.deps.Scheduler.DaysSinceLastGeneration(),
	})
}

// handleOpportunities generates (or serves from cache) the ranked
// opportunity list from fresh feed data.
func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	input := s.gatherNews()
	opportunities := s.deps.Opportunities.Generate(r.Context(), opportunity.Input(input))
	s.respondJSON(w, http.StatusOK, map[string]any{
		"opportunities": opportunities,
		"generated_at":  time.Now().Format(time.RFC3339),
	})
}

type reportRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	input := s.gatherNews()
	detail, err := s.deps.Reports.Generate(r.Context(), req.Title, report.Input(input))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"generation_due": s.deps.Scheduler.IsGenerationDue(),
		"days_since_run": s.deps.Scheduler.DaysSinceLastGeneration(),
	})
}

// handleRunWeekly triggers the automatic flow. When the schedule is not due
// the run is refused unless force=true is passed.
func (s *Server) handleRunWeekly(w http.ResponseWriter, r *http.Request) {
	if !s.deps.Scheduler.IsGenerationDue() && r.URL.Query().Get("force") != "true" {
		s.respondError(w, http.StatusConflict, "weekly generation is not due yet")
		return
	}
	result := s.deps.Scheduler.RunWeekly(r.Context(), nil)
	s.respondRunResult(w, result)
}

type manualRunRequest struct {
	OpportunityTitle string `json:"opportunity_title"`
	ReportContent    string `json:"report_content"`
}

func (s *Server) handleRunManual(w http.ResponseWriter, r *http.Request) {
	var req manualRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.OpportunityTitle) == "" {
		s.respondError(w, http.StatusBadRequest, "opportunity_title is required")
		return
	}
	result := s.deps.Scheduler.RunManual(r.Context(), req.OpportunityTitle, req.ReportContent, nil)
	s.respondRunResult(w, result)
}

func (s *Server) respondRunResult(w http.ResponseWriter, result *core.RunResult) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	s.respondJSON(w, status, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records := s.deps.History.Records()
	s.respondJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func (s *Server) handleIntelSummary(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"summary": s.deps.Intel.Summary(15),
		"count":   len(s.deps.Intel.Entries()),
	})
}

func (s *Server) handleIntelAccumulate(w http.ResponseWriter, r *http.Request) {
	result := s.deps.Intel.Accumulate(s.deps.Feeds)
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListContext(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"files": s.deps.Contexts.Entries()})
}

type addContextRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Type     string `json:"type"`
}

func (s *Server) handleAddContext(w http.ResponseWriter, r *http.Request) {
	var req addContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		s.respondError(w, http.StatusBadRequest, "filename and content are required")
		return
	}
	if req.Type == "" {
		req.Type = "txt"
	}
	if err := s.deps.Contexts.Add(req.Filename, []byte(req.Content), req.Type); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{"files": s.deps.Contexts.Entries()})
}

func (s *Server) handleToggleContext(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Contexts.Toggle(chi.URLParam(r, "filename")); err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"files": s.deps.Contexts.Entries()})
}

func (s *Server) handleDeleteContext(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Contexts.Delete(chi.URLParam(r, "filename")); err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"files": s.deps.Contexts.Entries()})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Cache.GetCacheStats()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Cache.ClearCache(); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// newsInput is the shared article-title bundle fed to both generators.
type newsInput struct {
	PartnerNews  []string
	CompanyNews  []string
	PartnerPress []string
	CompanyPress []string
}

func (s *Server) gatherNews() newsInput {
	return newsInput{
		PartnerNews:  articleTitles(s.deps.Feeds.Search("KDDI", 8)),
		CompanyNews:  articleTitles(s.deps.Feeds.Search("富士通", 8)),
		PartnerPress: articleTitles(s.deps.Feeds.PartnerPressReleases(5)),
		CompanyPress: articleTitles(s.deps.Feeds.CompanyPressReleases(5)),
	}
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

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
