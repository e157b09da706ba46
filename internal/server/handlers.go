package server

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/ats-optimizer/internal/htmlrepair"
	"github.com/jonathan/ats-optimizer/internal/ingestion"
	"github.com/jonathan/ats-optimizer/internal/keywords"
	"github.com/jonathan/ats-optimizer/internal/server/middleware"
)

// AnalyzeRequest is the body of POST /analyze-keywords.
type AnalyzeRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
	ResumeText     string `json:"resumeText" validate:"required"`
}

// ScrapeRequest is the body of POST /scrape-job. RawText wins over URL.
type ScrapeRequest struct {
	URL     string `json:"url" validate:"required_without=RawText"`
	RawText string `json:"rawText"`
}

// RepairRequest is the body of POST /repair-html.
type RepairRequest struct {
	HTML string `json:"html"`
}

// RepairResponse is the data of POST /repair-html.
type RepairResponse struct {
	HTML string `json:"html"`
}

// handleAnalyzeKeywords compares a job description with resume text.
func (s *Server) handleAnalyzeKeywords(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "jobDescription", Message: "Both job description and resume text are required"})
		return
	}

	report := keywords.Analyze(req.JobDescription, req.ResumeText)
	s.successResponse(w, http.StatusOK, report)
}

// handleScrapeJob structures pasted text or scrapes a job URL. Scrape
// failures still succeed with a posting that explains the failure.
func (s *Server) handleScrapeJob(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "url", Message: "No URL or text provided"})
		return
	}

	if req.RawText != "" {
		s.successResponse(w, http.StatusOK, ingestion.ExtractFromText(req.RawText))
		return
	}

	posting := ingestion.IngestFromURL(r.Context(), req.URL, &ingestion.URLOptions{
		Fetcher:    s.fetcher,
		UseBrowser: s.config.Fetch.UseBrowser,
	})
	s.log.WithFields(logrus.Fields{
		"url":        req.URL,
		"platform":   posting.Platform,
		"request_id": middleware.GetRequestID(r.Context()),
	}).Debug("scraped job posting")
	s.successResponse(w, http.StatusOK, posting)
}

// handleRepairHTML fixes merged and duplicated bullets in generated HTML.
func (s *Server) handleRepairHTML(w http.ResponseWriter, r *http.Request) {
	var req RepairRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.successResponse(w, http.StatusOK, RepairResponse{HTML: htmlrepair.Repair(req.HTML)})
}
