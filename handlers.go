package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"deckgen/content"
	"deckgen/database"
	"deckgen/generate"
	"deckgen/layout"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP statuses: malformed content is the
// caller's fault (400), unknown resources are 404, content that cannot be
// made to fit is 422, everything else is 500.
func statusFor(err error) int {
	var schema *content.SchemaError
	var reference *content.ReferenceError
	if errors.As(err, &schema) || errors.As(err, &reference) {
		return http.StatusBadRequest
	}
	var mismatch *layout.LayoutMismatchError
	var rowTooLarge *layout.RowTooLargeError
	var overflow *layout.ContentOverflowError
	if errors.As(err, &mismatch) || errors.As(err, &rowTooLarge) || errors.As(err, &overflow) {
		return http.StatusUnprocessableEntity
	}
	if strings.Contains(err.Error(), "no job found") ||
		strings.Contains(err.Error(), "no template found") ||
		strings.Contains(err.Error(), "has no artifact") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// handleGenerateDeck accepts a deck request and returns the pending job.
func (s *Server) handleGenerateDeck(w http.ResponseWriter, r *http.Request) {
	var req generate.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	snap, err := s.generation.SubmitDeck(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusAccepted, snap)
}

// slideRequest is the synchronous single-slide request body.
type slideRequest struct {
	TemplateID string                   `json:"template_id"`
	Slide      generate.SlideRequest    `json:"slide"`
	Options    *content.GenerateOptions `json:"options,omitempty"`
}

// handleGenerateSlide renders one slide synchronously and returns the .pptx.
func (s *Server) handleGenerateSlide(w http.ResponseWriter, r *http.Request) {
	var req slideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.TemplateID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("template_id is required"))
		return
	}

	data, pages, err := s.generation.GenerateSlide(r.Context(), req.TemplateID, req.Slide, req.Options)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", `attachment; filename="slide.pptx"`)
	w.Header().Set("X-Pages-Generated", strconv.Itoa(pages))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.generation.JobStatus(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleJobDownload(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	data, err := s.generation.Artifact(jobID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pptx"`, jobID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	jobs, err := s.generation.ListJobs(limit)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

func (s *Server) handleRegisterTemplate(w http.ResponseWriter, r *http.Request) {
	var record database.TemplateRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	created, err := s.templates.Register(record)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	records, err := s.templates.List()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": records})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	record, err := s.templates.Get(chi.URLParam(r, "templateID"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
