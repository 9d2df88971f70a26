// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the paper pipeline as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Kr-Amritanshu/Paper-Genius/internal/pipeline"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/search"
	"github.com/Kr-Amritanshu/Paper-Genius/internal/store"
	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Error messages returned in JSON error bodies.
const (
	msgTopicRequired  = "Topic is required"
	msgNoReferences   = "No references found for this topic. Please try a different topic."
	msgGenerateFailed = "Failed to generate research paper"
	msgPaperNotFound  = "Paper not found"
	msgFetchPapers    = "Failed to fetch papers"
	msgFetchPaper     = "Failed to fetch paper"
	msgPDFFailed      = "Failed to generate PDF"
	msgDeleteFailed   = "Failed to delete paper"
	msgBadBody        = "Invalid request body"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Server routes API requests to a pipeline.Service.
type Server struct {
	svc *pipeline.Service
	log *slog.Logger
	mux *http.ServeMux
}

// New registers the API routes for svc. A nil logger uses slog.Default.
func New(svc *pipeline.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{svc: svc, log: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/generate", s.handleGenerate)
	s.mux.HandleFunc("GET /api/papers", s.handleList)
	s.mux.HandleFunc("GET /api/papers/{id}", s.handleGet)
	s.mux.HandleFunc("GET /api/papers/{id}/pdf", s.handlePDF)
	s.mux.HandleFunc("DELETE /api/papers/{id}", s.handleDelete)
	return s
}

// Handler returns the routes wrapped with request logging and panic
// recovery.
func (s *Server) Handler() http.Handler {
	return recoverPanics(s.log, logRequests(s.log, s.mux))
}

type generateRequest struct {
	Topic         string `json:"topic"`
	CitationStyle string `json:"citationStyle"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, msgTopicRequired)
		return
	}

	paper, err := s.svc.Generate(r.Context(), req.Topic, req.CitationStyle)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, paper)
	case errors.Is(err, pipeline.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), pipeline.ErrInvalidRequest.Error()+": "))
	case errors.Is(err, search.ErrNoReferences):
		writeError(w, http.StatusNotFound, msgNoReferences)
	default:
		s.log.Error("generating paper", "topic", req.Topic, "error", err)
		writeError(w, http.StatusInternalServerError, msgGenerateFailed)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	papers, err := s.svc.Store.List(r.Context())
	if err != nil {
		s.log.Error("listing papers", "error", err)
		writeError(w, http.StatusInternalServerError, msgFetchPapers)
		return
	}
	if papers == nil {
		papers = []types.Paper{}
	}
	writeJSON(w, http.StatusOK, papers)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	paper, err := s.svc.Store.Get(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, paper)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, msgPaperNotFound)
	default:
		s.log.Error("fetching paper", "paperId", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, msgFetchPaper)
	}
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.svc.Render(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		writePDF(w, filename, data)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, msgPaperNotFound)
	default:
		s.log.Error("rendering PDF", "paperId", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, msgPDFFailed)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Store.Delete(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, msgPaperNotFound)
	default:
		s.log.Error("deleting paper", "paperId", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, msgDeleteFailed)
	}
}
