// Package api serves and fetches experience records over HTTP
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ramedia/lovescroll/model"
	"github.com/ramedia/lovescroll/store"
)

// Source is the record lookup the server reads from; *store.Store satisfies it
type Source interface {
	Get(ctx context.Context, slug string, now time.Time) (*model.Experience, error)
	RecordView(ctx context.Context, slug string) error
}

// Server exposes experience records to remote players
type Server struct {
	source Source
	now    func() time.Time
}

// NewServer creates a server over src
func NewServer(src Source) *Server {
	return &Server{source: src, now: time.Now}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)
	r.Get("/api/experience/{slug}", s.ExperienceHandler)

	return r
}

// PingHandler answers liveness checks with "pong"
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		log.Printf("api: ping response: %v", err)
	}
}

// ExperienceHandler returns the record for a slug, 404 when unknown and 410 once expired
func (s *Server) ExperienceHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeError(w, http.StatusNotFound, "Experience not found")
		return
	}

	exp, err := s.source.Get(r.Context(), slug, s.now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Experience not found")
		return
	case errors.Is(err, store.ErrExpired):
		writeError(w, http.StatusGone, "This experience has expired")
		return
	case err != nil:
		log.Printf("api: fetch %s: %v", slug, err)
		writeError(w, http.StatusInternalServerError, "Failed to load experience")
		return
	}

	if err := s.source.RecordView(r.Context(), slug); err != nil {
		log.Printf("api: %v", err)
	}

	writeJSON(w, http.StatusOK, exp)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}
