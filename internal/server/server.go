// Package server exposes the search engine over HTTP: the search API, the
// document listing, a health probe, and the Prometheus scrape endpoint.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/searchine/searchine/internal/engine"
	"github.com/searchine/searchine/pkg/errors"
	"github.com/searchine/searchine/pkg/logger"
	"github.com/searchine/searchine/pkg/metrics"
)

// Server serves queries against one immutable index snapshot. All reads,
// the document listing included, go through the searcher: it holds the
// catalog file lock, so nothing else may reopen the catalog while the
// server runs.
type Server struct {
	searcher *engine.Searcher
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// New returns a server answering from searcher. gatherer may be nil to
// disable the /metrics endpoint.
func New(searcher *engine.Searcher, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	return &Server{
		searcher: searcher,
		metrics:  m,
		gatherer: gatherer,
		logger:   slog.Default().With("component", "server"),
	}
}

// Handler builds the HTTP handler with all routes and middleware.
//
// Route table:
//
//	GET /api/v1/search?q=<boolean expr>  → matching documents
//	GET /api/v1/documents                → catalog listing
//	GET /healthz                         → liveness probe
//	GET /metrics                         → Prometheus scrape
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", s.handleSearch)
	mux.HandleFunc("GET /api/v1/documents", s.handleDocuments)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", metrics.Handler(s.gatherer))
	}

	var chain http.Handler = mux
	if s.metrics != nil {
		chain = metricsMiddleware(s.metrics)(chain)
	}
	chain = requestID(chain)
	return chain
}

type searchResponse struct {
	Query     string          `json:"query"`
	TotalHits int             `json:"total_hits"`
	Results   []engine.Result `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	results, err := s.searcher.Search(q)
	if err != nil {
		log.Error("search failed", "query", q, "error", err)
		s.writeError(w, errors.HTTPStatusCode(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, searchResponse{
		Query:     q,
		TotalHits: len(results),
		Results:   results,
	})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	entries, err := s.searcher.Documents()
	if err != nil {
		s.writeError(w, errors.HTTPStatusCode(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total":     len(entries),
		"documents": entries,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "up",
		"documents": s.searcher.DocCount(),
		"terms":     s.searcher.NumTerms(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("writing response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
