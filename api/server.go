// Package api - thin HTTP layer over the pricing engine
// The API is only responsible for input ingestion, engine invocation, and
// output serialization. It never performs cost logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"part-cost/core/engine"
	"part-cost/internal/logging"
)

// Server is the API server.
type Server struct {
	orch    *engine.Orchestrator
	mux     *http.ServeMux
	version string
}

// NewServer creates the API server over an orchestrator.
func NewServer(orch *engine.Orchestrator, version string) *Server {
	s := &Server{
		orch:    orch,
		mux:     http.NewServeMux(),
		version: version,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /price", s.handlePrice)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// handlePrice handles POST /price
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	quote := req.ToQuote()
	result, err := s.orch.CalculatePrice(ctx, quote)
	if err != nil {
		logging.Sugar.Warnw("pricing request failed",
			"quote_id", quote.ID, "error", err)
		s.writeError(w, codeFor(err), err.Error(), statusFor(err))
		return
	}

	s.writeJSON(w, PriceResponse{QuoteID: quote.ID, Result: result}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "part-cost",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}
