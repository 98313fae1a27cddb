// Package web serves analysis results over HTTP: JSON snapshots of the
// latest reports and graphs, plus a single SSE stream that pushes
// status and report updates in watch mode.
package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/cpt-tools/pathcov/pkg/analysis"
	"github.com/cpt-tools/pathcov/pkg/pubsub"
)

// GraphNode is a vertex in the JSON graph representation.
type GraphNode struct {
	ID    string `json:"id"`
	Start bool   `json:"start"`
	End   bool   `json:"end"`
}

// GraphEdge is a directed edge in the JSON graph representation.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphConstraint is a constraint in the JSON graph representation.
type GraphConstraint struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// GraphData is one SUT's graph for visualization.
type GraphData struct {
	Name        string            `json:"name"`
	Nodes       []GraphNode       `json:"nodes"`
	Edges       []GraphEdge       `json:"edges"`
	Constraints []GraphConstraint `json:"constraints"`
}

// Server exposes the latest analysis results.
type Server struct {
	router *mux.Router
	broker *pubsub.Broker

	mu      sync.RWMutex
	results []*analysis.FileResult
}

// NewServer creates a web server with no results yet.
func NewServer() *Server {
	s := &Server{
		router: mux.NewRouter(),
		broker: pubsub.NewBroker(),
	}
	s.setupRoutes()
	return s
}

// SetResults replaces the served results and pushes a report event to
// subscribers.
func (s *Server) SetResults(results []*analysis.FileResult) {
	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	if err := s.broker.Publish("report", results); err != nil {
		slog.Warn("failed to publish report update", "err", err)
	}
}

// PublishStatus pushes a status event to subscribers.
func (s *Server) PublishStatus(status pubsub.BatchStatus) {
	if err := s.broker.Publish("status", status); err != nil {
		slog.Warn("failed to publish batch status", "err", err)
	}
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/events", s.handleEvents).Methods("GET")
	s.router.HandleFunc("/api/report", s.handleReport).Methods("GET")
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.results == nil {
		json.NewEncoder(w).Encode([]*analysis.FileResult{})
		return
	}
	json.NewEncoder(w).Encode(s.results)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	defer s.mu.RUnlock()
	graphs := make([]GraphData, 0, len(s.results))
	for _, fr := range s.results {
		graphs = append(graphs, buildGraphData(fr))
	}
	json.NewEncoder(w).Encode(graphs)
}

// handleEvents streams status and report events over SSE. The broker
// replays the latest event, so a client connecting between runs still
// sees the current state.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Establish the stream before the first event arrives.
	fmt.Fprintf(w, ": connected\n\n")
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	events, err := s.broker.Subscribe(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	for event := range events {
		if err := pubsub.WriteSSE(w, event); err != nil {
			slog.Debug("subscriber write failed, dropping stream", "err", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func buildGraphData(fr *analysis.FileResult) GraphData {
	sut := fr.SUT
	g := sut.Graph()
	data := GraphData{Name: fr.Name}

	start, hasStart := sut.Start()
	for _, v := range g.Vertices() {
		data.Nodes = append(data.Nodes, GraphNode{
			ID:    string(v),
			Start: hasStart && v == start,
			End:   sut.IsEnd(v),
		})
	}
	for _, e := range g.Edges() {
		data.Edges = append(data.Edges, GraphEdge{
			Source: string(e.From),
			Target: string(e.To),
		})
	}
	for _, c := range sut.Constraints() {
		data.Constraints = append(data.Constraints, GraphConstraint{
			From: string(c.From),
			To:   string(c.To),
			Type: c.Type.String(),
		})
	}
	return data
}

// logRequests logs each API request. SSE streams stay open for their
// whole lifetime, so the duration of /api/events is the stream length.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"durationMs", time.Since(start).Milliseconds(),
		)
	})
}

// Start runs the HTTP server on the given port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	slog.Info("starting web server", "addr", addr)
	return http.ListenAndServe(addr, logRequests(s.router))
}
