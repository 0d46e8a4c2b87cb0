// Package server exposes the agent over HTTP: section generation, run
// statistics, markdown previews, health and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Divas-Gupta30/marco-agent/internal/model"
	"github.com/Divas-Gupta30/marco-agent/internal/output"
	"github.com/Divas-Gupta30/marco-agent/internal/outline"
	"github.com/Divas-Gupta30/marco-agent/internal/storage"
	"github.com/Divas-Gupta30/marco-agent/internal/workflow"
)

// Prometheus metrics
var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marco_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "marco_request_duration_seconds",
			Help: "Duration of API requests",
		},
		[]string{"method", "endpoint"},
	)
	sectionsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marco_sections_generated_total",
			Help: "Sections processed by the workflow",
		},
		[]string{"result"},
	)
	workflowAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marco_workflow_attempts",
			Help:    "Attempts consumed per workflow run",
			Buckets: prometheus.LinearBuckets(1, 1, 8),
		},
	)
	chunksInStore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "marco_chunks_in_store_total",
			Help: "Chunks currently indexed in the vector store",
		},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(sectionsGenerated)
	prometheus.MustRegister(workflowAttempts)
	prometheus.MustRegister(chunksInStore)
}

// Server wires the workflow and its supporting stores behind HTTP handlers.
type Server struct {
	Orchestrator *workflow.Orchestrator
	Sections     []model.Section
	Variables    []string
	Writer       *output.Writer
	Store        *storage.Store
	Runs         *storage.RunLog

	Addr string
}

// GenerateRequest selects what to process. An empty Section means the whole
// outline.
type GenerateRequest struct {
	Section   string   `json:"section,omitempty"`
	Variables []string `json:"variables,omitempty"`
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/generate", s.handleGenerate).Methods("POST")
	router.HandleFunc("/sections", s.handleSections).Methods("GET")
	router.HandleFunc("/stats", s.handleStats).Methods("GET")
	router.HandleFunc("/preview/{name}", s.handlePreview).Methods("GET")
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	router.Handle("/metrics", promhttp.Handler())
	return router
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	server := &http.Server{
		Addr:    s.Addr,
		Handler: s.Router(),
	}

	go s.updateMetrics()

	go func() {
		log.Printf("Marco agent server starting on %s", s.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues("POST", "/generate").Observe(time.Since(start).Seconds())
	}()

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestsTotal.WithLabelValues("POST", "/generate", "error").Inc()
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sections := s.Sections
	if req.Section != "" {
		scoped, err := outline.Range(s.Sections, req.Section)
		if err != nil {
			requestsTotal.WithLabelValues("POST", "/generate", "error").Inc()
			http.Error(w, "Unknown section "+req.Section, http.StatusNotFound)
			return
		}
		sections = scoped
	}
	variables := s.Variables
	if len(req.Variables) > 0 {
		variables = req.Variables
	}

	res := s.Orchestrator.ProcessAll(r.Context(), sections, variables)
	for _, p := range res.Processed {
		workflowAttempts.Observe(float64(p.Stats.Attempts))
		sectionsGenerated.WithLabelValues("success").Inc()
		s.persist(p)
	}
	for _, e := range res.Errors {
		sectionsGenerated.WithLabelValues("error").Inc()
		s.recordFailure(e)
	}

	requestsTotal.WithLabelValues("POST", "/generate", "success").Inc()
	writeJSONResponse(w, res)
}

// persist writes the finished section to disk and records the run. Failures
// here are logged, not surfaced; the generated content is already in the
// response.
func (s *Server) persist(p workflow.SectionResult) {
	if s.Writer != nil {
		if _, err := s.Writer.WriteSection(p.Section, p.Piece); err != nil {
			log.Printf("server: write section %q: %v", p.Section.Number, err)
		}
	}
	if s.Runs != nil {
		rec := model.RunRecord{
			Section:  p.Section.Title,
			State:    string(p.Stats.FinalState),
			Attempts: p.Stats.Attempts,
			Chars:    len(p.Piece.Content),
			Approved: p.Piece.Approved,
		}
		if err := s.Runs.Record(rec); err != nil {
			log.Printf("server: record run: %v", err)
		}
	}
}

func (s *Server) recordFailure(e workflow.SectionError) {
	if s.Runs == nil {
		return
	}
	rec := model.RunRecord{
		Section: e.Section,
		State:   string(workflow.StateError),
	}
	if err := s.Runs.Record(rec); err != nil {
		log.Printf("server: record run: %v", err)
	}
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	requestsTotal.WithLabelValues("GET", "/sections", "success").Inc()
	writeJSONResponse(w, map[string]interface{}{"sections": s.Sections})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{}

	if s.Store != nil {
		if n, err := s.Store.Count(r.Context()); err == nil {
			stats["chunks_indexed"] = n
		}
	}
	if s.Runs != nil {
		recent, err := s.Runs.Recent(20)
		if err != nil {
			requestsTotal.WithLabelValues("GET", "/stats", "error").Inc()
			http.Error(w, "Failed to query run history", http.StatusInternalServerError)
			return
		}
		stats["recent_runs"] = recent
	}
	if s.Writer != nil {
		if names, err := s.Writer.List(); err == nil {
			stats["outputs"] = names
		}
	}

	requestsTotal.WithLabelValues("GET", "/stats", "success").Inc()
	writeJSONResponse(w, stats)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	source, err := s.Writer.Read(vars["name"])
	if err != nil {
		requestsTotal.WithLabelValues("GET", "/preview/:name", "error").Inc()
		http.Error(w, "Output not found", http.StatusNotFound)
		return
	}
	html, err := output.RenderHTML(source)
	if err != nil {
		requestsTotal.WithLabelValues("GET", "/preview/:name", "error").Inc()
		http.Error(w, "Failed to render markdown", http.StatusInternalServerError)
		return
	}

	requestsTotal.WithLabelValues("GET", "/preview/:name", "success").Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.Store != nil {
		if _, err := s.Store.Count(r.Context()); err != nil {
			http.Error(w, "Vector store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	writeJSONResponse(w, map[string]string{"status": "healthy"})
}

func (s *Server) updateMetrics() {
	if s.Store == nil {
		return
	}
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if n, err := s.Store.Count(ctx); err == nil {
			chunksInStore.Set(float64(n))
		}
		cancel()
	}
}

func writeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
