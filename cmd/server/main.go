// Command server exposes the analytics engine over HTTP: filtered
// metrics endpoints, a cumulative PnL series, filter option discovery
// and a websocket channel that announces dataset reloads. A directory
// watcher keeps the served dataset in sync with the trade files on
// disk.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"backtest-analytics/internal/analytics"
	"backtest-analytics/internal/config"
	"backtest-analytics/internal/dataset"
	"backtest-analytics/internal/domain"
	"backtest-analytics/internal/ingestion"
	"backtest-analytics/internal/live"
	"backtest-analytics/internal/observability"
)

// Server serves analytics over the loaded dataset.
type Server struct {
	cfg    config.ServerConfig
	cache  *ingestion.Cache
	hub    *live.Hub
	logger *log.Logger

	mu         sync.Mutex
	lastReload time.Time
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	dataDir := flag.String("data-dir", os.Getenv("DATA_DIR"), "Directory containing *.json trade files")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	watch := flag.Bool("watch", true, "Reload the dataset when the data directory changes")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatalf("Failed to load config: %v", err)
		}
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *watch {
		cfg.Watch.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	server := &Server{
		cfg:    cfg,
		cache:  ingestion.NewCache(),
		hub:    live.NewHub(),
		logger: logger,
	}

	// Fail fast on an unusable data directory.
	if _, err := server.cache.Load(cfg.DataDir); err != nil {
		logger.Fatalf("Initial dataset load failed: %v", err)
	}
	logger.Printf("Serving dataset from %s", cfg.DataDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go server.hub.Run(ctx)

	if cfg.Watch.Enabled {
		watcher, err := ingestion.NewWatcher(cfg.DataDir, cfg.Debounce(), server.reload)
		if err != nil {
			logger.Fatalf("Failed to create watcher: %v", err)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Printf("Watcher error: %v", err)
			}
		}()
		logger.Printf("Watching %s (debounce %v)", cfg.DataDir, cfg.Debounce())
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.routes(),
	}

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}()

	logger.Printf("Listening on %s", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// reload rebuilds the dataset after a directory change and notifies
// websocket subscribers.
func (s *Server) reload() {
	s.cache.Invalidate(s.cfg.DataDir)
	result, err := s.cache.Load(s.cfg.DataDir)
	if err != nil {
		s.logger.Printf("Reload failed: %v", err)
		return
	}

	s.mu.Lock()
	s.lastReload = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Printf("Dataset reloaded: %d trades, fingerprint %s",
		result.Dataset.Len(), result.Dataset.Fingerprint())
	s.hub.BroadcastReload(result.Dataset.Fingerprint(), result.Dataset.Len())
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.Handle("/ws", s.hub)

	mux.HandleFunc("/status", s.handleStatus)

	mux.HandleFunc("/api/summary", s.instrument("/api/summary", s.handleSummary))
	mux.HandleFunc("/api/metrics/strategies", s.instrument("/api/metrics/strategies", s.handleGroups(domain.GroupByStrategy)))
	mux.HandleFunc("/api/metrics/symbols", s.instrument("/api/metrics/symbols", s.handleGroups(domain.GroupBySymbol)))
	mux.HandleFunc("/api/series/cumulative", s.instrument("/api/series/cumulative", s.handleSeries))
	mux.HandleFunc("/api/filters", s.instrument("/api/filters", s.handleFilters))

	return mux
}

// instrument wraps a handler with request duration recording.
func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		observability.RecordHTTPRequest(endpoint, time.Since(start).Seconds())
	}
}

// loadView loads the dataset and applies the filter criteria from the
// request query. The returned status is only meaningful on error.
func (s *Server) loadView(r *http.Request) (*dataset.Dataset, int, error) {
	result, err := s.cache.Load(s.cfg.DataDir)
	if err != nil {
		if errors.Is(err, ingestion.ErrNoData) {
			return nil, http.StatusNotFound, err
		}
		return nil, http.StatusInternalServerError, err
	}

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	view, err := result.Dataset.Filter(criteria)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return view, http.StatusOK, nil
}

// criteriaFromQuery parses symbols, strategies, start and end query
// parameters into filter criteria.
func criteriaFromQuery(r *http.Request) (domain.FilterCriteria, error) {
	var criteria domain.FilterCriteria

	q := r.URL.Query()
	criteria.Symbols = splitParam(q.Get("symbols"))
	criteria.Strategies = splitParam(q.Get("strategies"))

	if v := q.Get("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return criteria, err
		}
		criteria.Start = t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return criteria, err
		}
		criteria.End = t
	}

	if err := criteria.Validate(); err != nil {
		return criteria, err
	}
	return criteria, nil
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// summaryResponse is the JSON response for /api/summary.
type summaryResponse struct {
	Fingerprint string                `json:"fingerprint"`
	TotalTrades int                   `json:"total_trades"`
	Symbols     []string              `json:"symbols"`
	Strategies  []string              `json:"strategies"`
	Overall     domain.MetricsSummary `json:"overall"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	view, status, err := s.loadView(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	start := time.Now()
	overall := analytics.RoundSummary(analytics.Summarize(view.Trades()))
	observability.RecordComputeDuration("summary", time.Since(start).Seconds())

	writeJSON(w, summaryResponse{
		Fingerprint: view.Fingerprint(),
		TotalTrades: view.Len(),
		Symbols:     view.Symbols(),
		Strategies:  view.Strategies(),
		Overall:     overall,
	})
}

// handleGroups returns a handler serving grouped metrics for key.
func (s *Server) handleGroups(key domain.GroupKey) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, status, err := s.loadView(r)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}

		start := time.Now()
		groups := analytics.GroupBy(view.Trades(), key)
		for i := range groups {
			groups[i] = analytics.RoundGroup(groups[i])
		}
		observability.RecordComputeDuration("group_"+string(key), time.Since(start).Seconds())

		writeJSON(w, groups)
	}
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	view, status, err := s.loadView(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	start := time.Now()
	series := analytics.CumulativeSeries(view.Trades())
	observability.RecordComputeDuration("cumulative_series", time.Since(start).Seconds())

	writeJSON(w, series)
}

// filtersResponse lists the values a client can filter on.
type filtersResponse struct {
	Symbols    []string   `json:"symbols"`
	Strategies []string   `json:"strategies"`
	DateStart  *time.Time `json:"date_start,omitempty"`
	DateEnd    *time.Time `json:"date_end,omitempty"`
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	result, err := s.cache.Load(s.cfg.DataDir)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ingestion.ErrNoData) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	resp := filtersResponse{
		Symbols:    result.Dataset.Symbols(),
		Strategies: result.Dataset.Strategies(),
	}
	if minDate, maxDate, ok := result.Dataset.DateRange(); ok {
		resp.DateStart = &minDate
		resp.DateEnd = &maxDate
	}
	writeJSON(w, resp)
}

// statusResponse is the JSON response for /status.
type statusResponse struct {
	Status      string     `json:"status"`
	DataDir     string     `json:"data_dir"`
	LastReload  *time.Time `json:"last_reload,omitempty"`
	Subscribers int        `json:"subscribers"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	lastReload := s.lastReload
	s.mu.Unlock()

	resp := statusResponse{
		Status:      "running",
		DataDir:     s.cfg.DataDir,
		Subscribers: s.hub.ClientCount(),
	}
	if !lastReload.IsZero() {
		resp.LastReload = &lastReload
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
