package frontend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/feed"
	"github.com/mikey/fakenews-detector/internal/ports"
	"go.uber.org/zap"
)

const (
	// recentNewsLimit is how many snapshot items /recent-news returns
	recentNewsLimit = 10
	// maxRequestBytes caps JSON request bodies
	maxRequestBytes = 64 * 1024
	// modelModeHeader carries "loaded" or "demo" on every response
	modelModeHeader = "X-Model-Mode"
)

// ArticleSearcher finds articles outside the current snapshot
type ArticleSearcher interface {
	Search(query string) []core.Article
}

// HTTPServer serves the prediction and feed API
type HTTPServer struct {
	service      *core.HeadlineService
	refresher    *feed.Refresher
	searcher     ArticleSearcher
	logger       *zap.Logger
	listenAddr   string
	corsOrigin   string
	readTimeout  time.Duration
	writeTimeout time.Duration
	server       *http.Server
}

var _ ports.Frontend = (*HTTPServer)(nil)

type headlineRequest struct {
	Headline string `json:"headline"`
}

type reviewResponse struct {
	Headline   string                `json:"headline"`
	Classifier core.PredictionResult `json:"classifier"`
	Review     *core.Review          `json:"review"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Model  core.ModelInfo `json:"model"`
	Feed   feedStatus     `json:"feed"`
}

type feedStatus struct {
	SnapshotID  string    `json:"snapshot_id"`
	RefreshedAt time.Time `json:"refreshed_at"`
	Items       int       `json:"items"`
}

// NewHTTPServer creates a new HTTP frontend
func NewHTTPServer(
	service *core.HeadlineService,
	refresher *feed.Refresher,
	searcher ArticleSearcher,
	logger *zap.Logger,
	listenAddr string,
	corsOrigin string,
	readTimeout time.Duration,
	writeTimeout time.Duration,
) *HTTPServer {
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	return &HTTPServer{
		service:      service,
		refresher:    refresher,
		searcher:     searcher,
		logger:       logger,
		listenAddr:   listenAddr,
		corsOrigin:   corsOrigin,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Handler returns the routed handler with CORS and model headers applied
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("GET /recent-news", s.handleRecentNews)
	mux.HandleFunc("GET /analyze-live", s.handleAnalyzeLive)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("POST /review", s.handleReview)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	return s.withHeaders(mux)
}

// Start starts listening in the background
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	s.logger.Info("HTTP server starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down, letting in-flight requests finish
func (s *HTTPServer) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) withHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.corsOrigin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set(modelModeHeader, s.service.ModelInfo().Mode)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *HTTPServer) handlePredict(w http.ResponseWriter, r *http.Request) {
	headline, ok := s.readHeadline(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.service.Classify(r.Context(), headline))
}

func (s *HTTPServer) handleRecentNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"news": s.refresher.Store().Recent(recentNewsLimit),
	})
}

func (s *HTTPServer) handleAnalyzeLive(w http.ResponseWriter, r *http.Request) {
	results, err := s.refresher.AnalyzeLive(r.Context())
	if err != nil {
		s.logger.Error("Live analysis failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *HTTPServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Please provide a search query")
		return
	}

	results := s.refresher.Store().Search(query)
	if len(results) == 0 && s.searcher != nil {
		results = s.service.ClassifyArticles(r.Context(), s.searcher.Search(query))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}

func (s *HTTPServer) handleReview(w http.ResponseWriter, r *http.Request) {
	if !s.service.ReviewEnabled() {
		writeError(w, http.StatusServiceUnavailable, core.ErrReviewDisabled.Error())
		return
	}

	headline, ok := s.readHeadline(w, r)
	if !ok {
		return
	}

	review, err := s.service.Review(r.Context(), headline)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, reviewResponse{
		Headline:   headline,
		Classifier: s.service.Classify(r.Context(), headline),
		Review:     review,
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := s.refresher.Store().Current()
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Model:  s.service.ModelInfo(),
		Feed: feedStatus{
			SnapshotID:  snapshot.ID,
			RefreshedAt: snapshot.RefreshedAt,
			Items:       len(snapshot.Items),
		},
	})
}

func (s *HTTPServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Metrics().GetStats())
}

// readHeadline decodes {"headline": ...} and rejects blank input with a 400
func (s *HTTPServer) readHeadline(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req headlineRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.logger.Debug("Invalid request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Please provide a headline")
		return "", false
	}

	headline := strings.TrimSpace(req.Headline)
	if headline == "" {
		writeError(w, http.StatusBadRequest, "Please provide a headline")
		return "", false
	}
	return headline, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
