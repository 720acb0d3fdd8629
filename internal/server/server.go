package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"homedepot/scraper/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// DocumentLoader reads back everything the scraper has persisted.
type DocumentLoader interface {
	Load(ctx context.Context) ([]domain.Document, error)
}

type Server struct {
	loader DocumentLoader
	http   *http.Server
}

func New(addr string, loader DocumentLoader) *Server {
	s := &Server{loader: loader}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleData)
	return r
}

// handleData responds with [product count of the first document, all documents].
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	docs, err := s.loader.Load(r.Context())
	if err != nil {
		log.Errorf("❌ Failed to load scraped data: %v", err)
		http.Error(w, "failed to load scraped data", http.StatusInternalServerError)
		return
	}

	if docs == nil {
		docs = []domain.Document{}
	}

	count := 0
	if len(docs) > 0 {
		count = len(docs[0].Products)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode([]any{count, docs}); err != nil {
		log.Warnf("⚠️ Failed to write response: %v", err)
	}
}

func (s *Server) ListenAndServe() error {
	log.Infof("🌐 Serving scraped data on http://%s/", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"status":     ww.Status(),
			"duration":   time.Since(start),
		}).Infof("%s %s", r.Method, r.URL.Path)
	})
}
