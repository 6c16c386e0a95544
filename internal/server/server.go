// internal/server/server.go
package server

import (
	"log"
	"net/http"

	"feedbender/internal/config"
	"feedbender/internal/feed"
	"feedbender/internal/render"
)

type Server struct {
	logger   *log.Logger
	pipeline *feed.Pipeline
	sources  []feed.SourcePolicy
	config   config.Config
}

func NewServer(logger *log.Logger, pipeline *feed.Pipeline, sources []feed.SourcePolicy, cfg config.Config) *Server {
	return &Server{
		logger:   logger,
		pipeline: pipeline,
		sources:  sources,
		config:   cfg,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	for _, source := range s.sources {
		mux.HandleFunc(source.Path("json"), s.handleFeed(source, render.FormatJSON))
		mux.HandleFunc(source.Path("rss"), s.handleFeed(source, render.FormatRSS))
	}

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/healthz/", s.handleHealthz)

	fileServer := http.FileServer(http.Dir(s.config.StaticPath))
	mux.Handle("/", fileServer)

	return s.requestLogging(securityHeaders(mux))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) Start(addr string) error {
	s.logger.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Routes())
}
