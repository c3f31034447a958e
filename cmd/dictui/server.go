package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/darkclainer/dictui/pkg/controller"
	"github.com/darkclainer/dictui/pkg/notification"
	"github.com/darkclainer/dictui/pkg/querier"
)

type Server struct {
	http.Server
	conf   *Config
	logger *zap.Logger
	q      querier.Querier
	c      *controller.Controller
	page   *template.Template
}

func New(logger *zap.Logger, conf *Config) (*Server, error) {
	var q querier.Querier
	q = querier.NewRemote(nil, nil, &conf.Remote)
	if conf.Cached.Enabled() {
		storage, err := querier.OpenStorage(&conf.Cached)
		if err != nil {
			_ = q.Close(context.Background())
			return nil, err
		}
		q = querier.NewCached(q, storage, &conf.Cached, logger)
	}
	return newServer(logger, conf, q)
}

func newServer(logger *zap.Logger, conf *Config, q querier.Querier) (*Server, error) {
	banner := notification.NewBanner(logger.Named("notification"), conf.Notification.Delay)
	c, err := controller.New(q, banner, logger.Named("controller"), &conf.Controller)
	if err != nil {
		return nil, err
	}
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("can not parse page template: %w", err)
	}
	s := Server{
		conf:   conf,
		logger: logger,
		q:      q,
		c:      c,
		page:   page,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.middleLogging)
	r.Get("/", s.handleIndex())
	r.Post("/search", s.handleSearch())
	r.Post("/notification/close", s.handleCloseNotification())
	r.Get("/api/state", s.handleState())
	r.Get("/api/lookup", s.handleLookup())
	r.Get("/health", s.handleHealth())

	s.Addr = conf.Host
	s.Server.Handler = r
	return &s, nil
}

// Start issues initial search of default term
func (s *Server) Start() controller.Request {
	return s.c.Start()
}

func (s *Server) Close(ctx context.Context) error {
	var reasons []string
	if serverErr := s.Server.Shutdown(ctx); serverErr != nil {
		reasons = append(reasons, "server shutdown failed: "+serverErr.Error())
	}
	s.c.Close()
	if querierErr := s.q.Close(ctx); querierErr != nil {
		reasons = append(reasons, "querier close failed: "+querierErr.Error())
	}
	if len(reasons) > 0 {
		return fmt.Errorf("close failed because: %s", strings.Join(reasons, " AND "))
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, vPtr interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	buffer := new(bytes.Buffer)
	if err := json.NewEncoder(buffer).Encode(vPtr); err != nil {
		s.logger.Error("encoding failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"encoding error"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buffer.Bytes())
}

func (s *Server) middleLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("request",
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client", r.RemoteAddr),
			zap.String("method", r.Method),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		next.ServeHTTP(w, r)
	})
}
