// Package server exposes case construction over HTTP. It is a thin JSON/YAML
// front on the form package: clients post a description and get the resulting
// case file back without installing anything locally.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gopkg.in/yaml.v3"

	"github.com/luskyqi1995/topobuilder/pkg/form"
	"github.com/luskyqi1995/topobuilder/pkg/render"
)

// Server routes case requests.
type Server struct {
	router *chi.Mux
	log    *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New builds the HTTP server and its routes.
func New(opts ...Option) *Server {
	s := &Server{log: log.Default()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Post("/case", s.handleCase)
		r.Post("/absolute", s.handleAbsolute)
		r.Get("/case/{name}/sketch.svg", s.handleSketch)
	})
	s.router = r
	return s
}

// Handler returns the route tree.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// caseRequest describes a case to construct. Architecture and topology are
// mutually exclusive, like the CLI flags.
type caseRequest struct {
	Name         string `json:"name"`
	Architecture string `json:"architecture"`
	Topology     string `json:"topology"`
}

func (s *Server) handleCase(w http.ResponseWriter, r *http.Request) {
	var req caseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	c, err := buildCase(req)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeYAML(w, c)
}

func (s *Server) handleAbsolute(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	c, err := form.Parse(body)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	abs, err := c.CastAbsolute()
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeYAML(w, abs)
}

func (s *Server) handleSketch(w http.ResponseWriter, r *http.Request) {
	req := caseRequest{
		Name:         chi.URLParam(r, "name"),
		Architecture: r.URL.Query().Get("architecture"),
		Topology:     r.URL.Query().Get("topology"),
	}
	c, err := buildCase(req)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}

	view := r.URL.Query().Get("view")
	var svg []byte
	switch view {
	case "", "sketchXZ":
		svg, err = render.SketchXZ(c)
	case "sketchXY":
		svg, err = render.SketchXY(c)
	default:
		s.fail(w, http.StatusBadRequest, fmt.Errorf("unknown view %s", view))
		return
	}
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func buildCase(req caseRequest) (form.Case, error) {
	if req.Name == "" {
		return form.Case{}, errors.New("name is required")
	}
	switch {
	case req.Architecture != "" && req.Topology != "":
		return form.Case{}, errors.New("architecture and topology are mutually exclusive")
	case req.Architecture != "":
		return form.New(req.Name).AddArchitecture(req.Architecture)
	case req.Topology != "":
		return form.New(req.Name).AddTopology(req.Topology)
	default:
		return form.Case{}, errors.New("architecture or topology is required")
	}
}

func (s *Server) writeYAML(w http.ResponseWriter, c form.Case) {
	data, err := yaml.Marshal(c)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, code int, err error) {
	s.log.Error("request failed", "status", code, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
