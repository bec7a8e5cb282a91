package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/justschema"
	"github.com/aretw0/justschema/pkg/schema"
	"github.com/aretw0/justschema/pkg/validator"
)

// Engine is the subset of the justschema engine served over HTTP.
type Engine interface {
	Models() []string
	ShowSchema(m any) (*schema.Document, error)
	ValidateRaw(ctx context.Context, m any, data any) error
}

// Server holds the handlers of the schema API.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	Logger  *slog.Logger
	metrics http.Handler
}

// Option configures the handler built by NewHandler.
type Option func(*Server)

// WithStreams shares a StreamManager whose Hooks were given to the engine,
// so /events carries the engine's lifecycle events.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) { s.Streams = sm }
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.Logger = logger }
}

// ValidationResponse is the body of POST /models/{model}/validate.
type ValidationResponse struct {
	Model  string                      `json:"model"`
	Valid  bool                        `json:"valid"`
	Errors []validator.ValidationError `json:"errors,omitempty"`
}

// ModelList is the body of GET /models.
type ModelList struct {
	Models []string `json:"models"`
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine: engine,
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/models", server.ListModels)
	r.Get("/models/{model}", server.ShowSchema)
	r.Post("/models/{model}/validate", server.Validate)
	r.Get("/events", server.SubscribeEvents)
	r.Get("/openapi.json", server.GetSpec)
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if server.metrics != nil {
		r.Handle("/metrics", server.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>justschema API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.json',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ListModels handles GET /models.
func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	models := s.Engine.Models()
	if models == nil {
		models = []string{}
	}
	s.writeJSON(w, http.StatusOK, ModelList{Models: models})
}

// ShowSchema handles GET /models/{model}. ?format=yaml renders YAML.
func (s *Server) ShowSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "model")
	doc, err := s.Engine.ShowSchema(name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "yaml" {
		out, err := yaml.Marshal(doc)
		if err != nil {
			http.Error(w, fmt.Sprintf("Render error: %v", err), http.StatusInternalServerError)
			s.Logger.Error("ShowSchema YAML encode failed", "model", name, "err", err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(out)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		s.Logger.Error("ShowSchema response encode failed", "model", name, "err", err)
	}
}

// Validate handles POST /models/{model}/validate. The body is one instance or
// an array of instances.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "model")

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Validate: Invalid request body", "model", name, "err", err)
		return
	}

	err := s.Engine.ValidateRaw(r.Context(), name, data)
	var agg *validator.AggregateValidationError
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, ValidationResponse{Model: name, Valid: true})
	case errors.As(err, &agg):
		s.writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Model: name, Errors: agg.Errors})
	default:
		s.writeError(w, err)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "justschema-http",
		"version":     strings.TrimSpace(justschema.Version),
		"api_version": apiVersion,
	})
}

// GetSpec handles GET /openapi.json.
func (s *Server) GetSpec(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Spec())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}

// writeError maps engine errors to status codes: unknown models are 404,
// anything else the engine rejects up front is 400.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, schema.ErrUnknownModel) {
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
