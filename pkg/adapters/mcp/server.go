package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/justschema"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/schema"
	"github.com/aretw0/justschema/pkg/validator"
)

const (
	modelsURI    = "justschema://models"
	schemaPrefix = "justschema://schema/"
)

// ValidationResult aligns with the HTTP adapter's validation response.
type ValidationResult struct {
	Model  string                      `json:"model" jsonschema_description:"The model the data was checked against"`
	Valid  bool                        `json:"valid" jsonschema_description:"True when no violation was found"`
	Errors []validator.ValidationError `json:"errors,omitempty" jsonschema_description:"Every violation, with its dot-joined path"`
}

// ValidateArgs are the arguments of the validate tool.
type ValidateArgs struct {
	Model string `json:"model"`
	Data  any    `json:"data"`
}

// Engine defines the operations the MCP server exposes.
type Engine interface {
	Models() []string
	ShowSchema(m any) (*schema.Document, error)
	ValidateRaw(ctx context.Context, m any, data any) error
	Define(ctx context.Context, models ...model.ModelDescriptor) ([]*schema.ObjectType, error)
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("justschema-mcp", strings.TrimSpace(justschema.Version),
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, true),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down
// when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_models",
		mcp.WithDescription("List the names of every registered model."),
		mcp.WithReadOnlyHintAnnotation(true),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.models())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("show_schema",
		mcp.WithDescription("Render the JSON Schema document of a registered model."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleShowSchema)

	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Validate an instance, or an array of instances, against a model. Every violation is reported."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
		mcp.WithAny("data", mcp.Required(), mcp.Description("The instance (object) or a list of instances")),
		mcp.WithOutputSchema[ValidationResult](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("define_model",
		mcp.WithDescription("Register a new model. Field types use expressions such as str, int, list[Role], Optional[Actor]."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Model name")),
		mcp.WithString("description", mcp.Description("Model documentation")),
		mcp.WithArray("fields", mcp.Required(), mcp.Description("Fields: objects with name, type, required, default, description and schema")),
	), s.handleDefineModel)
}

func (s *Server) models() []string {
	models := s.engine.Models()
	if models == nil {
		models = []string{}
	}
	return models
}

func (s *Server) handleShowSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("model")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := s.renderSchema(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) renderSchema(name string) (string, error) {
	doc, err := s.engine.ShowSchema(name)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render schema %s: %w", name, err)
	}
	return string(out), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (ValidationResult, error) {
	if args.Model == "" {
		return ValidationResult{}, fmt.Errorf("model is required")
	}
	// Some clients send structured arguments as JSON text.
	if text, ok := args.Data.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(text), &decoded); err == nil {
			args.Data = decoded
		}
	}

	err := s.engine.ValidateRaw(ctx, args.Model, args.Data)
	var agg *validator.AggregateValidationError
	switch {
	case err == nil:
		return ValidationResult{Model: args.Model, Valid: true}, nil
	case errors.As(err, &agg):
		return ValidationResult{Model: args.Model, Errors: agg.Errors}, nil
	default:
		return ValidationResult{}, err
	}
}

func (s *Server) handleDefineModel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	def, err := model.DecodeModel(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	desc, err := def.Descriptor()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.engine.Define(ctx, desc); err != nil {
		s.logger.Warn("MCP define_model rejected", "model", def.Name, "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := s.renderSchema(def.Name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(modelsURI, "Registered Models",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(s.models())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      modelsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(schemaPrefix+"{model}", "Model Schema",
		mcp.WithTemplateDescription("JSON Schema document of a registered model"),
		mcp.WithTemplateMIMEType("application/schema+json"),
	), s.readSchema)
}

func (s *Server) readSchema(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name := strings.TrimPrefix(request.Params.URI, schemaPrefix)
	text, err := s.renderSchema(name)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/schema+json",
			Text:     text,
		},
	}, nil
}
