package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tds"
	"github.com/aretw0/tds/pkg/deeplink"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/prompt"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/cors"
)

// EvaluateResponse aligns with the OpenAPI schema and provides a unified structure across adapters.
type EvaluateResponse struct {
	ID     string         `json:"id,omitempty" jsonschema_description:"Identifier of the saved result, when saved"`
	Result domain.Payload `json:"result" jsonschema_description:"The flattened evaluation result"`
	Link   string         `json:"link" jsonschema_description:"Deep link payload that reproduces this result"`
	Label  string         `json:"label" jsonschema_description:"Human readable zone label"`
}

// PromptResponse is returned by the build_prompt tool.
type PromptResponse struct {
	Zone   domain.ZoneCode `json:"zone" jsonschema_description:"Zone the prompt was built for"`
	Focus  string          `json:"focus" jsonschema_description:"Persona id the prompt was built for"`
	Prompt string          `json:"prompt" jsonschema_description:"The synthesized prompt"`
}

// EvaluateArgs are the arguments of the evaluate tool.
type EvaluateArgs struct {
	Answers map[string]any `json:"answers"`
	Focus   string         `json:"focus"`
	Save    bool           `json:"save"`
}

// ZoneArgs are the arguments of the zone-scoped tools.
type ZoneArgs struct {
	Code  string `json:"code"`
	Focus string `json:"focus"`
}

// LinkArgs are the arguments of the hydrate_link tool.
type LinkArgs struct {
	Link  string `json:"link"`
	Focus string `json:"focus"`
}

// Engine defines the interface required by the MCP server to interact with tds.
type Engine interface {
	Evaluate(ctx context.Context, answers domain.Answers, focus string) (*domain.Result, error)
	Hydrate(payload string, focus string) (*domain.Result, bool)
	Zone(code domain.ZoneCode) (domain.ZoneRecord, error)
	Zones() []domain.ZoneRecord
	Persona(selector string) domain.FocusPersona
	Personas() []domain.FocusPersona
	Questions() []domain.Question
	Save(ctx context.Context, result *domain.Result) (*domain.Snapshot, error)
}

// Server wraps the tds Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("tds-mcp", strings.TrimSpace(tds.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
	})
	mux := http.NewServeMux()
	mux.Handle("/sse", c.Handler(sseServer.SSEHandler()))
	mux.Handle("/message", c.Handler(sseServer.MessageHandler()))

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

func (s *Server) registerTools() {
	// TOOL: evaluate
	evaluateTool := mcp.NewTool("evaluate",
		mcp.WithDescription("Score a complete answer set (0-4 per question), classify it into a zone and build the collaboration prompt."),
		mcp.WithObject("answers", mcp.Required(), mcp.Description("Map of question id to answer value")),
		mcp.WithString("focus", mcp.Description("Focus persona id or name (optional)")),
		mcp.WithBoolean("save", mcp.Description("Persist the result and return its id")),
		mcp.WithOutputSchema[EvaluateResponse](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: get_zone
	zoneTool := mcp.NewTool("get_zone",
		mcp.WithDescription("Get the catalog record for one of the sixteen zones (A1 to D4)."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Zone code, e.g. B3")),
		mcp.WithOutputSchema[domain.ZoneRecord](),
	)
	s.mcpServer.AddTool(zoneTool, mcp.NewStructuredToolHandler(s.handleGetZone))

	// TOOL: build_prompt
	promptTool := mcp.NewTool("build_prompt",
		mcp.WithDescription("Build the collaboration prompt for a zone and focus persona without scoring."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Zone code, e.g. B3")),
		mcp.WithString("focus", mcp.Description("Focus persona id or name (optional)")),
		mcp.WithOutputSchema[PromptResponse](),
	)
	s.mcpServer.AddTool(promptTool, mcp.NewStructuredToolHandler(s.handleBuildPrompt))

	// TOOL: hydrate_link
	linkTool := mcp.NewTool("hydrate_link",
		mcp.WithDescription("Rebuild a result from a deep link payload such as zone=B3&S=1.23&R=3.00."),
		mcp.WithString("link", mcp.Required(), mcp.Description("Deep link payload")),
		mcp.WithString("focus", mcp.Description("Focus persona id or name (optional)")),
		mcp.WithOutputSchema[EvaluateResponse](),
	)
	s.mcpServer.AddTool(linkTool, mcp.NewStructuredToolHandler(s.handleHydrateLink))

	// TOOL: list_personas
	s.mcpServer.AddTool(mcp.NewTool("list_personas",
		mcp.WithDescription("List the available focus personas."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.engine.Personas())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args EvaluateArgs) (EvaluateResponse, error) {
	result, err := s.engine.Evaluate(ctx, domain.Answers(args.Answers), args.Focus)
	if err != nil {
		s.logger.Warn("MCP Evaluate: rejected", "error", err)
		return EvaluateResponse{}, fmt.Errorf("evaluate failed: %w", err)
	}

	resp := newEvaluateResponse(result)
	if args.Save {
		snap, err := s.engine.Save(ctx, result)
		if err != nil {
			return EvaluateResponse{}, fmt.Errorf("save failed: %w", err)
		}
		resp.ID = snap.ID
	}
	return resp, nil
}

func (s *Server) handleGetZone(ctx context.Context, request mcp.CallToolRequest, args ZoneArgs) (domain.ZoneRecord, error) {
	return s.engine.Zone(domain.ZoneCode(strings.ToUpper(strings.TrimSpace(args.Code))))
}

func (s *Server) handleBuildPrompt(ctx context.Context, request mcp.CallToolRequest, args ZoneArgs) (PromptResponse, error) {
	zone, err := s.engine.Zone(domain.ZoneCode(strings.ToUpper(strings.TrimSpace(args.Code))))
	if err != nil {
		return PromptResponse{}, err
	}
	focus := s.engine.Persona(args.Focus)
	return PromptResponse{
		Zone:   zone.Code,
		Focus:  focus.ID,
		Prompt: prompt.Build(zone, focus),
	}, nil
}

func (s *Server) handleHydrateLink(ctx context.Context, request mcp.CallToolRequest, args LinkArgs) (EvaluateResponse, error) {
	result, ok := s.engine.Hydrate(args.Link, args.Focus)
	if !ok {
		return EvaluateResponse{}, fmt.Errorf("link carries no usable state")
	}
	return newEvaluateResponse(result), nil
}

func newEvaluateResponse(result *domain.Result) EvaluateResponse {
	return EvaluateResponse{
		Result: result.Payload(),
		Link:   deeplink.EncodeResult(*result),
		Label:  result.Zone.Code.Label(),
	}
}

func (s *Server) registerResources() {
	s.addJSONResource("tds://zones", "Zone Catalog", func() any { return s.engine.Zones() })
	s.addJSONResource("tds://personas", "Focus Personas", func() any { return s.engine.Personas() })
	s.addJSONResource("tds://questions", "Questionnaire", func() any {
		return map[string]any{"questions": s.engine.Questions(), "scale": domain.Scale}
	})
}

func (s *Server) addJSONResource(uri, name string, read func() any) {
	s.mcpServer.AddResource(mcp.NewResource(uri, name,
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(read())
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", uri, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
