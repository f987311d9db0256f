package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/hololoop"
	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StateURI is the resource that serves the current snapshot.
const StateURI = "hololoop://state"

// App is the part of the orchestrator exposed as tools.
type App interface {
	Snapshot() domain.Snapshot
	Activate(source string)
}

// Speaker injects recognized phrases, as a simulated recognizer does.
type Speaker interface {
	Say(text string, confidence domain.Confidence)
}

// ActivateResponse aligns with the HTTP adapter's response body.
type ActivateResponse struct {
	Status string `json:"status" jsonschema_description:"Always 'queued'; the next Update consumes the activation"`
	Source string `json:"source" jsonschema_description:"Label recorded with the activation"`
}

// SayResponse reports a phrase handed to the recognizer.
type SayResponse struct {
	Status     string `json:"status" jsonschema_description:"Always 'queued'; the next Update applies the result"`
	Phrase     string `json:"phrase" jsonschema_description:"The phrase as spoken"`
	Confidence string `json:"confidence" jsonschema_description:"Recognizer confidence"`
}

type activateArgs struct {
	Source string `json:"source"`
}

type sayArgs struct {
	Phrase     string `json:"phrase"`
	Confidence string `json:"confidence"`
}

// Server wraps an App and exposes it as an MCP server.
type Server struct {
	app       App
	speaker   Speaker
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the server.
type Option func(*Server)

// WithSpeaker enables the say tool.
func WithSpeaker(sp Speaker) Option {
	return func(s *Server) {
		s.speaker = sp
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(app App, opts ...Option) *Server {
	s := &Server{
		app:       app,
		logger:    slog.Default(),
		mcpServer: server.NewMCPServer("hololoop-mcp", strings.TrimSpace(hololoop.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Listen serves JSON-RPC over in/out until ctx ends or in is closed.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// Handler serves the streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: get_state
	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get a snapshot of the running app: session state, tracking, cameras, grammar and timing."),
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	// TOOL: activate
	s.mcpServer.AddTool(mcp.NewTool("activate",
		mcp.WithDescription("Queue a spatial input activation, the equivalent of an air tap."),
		mcp.WithString("source", mcp.Description("Label recorded with the activation (optional)")),
		mcp.WithOutputSchema[ActivateResponse](),
	), mcp.NewStructuredToolHandler(s.handleActivate))

	if s.speaker == nil {
		return
	}

	// TOOL: say
	s.mcpServer.AddTool(mcp.NewTool("say",
		mcp.WithDescription("Speak a phrase to the recognizer. Only phrases in the active grammar are recognized."),
		mcp.WithString("phrase", mcp.Required(), mcp.Description("The phrase to speak")),
		mcp.WithString("confidence", mcp.Description("Recognizer confidence (default high)"),
			mcp.Enum("high", "medium", "low", "rejected")),
		mcp.WithOutputSchema[SayResponse](),
	), mcp.NewStructuredToolHandler(s.handleSay))
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	return s.app.Snapshot(), nil
}

func (s *Server) handleActivate(ctx context.Context, request mcp.CallToolRequest, args activateArgs) (ActivateResponse, error) {
	source := args.Source
	if source == "" {
		source = "mcp"
	}
	s.app.Activate(source)
	s.logger.Debug("MCP activation queued", "source", source)
	return ActivateResponse{Status: "queued", Source: source}, nil
}

func (s *Server) handleSay(ctx context.Context, request mcp.CallToolRequest, args sayArgs) (SayResponse, error) {
	phrase := strings.TrimSpace(args.Phrase)
	if phrase == "" {
		return SayResponse{}, fmt.Errorf("phrase is required")
	}
	confidence := domain.ConfidenceHigh
	if args.Confidence != "" {
		c, err := domain.ParseConfidence(args.Confidence)
		if err != nil {
			return SayResponse{}, err
		}
		confidence = c
	}
	s.speaker.Say(phrase, confidence)
	s.logger.Debug("MCP phrase spoken", "phrase", phrase, "confidence", confidence.String())
	return SayResponse{Status: "queued", Phrase: phrase, Confidence: confidence.String()}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: hololoop://state
	s.mcpServer.AddResource(mcp.NewResource(StateURI, "Current App Snapshot",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.app.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StateURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
