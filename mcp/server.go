package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jonwraymond/fingate/gateway"
	"github.com/jonwraymond/fingate/observe"
)

// ServerConfig configures the MCP tool server.
type ServerConfig struct {
	// Name identifies the server to clients.
	// Default: "fingate"
	Name string

	// Version is the server version string.
	// Default: "dev"
	Version string

	// Dispatcher runs every invocation through the authorization pipeline.
	// Required.
	Dispatcher *gateway.Dispatcher

	// Operations are the gateway operations to expose as tools. Required.
	Operations []gateway.Operation

	// Logger receives registration and serve events.
	// Default: observe.NopLogger()
	Logger observe.Logger
}

// Server exposes the gateway operations over MCP.
type Server struct {
	mcpServer *mcpserver.MCPServer
	logger    observe.Logger
}

// NewServer creates the MCP server and registers one tool per operation.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if len(config.Operations) == 0 {
		return nil, errors.New("at least one operation is required")
	}
	if config.Name == "" {
		config.Name = "fingate"
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}

	s := &Server{
		mcpServer: mcpserver.NewMCPServer(config.Name, config.Version,
			mcpserver.WithToolCapabilities(true),
		),
		logger: config.Logger.WithComponent("mcp"),
	}

	for _, op := range config.Operations {
		s.mcpServer.AddTool(toolFor(op), handlerFor(config.Dispatcher, op))
	}
	return s, nil
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

// handlerFor adapts one gateway operation to an MCP tool handler. The
// dispatcher already converts every failure into the error envelope, so the
// handler never returns a tool-level error.
func handlerFor(d *gateway.Dispatcher, op gateway.Operation) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		envelope := d.Dispatch(ctx, op, gateway.Args(request.GetArguments()))
		data, err := json.Marshal(envelope)
		if err != nil {
			return nil, fmt.Errorf("marshal envelope: %w", err)
		}
		return &mcplib.CallToolResult{
			Content: []mcplib.Content{
				mcplib.TextContent{Type: "text", Text: string(data)},
			},
		}, nil
	}
}
