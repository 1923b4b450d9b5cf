// Package mcpserver exposes the editing tools over the Model Context
// Protocol on stdio, so any MCP-capable agent host can drive external
// edits without linking this module.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/zedit-dev/zedit/pkg/logger"
	"github.com/zedit-dev/zedit/pkg/tools"
	tooltypes "github.com/zedit-dev/zedit/pkg/types/tools"
	"github.com/zedit-dev/zedit/pkg/version"
)

// Server bridges the tool registry onto an MCP stdio server.
type Server struct {
	mcp      *server.MCPServer
	registry *tools.Registry
	state    tooltypes.State
}

// New builds an MCP server exposing every tool in the registry.
func New(registry *tools.Registry, state tooltypes.State) (*Server, error) {
	s := &Server{
		mcp: server.NewMCPServer(
			"zedit",
			version.Get().Version,
			server.WithToolCapabilities(false),
		),
		registry: registry,
		state:    state,
	}

	for _, tool := range registry.Tools() {
		schema, err := json.Marshal(tool.GenerateSchema())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal schema for tool %s", tool.Name())
		}

		s.mcp.AddTool(
			mcp.NewToolWithRawSchema(tool.Name(), tool.Description(), schema),
			s.handler(tool.Name()),
		)
	}

	return s, nil
}

// handler adapts one registry tool to the MCP call shape.
func (s *Server) handler(toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params, err := json.Marshal(request.Params.Arguments)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode tool arguments")
		}

		logger.G(ctx).WithField("tool", toolName).Debug("handling MCP tool call")

		result := s.registry.RunTool(ctx, s.state, toolName, string(params))
		if result.IsError() {
			return mcp.NewToolResultError(result.GetError()), nil
		}
		return mcp.NewToolResultText(result.AssistantFacing()), nil
	}
}

// ServeStdio blocks serving MCP over stdin/stdout until the stream
// closes or the context is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	logger.G(ctx).Info("serving MCP over stdio")
	if err := server.ServeStdio(s.mcp); err != nil {
		return errors.Wrap(err, "mcp stdio server failed")
	}
	return nil
}
