// Package tools provides the tool execution framework: tool registration,
// input validation and traced execution of the editing tools exposed to
// agent hosts and over MCP.
package tools

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zedit-dev/zedit/pkg/logger"
	"github.com/zedit-dev/zedit/pkg/telemetry"
	tooltypes "github.com/zedit-dev/zedit/pkg/types/tools"
)

// GenerateSchema reflects a JSON schema from an input struct type.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

// Registry holds the available tools keyed by name.
type Registry struct {
	tools map[string]tooltypes.Tool
}

// NewRegistry builds a registry from the given tools.
func NewRegistry(tools ...tooltypes.Tool) *Registry {
	r := &Registry{tools: make(map[string]tooltypes.Tool, len(tools))}
	for _, tool := range tools {
		r.tools[tool.Name()] = tool
	}
	return r
}

// Tools returns the registered tools in registration-independent map order.
func (r *Registry) Tools() []tooltypes.Tool {
	out := make([]tooltypes.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		out = append(out, tool)
	}
	return out
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (tooltypes.Tool, error) {
	tool, exists := r.tools[name]
	if !exists {
		return nil, errors.Errorf("tool %q not found", name)
	}
	return tool, nil
}

var tracer = telemetry.Tracer("zedit.tools")

// RunTool validates and executes one tool invocation under a trace span.
func (r *Registry) RunTool(ctx context.Context, state tooltypes.State, toolName string, parameters string) tooltypes.ToolResult {
	tool, err := r.Get(toolName)
	if err != nil {
		return tooltypes.BaseToolResult{
			Error: errors.Wrap(err, "failed to find tool").Error(),
		}
	}

	kvs, err := tool.TracingKVs(parameters)
	if err != nil {
		logger.G(ctx).WithError(err).Error("failed to get tracing kvs")
	}

	ctx, span := tracer.Start(
		ctx,
		fmt.Sprintf("tools.run_tool.%s", toolName),
		trace.WithAttributes(kvs...),
	)
	defer span.End()

	if err := tool.ValidateInput(state, parameters); err != nil {
		return tooltypes.BaseToolResult{
			Error: err.Error(),
		}
	}
	result := tool.Execute(ctx, state, parameters)

	if result.IsError() {
		span.SetStatus(codes.Error, result.GetError())
		span.RecordError(errors.New(result.GetError()))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return result
}
