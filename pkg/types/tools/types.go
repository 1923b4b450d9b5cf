// Package tools defines the contracts shared between the tool framework and
// its callers: the Tool interface, tool results and the execution state.
package tools

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel/attribute"
)

// Tool is a capability exposed to agent hosts, either directly or over MCP.
type Tool interface {
	GenerateSchema() *jsonschema.Schema
	Name() string
	Description() string
	ValidateInput(state State, parameters string) error
	Execute(ctx context.Context, state State, parameters string) ToolResult
	TracingKVs(parameters string) ([]attribute.KeyValue, error)
}

// ToolResult is the outcome of a tool execution.
type ToolResult interface {
	GetResult() string
	GetError() string
	IsError() bool
	AssistantFacing() string
	StructuredData() StructuredToolResult
}

// State carries per-invocation context shared by tools.
type State interface {
	SessionID() string
	WorkingDir() string
}

// StringifyToolResult renders a result and error pair in the wire format
// consumed by agent hosts.
func StringifyToolResult(result, err string) string {
	out := ""
	if err != "" {
		out = fmt.Sprintf(`<error>
%s
</error>
`, err)
	}
	if result != "" {
		out += fmt.Sprintf(`<result>
%s
</result>
`, result)
	}
	return out
}

// BaseToolResult is a minimal ToolResult used for framework-level errors.
type BaseToolResult struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

// GetResult returns the result text
func (r BaseToolResult) GetResult() string {
	return r.Result
}

// GetError returns the error text
func (r BaseToolResult) GetError() string {
	return r.Error
}

// IsError returns true if the result contains an error
func (r BaseToolResult) IsError() bool {
	return r.Error != ""
}

// AssistantFacing returns the string representation for the AI assistant
func (r BaseToolResult) AssistantFacing() string {
	return StringifyToolResult(r.Result, r.Error)
}

// StructuredData returns structured metadata about the result
func (r BaseToolResult) StructuredData() StructuredToolResult {
	return StructuredToolResult{
		ToolName: "unknown",
		Success:  !r.IsError(),
		Error:    r.Error,
	}
}
