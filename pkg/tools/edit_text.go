package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aymanbagabas/go-udiff"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zedit-dev/zedit/pkg/editbridge"
	tooltypes "github.com/zedit-dev/zedit/pkg/types/tools"
)

// EditTextTool ships text out to an external editor and returns the
// edited result.
type EditTextTool struct {
	bridge *editbridge.Bridge
}

// EditTextInput defines the input parameters for the edit_text tool.
type EditTextInput struct {
	Text           string `json:"text" jsonschema:"description=The text to edit"`
	Purpose        string `json:"purpose,omitempty" jsonschema:"description=Short label describing what is being edited; shown as the pane title"`
	Floating       *bool  `json:"floating,omitempty" jsonschema:"description=Prefer a floating pane over a tiled one (default true)"`
	Extension      string `json:"file_extension,omitempty" jsonschema:"description=Draft file extension such as md or txt (default md)"`
	Editor         string `json:"editor_command,omitempty" jsonschema:"description=Editor command overriding environment-based resolution"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"description=Seconds to wait for the editor (default 1800)"`
	Cleanup        *bool  `json:"cleanup,omitempty" jsonschema:"description=Remove the temporary draft after editing (default true)"`
}

// EditTextToolResult carries the edit outcome back to the host.
type EditTextToolResult struct {
	input   EditTextInput
	outcome editbridge.Outcome
	err     string
}

// NewEditTextTool creates the tool on top of a configured bridge.
func NewEditTextTool(bridge *editbridge.Bridge) *EditTextTool {
	return &EditTextTool{bridge: bridge}
}

// Name returns the tool name
func (t *EditTextTool) Name() string {
	return "edit_text"
}

// Description returns the tool description
func (t *EditTextTool) Description() string {
	return `Opens the given text in the user's editor and returns the edited result.

# When to use
- The user wants to review or rework a piece of text by hand: a commit message, a PR description, a document draft
- The text is long enough that describing edits back and forth is slower than editing directly

# Behavior
- The editor opens in a zellij pane (floating by default) when running inside zellij, otherwise in an in-process editor
- The editor is chosen from ZEDIT_EDITOR, VISUAL or EDITOR, falling back to vi
- The returned text is whatever the user saved, whether or not it differs from the input
- A nonzero editor exit code does not discard the edit
- Empty input text is allowed; the user starts from a blank draft`
}

// GenerateSchema generates the JSON schema for the tool's input
func (t *EditTextTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[EditTextInput]()
}

// ValidateInput validates the input parameters
func (t *EditTextTool) ValidateInput(_ tooltypes.State, parameters string) error {
	var input EditTextInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}

	if input.TimeoutSeconds < 0 {
		return errors.New("timeout_seconds must not be negative")
	}

	return nil
}

// TracingKVs returns tracing key-value pairs for observability
func (t *EditTextTool) TracingKVs(parameters string) ([]attribute.KeyValue, error) {
	var input EditTextInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return nil, err
	}

	return []attribute.KeyValue{
		attribute.String("purpose", input.Purpose),
		attribute.Int("text_size", len(input.Text)),
	}, nil
}

// Execute runs the edit round trip.
func (t *EditTextTool) Execute(ctx context.Context, _ tooltypes.State, parameters string) tooltypes.ToolResult {
	var input EditTextInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return &EditTextToolResult{err: err.Error()}
	}

	req := editbridge.Request{
		Text:          input.Text,
		Purpose:       input.Purpose,
		Floating:      true,
		Extension:     input.Extension,
		EditorCommand: input.Editor,
	}
	if input.Floating != nil {
		req.Floating = *input.Floating
	}
	if input.TimeoutSeconds > 0 {
		req.Timeout = time.Duration(input.TimeoutSeconds) * time.Second
	}
	if input.Cleanup != nil {
		req.KeepArtifacts = !*input.Cleanup
	}

	outcome, err := t.bridge.Edit(ctx, req)
	if err != nil {
		return &EditTextToolResult{input: input, outcome: outcome, err: err.Error()}
	}
	if outcome.Reason != editbridge.ReasonNone {
		return &EditTextToolResult{
			input:   input,
			outcome: outcome,
			err:     fmt.Sprintf("edit failed: %s", outcome.Reason),
		}
	}

	return &EditTextToolResult{input: input, outcome: outcome}
}

// GetResult returns the result string
func (r *EditTextToolResult) GetResult() string {
	return r.outcome.Text
}

// GetError returns the error string
func (r *EditTextToolResult) GetError() string {
	return r.err
}

// IsError returns true if there was an error
func (r *EditTextToolResult) IsError() bool {
	return r.err != ""
}

// AssistantFacing returns the content to be fed back to the model
func (r *EditTextToolResult) AssistantFacing() string {
	if r.err != "" {
		return tooltypes.StringifyToolResult("", r.err)
	}

	var sb strings.Builder
	switch {
	case r.outcome.Cancelled:
		sb.WriteString("The user declined the edit; the text is unchanged.\n\n")
	case !r.outcome.Changed:
		sb.WriteString("The user closed the editor without changes.\n\n")
	default:
		sb.WriteString("The user edited the text.\n\n")
	}
	sb.WriteString(r.outcome.Text)

	return tooltypes.StringifyToolResult(sb.String(), "")
}

// StructuredData returns structured metadata for rendering
func (r *EditTextToolResult) StructuredData() tooltypes.StructuredToolResult {
	result := tooltypes.StructuredToolResult{
		ToolName:  "edit_text",
		Success:   !r.IsError(),
		Timestamp: time.Now(),
	}

	if r.IsError() {
		result.Error = r.GetError()
	}

	added, removed := diffStats(r.input.Text, r.outcome.Text)
	result.Metadata = &tooltypes.EditTextMetadata{
		Purpose:      r.input.Purpose,
		Mode:         string(r.outcome.Mode),
		Changed:      r.outcome.Changed,
		Cancelled:    r.outcome.Cancelled,
		Reason:       string(r.outcome.Reason),
		ExitCode:     r.outcome.ExitCode,
		SessionID:    r.outcome.SessionID,
		DraftPath:    r.outcome.DraftPath,
		LinesAdded:   added,
		LinesRemoved: removed,
	}

	return result
}

// diffStats counts added and removed lines between the original and the
// edited text.
func diffStats(before, after string) (added, removed int) {
	if before == after {
		return 0, 0
	}

	diff := udiff.Unified("before", "after", before, after)
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}
