package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zedit-dev/zedit/pkg/skills"
	tooltypes "github.com/zedit-dev/zedit/pkg/types/tools"
)

// SkillTool serves prose skill documents to the host.
type SkillTool struct {
	skills map[string]*skills.Skill
}

// SkillInput defines the input parameters for the skill tool
type SkillInput struct {
	SkillName string `json:"skill_name" jsonschema:"description=The name of the skill to load"`
}

// SkillToolResult represents the result of loading a skill
type SkillToolResult struct {
	skillName   string
	description string
	content     string
	directory   string
	err         string
}

// NewSkillTool creates a skill tool over the discovered skills.
func NewSkillTool(discovered map[string]*skills.Skill) *SkillTool {
	return &SkillTool{skills: discovered}
}

// Name returns the tool name
func (t *SkillTool) Name() string {
	return "skill"
}

// Description returns the tool description with the available skills listed.
func (t *SkillTool) Description() string {
	var sb strings.Builder

	sb.WriteString(`Loads a skill document: a prose playbook for a specific kind of task such as reviewing a pull request or writing commit messages.

# Usage
- Call with the skill name only; the full document comes back as the result
- Load the relevant skill BEFORE starting the task it covers
- Skills with a directory may ship supporting files next to SKILL.md; treat those as read-only

## Available Skills

`)

	if len(t.skills) == 0 {
		sb.WriteString("No skills are currently available.\n")
		return sb.String()
	}

	names := make([]string, 0, len(t.skills))
	for name := range t.skills {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		skill := t.skills[name]
		sb.WriteString(fmt.Sprintf("### %s\n", skill.Name))
		sb.WriteString(fmt.Sprintf("- **Description**: %s\n", skill.Description))
		if skill.Directory != "" {
			sb.WriteString(fmt.Sprintf("- **Directory**: `%s`\n", skill.Directory))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// GenerateSchema generates the JSON schema for the tool's input
func (t *SkillTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[SkillInput]()
}

// ValidateInput validates the input parameters
func (t *SkillTool) ValidateInput(_ tooltypes.State, parameters string) error {
	var input SkillInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}

	if input.SkillName == "" {
		return errors.New("skill_name is required")
	}

	if _, exists := t.skills[input.SkillName]; !exists {
		available := make([]string, 0, len(t.skills))
		for name := range t.skills {
			available = append(available, name)
		}
		sort.Strings(available)
		return errors.Errorf("unknown skill '%s'. Available skills: %s",
			input.SkillName, strings.Join(available, ", "))
	}

	return nil
}

// TracingKVs returns tracing key-value pairs for observability
func (t *SkillTool) TracingKVs(parameters string) ([]attribute.KeyValue, error) {
	var input SkillInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return nil, err
	}

	return []attribute.KeyValue{
		attribute.String("skill_name", input.SkillName),
	}, nil
}

// Execute loads the skill and returns its content.
func (t *SkillTool) Execute(_ context.Context, _ tooltypes.State, parameters string) tooltypes.ToolResult {
	var input SkillInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return &SkillToolResult{err: err.Error()}
	}

	skill, exists := t.skills[input.SkillName]
	if !exists {
		return &SkillToolResult{
			err: fmt.Sprintf("skill '%s' not found", input.SkillName),
		}
	}

	return &SkillToolResult{
		skillName:   skill.Name,
		description: skill.Description,
		content:     skill.Content,
		directory:   skill.Directory,
	}
}

// GetResult returns the result string
func (r *SkillToolResult) GetResult() string {
	return fmt.Sprintf("Skill '%s' loaded", r.skillName)
}

// GetError returns the error string
func (r *SkillToolResult) GetError() string {
	return r.err
}

// IsError returns true if there was an error
func (r *SkillToolResult) IsError() bool {
	return r.err != ""
}

// AssistantFacing returns the skill document for the model.
func (r *SkillToolResult) AssistantFacing() string {
	if r.err != "" {
		return tooltypes.StringifyToolResult("", r.err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Skill: %s\n\n", r.skillName))
	if r.directory != "" {
		sb.WriteString(fmt.Sprintf("The skill directory is located at: %s\n\n", r.directory))
	}
	sb.WriteString("## Instructions\n\n")
	sb.WriteString(r.content)

	return tooltypes.StringifyToolResult(sb.String(), "")
}

// StructuredData returns structured metadata for rendering
func (r *SkillToolResult) StructuredData() tooltypes.StructuredToolResult {
	result := tooltypes.StructuredToolResult{
		ToolName:  "skill",
		Success:   !r.IsError(),
		Timestamp: time.Now(),
	}

	if r.IsError() {
		result.Error = r.GetError()
		return result
	}

	result.Metadata = &tooltypes.SkillMetadata{
		SkillName:   r.skillName,
		Description: r.description,
		Directory:   r.directory,
		ContentSize: len(r.content),
	}

	return result
}
