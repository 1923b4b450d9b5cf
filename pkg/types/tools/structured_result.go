package tools

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/pkg/errors"
)

// StructuredToolResult represents a tool's execution result with structured metadata
type StructuredToolResult struct {
	ToolName  string       `json:"toolName"`
	Success   bool         `json:"success"`
	Error     string       `json:"error,omitempty"`
	Metadata  ToolMetadata `json:"metadata,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// rawStructuredToolResult is used for JSON marshaling/unmarshaling
type rawStructuredToolResult struct {
	ToolName     string          `json:"toolName"`
	Success      bool            `json:"success"`
	Error        string          `json:"error,omitempty"`
	MetadataType string          `json:"metadataType,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// MarshalJSON implements custom JSON marshaling for StructuredToolResult
func (s StructuredToolResult) MarshalJSON() ([]byte, error) {
	raw := rawStructuredToolResult{
		ToolName:  s.ToolName,
		Success:   s.Success,
		Error:     s.Error,
		Timestamp: s.Timestamp,
	}

	if s.Metadata != nil {
		raw.MetadataType = s.Metadata.ToolType()

		metadataBytes, err := json.Marshal(s.Metadata)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal metadata")
		}
		raw.Metadata = metadataBytes
	}

	return json.Marshal(raw)
}

// metadataTypeRegistry maps metadata type strings to their corresponding Go types
var metadataTypeRegistry = map[string]reflect.Type{
	"edit_text": reflect.TypeOf(EditTextMetadata{}),
	"skill":     reflect.TypeOf(SkillMetadata{}),
}

// UnmarshalJSON implements custom JSON unmarshaling for StructuredToolResult
func (s *StructuredToolResult) UnmarshalJSON(data []byte) error {
	var raw rawStructuredToolResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.ToolName = raw.ToolName
	s.Success = raw.Success
	s.Error = raw.Error
	s.Timestamp = raw.Timestamp

	if raw.MetadataType != "" && len(raw.Metadata) > 0 {
		metadataType, exists := metadataTypeRegistry[raw.MetadataType]
		if !exists {
			// Unknown metadata type, leave as nil
			return nil
		}

		metadataPtr := reflect.New(metadataType)
		if err := json.Unmarshal(raw.Metadata, metadataPtr.Interface()); err != nil {
			return errors.Wrapf(err, "failed to unmarshal metadata of type %s", raw.MetadataType)
		}

		s.Metadata = metadataPtr.Elem().Interface().(ToolMetadata)
	}

	return nil
}

// ToolMetadata is a marker interface for tool-specific metadata structures
type ToolMetadata interface {
	ToolType() string
}

// EditTextMetadata records what happened during an external edit round trip.
type EditTextMetadata struct {
	Purpose      string `json:"purpose,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Changed      bool   `json:"changed"`
	Cancelled    bool   `json:"cancelled"`
	Reason       string `json:"reason,omitempty"`
	ExitCode     int    `json:"exitCode"`
	SessionID    string `json:"sessionId,omitempty"`
	DraftPath    string `json:"draftPath,omitempty"`
	LinesAdded   int    `json:"linesAdded,omitempty"`
	LinesRemoved int    `json:"linesRemoved,omitempty"`
}

func (m EditTextMetadata) ToolType() string { return "edit_text" }

// SkillMetadata records which skill document was served.
type SkillMetadata struct {
	SkillName   string `json:"skillName"`
	Description string `json:"description,omitempty"`
	Directory   string `json:"directory,omitempty"`
	ContentSize int    `json:"contentSize"`
}

func (m SkillMetadata) ToolType() string { return "skill" }

// ExtractMetadata is a helper that handles both pointer and value type
// assertions. JSON unmarshaling produces value types while direct creation
// uses pointers.
func ExtractMetadata(metadata ToolMetadata, target interface{}) bool {
	if metadata == nil {
		return false
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.IsNil() {
		return false
	}

	targetElem := targetValue.Elem()
	metadataValue := reflect.ValueOf(metadata)

	if metadataValue.Kind() == reflect.Ptr && !metadataValue.IsNil() {
		metadataValue = metadataValue.Elem()
	}

	if targetElem.Type() != metadataValue.Type() {
		return false
	}

	targetElem.Set(metadataValue)
	return true
}
