package tools

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredToolResultRoundTrip(t *testing.T) {
	original := StructuredToolResult{
		ToolName: "edit_text",
		Success:  true,
		Metadata: &EditTextMetadata{
			Purpose:   "commit message",
			Mode:      "floating-pane",
			Changed:   true,
			SessionID: "sess-1",
		},
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"metadataType":"edit_text"`)

	var decoded StructuredToolResult
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.ToolName, decoded.ToolName)
	assert.True(t, decoded.Success)

	var meta EditTextMetadata
	require.True(t, ExtractMetadata(decoded.Metadata, &meta))
	assert.Equal(t, "commit message", meta.Purpose)
	assert.Equal(t, "floating-pane", meta.Mode)
	assert.True(t, meta.Changed)
}

func TestUnmarshalUnknownMetadataType(t *testing.T) {
	data := []byte(`{"toolName":"mystery","success":true,"metadataType":"mystery","metadata":{"x":1},"timestamp":"2026-01-01T00:00:00Z"}`)

	var decoded StructuredToolResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded.Metadata)
}

func TestExtractMetadataTypeMismatch(t *testing.T) {
	var meta SkillMetadata
	assert.False(t, ExtractMetadata(&EditTextMetadata{}, &meta))
	assert.False(t, ExtractMetadata(nil, &meta))
}

func TestStringifyToolResult(t *testing.T) {
	out := StringifyToolResult("new text", "")
	assert.Contains(t, out, "<result>\nnew text\n</result>")
	assert.NotContains(t, out, "<error>")

	out = StringifyToolResult("", "boom")
	assert.Contains(t, out, "<error>\nboom\n</error>")
}

func TestBaseToolResult(t *testing.T) {
	r := BaseToolResult{Error: "bad input"}
	assert.True(t, r.IsError())
	assert.Equal(t, "bad input", r.GetError())
	assert.False(t, r.StructuredData().Success)
}
