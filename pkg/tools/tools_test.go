package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(
		editTextTool(t, &scriptedLauncher{available: true, exitCode: "0"}),
		NewSkillTool(testSkills()),
	)
}

func TestRegistryGet(t *testing.T) {
	registry := testRegistry(t)

	tool, err := registry.Get("edit_text")
	require.NoError(t, err)
	assert.Equal(t, "edit_text", tool.Name())

	_, err = registry.Get("bash")
	assert.Error(t, err)
}

func TestRegistryTools(t *testing.T) {
	registry := testRegistry(t)

	names := make(map[string]bool)
	for _, tool := range registry.Tools() {
		names[tool.Name()] = true
	}
	assert.Equal(t, map[string]bool{"edit_text": true, "skill": true}, names)
}

func TestRunTool(t *testing.T) {
	registry := testRegistry(t)
	state := NewBasicState()

	t.Run("successful run", func(t *testing.T) {
		result := registry.RunTool(context.Background(), state, "skill", `{"skill_name": "pr-review"}`)
		require.False(t, result.IsError())
		assert.Contains(t, result.GetResult(), "pr-review")
	})

	t.Run("unknown tool", func(t *testing.T) {
		result := registry.RunTool(context.Background(), state, "nope", `{}`)
		require.True(t, result.IsError())
		assert.Contains(t, result.GetError(), "failed to find tool")
	})

	t.Run("validation failure stops execution", func(t *testing.T) {
		result := registry.RunTool(context.Background(), state, "skill", `{"skill_name": ""}`)
		require.True(t, result.IsError())
		assert.Contains(t, result.GetError(), "skill_name is required")
	})
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema[SkillInput]()
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)

	prop, ok := schema.Properties.Get("skill_name")
	require.True(t, ok)
	assert.Equal(t, "string", prop.Type)
}

func TestBasicState(t *testing.T) {
	a := NewBasicState()
	b := NewBasicState(WithWorkingDir("/srv/work"))

	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
	assert.NotEmpty(t, a.WorkingDir())
	assert.Equal(t, "/srv/work", b.WorkingDir())
}
