package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedit-dev/zedit/pkg/editbridge"
)

func TestNewEditConfigDefaults(t *testing.T) {
	config := NewEditConfig()

	assert.True(t, config.Floating)
	assert.Equal(t, "md", config.Extension)
	assert.Equal(t, editbridge.DefaultTimeout, config.Timeout)
	assert.False(t, config.Keep)
	assert.Empty(t, config.Editor)
}

func TestGetEditConfigFromFlags(t *testing.T) {
	require.NoError(t, editCmd.Flags().Set("purpose", "pr description"))
	require.NoError(t, editCmd.Flags().Set("floating", "false"))
	require.NoError(t, editCmd.Flags().Set("extension", "txt"))
	require.NoError(t, editCmd.Flags().Set("timeout", "30s"))
	require.NoError(t, editCmd.Flags().Set("keep", "true"))
	defer func() {
		// Reset shared flag state for other tests.
		editCmd.Flags().Set("purpose", "")
		editCmd.Flags().Set("floating", "true")
		editCmd.Flags().Set("extension", "md")
		editCmd.Flags().Set("timeout", editbridge.DefaultTimeout.String())
		editCmd.Flags().Set("keep", "false")
	}()

	config := getEditConfigFromFlags(editCmd)

	assert.Equal(t, "pr description", config.Purpose)
	assert.False(t, config.Floating)
	assert.Equal(t, "txt", config.Extension)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.True(t, config.Keep)
}

func TestReadInputTextFromArgs(t *testing.T) {
	text, err := readInputText([]string{"hello", "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}
