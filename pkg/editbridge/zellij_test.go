package editbridge

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZellijAvailable(t *testing.T) {
	launcher := NewZellijLauncher()

	// Presence of the variable matters, not its value.
	t.Setenv(ZellijSessionEnv, "0")
	assert.True(t, launcher.Available())

	os.Unsetenv(ZellijSessionEnv)
	assert.False(t, launcher.Available())
}

func TestZellijArgs(t *testing.T) {
	base := LaunchSpec{
		ScriptPath:   "/tmp/s/run.sh",
		DraftPath:    "/tmp/s/draft.md",
		SentinelPath: "/tmp/s/done",
		EditorArgv:   []string{"vim", "/tmp/s/draft.md"},
	}

	t.Run("fixed pane", func(t *testing.T) {
		spec := base
		spec.Name = "commit message"

		assert.Equal(t, []string{
			"run", "--name", "commit message", "--close-on-exit",
			"--", "/bin/sh", "/tmp/s/run.sh", "/tmp/s/draft.md", "/tmp/s/done",
			"vim", "/tmp/s/draft.md",
		}, zellijArgs(spec))
	})

	t.Run("floating pinned pane with working dir", func(t *testing.T) {
		spec := base
		spec.Name = "quick-edit"
		spec.Floating = true
		spec.WorkingDir = "/home/user/project"

		assert.Equal(t, []string{
			"run", "--name", "quick-edit", "--close-on-exit",
			"--floating", "--pinned", "true",
			"--cwd", "/home/user/project",
			"--", "/bin/sh", "/tmp/s/run.sh", "/tmp/s/draft.md", "/tmp/s/done",
			"vim", "/tmp/s/draft.md",
		}, zellijArgs(spec))
	})

	t.Run("empty name gets a default", func(t *testing.T) {
		args := zellijArgs(base)
		assert.Equal(t, "zedit", args[2])
	})
}
