package editbridge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLauncher struct {
	available bool
	specs     []LaunchSpec
	onLaunch  func(attempt int, spec LaunchSpec) (LaunchResult, error)
}

func (f *fakeLauncher) Available() bool { return f.available }

func (f *fakeLauncher) Launch(_ context.Context, spec LaunchSpec) (LaunchResult, error) {
	f.specs = append(f.specs, spec)
	if f.onLaunch != nil {
		return f.onLaunch(len(f.specs)-1, spec)
	}
	return LaunchResult{}, nil
}

type fakeSurface struct {
	available bool
	edit      func(text string) string
	accepted  bool
	err       error
	calls     int
}

func (f *fakeSurface) Available() bool { return f.available }

func (f *fakeSurface) EditText(_ context.Context, text, _ string) (string, bool, error) {
	f.calls++
	if f.err != nil {
		return "", false, f.err
	}
	if !f.accepted {
		return "", false, nil
	}
	if f.edit != nil {
		return f.edit(text), true, nil
	}
	return text, true, nil
}

// finishEditor simulates the editor exiting: it optionally rewrites the
// draft, then writes the sentinel, in that order.
func finishEditor(t *testing.T, spec LaunchSpec, newDraft *string, exitCode string) {
	t.Helper()
	if newDraft != nil {
		require.NoError(t, os.WriteFile(spec.DraftPath, []byte(*newDraft), 0o600))
	}
	require.NoError(t, os.WriteFile(spec.SentinelPath, []byte(exitCode), 0o600))
}

func strPtr(s string) *string { return &s }

func TestEditNoInteractiveUI(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "with text", text: "original content"},
		{name: "empty text", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge, err := New(WithLauncher(&fakeLauncher{available: false}))
			require.NoError(t, err)

			out, err := bridge.Edit(context.Background(), Request{Text: tt.text})
			require.NoError(t, err)

			assert.False(t, out.Success)
			assert.Equal(t, ReasonNoInteractiveUI, out.Reason)
			assert.Equal(t, tt.text, out.Text)
			assert.False(t, out.Changed)
		})
	}
}

func TestEditUnchangedDraft(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(_ int, spec LaunchSpec) (LaunchResult, error) {
		finishEditor(t, spec, nil, "0")
		return LaunchResult{}, nil
	}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "leave me alone"})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, "leave me alone", out.Text)
	assert.False(t, out.Changed)
	assert.Equal(t, ModeFixedPane, out.Mode)
	assert.Equal(t, ReasonNone, out.Reason)
	assert.Equal(t, 0, out.ExitCode)
	assert.NotEmpty(t, out.SessionID)
}

func TestEditChangedDraft(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(_ int, spec LaunchSpec) (LaunchResult, error) {
		finishEditor(t, spec, strPtr("revised content"), "0")
		return LaunchResult{}, nil
	}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "first pass", Floating: true})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, "revised content", out.Text)
	assert.True(t, out.Changed)
	assert.Equal(t, ModeFloatingPane, out.Mode)
}

func TestEditNonzeroEditorExitIsNotFailure(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(_ int, spec LaunchSpec) (LaunchResult, error) {
		finishEditor(t, spec, strPtr("saved anyway"), "1")
		return LaunchResult{}, nil
	}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "draft"})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, ReasonNone, out.Reason)
	assert.Equal(t, 1, out.ExitCode)
	assert.Equal(t, "saved anyway", out.Text)
}

func TestEditFloatingFallsBackToFixedPane(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(attempt int, spec LaunchSpec) (LaunchResult, error) {
		if attempt == 0 {
			return LaunchResult{ExitCode: 1, Stderr: "no floating panes here"}, nil
		}
		finishEditor(t, spec, nil, "0")
		return LaunchResult{}, nil
	}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "", Floating: true})
	require.NoError(t, err)

	require.Len(t, launcher.specs, 2)
	assert.True(t, launcher.specs[0].Floating)
	assert.False(t, launcher.specs[1].Floating)

	assert.True(t, out.Success)
	assert.Equal(t, ModeFixedPane, out.Mode)
	assert.Equal(t, "", out.Text)
	assert.False(t, out.Changed)
}

func TestEditZellijLaunchFailed(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(_ int, _ LaunchSpec) (LaunchResult, error) {
		return LaunchResult{ExitCode: 2, Stderr: "zellij: unknown subcommand"}, nil
	}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "keep this", Floating: true})
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Equal(t, ReasonZellijLaunchFailed, out.Reason)
	assert.Equal(t, "keep this", out.Text)
	assert.Equal(t, 2, out.ExitCode)
	assert.Equal(t, "zellij: unknown subcommand", out.Stderr)
	assert.Len(t, launcher.specs, 2)
}

func TestEditLaunchFailureFallsBackToSurface(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(_ int, _ LaunchSpec) (LaunchResult, error) {
		return LaunchResult{ExitCode: 1}, errors.New("exec format error")
	}
	surface := &fakeSurface{
		available: true,
		accepted:  true,
		edit:      func(string) string { return "surface result" },
	}

	bridge, err := New(WithLauncher(launcher), WithSurface(surface))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "pane text"})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, ModeInProcess, out.Mode)
	assert.Equal(t, "surface result", out.Text)
	assert.True(t, out.Changed)
	assert.Equal(t, 1, surface.calls)
}

func TestEditInProcessWithoutMultiplexer(t *testing.T) {
	surface := &fakeSurface{
		available: true,
		accepted:  true,
		edit:      func(text string) string { return text + " plus edits" },
	}

	bridge, err := New(WithLauncher(&fakeLauncher{available: false}), WithSurface(surface))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "base"})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, ModeInProcess, out.Mode)
	assert.Equal(t, "base plus edits", out.Text)
	assert.True(t, out.Changed)
}

func TestEditInProcessDeclineIsCancellation(t *testing.T) {
	surface := &fakeSurface{available: true, accepted: false}

	bridge, err := New(WithLauncher(&fakeLauncher{available: false}), WithSurface(surface))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "untouched"})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.True(t, out.Cancelled)
	assert.Equal(t, ReasonNone, out.Reason)
	assert.Equal(t, "untouched", out.Text)
	assert.False(t, out.Changed)
}

func TestEditTimeout(t *testing.T) {
	// Launch succeeds but the sentinel never appears.
	launcher := &fakeLauncher{available: true}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	start := time.Now()
	out, err := bridge.Edit(context.Background(), Request{
		Text:    "slow editor",
		Timeout: time.Millisecond, // below the floor, raised to MinTimeout
	})
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Equal(t, ReasonTimeout, out.Reason)
	assert.Equal(t, "slow editor", out.Text)
	assert.GreaterOrEqual(t, elapsed, MinTimeout)
	assert.Less(t, elapsed, MinTimeout+2*time.Second)
}

func TestEditCancellationBeatsTimeout(t *testing.T) {
	launcher := &fakeLauncher{available: true}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := bridge.Edit(ctx, Request{Text: "abort me", Timeout: time.Millisecond})
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Equal(t, ReasonAborted, out.Reason)
	assert.Equal(t, "abort me", out.Text)
}

func TestEditCancelDuringPoll(t *testing.T) {
	launcher := &fakeLauncher{available: true}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	out, err := bridge.Edit(ctx, Request{Text: "waiting"})
	require.NoError(t, err)

	assert.Equal(t, ReasonAborted, out.Reason)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestEditCleansUpSessionDirectory(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(_ int, spec LaunchSpec) (LaunchResult, error) {
		finishEditor(t, spec, strPtr("done"), "0")
		return LaunchResult{}, nil
	}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	_, err = bridge.Edit(context.Background(), Request{Text: "transient"})
	require.NoError(t, err)

	require.Len(t, launcher.specs, 1)
	dir := filepath.Dir(launcher.specs[0].DraftPath)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEditCleansUpOnTimeout(t *testing.T) {
	launcher := &fakeLauncher{available: true}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "x", Timeout: MinTimeout})
	require.NoError(t, err)
	require.Equal(t, ReasonTimeout, out.Reason)

	dir := filepath.Dir(launcher.specs[0].DraftPath)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEditKeepArtifacts(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(_ int, spec LaunchSpec) (LaunchResult, error) {
		finishEditor(t, spec, strPtr("kept around"), "0")
		return LaunchResult{}, nil
	}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "x", KeepArtifacts: true})
	require.NoError(t, err)
	defer os.RemoveAll(filepath.Dir(out.DraftPath))

	require.NotEmpty(t, out.DraftPath)
	data, err := os.ReadFile(out.DraftPath)
	require.NoError(t, err)
	assert.Equal(t, "kept around", string(data))
}

func TestEditDraftUnreadableAfterSentinel(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(_ int, spec LaunchSpec) (LaunchResult, error) {
		require.NoError(t, os.Remove(spec.DraftPath))
		finishEditor(t, spec, nil, "0")
		return LaunchResult{}, nil
	}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	out, err := bridge.Edit(context.Background(), Request{Text: "still here"})
	require.Error(t, err)

	assert.Equal(t, "still here", out.Text)
	assert.False(t, out.Success)
	assert.Equal(t, ReasonNone, out.Reason)
}

func TestEditPassesDraftPathToEditorArgv(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(_ int, spec LaunchSpec) (LaunchResult, error) {
		finishEditor(t, spec, nil, "0")
		return LaunchResult{}, nil
	}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	_, err = bridge.Edit(context.Background(), Request{
		Text:          "x",
		Extension:     "txt",
		EditorCommand: "myeditor --wait",
		Purpose:       "commit message",
	})
	require.NoError(t, err)

	require.Len(t, launcher.specs, 1)
	spec := launcher.specs[0]
	assert.Equal(t, "commit message", spec.Name)
	assert.Equal(t, ".txt", filepath.Ext(spec.DraftPath))
	assert.Equal(t, []string{"myeditor", "--wait", spec.DraftPath}, spec.EditorArgv)
}

func TestEditRoundTripIdempotence(t *testing.T) {
	launcher := &fakeLauncher{available: true}
	launcher.onLaunch = func(_ int, spec LaunchSpec) (LaunchResult, error) {
		finishEditor(t, spec, nil, "0")
		return LaunchResult{}, nil
	}

	bridge, err := New(WithLauncher(launcher))
	require.NoError(t, err)

	input := "line one\nline two\n\nwith trailing newline\n"
	out, err := bridge.Edit(context.Background(), Request{Text: input})
	require.NoError(t, err)

	assert.Equal(t, input, out.Text)
	assert.False(t, out.Changed)
}
