package editbridge

import "context"

// LaunchSpec is the argument set for one pane launch attempt. The argument
// list is built deterministically: pane naming and pinning flags, the
// working directory, then the launcher script with the draft and sentinel
// paths and the resolved editor argv trailing.
type LaunchSpec struct {
	Floating     bool
	Name         string
	WorkingDir   string
	ScriptPath   string
	DraftPath    string
	SentinelPath string
	EditorArgv   []string
}

// LaunchResult captures the launch command's own exit status and error
// stream for diagnostics. A zero exit code means the pane was started.
type LaunchResult struct {
	ExitCode int
	Stderr   string
}

// Launcher starts the launcher script in a terminal multiplexer pane.
type Launcher interface {
	// Available reports whether the process runs inside a multiplexer
	// session that can host a pane.
	Available() bool
	Launch(ctx context.Context, spec LaunchSpec) (LaunchResult, error)
}

// Surface is the host-provided in-process modal text editor. It is an
// injected capability: the bridge never reproduces the host runtime.
type Surface interface {
	Available() bool
	// EditText runs a modal edit and reports whether the result was
	// accepted. A false accepted flag is an explicit "no change" return,
	// which the bridge records as cancellation rather than failure.
	EditText(ctx context.Context, text, purpose string) (edited string, accepted bool, err error)
}

// launchAttempts decides the ordered launch sequence from multiplexer
// availability and the floating preference: floating then fixed pane when
// floating is requested, fixed pane only otherwise, with the in-process
// surface as the terminal fallback when one exists.
func launchAttempts(muxAvailable, floating, surfaceAvailable bool) []LaunchMode {
	var modes []LaunchMode
	if muxAvailable {
		if floating {
			modes = append(modes, ModeFloatingPane)
		}
		modes = append(modes, ModeFixedPane)
	}
	if surfaceAvailable {
		modes = append(modes, ModeInProcess)
	}
	return modes
}
