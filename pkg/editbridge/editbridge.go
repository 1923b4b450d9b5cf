// Package editbridge implements the external edit round trip: it hands a
// piece of text to a user-chosen editor running in a zellij pane (or an
// in-process fallback surface), waits for the editor to exit, and returns
// the possibly-modified text together with a structured record of what
// happened. Callers always get usable text back, even when the operation
// fails.
package editbridge

import "time"

// FailureReason is the closed set of reasons an edit round trip can fail.
type FailureReason string

const (
	// ReasonNone means the round trip did not fail.
	ReasonNone FailureReason = ""
	// ReasonNoInteractiveUI means neither a zellij session nor an
	// in-process editor surface was available to host the edit.
	ReasonNoInteractiveUI FailureReason = "no-interactive-ui"
	// ReasonZellijLaunchFailed means every pane launch attempt failed and
	// no in-process fallback was available.
	ReasonZellijLaunchFailed FailureReason = "zellij-launch-failed"
	// ReasonTimeout means the editor did not finish within the deadline.
	ReasonTimeout FailureReason = "timeout"
	// ReasonAborted means the caller cancelled the wait.
	ReasonAborted FailureReason = "aborted"
)

// LaunchMode identifies which presentation hosted the editor.
type LaunchMode string

const (
	// ModeFloatingPane is a floating zellij pane.
	ModeFloatingPane LaunchMode = "floating-pane"
	// ModeFixedPane is a regular (tiled) zellij pane.
	ModeFixedPane LaunchMode = "fixed-pane"
	// ModeInProcess is the host-provided modal editor surface.
	ModeInProcess LaunchMode = "in-process"
)

const (
	// DefaultTimeout bounds the wait for the external editor.
	DefaultTimeout = 30 * time.Minute
	// MinTimeout is the floor applied to caller-supplied timeouts.
	MinTimeout = time.Second

	// pollInterval is the fixed slice between sentinel checks.
	pollInterval = 200 * time.Millisecond
)

// Request describes one edit round trip. The zero value edits empty text
// with all defaults applied. Empty input text is explicitly allowed.
type Request struct {
	// Text is the content to edit.
	Text string
	// Purpose is a free-text label shown as the pane name.
	Purpose string
	// Floating requests a floating pane before falling back to a fixed one.
	Floating bool
	// Extension names the draft file type; sanitized to alphanumeric,
	// defaulting to "md".
	Extension string
	// EditorCommand overrides environment-based editor resolution.
	EditorCommand string
	// Timeout bounds the wait; zero means DefaultTimeout, values below
	// MinTimeout are raised to it.
	Timeout time.Duration
	// KeepArtifacts disables temp-session cleanup; the draft path is then
	// reported back in the outcome.
	KeepArtifacts bool
}

// Outcome reports the result of an edit round trip. Text is always defined:
// it holds the edited content on success and the original input on every
// other path.
type Outcome struct {
	Text      string
	Success   bool
	Mode      LaunchMode
	Changed   bool
	Cancelled bool
	Reason    FailureReason
	// ExitCode is the editor's own exit code. A nonzero value does not
	// by itself make the round trip a failure.
	ExitCode int
	// Stderr holds the captured error stream of a failed launch.
	Stderr string
	// DraftPath is set only when artifact cleanup is disabled.
	DraftPath string
	SessionID string
}
