package editbridge

import (
	"context"
	"time"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/zedit-dev/zedit/pkg/logger"
)

// Bridge performs edit round trips. The zero-value Bridge is not usable;
// construct one with New.
type Bridge struct {
	launcher       Launcher
	surface        Surface
	allowedEditors []glob.Glob
	workingDir     string
}

// Option configures a Bridge
type Option func(*Bridge) error

// WithLauncher replaces the default zellij launcher.
func WithLauncher(l Launcher) Option {
	return func(b *Bridge) error {
		b.launcher = l
		return nil
	}
}

// WithSurface injects the host's in-process editor surface.
func WithSurface(s Surface) Option {
	return func(b *Bridge) error {
		b.surface = s
		return nil
	}
}

// WithAllowedEditors restricts editor commands to the given glob patterns.
func WithAllowedEditors(patterns ...string) Option {
	return func(b *Bridge) error {
		globs, err := CompileAllowedEditors(patterns)
		if err != nil {
			return err
		}
		b.allowedEditors = globs
		return nil
	}
}

// WithWorkingDir sets the working directory panes are launched in.
func WithWorkingDir(dir string) Option {
	return func(b *Bridge) error {
		b.workingDir = dir
		return nil
	}
}

// New creates a Bridge. Without options it launches into the ambient zellij
// session and has no in-process fallback.
func New(opts ...Option) (*Bridge, error) {
	b := &Bridge{
		launcher: NewZellijLauncher(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Edit runs one edit round trip. The returned outcome always carries usable
// text: the edited content on success, the original input otherwise.
// Failures from the closed taxonomy are reported in the outcome with a nil
// error; a non-nil error covers only out-of-taxonomy conditions such as
// session I/O failures, with the original text preserved in the outcome.
func (b *Bridge) Edit(ctx context.Context, req Request) (Outcome, error) {
	log := logger.G(ctx).WithFields(logrus.Fields{
		"purpose":  req.Purpose,
		"floating": req.Floating,
	})

	out := Outcome{Text: req.Text}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout < MinTimeout {
		timeout = MinTimeout
	}

	muxAvailable := b.launcher != nil && b.launcher.Available()
	surfaceAvailable := b.surface != nil && b.surface.Available()

	// Never attempt a launch that cannot be observed.
	if !muxAvailable && !surfaceAvailable {
		out.Reason = ReasonNoInteractiveUI
		return out, nil
	}

	if !muxAvailable {
		return b.editInProcess(ctx, req, out)
	}

	session, err := NewSession(req.Text, sanitizeExtension(req.Extension))
	if err != nil {
		return out, err
	}
	out.SessionID = session.ID
	log = log.WithField("session_id", session.ID)

	if req.KeepArtifacts {
		out.DraftPath = session.DraftPath
	} else {
		defer func() {
			if err := session.Cleanup(); err != nil {
				log.WithError(err).Warn("failed to clean up edit session")
			}
		}()
	}

	editor := resolveEditor(req.EditorCommand, b.allowedEditors)
	spec := LaunchSpec{
		Name:         req.Purpose,
		WorkingDir:   b.workingDir,
		ScriptPath:   session.ScriptPath,
		DraftPath:    session.DraftPath,
		SentinelPath: session.SentinelPath,
		EditorArgv:   buildEditorArgv(editor, session.DraftPath),
	}

	mode, last, launched := b.launchPane(ctx, req, spec, log)
	if !launched {
		if surfaceAvailable {
			return b.editInProcess(ctx, req, out)
		}
		out.Reason = ReasonZellijLaunchFailed
		out.ExitCode = last.ExitCode
		out.Stderr = last.Stderr
		return out, nil
	}

	return b.awaitSentinel(ctx, req, session, mode, timeout, out, log)
}

// launchPane tries the pane attempts in order: floating first when
// requested, then a fixed pane. It reports the mode that launched and the
// last failed result for diagnostics.
func (b *Bridge) launchPane(ctx context.Context, req Request, spec LaunchSpec, log *logrus.Entry) (LaunchMode, LaunchResult, bool) {
	var last LaunchResult

	for _, mode := range launchAttempts(true, req.Floating, false) {
		spec.Floating = mode == ModeFloatingPane

		result, err := b.launcher.Launch(ctx, spec)
		if err != nil {
			log.WithError(err).WithField("mode", mode).Warn("pane launch errored")
			last = result
			continue
		}
		if result.ExitCode != 0 {
			log.WithFields(logrus.Fields{
				"mode":      mode,
				"exit_code": result.ExitCode,
			}).Warn("pane launch failed")
			last = result
			continue
		}
		return mode, result, true
	}

	return "", last, false
}

// awaitSentinel polls for the completion sentinel on a fixed interval.
// Cancellation is checked before the timeout clock, so an explicit cancel
// wins over a timeout firing in the same tick.
func (b *Bridge) awaitSentinel(ctx context.Context, req Request, session *Session, mode LaunchMode, timeout time.Duration, out Outcome, log *logrus.Entry) (Outcome, error) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			out.Reason = ReasonAborted
			return out, nil
		default:
		}

		if session.SentinelExists() {
			text, err := session.ReadDraft()
			if err != nil {
				// Outside the closed taxonomy: the draft vanished between
				// sentinel appearance and read-back.
				return out, errors.Wrap(err, "draft unreadable after editor exit")
			}

			out.Text = text
			out.Success = true
			out.Mode = mode
			out.Changed = text != req.Text
			out.ExitCode = session.ReadExitCode()
			if out.ExitCode != 0 {
				log.WithField("exit_code", out.ExitCode).Warn("editor exited nonzero; draft content trusted anyway")
			}
			return out, nil
		}

		if time.Now().After(deadline) {
			out.Reason = ReasonTimeout
			return out, nil
		}

		select {
		case <-ctx.Done():
			out.Reason = ReasonAborted
			return out, nil
		case <-ticker.C:
		}
	}
}

// editInProcess delegates to the host's modal editor surface. An explicit
// decline is cancellation on an otherwise-successful outcome, never a
// failure reason.
func (b *Bridge) editInProcess(ctx context.Context, req Request, out Outcome) (Outcome, error) {
	edited, accepted, err := b.surface.EditText(ctx, req.Text, req.Purpose)
	if err != nil {
		return out, errors.Wrap(err, "in-process editor failed")
	}

	out.Mode = ModeInProcess
	out.Success = true
	if !accepted {
		out.Cancelled = true
		return out, nil
	}

	out.Text = edited
	out.Changed = edited != req.Text
	return out, nil
}
