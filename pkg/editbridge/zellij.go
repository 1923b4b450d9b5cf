package editbridge

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// ZellijSessionEnv signals an active zellij session. Its mere presence,
// not its value, indicates the multiplexer is available.
const ZellijSessionEnv = "ZELLIJ"

const zellijBinary = "zellij"

// ZellijLauncher launches editor panes inside the current zellij session.
type ZellijLauncher struct{}

// NewZellijLauncher returns a launcher bound to the ambient zellij session.
func NewZellijLauncher() *ZellijLauncher {
	return &ZellijLauncher{}
}

// Available reports whether the process runs inside a zellij session.
func (z *ZellijLauncher) Available() bool {
	_, ok := os.LookupEnv(ZellijSessionEnv)
	return ok
}

// Launch starts a pane running the launcher script. A nonzero exit status
// of the zellij command itself is reported in the result, not as an error;
// errors are reserved for failures to run zellij at all.
func (z *ZellijLauncher) Launch(ctx context.Context, spec LaunchSpec) (LaunchResult, error) {
	args := zellijArgs(spec)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, zellijBinary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return LaunchResult{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}, nil
		}
		return LaunchResult{ExitCode: -1, Stderr: stderr.String()}, errors.Wrap(err, "failed to run zellij")
	}

	return LaunchResult{ExitCode: 0, Stderr: stderr.String()}, nil
}

// zellijArgs builds the fixed argument template for a pane launch.
func zellijArgs(spec LaunchSpec) []string {
	name := spec.Name
	if name == "" {
		name = "zedit"
	}

	args := []string{"run", "--name", name, "--close-on-exit"}
	if spec.Floating {
		args = append(args, "--floating", "--pinned", "true")
	}
	if spec.WorkingDir != "" {
		args = append(args, "--cwd", spec.WorkingDir)
	}

	args = append(args, "--", "/bin/sh", spec.ScriptPath, spec.DraftPath, spec.SentinelPath)
	args = append(args, spec.EditorArgv...)
	return args
}
