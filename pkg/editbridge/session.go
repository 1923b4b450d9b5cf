package editbridge

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const (
	scriptName   = "run.sh"
	sentinelName = "done"
)

// launcherScript runs the editor argv over the draft and records the exit
// code. Writing the sentinel is its last action: the sentinel must not
// appear until the editor process has fully exited, so the poller never
// reads a partially-written draft.
const launcherScript = `#!/bin/sh
draft="$1"
done_file="$2"
shift 2
"$@"
code=$?
printf '%s' "$code" > "$done_file"
`

// Session is the scoped temp directory backing one edit round trip. It
// holds exactly three artifacts: the draft text file, the launcher script
// and the sentinel completion file. Each invocation gets its own
// exclusively-created directory, so concurrent edits do not interfere.
type Session struct {
	ID           string
	Dir          string
	DraftPath    string
	ScriptPath   string
	SentinelPath string
}

// NewSession creates the session directory and writes the draft and
// launcher script. The sentinel file is created later by the script.
func NewSession(text, extension string) (*Session, error) {
	dir, err := os.MkdirTemp("", "zedit-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session directory")
	}

	s := &Session{
		ID:           uuid.NewString(),
		Dir:          dir,
		DraftPath:    filepath.Join(dir, "draft."+extension),
		ScriptPath:   filepath.Join(dir, scriptName),
		SentinelPath: filepath.Join(dir, sentinelName),
	}

	if err := os.WriteFile(s.DraftPath, []byte(text), 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "failed to write draft file")
	}

	if err := os.WriteFile(s.ScriptPath, []byte(launcherScript), 0o700); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "failed to write launcher script")
	}

	return s, nil
}

// SentinelExists reports whether the editor process has exited. Sentinel
// visibility implies the draft write has completed.
func (s *Session) SentinelExists() bool {
	_, err := os.Stat(s.SentinelPath)
	return err == nil
}

// ReadDraft returns the current draft content.
func (s *Session) ReadDraft() (string, error) {
	data, err := os.ReadFile(s.DraftPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to read draft file")
	}
	return string(data), nil
}

// ReadExitCode reads the editor exit code from the sentinel. The poller can
// observe the sentinel before its content is flushed, so empty reads retry
// briefly before defaulting to zero.
func (s *Session) ReadExitCode() int {
	var code int
	err := retry.Do(
		func() error {
			data, err := os.ReadFile(s.SentinelPath)
			if err != nil {
				return err
			}
			content := strings.TrimSpace(string(data))
			if content == "" {
				return errors.New("sentinel not yet written")
			}
			parsed, err := strconv.Atoi(content)
			if err != nil {
				return errors.Wrapf(err, "malformed sentinel content %q", content)
			}
			code = parsed
			return nil
		},
		retry.Attempts(5),
		retry.Delay(20*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return 0
	}
	return code
}

// Cleanup removes the session artifacts and the directory itself,
// aggregating any removal errors. It is safe to call on every exit path.
func (s *Session) Cleanup() error {
	var result *multierror.Error

	for _, path := range []string{s.DraftPath, s.ScriptPath, s.SentinelPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			result = multierror.Append(result, errors.Wrapf(err, "failed to remove %s", filepath.Base(path)))
		}
	}

	if err := os.RemoveAll(s.Dir); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "failed to remove session directory"))
	}

	return result.ErrorOrNil()
}
