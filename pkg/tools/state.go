package tools

import (
	"os"

	"github.com/google/uuid"
)

// BasicState is the default execution state: a fresh session ID and the
// process working directory unless overridden.
type BasicState struct {
	sessionID  string
	workingDir string
}

// StateOption configures a BasicState
type StateOption func(*BasicState)

// WithWorkingDir overrides the working directory.
func WithWorkingDir(dir string) StateOption {
	return func(s *BasicState) {
		s.workingDir = dir
	}
}

// NewBasicState creates an execution state with a new session ID.
func NewBasicState(opts ...StateOption) *BasicState {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	s := &BasicState{
		sessionID:  uuid.NewString(),
		workingDir: wd,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionID returns the session identifier
func (s *BasicState) SessionID() string {
	return s.sessionID
}

// WorkingDir returns the working directory
func (s *BasicState) WorkingDir() string {
	return s.workingDir
}
