package editbridge

import (
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// DefaultEditor is used when no override or environment variable names one.
const DefaultEditor = "vi"

// Environment variables consulted for editor resolution, in priority order
// after the explicit per-call override.
const (
	editorEnvZedit   = "ZEDIT_EDITOR"
	editorEnvVisual  = "VISUAL"
	editorEnvGeneric = "EDITOR"
)

const (
	filePlaceholder       = "{file}"
	positionalPlaceholder = "{}"
)

// CompileAllowedEditors compiles glob patterns restricting which editor
// commands may be used. An empty pattern list allows everything.
func CompileAllowedEditors(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid editor pattern %q", pattern)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// resolveEditor picks the editor command: explicit override, then
// ZEDIT_EDITOR, VISUAL and EDITOR, then DefaultEditor. Candidates that do
// not match the allow-list fall through to the next source.
func resolveEditor(override string, allowed []glob.Glob) string {
	candidates := []string{
		override,
		os.Getenv(editorEnvZedit),
		os.Getenv(editorEnvVisual),
		os.Getenv(editorEnvGeneric),
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if editorAllowed(candidate, allowed) {
			return candidate
		}
	}

	return DefaultEditor
}

func editorAllowed(command string, allowed []glob.Glob) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, g := range allowed {
		if g.Match(command) {
			return true
		}
	}
	return false
}

// sanitizeExtension strips everything but alphanumerics from the draft file
// extension and falls back to "md" when nothing survives.
func sanitizeExtension(ext string) string {
	var sb strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "md"
	}
	return sb.String()
}

// buildEditorArgv turns an editor command into the argv that opens the draft.
// Three invocation styles are supported: a literal {file} placeholder, a
// positional {} placeholder, and plain commands that get the draft path
// appended as the final argument.
func buildEditorArgv(command, draftPath string) []string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = []string{DefaultEditor}
	}

	substituted := false
	argv := make([]string, 0, len(fields)+1)
	for _, field := range fields {
		switch {
		case strings.Contains(field, filePlaceholder):
			argv = append(argv, strings.ReplaceAll(field, filePlaceholder, draftPath))
			substituted = true
		case field == positionalPlaceholder:
			argv = append(argv, draftPath)
			substituted = true
		default:
			argv = append(argv, field)
		}
	}

	if !substituted {
		argv = append(argv, draftPath)
	}

	return argv
}
