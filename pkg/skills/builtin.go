package skills

import (
	"embed"
	"io/fs"
	"path"

	"github.com/pkg/errors"
)

//go:embed builtin
var builtinFS embed.FS

// builtinSkills loads the skills compiled into the binary. Builtins have
// no on-disk directory, so Directory is left empty.
func builtinSkills() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)

	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read builtin skills")
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		content, err := fs.ReadFile(builtinFS, path.Join("builtin", entry.Name(), skillFileName))
		if err != nil {
			return nil, errors.Wrapf(err, "builtin skill %s has no %s", entry.Name(), skillFileName)
		}

		skill, err := parseSkill(content)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse builtin skill %s", entry.Name())
		}

		skills[skill.Name] = skill
	}

	return skills, nil
}
