// Package skills loads prose skill documents: reusable editing and
// review playbooks packaged as directories containing a SKILL.md file
// with YAML frontmatter. Skills come from three sources, in precedence
// order: repo-local directories, user-global directories and installed
// plugins, with a set of built-in skills shipped in the binary as the
// final fallback.
package skills

// Skill is one discovered skill document.
type Skill struct {
	Name        string // Unique name from frontmatter
	Description string // Brief description used to pick a skill
	Directory   string // Path to the skill directory; empty for builtins
	Content     string // SKILL.md body with the frontmatter stripped
}

// Metadata is the YAML frontmatter of a SKILL.md file.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}
