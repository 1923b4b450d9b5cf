package skills

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const skillFileName = "SKILL.md"

// Discovery finds skills in the configured directories. Directories are
// searched in order; the first skill claiming a name wins, and builtins
// fill in any names still unclaimed.
type Discovery struct {
	skillDirs   []string
	pluginDirs  []pluginDir
	useBuiltins bool
}

// pluginDir is a plugin skills directory with its name prefix.
type pluginDir struct {
	dir    string
	prefix string
}

// Option configures a Discovery
type Option func(*Discovery) error

// WithSkillDirs sets custom skill directories.
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithBuiltins toggles the embedded built-in skills.
func WithBuiltins(enabled bool) Option {
	return func(d *Discovery) error {
		d.useBuiltins = enabled
		return nil
	}
}

// WithDefaultDirs configures the standard lookup locations: repo-local
// first, then the user's home, then installed plugins.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			"./.zedit/skills",
			filepath.Join(homeDir, ".zedit", "skills"),
		}

		d.pluginDirs = nil
		d.addPluginDirs("./.zedit/plugins")
		d.addPluginDirs(filepath.Join(homeDir, ".zedit", "plugins"))
		d.useBuiltins = true

		return nil
	}
}

// addPluginDirs registers every plugin under pluginsDir that ships a
// skills directory. Plugins may nest one level (org/repo); the relative
// path becomes the skill name prefix.
func (d *Discovery) addPluginDirs(pluginsDir string) {
	_ = filepath.Walk(pluginsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}

		skillsDir := filepath.Join(path, "skills")
		if _, err := os.Stat(skillsDir); err != nil {
			return nil
		}

		relPath, err := filepath.Rel(pluginsDir, path)
		if err != nil {
			return nil
		}

		d.pluginDirs = append(d.pluginDirs, pluginDir{
			dir:    skillsDir,
			prefix: filepath.ToSlash(relPath) + "/",
		})

		return filepath.SkipDir
	})
}

// NewDiscovery creates a skill discovery instance. With no options it
// uses the default directories and the builtins.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// DiscoverSkills returns all available skills keyed by name.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)

	for _, dir := range d.skillDirs {
		d.collectFromDir(dir, "", skills)
	}
	for _, plugin := range d.pluginDirs {
		d.collectFromDir(plugin.dir, plugin.prefix, skills)
	}

	if d.useBuiltins {
		builtins, err := builtinSkills()
		if err != nil {
			return nil, err
		}
		for name, skill := range builtins {
			if _, exists := skills[name]; !exists {
				skills[name] = skill
			}
		}
	}

	return skills, nil
}

// collectFromDir loads each subdirectory's SKILL.md into skills,
// prefixing names and skipping entries that fail to parse or are
// shadowed by an earlier source.
func (d *Discovery) collectFromDir(dir, prefix string, skills map[string]*Skill) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		content, err := os.ReadFile(filepath.Join(entryPath, skillFileName))
		if err != nil {
			continue
		}

		skill, err := parseSkill(content)
		if err != nil {
			continue
		}

		name := prefix + skill.Name
		if _, exists := skills[name]; !exists {
			skill.Name = name
			skill.Directory = entryPath
			skills[name] = skill
		}
	}
}

// GetSkill returns one skill by name.
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	skill, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return skill, nil
}

// ListSkillNames returns all available skill names, sorted.
func (d *Discovery) ListSkillNames() ([]string, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// parseSkill parses a SKILL.md document: goldmark extracts the YAML
// frontmatter, then the body is returned with the frontmatter stripped.
func parseSkill(content []byte) (*Skill, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Skill{
		Name:        name,
		Description: description,
		Content:     stripFrontmatter(string(content)),
	}, nil
}

// stripFrontmatter removes the leading YAML frontmatter block.
func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}

	return content
}

// FilterByAllowlist keeps only the named skills. An empty allowlist
// keeps everything.
func FilterByAllowlist(skills map[string]*Skill, allowed []string) map[string]*Skill {
	if len(allowed) == 0 {
		return skills
	}

	filtered := make(map[string]*Skill)
	for _, name := range allowed {
		if skill, exists := skills[name]; exists {
			filtered[name] = skill
		}
	}
	return filtered
}
