package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zedit-dev/zedit/pkg/presenter"
	"github.com/zedit-dev/zedit/pkg/skills"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "List and show skill documents",
}

// skillListEntry is the YAML shape printed by "skill list".
type skillListEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Directory   string `yaml:"directory,omitempty"`
	Builtin     bool   `yaml:"builtin"`
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available skills",
	Run: func(_ *cobra.Command, _ []string) {
		discovered, err := discoverSkills()
		if err != nil {
			presenter.Error(err, "failed to discover skills")
			os.Exit(1)
		}

		entries := make([]skillListEntry, 0, len(discovered))
		for _, name := range sortedNames(discovered) {
			skill := discovered[name]
			entries = append(entries, skillListEntry{
				Name:        skill.Name,
				Description: skill.Description,
				Directory:   skill.Directory,
				Builtin:     skill.Directory == "",
			})
		}

		out, err := yaml.Marshal(entries)
		if err != nil {
			presenter.Error(err, "failed to render skill list")
			os.Exit(1)
		}
		fmt.Print(string(out))
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a skill document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		discovery, err := skills.NewDiscovery()
		if err != nil {
			presenter.Error(err, "failed to initialize skill discovery")
			os.Exit(1)
		}

		skill, err := discovery.GetSkill(args[0])
		if err != nil {
			presenter.Error(err, "skill not found")
			os.Exit(1)
		}

		if metaOnly, _ := cmd.Flags().GetBool("metadata"); metaOnly {
			out, err := yaml.Marshal(skillListEntry{
				Name:        skill.Name,
				Description: skill.Description,
				Directory:   skill.Directory,
				Builtin:     skill.Directory == "",
			})
			if err != nil {
				presenter.Error(err, "failed to render skill metadata")
				os.Exit(1)
			}
			fmt.Print(string(out))
			return
		}

		fmt.Print(skill.Content)
	},
}

func init() {
	skillShowCmd.Flags().Bool("metadata", false, "Print only the skill metadata as YAML")
	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
}

// discoverSkills applies the configured allowlist on top of discovery.
func discoverSkills() (map[string]*skills.Skill, error) {
	discovery, err := skills.NewDiscovery()
	if err != nil {
		return nil, err
	}

	discovered, err := discovery.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	return skills.FilterByAllowlist(discovered, viper.GetStringSlice("skills.allowed")), nil
}

func sortedNames(skillMap map[string]*skills.Skill) []string {
	names := make([]string, 0, len(skillMap))
	for name := range skillMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
