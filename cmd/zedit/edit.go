package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zedit-dev/zedit/pkg/editbridge"
	"github.com/zedit-dev/zedit/pkg/logger"
	"github.com/zedit-dev/zedit/pkg/presenter"
	"github.com/zedit-dev/zedit/pkg/tui"
)

// EditConfig holds the settings for one edit invocation.
type EditConfig struct {
	Purpose    string
	Floating   bool
	Extension  string
	Editor     string
	Timeout    time.Duration
	Keep       bool
	ShowDiff   bool
	WorkingDir string
}

// NewEditConfig returns the defaults.
func NewEditConfig() *EditConfig {
	return &EditConfig{
		Floating:  true,
		Extension: "md",
		Timeout:   editbridge.DefaultTimeout,
	}
}

var editCmd = &cobra.Command{
	Use:   "edit [text...]",
	Short: "Edit text in your editor and print the result",
	Long: `Opens the given text in your editor and prints the edited result to
stdout. Text comes from the arguments, or from stdin when piped; with
neither, the editor starts on an empty draft.

Inside a zellij session the editor runs in a pane (floating by
default); elsewhere an in-process editor is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		config := getEditConfigFromFlags(cmd)

		text, err := readInputText(args)
		if err != nil {
			presenter.Error(err, "failed to read input text")
			os.Exit(1)
		}

		opts := []editbridge.Option{
			editbridge.WithSurface(tui.NewEditorSurface()),
		}
		if config.WorkingDir != "" {
			opts = append(opts, editbridge.WithWorkingDir(config.WorkingDir))
		}
		if allowed := viper.GetStringSlice("editor.allowed"); len(allowed) > 0 {
			opts = append(opts, editbridge.WithAllowedEditors(allowed...))
		}

		bridge, err := editbridge.New(opts...)
		if err != nil {
			presenter.Error(err, "failed to configure edit bridge")
			os.Exit(1)
		}

		outcome, err := bridge.Edit(ctx, editbridge.Request{
			Text:          text,
			Purpose:       config.Purpose,
			Floating:      config.Floating,
			Extension:     config.Extension,
			EditorCommand: config.Editor,
			Timeout:       config.Timeout,
			KeepArtifacts: config.Keep,
		})
		if err != nil {
			presenter.Error(err, "edit failed")
			os.Exit(1)
		}

		reportOutcome(config, text, outcome)

		fmt.Print(outcome.Text)
		if outcome.Reason != editbridge.ReasonNone {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewEditConfig()
	editCmd.Flags().StringP("purpose", "p", defaults.Purpose, "Label shown as the pane title")
	editCmd.Flags().Bool("floating", defaults.Floating, "Prefer a floating pane")
	editCmd.Flags().StringP("extension", "x", defaults.Extension, "Draft file extension")
	editCmd.Flags().StringP("editor", "e", defaults.Editor, "Editor command (overrides ZEDIT_EDITOR, VISUAL, EDITOR)")
	editCmd.Flags().DurationP("timeout", "t", defaults.Timeout, "How long to wait for the editor")
	editCmd.Flags().Bool("keep", defaults.Keep, "Keep the draft file after editing")
	editCmd.Flags().Bool("diff", defaults.ShowDiff, "Print a unified diff of the changes to stderr")
	editCmd.Flags().StringP("working-dir", "w", defaults.WorkingDir, "Working directory for the editor pane")
}

func getEditConfigFromFlags(cmd *cobra.Command) *EditConfig {
	config := NewEditConfig()

	if v, err := cmd.Flags().GetString("purpose"); err == nil {
		config.Purpose = v
	}
	if v, err := cmd.Flags().GetBool("floating"); err == nil {
		config.Floating = v
	}
	if v, err := cmd.Flags().GetString("extension"); err == nil {
		config.Extension = v
	}
	if v, err := cmd.Flags().GetString("editor"); err == nil {
		config.Editor = v
	}
	if v, err := cmd.Flags().GetDuration("timeout"); err == nil {
		config.Timeout = v
	}
	if v, err := cmd.Flags().GetBool("keep"); err == nil {
		config.Keep = v
	}
	if v, err := cmd.Flags().GetBool("diff"); err == nil {
		config.ShowDiff = v
	}
	if v, err := cmd.Flags().GetString("working-dir"); err == nil {
		config.WorkingDir = v
	}

	if config.Editor == "" && viper.IsSet("editor.command") {
		config.Editor = viper.GetString("editor.command")
	}

	return config
}

// readInputText assembles the initial draft from arguments or piped stdin.
func readInputText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// reportOutcome prints the human-facing status to stderr, leaving stdout
// for the edited text alone.
func reportOutcome(config *EditConfig, original string, outcome editbridge.Outcome) {
	log := logger.L.WithField("session_id", outcome.SessionID)

	switch outcome.Reason {
	case editbridge.ReasonNoInteractiveUI:
		presenter.Error(fmt.Errorf("no zellij session and no terminal available"), "cannot launch an editor")
		return
	case editbridge.ReasonZellijLaunchFailed:
		presenter.Error(fmt.Errorf("zellij exited with code %d: %s", outcome.ExitCode, strings.TrimSpace(outcome.Stderr)), "failed to launch editor pane")
		return
	case editbridge.ReasonTimeout:
		presenter.Error(fmt.Errorf("the editor did not finish in time"), "edit timed out")
		return
	case editbridge.ReasonAborted:
		presenter.Warning("edit aborted")
		return
	}

	switch {
	case outcome.Cancelled:
		presenter.Info("edit declined, text unchanged")
	case outcome.Changed:
		presenter.Success("text updated")
	default:
		presenter.Info("no changes")
	}

	if outcome.ExitCode != 0 {
		log.WithField("exit_code", outcome.ExitCode).Warn("editor exited nonzero")
	}
	if outcome.DraftPath != "" {
		presenter.Info("draft kept at " + outcome.DraftPath)
	}
	if config.ShowDiff && outcome.Changed {
		fmt.Fprintln(os.Stderr, udiff.Unified("original", "edited", original, outcome.Text))
	}
}
