package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zedit-dev/zedit/pkg/editbridge"
	"github.com/zedit-dev/zedit/pkg/logger"
	"github.com/zedit-dev/zedit/pkg/mcpserver"
	"github.com/zedit-dev/zedit/pkg/presenter"
	"github.com/zedit-dev/zedit/pkg/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the editing tools over MCP on stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout exposing the
edit_text and skill tools, so an agent host can ship text out to the
user's editor without linking this module.

Drafts open as zellij panes in the session this command runs in; there
is no in-process fallback since stdio is occupied by the protocol.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		var opts []editbridge.Option
		if wd, err := cmd.Flags().GetString("working-dir"); err == nil && wd != "" {
			opts = append(opts, editbridge.WithWorkingDir(wd))
		}
		if allowed := viper.GetStringSlice("editor.allowed"); len(allowed) > 0 {
			opts = append(opts, editbridge.WithAllowedEditors(allowed...))
		}

		bridge, err := editbridge.New(opts...)
		if err != nil {
			presenter.Error(err, "failed to configure edit bridge")
			os.Exit(1)
		}

		discovered, err := discoverSkills()
		if err != nil {
			presenter.Error(err, "failed to discover skills")
			os.Exit(1)
		}

		registry := tools.NewRegistry(
			tools.NewEditTextTool(bridge),
			tools.NewSkillTool(discovered),
		)

		srv, err := mcpserver.New(registry, tools.NewBasicState())
		if err != nil {
			presenter.Error(err, "failed to create MCP server")
			os.Exit(1)
		}

		if err := srv.ServeStdio(ctx); err != nil {
			logger.G(ctx).WithError(err).Error("MCP server stopped")
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().StringP("working-dir", "w", "", "Working directory for editor panes")
}
