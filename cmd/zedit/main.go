package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zedit-dev/zedit/pkg/logger"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("ZEDIT")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.zedit")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "zedit",
	Short: "Ship text out to your editor and back",
	Long: `Zedit hands a piece of text to your editor of choice, running in a
zellij pane or an in-process fallback, waits for you to finish, and
prints the result. It also serves its editing tools over MCP and ships
a small library of prose skill documents.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetLogFormat(viper.GetString("log_format"))
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("invalid log level, using default")
		}
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, text, json)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(withTracing(editCmd))
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	ctx := context.Background()
	shutdown, err := initTracing(ctx)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to initialize tracing")
	} else {
		defer shutdown(context.Background())
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
