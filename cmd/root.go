package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/calbot/internal/config"
	"github.com/teemow/calbot/internal/logging"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	envFiles   []string
	logLevel   string
	logFormat  string
}

var globals globalOptions

// rootCmd represents the base command for the calbot application
var rootCmd = newRootCmd()

// version will be set by main
var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calbot",
		Short: "Japanese chat assistant for a shared Google Calendar",
		Long: `calbot turns short Japanese chat messages into Google Calendar operations.

  明日10時 会議             registers a one-hour event tomorrow at 10:00
  2025-10-03 終日 休暇      registers an all-day event
  今週の予定                lists this week's events
  削除 明日10時 会議        deletes the matching event

It can run as:
  - A LINE webhook server (serve)
  - An MCP (Model Context Protocol) server for AI assistants (serve --transport stdio)
  - A one-shot CLI (parse, run)`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Dotenv files may set LOG_LEVEL, LOG_FORMAT and METRICS_ADDR.
			if err := config.LoadEnvFiles(globals.envFiles...); err != nil {
				return err
			}
			return setupLogging(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&globals.configFile, "config", "", "Path to a YAML config file. Environment variables override its values.")
	cmd.PersistentFlags().StringSliceVar(&globals.envFiles, "env-file", []string{".env"}, "Dotenv files loaded into the environment before reading configuration. Missing files are skipped.")
	cmd.PersistentFlags().StringVar(&globals.logLevel, "log-level", "info", "Log level: debug, info, warn or error. Can also use LOG_LEVEL env var.")
	cmd.PersistentFlags().StringVar(&globals.logFormat, "log-format", logging.FormatText, "Log format: text or json. Can also use LOG_FORMAT env var.")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newGenerateDocsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogging installs the default slog logger. Logs always go to stderr so
// stdout stays free for command output and the stdio MCP transport.
func setupLogging(cmd *cobra.Command) error {
	level, format := globals.logLevel, globals.logFormat
	if !cmd.Flags().Changed("log-level") {
		if v := os.Getenv("LOG_LEVEL"); v != "" {
			level = v
		}
	}
	if !cmd.Flags().Changed("log-format") {
		if v := os.Getenv("LOG_FORMAT"); v != "" {
			format = v
		}
	}

	handler, err := logging.NewHandler(cmd.ErrOrStderr(), level, format)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calbot version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
