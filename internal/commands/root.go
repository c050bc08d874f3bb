package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankqif/bankqif/internal/buildinfo"
	"github.com/bankqif/bankqif/internal/config"
	"github.com/bankqif/bankqif/internal/logger"
)

// globalOptions are shared by every subcommand. Defaults come from the
// environment; flags override them.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	settings, settingsErr := config.LoadSettings()
	opts := &globalOptions{
		configPath: settings.ConfigPath,
		logLevel:   settings.LogLevel,
		logFormat:  settings.LogFormat,
	}

	rootCmd := &cobra.Command{
		Use:     "bankqif",
		Short:   "Convert Finnish bank statements to QIF",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if settingsErr != nil {
				return settingsErr
			}
			log, err := logger.NewWithWriter(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", opts.configPath, "config file (env BANKQIF_CONFIG)")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (env BANKQIF_LOG_LEVEL)")
	flags.StringVar(&opts.logFormat, "log-format", opts.logFormat, "log format: console or json (env BANKQIF_LOG_FORMAT)")

	rootCmd.AddCommand(newInitCommand(opts))
	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newDetectCommand())

	return rootCmd
}
