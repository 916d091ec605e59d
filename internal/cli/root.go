package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apotek-labs/apotek/internal/branding"
	"github.com/apotek-labs/apotek/internal/config"
	"github.com/apotek-labs/apotek/internal/logging"
	"github.com/apotek-labs/apotek/internal/updater"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// log is the process logger, built once flags and config are known.
var log = logging.Nop()

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [command]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` discovers the commands and templates kept in ~/.pastaga and runs them
as an interactive wizard. Each command asks its questions, does its work and names the
command to run next, until the chain is complete.

Without arguments a menu of the available commands is shown.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		l, err := logging.New(viper.GetString(config.KeyLogLevel), os.Stderr)
		if err != nil {
			return err
		}
		log = l

		// Skip banners for commands that manage their own output.
		switch cmd.Name() {
		case "version", "init", "config", "get", "set":
			return nil
		}
		u := updater.New(buildVersion, updater.WithLogger(log))
		u.CheckAndPrintBanner(context.Background(), os.Stderr, config.Dir())
		return nil
	},
	RunE: runWizard,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", logging.DefaultLevel, "Log level (debug, info, warn, error)")
	flags.String("commands", "", "Commands folder (default ~/.pastaga/commands)")
	flags.String("templates", "", "Templates folder (default ~/.pastaga/templates)")
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyCommandFolder, flags.Lookup("commands"))
	_ = viper.BindPFlag(config.KeyTemplatesFolder, flags.Lookup("templates"))

	addRunFlags(rootCmd)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	defer func() { _ = log.Sync() }()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
