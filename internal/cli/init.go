package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apotek-labs/apotek/internal/branding"
	"github.com/apotek-labs/apotek/internal/userdata"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the working directory",
	Long:  `Create ~/.pastaga with its commands/ and templates/ folders and a default config.yaml.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := userdata.Root()
		if err != nil {
			return err
		}
		fmt.Printf("Initializing %s\n", root)

		if _, err := userdata.EnsureHome(os.Stdout); err != nil {
			return fmt.Errorf("initializing working directory: %w", err)
		}

		fmt.Printf("\nReady. Use '%s create command <name>' to add a command.\n", branding.CLIName())
		return nil
	},
}
