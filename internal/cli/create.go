package cli

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/apotek-labs/apotek/internal/config"
	"github.com/apotek-labs/apotek/internal/scaffold"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Shared flags for all create subcommands.
var (
	createOutputDir   string
	createDescription string
)

func init() {
	createCmd.PersistentFlags().StringVar(&createOutputDir, "output-dir", "", "Output directory (default: <commands|templates folder>/<name>)")
	createCmd.PersistentFlags().StringVarP(&createDescription, "description", "d", "", "Description shown in menus")
	rootCmd.AddCommand(createCmd)

	createCmd.AddCommand(newCreateCmd(scaffold.KindCommand))
	createCmd.AddCommand(newCreateCmd(scaffold.KindTemplate))
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Scaffold a new command or template",
	Long:  `Create a new command (manifest.json + context.go) or template (manifest.json + sample file) from built-in skeletons.`,
}

func newCreateCmd(kind string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <name>",
		Short: "Scaffold a new " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := validateName(name); err != nil {
				return err
			}
			outDir, err := resolveOutputDir(kind, name)
			if err != nil {
				return err
			}

			result, err := scaffold.Generate(afero.NewOsFs(), kind, scaffold.NewData(name, kind, createDescription), outDir)
			if err != nil {
				return err
			}
			printCreateResult(cmd, kind, result)
			return nil
		},
	}
}

func printCreateResult(cmd *cobra.Command, kind string, result *scaffold.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s in %s\n", kind, result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
}

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: must match pattern [a-z0-9][a-z0-9-]*", name)
	}
	return nil
}

func resolveOutputDir(kind, name string) (string, error) {
	if createOutputDir != "" {
		return createOutputDir, nil
	}
	opts, err := config.Resolve()
	if err != nil {
		return "", err
	}
	if kind == scaffold.KindTemplate {
		return filepath.Join(opts.TemplatesFolder, name), nil
	}
	return filepath.Join(opts.CommandFolder, name), nil
}
