package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/apotek-labs/apotek/internal/config"
	"github.com/apotek-labs/apotek/internal/manifest"
	"github.com/apotek-labs/apotek/internal/resolver"
)

var validateCmd = &cobra.Command{
	Use:   "validate [folder]",
	Short: "Check every manifest.json against the schema",
	Long: `Validate every manifest.json below a folder (default: the commands and templates folders).
Exits with an error when at least one manifest is invalid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	var roots []string
	if len(args) == 1 {
		roots = args
	} else {
		opts, err := config.Resolve()
		if err != nil {
			return err
		}
		roots = []string{opts.CommandFolder, opts.TemplatesFolder}
	}

	fsys := afero.NewOsFs()
	out := cmd.OutOrStdout()
	ok, bad := color.New(color.FgGreen), color.New(color.FgRed)

	checked, invalid := 0, 0
	for _, root := range roots {
		if exists, _ := afero.DirExists(fsys, root); !exists {
			fmt.Fprintf(out, "[SKIP] %s does not exist\n", root)
			continue
		}
		err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && path != root && resolver.Excluded(info.Name()) {
				return filepath.SkipDir
			}
			if info.IsDir() || info.Name() != manifest.FileName {
				return nil
			}
			checked++

			result, err := manifest.ValidateFile(fsys, path)
			if err != nil {
				invalid++
				fmt.Fprintf(out, "%s %s: %v\n", bad.Sprint("[FAIL]"), path, err)
				return nil
			}
			if !result.Valid {
				invalid++
				fmt.Fprintf(out, "%s %s\n", bad.Sprint("[FAIL]"), path)
				for _, issue := range result.Issues {
					where := issue.Path
					if where == "" {
						where = "/"
					}
					fmt.Fprintf(out, "       %s: %s\n", where, issue.Message)
				}
				return nil
			}
			rel, _ := filepath.Rel(root, path)
			fmt.Fprintf(out, "%s %s\n", ok.Sprint("[ OK ]"), rel)
			return nil
		})
		if err != nil {
			return fmt.Errorf("walking %s: %w", root, err)
		}
	}

	fmt.Fprintf(out, "\n%d manifest(s) checked, %d invalid\n", checked, invalid)
	if invalid > 0 {
		return fmt.Errorf("%d invalid manifest(s)", invalid)
	}
	return nil
}
