package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/apotek-labs/apotek/internal/config"
	"github.com/apotek-labs/apotek/internal/manifest"
	"github.com/apotek-labs/apotek/internal/resolver"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:       "list <commands|templates>",
	Short:     "List commands or templates",
	Long:      `List the commands or templates found in the configured folders, in menu order.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"commands", "templates"},
	RunE:      runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a discovered unit for display.
type listEntry struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Order        float64  `json:"order"`
	EntryPoint   string   `json:"entryPoint,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	opts, err := config.Resolve()
	if err != nil {
		return err
	}

	r := resolver.New(afero.NewOsFs(), log)
	var found []manifest.Entry
	folder := opts.CommandFolder
	if args[0] == "templates" {
		folder = opts.TemplatesFolder
		found = r.Templates(folder)
	} else {
		found = r.Commands(folder)
	}

	entries := make([]listEntry, len(found))
	for i, e := range found {
		entries[i] = listEntry{
			ID:           e.ID(),
			Name:         e.Name,
			Order:        e.Priority(),
			EntryPoint:   e.EntryPoint,
			Dependencies: e.Dependencies,
		}
	}

	if listJSON {
		return printListJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s found in %s\n", args[0], folder)
		return nil
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tORDER")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%g\n", e.ID, e.Name, e.Order)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
