package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/apotek-labs/apotek/internal/builtin"
	"github.com/apotek-labs/apotek/internal/config"
	"github.com/apotek-labs/apotek/internal/engine"
	"github.com/apotek-labs/apotek/internal/manifest"
	"github.com/apotek-labs/apotek/internal/prompt"
	"github.com/apotek-labs/apotek/internal/render"
	"github.com/apotek-labs/apotek/internal/resolver"
	"github.com/apotek-labs/apotek/internal/rest"
	"github.com/apotek-labs/apotek/internal/script"
	"github.com/apotek-labs/apotek/internal/shell"
	"github.com/apotek-labs/apotek/internal/userdata"
)

var (
	runSets      []string
	runStateFile string
	runOverwrite bool
)

var runCmd = &cobra.Command{
	Use:   "run [command]",
	Short: "Run a command and every command it leads to",
	Long: `Run a command from the commands folder, then follow the chain of commands it names.

The starting command is the argument, the configured start_command, or picked from a menu.
Initial state can be given with --set key=value pairs and a YAML or JSON --state file;
questions whose answer is already in the state are not asked.

Examples:
  apotek run generate --set template=service --set name=billing
  apotek run deploy --state answers.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWizard,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&runSets, "set", "s", nil, "Initial state key=value pairs (can be specified multiple times)")
	cmd.Flags().StringVar(&runStateFile, "state", "", "YAML or JSON file with the initial state")
	cmd.Flags().BoolVar(&runOverwrite, "overwrite", false, "Allow generated files to replace existing ones")
}

func runWizard(cmd *cobra.Command, args []string) error {
	if _, err := userdata.EnsureHome(io.Discard); err != nil {
		return fmt.Errorf("preparing working directory: %w", err)
	}
	opts, err := config.Resolve()
	if err != nil {
		return err
	}

	state, err := initialState(afero.NewOsFs(), runStateFile, runSets)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	terminal := prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
	exec, registry, err := newExecutor(opts, terminal)
	if err != nil {
		return err
	}

	start := opts.StartCommand
	if len(args) == 1 {
		start = args[0]
	}
	if start == "" {
		entry, err := prompt.Select(ctx, terminal, "Command", commandMenu(opts, registry))
		if err != nil {
			return err
		}
		start = entry.ID()
	}

	final, err := exec.Run(ctx, start, state)
	if err != nil {
		return err
	}
	if files, ok := final["files"].([]string); ok && len(files) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nGenerated %d file(s) in %s\n", len(files), final.String("target"))
	}
	return nil
}

// newExecutor wires the engine with the OS filesystem, the interpreted
// command loader and the built-in commands.
func newExecutor(opts *config.Options, asker prompt.Asker) (*engine.Executor, *engine.Registry, error) {
	fsys := afero.NewOsFs()

	registry := engine.NewRegistry(script.NewLoader(fsys, log))
	builtin.Register(registry)

	renderer := render.New(fsys, log)
	renderer.Overwrite = runOverwrite

	exec, err := engine.New(engine.Options{
		CommandFolder:   opts.CommandFolder,
		TemplatesFolder: opts.TemplatesFolder,
		CurrentFolder:   opts.CurrentFolder,
		Fs:              fsys,
		Registry:        registry,
		Coordinator:     prompt.NewCoordinator(asker, log),
		Resolver:        resolver.New(fsys, log),
		Shell:           shell.New(log),
		Renderer:        renderer,
		REST:            rest.New(rest.WithLogger(log)),
		Log:             log,
	})
	if err != nil {
		return nil, nil, err
	}
	return exec, registry, nil
}

// commandMenu lists the user's commands followed by built-ins they do not shadow.
func commandMenu(opts *config.Options, registry *engine.Registry) []manifest.Entry {
	entries := resolver.New(afero.NewOsFs(), log).Commands(opts.CommandFolder)
	for _, name := range registry.Names() {
		shadowed := slices.ContainsFunc(entries, func(e manifest.Entry) bool { return e.ID() == name })
		if !shadowed {
			entries = append(entries, manifest.Entry{Name: name})
		}
	}
	return entries
}

// initialState merges the --state file and --set pairs; --set wins.
func initialState(fsys afero.Fs, stateFile string, sets []string) (engine.State, error) {
	state := engine.State{}
	if stateFile != "" {
		data, err := afero.ReadFile(fsys, stateFile)
		if err != nil {
			return nil, fmt.Errorf("reading state file: %w", err)
		}
		// JSON is valid YAML, so one decoder serves both.
		if err := yaml.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("parsing state file %s: %w", stateFile, err)
		}
	}

	pairs, err := parseSetArgs(sets)
	if err != nil {
		return nil, err
	}
	for k, v := range pairs {
		state[k] = v
	}
	return state, nil
}

func parseSetArgs(inputs []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, input := range inputs {
		parts := strings.SplitN(input, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --set format %q: expected key=value", input)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, fmt.Errorf("invalid --set format %q: key cannot be empty", input)
		}
		result[key] = value
	}
	return result, nil
}
