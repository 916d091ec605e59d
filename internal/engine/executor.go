package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/apotek-labs/apotek/internal/manifest"
	"github.com/apotek-labs/apotek/internal/prompt"
	"github.com/apotek-labs/apotek/internal/resolver"
)

// Options configures an Executor.
type Options struct {
	CommandFolder   string
	TemplatesFolder string
	CurrentFolder   string

	Fs          afero.Fs
	Registry    *Registry
	Coordinator *prompt.Coordinator
	Resolver    *resolver.Resolver

	Shell    Shell
	Renderer Renderer
	REST     REST

	Log *zap.Logger
}

// Turn is the outcome of one command execution.
type Turn struct {
	Command string
	// Next is the command to run after this one, "" when the run is complete.
	Next  string
	State State
}

// Executor runs commands.
type Executor struct {
	opts Options
	log  *zap.Logger
}

// New creates an Executor. CommandFolder, Registry and Coordinator are required.
func New(opts Options) (*Executor, error) {
	if opts.CommandFolder == "" {
		return nil, errors.New("command folder is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if opts.Coordinator == nil {
		return nil, errors.New("prompt coordinator is required")
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Resolver == nil {
		opts.Resolver = resolver.New(opts.Fs, opts.Log)
	}
	return &Executor{opts: opts, log: opts.Log}, nil
}

// Execute runs one turn of command with a copy of in. The inbound state is
// never modified; the returned Turn carries the state for the next command.
func (e *Executor) Execute(ctx context.Context, command string, in State) (*Turn, error) {
	return e.execute(ctx, e.log, command, in)
}

// Run executes start and every command it leads to, feeding each turn's
// state to the next, and returns the final state.
func (e *Executor) Run(ctx context.Context, start string, state State) (State, error) {
	log := e.log.With(zap.String("run", uuid.NewString()))
	log.Info("starting run", zap.String("command", start))

	command := start
	for command != "" {
		turn, err := e.execute(ctx, log, command, state)
		if err != nil {
			return state, err
		}
		if turn.Next == turn.Command {
			log.Warn("command transitions to itself", zap.String("command", command))
		}
		state = turn.State
		command = turn.Next
	}

	log.Info("run complete")
	return state, nil
}

func (e *Executor) execute(ctx context.Context, log *zap.Logger, command string, in State) (*Turn, error) {
	if command == "" {
		return nil, errors.New("command name is required")
	}
	log = log.With(zap.String("command", command))

	folder := filepath.Join(e.opts.CommandFolder, command)
	desc, err := e.describe(folder)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", command, err)
	}

	moduleFolder := folder
	if desc.EntryPoint != "" {
		moduleFolder = filepath.Join(folder, desc.EntryPoint)
	}

	log.Debug("loading context", zap.String("folder", moduleFolder))
	factory, err := e.opts.Registry.Lookup(ctx, command, moduleFolder)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", command, err)
	}

	module, err := factory(&toolbox{exec: e, command: command, folder: folder})
	if err != nil {
		return nil, fmt.Errorf("command %q: creating context: %w", command, err)
	}

	state := in.Clone()
	state.Merge(desc.State)

	if source, ok := module.(PromptSource); ok {
		if err := e.opts.Coordinator.Drive(ctx, source.Prompts(ctx, state), state); err != nil {
			return nil, fmt.Errorf("command %q: %w", command, err)
		}
	}

	next, err := module.Exec(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", command, err)
	}
	log.Debug("turn complete", zap.String("next", next))

	return &Turn{Command: command, Next: next, State: state}, nil
}

// describe reads the command's own manifest, if any. A command folder without
// manifest describes nothing; a malformed manifest fails the turn.
func (e *Executor) describe(folder string) (manifest.Entry, error) {
	doc, err := manifest.ReadFile(e.opts.Fs, filepath.Join(folder, manifest.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return manifest.Entry{}, nil
	}
	if err != nil {
		return manifest.Entry{}, err
	}
	if len(doc.Entries) == 0 {
		return manifest.Entry{}, nil
	}
	return doc.Entries[0], nil
}

type toolbox struct {
	exec    *Executor
	command string
	folder  string
}

func (t *toolbox) Shell() Shell            { return t.exec.opts.Shell }
func (t *toolbox) Renderer() Renderer      { return t.exec.opts.Renderer }
func (t *toolbox) REST() REST              { return t.exec.opts.REST }
func (t *toolbox) CommandName() string     { return t.command }
func (t *toolbox) CommandFolder() string   { return t.folder }
func (t *toolbox) CurrentFolder() string   { return t.exec.opts.CurrentFolder }
func (t *toolbox) TemplatesFolder() string { return t.exec.opts.TemplatesFolder }

func (t *toolbox) Directories(folder string) iter.Seq[string] {
	return t.exec.opts.Resolver.Directories(folder)
}

func (t *toolbox) Templates(folder string) []manifest.Entry {
	return t.exec.opts.Resolver.Templates(folder)
}

func (t *toolbox) Commands(folder string) []manifest.Entry {
	return t.exec.opts.Resolver.Commands(folder)
}

func (t *toolbox) FindTemplate(id string) (manifest.Entry, bool) {
	return t.exec.opts.Resolver.Find(t.exec.opts.TemplatesFolder, id, true)
}
