package engine

import (
	"context"
	"iter"

	"github.com/apotek-labs/apotek/internal/manifest"
	"github.com/apotek-labs/apotek/internal/prompt"
	"github.com/apotek-labs/apotek/internal/rest"
	"github.com/apotek-labs/apotek/internal/shell"
)

// Module is the behavior of one command for one turn.
type Module interface {
	// Exec performs the command and returns the next command name, or "" when
	// the run is complete. Writes to state are carried to the next turn.
	Exec(ctx context.Context, state State) (string, error)
}

// PromptSource is implemented by modules that ask questions before Exec.
type PromptSource interface {
	Prompts(ctx context.Context, state State) iter.Seq[prompt.Pending]
}

// Funcs adapts plain functions to Module and PromptSource.
type Funcs struct {
	PromptsFunc func(ctx context.Context, state State) iter.Seq[prompt.Pending]
	ExecFunc    func(ctx context.Context, state State) (string, error)
}

// Exec calls ExecFunc; a nil ExecFunc ends the run.
func (f Funcs) Exec(ctx context.Context, state State) (string, error) {
	if f.ExecFunc == nil {
		return "", nil
	}
	return f.ExecFunc(ctx, state)
}

// Prompts calls PromptsFunc; a nil PromptsFunc asks nothing.
func (f Funcs) Prompts(ctx context.Context, state State) iter.Seq[prompt.Pending] {
	if f.PromptsFunc == nil {
		return nil
	}
	return f.PromptsFunc(ctx, state)
}

// Shell runs shell scripts.
type Shell interface {
	Run(ctx context.Context, dir, script string) (*shell.Output, error)
}

// Renderer expands templates.
type Renderer interface {
	RenderString(tmpl string, data any) (string, error)
	RenderFile(src, dst string, data any) error
	RenderDir(src, dst string, data any) ([]string, error)
}

// REST sends JSON requests.
type REST interface {
	Get(ctx context.Context, url string) (*rest.Response, error)
	Post(ctx context.Context, url string, body any) (*rest.Response, error)
}

// Toolbox is what a command can reach while it runs.
type Toolbox interface {
	Shell() Shell
	Renderer() Renderer
	REST() REST

	CommandName() string
	CommandFolder() string
	CurrentFolder() string
	TemplatesFolder() string

	Directories(folder string) iter.Seq[string]
	Templates(folder string) []manifest.Entry
	Commands(folder string) []manifest.Entry
	// FindTemplate looks up a template of TemplatesFolder by ID, stopping
	// the walk at the first match.
	FindTemplate(id string) (manifest.Entry, bool)
}

// Factory creates a fresh Module for one turn.
type Factory func(Toolbox) (Module, error)
