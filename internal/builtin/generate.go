package builtin

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"github.com/apotek-labs/apotek/internal/engine"
	"github.com/apotek-labs/apotek/internal/manifest"
	"github.com/apotek-labs/apotek/internal/prompt"
)

// GenerateName is the name of the template generator command.
const GenerateName = "generate"

// Register adds every built-in command to r.
func Register(r *engine.Registry) {
	r.Register(GenerateName, NewGenerate)
}

// NewGenerate creates the generate command. It asks for a template, a name
// and a target folder, renders the template folder there with the run state
// as data, and continues with the template's entryPoint command if it has one.
func NewGenerate(tb engine.Toolbox) (engine.Module, error) {
	return &generate{tb: tb}, nil
}

type generate struct {
	tb        engine.Toolbox
	templates []manifest.Entry
	loaded    bool
}

func (g *generate) Prompts(_ context.Context, state engine.State) iter.Seq[prompt.Pending] {
	return func(yield func(prompt.Pending) bool) {
		if !yield(g.templateQuestion) {
			return
		}
		if !yield(prompt.Ready(prompt.Spec{
			Name:     "name",
			Type:     prompt.TypeInput,
			Message:  "Name",
			Validate: required("a name is required"),
		})) {
			return
		}
		yield(func(context.Context) (prompt.Spec, error) {
			return prompt.Spec{
				Name:    "target",
				Type:    prompt.TypeInput,
				Message: "Target folder",
				Default: filepath.Join(g.tb.CurrentFolder(), state.String("name")),
			}, nil
		})
	}
}

func (g *generate) templateQuestion(context.Context) (prompt.Spec, error) {
	entries := g.list()
	if len(entries) == 0 {
		return prompt.Spec{}, fmt.Errorf("no templates in %s: %w", g.tb.TemplatesFolder(), prompt.ErrNoChoices)
	}
	choices := make([]string, len(entries))
	for i, e := range entries {
		choices[i] = e.Name
	}
	return prompt.Spec{
		Name:    "template",
		Type:    prompt.TypeList,
		Message: "Template",
		Choices: choices,
		Validate: func(value any) string {
			if _, ok := g.find(fmt.Sprint(value)); !ok {
				return fmt.Sprintf("unknown template %q", value)
			}
			return ""
		},
	}, nil
}

// answers are the state keys generate reads.
type answers struct {
	Template string `json:"template"`
	Name     string `json:"name"`
	Target   string `json:"target"`
}

func (g *generate) Exec(_ context.Context, state engine.State) (string, error) {
	var in answers
	if err := state.Decode(&in); err != nil {
		return "", err
	}
	entry, ok := g.find(in.Template)
	if !ok {
		return "", fmt.Errorf("unknown template %q", in.Template)
	}
	renderer := g.tb.Renderer()
	if renderer == nil {
		return "", errors.New("renderer is not available")
	}

	target := in.Target
	if target == "" {
		target = in.Name
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(g.tb.CurrentFolder(), target)
	}

	src := filepath.Join(g.tb.TemplatesFolder(), filepath.FromSlash(entry.ID()))
	files, err := renderer.RenderDir(src, target, map[string]any(state))
	if err != nil {
		return "", err
	}
	state["target"] = target
	state["files"] = files

	return entry.EntryPoint, nil
}

func (g *generate) list() []manifest.Entry {
	if !g.loaded {
		g.templates = g.tb.Templates(g.tb.TemplatesFolder())
		g.loaded = true
	}
	return g.templates
}

// find matches a template path or a menu label. A path is looked up directly
// until the full list has been needed once.
func (g *generate) find(value string) (manifest.Entry, bool) {
	if value == "" {
		return manifest.Entry{}, false
	}
	if !g.loaded {
		if e, ok := g.tb.FindTemplate(value); ok {
			return e, true
		}
	}
	for _, e := range g.list() {
		if e.Name == value || e.ID() == value {
			return e, true
		}
	}
	return manifest.Entry{}, false
}

func required(msg string) func(any) string {
	return func(v any) string {
		if prompt.IsUnset(v) || strings.TrimSpace(fmt.Sprint(v)) == "" {
			return msg
		}
		return ""
	}
}
