package script

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"github.com/apotek-labs/apotek/internal/engine"
	"github.com/apotek-labs/apotek/internal/prompt"
)

// FileName is the script looked up in a command folder.
const FileName = "context.go"

// ErrInvalidContext is returned for scripts that do not evaluate or lack Exec.
var ErrInvalidContext = errors.New("invalid context script")

type (
	execFunc     = func(map[string]interface{}) (string, error)
	promptsFunc  = func(map[string]interface{}) []map[string]interface{}
	validateFunc = func(string, interface{}) string
)

// Loader reads context scripts from a filesystem.
type Loader struct {
	fs  afero.Fs
	log *zap.Logger
}

// NewLoader creates a Loader.
func NewLoader(fsys afero.Fs, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{fs: fsys, log: log}
}

// Load reads folder/context.go. The script is evaluated by the returned
// factory, once per turn, so every turn starts from fresh package state.
func (l *Loader) Load(_ context.Context, command, folder string) (engine.Factory, error) {
	path := filepath.Join(folder, FileName)
	src, err := afero.ReadFile(l.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, engine.ErrContextNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	l.log.Debug("loaded context script", zap.String("command", command), zap.String("path", path))
	return func(tb engine.Toolbox) (engine.Module, error) {
		return l.evaluate(path, string(src), tb)
	}, nil
}

func (l *Loader) evaluate(path, src string, tb engine.Toolbox) (engine.Module, error) {
	h := &host{tb: tb, ctx: context.Background()}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loading stdlib: %w", err)
	}
	if err := i.Use(h.exports()); err != nil {
		return nil, fmt.Errorf("loading host helpers: %w", err)
	}

	if _, err := i.Eval(src); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrInvalidContext, err)
	}

	m := &module{path: path, host: h}

	v, err := i.Eval("main.Exec")
	if err != nil {
		return nil, fmt.Errorf("%s: %w: Exec function not found", path, ErrInvalidContext)
	}
	fn, ok := v.Interface().(execFunc)
	if !ok {
		return nil, fmt.Errorf("%s: %w: Exec must be func(map[string]interface{}) (string, error)", path, ErrInvalidContext)
	}
	m.exec = fn

	if v, err := i.Eval("main.Prompts"); err == nil {
		fn, ok := v.Interface().(promptsFunc)
		if !ok {
			return nil, fmt.Errorf("%s: %w: Prompts must be func(map[string]interface{}) []map[string]interface{}", path, ErrInvalidContext)
		}
		m.prompts = fn
	}

	if v, err := i.Eval("main.Validate"); err == nil {
		fn, ok := v.Interface().(validateFunc)
		if !ok {
			return nil, fmt.Errorf("%s: %w: Validate must be func(string, interface{}) string", path, ErrInvalidContext)
		}
		m.validate = fn
	}

	return m, nil
}

var _ engine.PromptSource = (*module)(nil)

// module is an evaluated script.
type module struct {
	path     string
	host     *host
	exec     execFunc
	prompts  promptsFunc
	validate validateFunc
}

func (m *module) Exec(ctx context.Context, state engine.State) (next string, err error) {
	m.host.ctx = ctx
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: Exec panicked: %v", m.path, r)
		}
	}()
	return m.exec(state)
}

func (m *module) Prompts(ctx context.Context, state engine.State) iter.Seq[prompt.Pending] {
	if m.prompts == nil {
		return nil
	}
	return func(yield func(prompt.Pending) bool) {
		m.host.ctx = ctx
		var raw []map[string]interface{}
		failed := func(err error) {
			yield(func(context.Context) (prompt.Spec, error) { return prompt.Spec{}, err })
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					raw = nil
					failed(fmt.Errorf("%s: Prompts panicked: %v", m.path, r))
				}
			}()
			raw = m.prompts(state)
		}()

		for _, fields := range raw {
			spec, err := specFromMap(fields)
			if err != nil {
				failed(fmt.Errorf("%s: %w", m.path, err))
				return
			}
			if m.validate != nil {
				name := spec.Name
				spec.Validate = func(value any) string {
					defer func() {
						if r := recover(); r != nil {
							panic(fmt.Sprintf("%s: Validate panicked: %v", m.path, r))
						}
					}()
					return m.validate(name, value)
				}
			}
			if !yield(prompt.Ready(spec)) {
				return
			}
		}
	}
}

func specFromMap(fields map[string]interface{}) (prompt.Spec, error) {
	var spec prompt.Spec
	for key, v := range fields {
		switch key {
		case "name":
			spec.Name = fmt.Sprint(v)
		case "type":
			spec.Type = fmt.Sprint(v)
		case "message":
			spec.Message = fmt.Sprint(v)
		case "default":
			spec.Default = v
		case "choices":
			switch c := v.(type) {
			case []string:
				spec.Choices = c
			case []interface{}:
				for _, item := range c {
					spec.Choices = append(spec.Choices, fmt.Sprint(item))
				}
			default:
				return spec, fmt.Errorf("prompt %q: choices must be a list, got %T", fields["name"], v)
			}
		default:
			return spec, fmt.Errorf("prompt %q: unknown field %q", fields["name"], key)
		}
	}
	if spec.Name == "" {
		return spec, fmt.Errorf("prompt without name")
	}
	return spec, nil
}
