package engine

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrContextNotFound is returned when no module exists for a command.
var ErrContextNotFound = errors.New("context module not found")

// Loader produces factories from a command's folder.
type Loader interface {
	Load(ctx context.Context, command, folder string) (Factory, error)
}

// Registry maps command names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	loader    Loader
}

// NewRegistry creates a Registry. Commands not registered in code are handed
// to loader; a nil loader means only registered commands exist.
func NewRegistry(loader Loader) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		loader:    loader,
	}
}

// Register adds a factory, replacing any previous one with the same name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Names returns the commands registered in code, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the factory for command, loading it from folder when it
// was not registered in code.
func (r *Registry) Lookup(ctx context.Context, command, folder string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.factories[command]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}

	if r.loader == nil {
		return nil, ErrContextNotFound
	}
	f, err := r.loader.Load(ctx, command, folder)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrContextNotFound
	}
	return f, nil
}
