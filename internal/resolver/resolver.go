package resolver

import (
	"iter"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/apotek-labs/apotek/internal/manifest"
)

// DependencyDir is the package-manager directory that is never a command or template.
const DependencyDir = "node_modules"

// Resolver walks command and template trees on a filesystem.
type Resolver struct {
	fs  afero.Fs
	log *zap.Logger
}

// New creates a Resolver. A nil logger discards discovery warnings.
func New(fsys afero.Fs, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{fs: fsys, log: log}
}

// Templates returns every template under root, recursing through bare directories.
func (r *Resolver) Templates(root string) []manifest.Entry {
	return r.Resolve(root, true)
}

// Commands returns the commands directly under root.
func (r *Resolver) Commands(root string) []manifest.Entry {
	return r.Resolve(root, false)
}

// Resolve materializes Walk and sorts the result by descending order.
func (r *Resolver) Resolve(root string, recurse bool) []manifest.Entry {
	var entries []manifest.Entry
	for e := range r.Walk(root, recurse) {
		entries = append(entries, e)
	}
	manifest.SortByOrder(entries)
	return entries
}

// Find returns the first entry whose ID matches id, stopping the walk as soon
// as it is found.
func (r *Resolver) Find(root, id string, recurse bool) (manifest.Entry, bool) {
	for e := range r.Walk(root, recurse) {
		if e.ID() == id {
			return e, true
		}
	}
	return manifest.Entry{}, false
}

// Walk lazily yields entries depth-first in discovery order. The filesystem is
// only read as the consumer pulls; breaking out of the loop ends the walk.
func (r *Resolver) Walk(root string, recurse bool) iter.Seq[manifest.Entry] {
	return func(yield func(manifest.Entry) bool) {
		r.walk(root, "", recurse, yield)
	}
}

// walk reports false once the consumer has stopped pulling.
func (r *Resolver) walk(folder, prefix string, recurse bool, yield func(manifest.Entry) bool) bool {
	for name := range r.Directories(folder) {
		dir := filepath.Join(folder, name)
		id := joinName(prefix, name)

		manifestPath := filepath.Join(dir, manifest.FileName)
		found, err := afero.Exists(r.fs, manifestPath)
		if err != nil {
			r.log.Warn("checking manifest", zap.String("path", manifestPath), zap.Error(err))
			continue
		}

		// A manifest is authoritative: no recursion below it.
		if found {
			doc, err := manifest.ReadFile(r.fs, manifestPath)
			if err != nil {
				r.log.Warn("skipping entry with unreadable manifest", zap.String("path", manifestPath), zap.Error(err))
				continue
			}
			for _, e := range doc.Entries {
				if !yield(qualify(e, prefix, name)) {
					return false
				}
			}
			continue
		}

		if recurse {
			nested, err := r.hasDirectories(dir)
			if err != nil {
				r.log.Warn("skipping unreadable directory", zap.String("path", dir), zap.Error(err))
				continue
			}
			if nested {
				if !r.walk(dir, id, true, yield) {
					return false
				}
				continue
			}
		}

		if !yield(manifest.Entry{Name: id}) {
			return false
		}
	}
	return true
}

// Directories yields the immediate subdirectories of folder that may hold a
// command or template. Hidden names, "$"-prefixed names and DependencyDir are
// excluded. Symlinks to directories count as directories.
func (r *Resolver) Directories(folder string) iter.Seq[string] {
	return func(yield func(string) bool) {
		infos, err := afero.ReadDir(r.fs, folder)
		if err != nil {
			r.log.Warn("reading directory", zap.String("path", folder), zap.Error(err))
			return
		}
		for _, info := range infos {
			name := info.Name()
			if Excluded(name) || !r.isDirectory(filepath.Join(folder, name)) {
				continue
			}
			if !yield(name) {
				return
			}
		}
	}
}

func (r *Resolver) hasDirectories(folder string) (bool, error) {
	infos, err := afero.ReadDir(r.fs, folder)
	if err != nil {
		return false, err
	}
	for _, info := range infos {
		if !Excluded(info.Name()) && r.isDirectory(filepath.Join(folder, info.Name())) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Resolver) isDirectory(path string) bool {
	info, err := r.fs.Stat(path)
	if err != nil {
		r.log.Warn("stat failed", zap.String("path", path), zap.Error(err))
		return false
	}
	return info.IsDir()
}

// qualify rewrites a manifest entry relative to its position in the tree.
// Every element of a manifest array shares the same Value.
func qualify(e manifest.Entry, prefix, dirName string) manifest.Entry {
	e.Value = joinName(prefix, dirName)
	base := e.Name
	if base == "" {
		base = dirName
	}
	e.Name = joinName(prefix, base)
	if e.Description != "" {
		e.Name += " - " + e.Description
	}
	return e
}

// Excluded reports whether a directory name is never a command or template.
func Excluded(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "$") || name == DependencyDir
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
