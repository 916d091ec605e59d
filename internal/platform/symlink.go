package platform

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/afero"
)

// ErrNoSymlinks is returned when a filesystem cannot read or create links.
var ErrNoSymlinks = errors.New("symlinks not supported")

// Readlink returns the target of the link at path.
func Readlink(fsys afero.Fs, path string) (string, error) {
	lr, ok := fsys.(afero.LinkReader)
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrNoSymlinks)
	}
	return lr.ReadlinkIfPossible(path)
}

// Link recreates the symlink at src as dst with the same target text.
// When dst cannot be a link (a filesystem without link support, or Windows
// without developer mode) the file src resolves to is copied instead and
// copied is true. Links to directories have no copy fallback.
func Link(fsys afero.Fs, src, dst string) (copied bool, err error) {
	target, err := Readlink(fsys, src)
	if err != nil {
		return false, err
	}

	linkErr := ErrNoSymlinks
	if l, ok := fsys.(afero.Linker); ok {
		if linkErr = l.SymlinkIfPossible(target, dst); linkErr == nil {
			return false, nil
		}
		if runtime.GOOS != "windows" {
			return false, fmt.Errorf("linking %s: %w", dst, linkErr)
		}
	}

	info, err := fsys.Stat(src)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", src, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("linking %s to directory %s: %w", dst, target, linkErr)
	}
	data, err := afero.ReadFile(fsys, src)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", src, err)
	}
	if err := afero.WriteFile(fsys, dst, data, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", dst, err)
	}
	return true, nil
}
