package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/apotek-labs/apotek/internal/platform"
)

// Default content for config.yaml.
const defaultConfigContent = `# command_folder: ~/.pastaga/commands
# templates_folder: ~/.pastaga/templates
# start_command: generate
log_level: warn
`

// Home describes the folders a run works with.
type Home struct {
	// Cwd is the directory the CLI was started from.
	Cwd       string
	Root      string
	Commands  string
	Templates string
}

// EnsureHome creates the working directory with its commands/ and templates/
// folders and a default config.yaml. Progress is printed to w; pass
// io.Discard for a silent bootstrap. Existing items are left untouched.
func EnsureHome(w io.Writer) (*Home, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving current directory: %w", err)
	}
	root, err := Root()
	if err != nil {
		return nil, err
	}

	h := &Home{
		Cwd:       cwd,
		Root:      root,
		Commands:  filepath.Join(root, CommandsDir),
		Templates: filepath.Join(root, TemplatesDir),
	}

	for _, dir := range []string{h.Root, h.Commands, h.Templates} {
		if err := ensureDir(w, dir, DirPermNormal); err != nil {
			return nil, err
		}
	}
	if err := ensureFile(w, filepath.Join(root, ConfigFile), defaultConfigContent, FilePermNormal); err != nil {
		return nil, err
	}
	return h, nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(w io.Writer, path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll applies the umask.
	if err := platform.Chmod(afero.NewOsFs(), path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}

// ensureFile creates a file with content if it doesn't exist.
func ensureFile(w io.Writer, path, content string, perm os.FileMode) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
		return nil
	}

	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
