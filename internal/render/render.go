package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/apotek-labs/apotek/internal/manifest"
	"github.com/apotek-labs/apotek/internal/platform"
)

// TemplateSuffix marks files whose content is rendered.
const TemplateSuffix = ".tmpl"

// ErrExists is returned when a rendered file would replace an existing one.
var ErrExists = errors.New("file already exists")

// Renderer renders templates on a filesystem.
type Renderer struct {
	// Overwrite allows replacing files that already exist at the target.
	Overwrite bool

	fs  afero.Fs
	log *zap.Logger
}

// New creates a Renderer on fsys.
func New(fsys afero.Fs, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{fs: fsys, log: log}
}

// RenderString executes tmpl with data.
func (r *Renderer) RenderString(tmpl string, data any) (string, error) {
	t, err := template.New("inline").Funcs(FuncMap()).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// RenderFile renders the template at src into dst.
func (r *Renderer) RenderFile(src, dst string, data any) error {
	body, err := afero.ReadFile(r.fs, src)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", src, err)
	}
	out, err := r.RenderString(string(body), data)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	return r.write(dst, []byte(out), 0o644)
}

// RenderDir copies the tree at src into dst. Files ending in .tmpl are
// rendered and lose the suffix; other files are copied as-is with their
// permission bits, except the manifest describing src itself. Symlinks are
// recreated with the same target. Path segments containing "{{" are rendered
// too. It returns the written paths relative to dst in walk order.
func (r *Renderer) RenderDir(src, dst string, data any) ([]string, error) {
	var written []string
	err := afero.Walk(r.fs, src, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return r.fs.MkdirAll(dst, 0o755)
		}
		if rel == manifest.FileName && !info.IsDir() {
			return nil
		}

		target, err := r.renderPath(rel, data)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return r.fs.MkdirAll(filepath.Join(dst, target), 0o755)
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			if err := r.link(path, filepath.Join(dst, target)); err != nil {
				return err
			}
		case strings.HasSuffix(target, TemplateSuffix):
			target = strings.TrimSuffix(target, TemplateSuffix)
			if err := r.RenderFile(path, filepath.Join(dst, target), data); err != nil {
				return err
			}
		default:
			body, err := afero.ReadFile(r.fs, path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if err := r.write(filepath.Join(dst, target), body, info.Mode().Perm()); err != nil {
				return err
			}
		}
		r.log.Debug("rendered file", zap.String("path", filepath.Join(dst, target)))
		written = append(written, filepath.ToSlash(target))
		return nil
	})
	if err != nil {
		return written, fmt.Errorf("rendering %s: %w", src, err)
	}
	return written, nil
}

// renderPath expands template actions in each segment of rel.
func (r *Renderer) renderPath(rel string, data any) (string, error) {
	if !strings.Contains(rel, "{{") {
		return rel, nil
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")
	for i, seg := range segments {
		if !strings.Contains(seg, "{{") {
			continue
		}
		out, err := r.RenderString(seg, data)
		if err != nil {
			return "", fmt.Errorf("path %s: %w", rel, err)
		}
		if out == "" {
			return "", fmt.Errorf("path %s: segment %q renders empty", rel, seg)
		}
		segments[i] = out
	}
	return filepath.Join(segments...), nil
}

func (r *Renderer) write(dst string, body []byte, perm fs.FileMode) error {
	if err := r.prepare(dst); err != nil {
		return err
	}
	if err := afero.WriteFile(r.fs, dst, body, perm); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	// WriteFile is subject to the umask.
	if err := platform.Chmod(r.fs, dst, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", dst, err)
	}
	return nil
}

func (r *Renderer) link(src, dst string) error {
	if err := r.prepare(dst); err != nil {
		return err
	}
	copied, err := platform.Link(r.fs, src, dst)
	if err != nil {
		return err
	}
	if copied {
		r.log.Debug("symlink replaced by a copy", zap.String("path", dst))
	}
	return nil
}

// prepare enforces Overwrite and creates the parent directory of dst.
func (r *Renderer) prepare(dst string) error {
	if info, err := r.lstat(dst); err == nil {
		if !r.Overwrite {
			return fmt.Errorf("%s: %w", dst, ErrExists)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			if err := r.fs.Remove(dst); err != nil {
				return fmt.Errorf("replacing %s: %w", dst, err)
			}
		}
	}
	if err := r.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	return nil
}

func (r *Renderer) lstat(path string) (fs.FileInfo, error) {
	if l, ok := r.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return r.fs.Stat(path)
}
