package render

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
)

func newTestRenderer(t *testing.T, files map[string]string) (*Renderer, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, body := range files {
		if err := afero.WriteFile(fsys, path, []byte(body), 0o644); err != nil {
			t.Fatalf("seeding %s: %v", path, err)
		}
	}
	return New(fsys, nil), fsys
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestRenderString(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	got, err := r.RenderString(`{{ .name | kebab }}/{{ .name | snake }}/{{ .name | upper }}`, map[string]any{"name": "BillingService"})
	if err != nil {
		t.Fatalf("RenderString error: %v", err)
	}
	want := "billing-service/billing_service/BILLINGSERVICE"
	if got != want {
		t.Errorf("RenderString = %q, want %q", got, want)
	}
}

func TestRenderString_ParseError(t *testing.T) {
	r, _ := newTestRenderer(t, nil)
	if _, err := r.RenderString(`{{ .name `, nil); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestJoinWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MyHTTPServer", "my-http-server"},
		{"billing service", "billing-service"},
		{"already-kebab", "already-kebab"},
		{"snake_case_name", "snake-case-name"},
		{"v2Api", "v2-api"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := joinWords(tt.in, "-"); got != tt.want {
			t.Errorf("joinWords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderDir(t *testing.T) {
	r, fsys := newTestRenderer(t, map[string]string{
		"/tpl/manifest.json":            `{"name":"service"}`,
		"/tpl/README.md.tmpl":           "# {{ .name | title }}",
		"/tpl/{{ .name }}/main.go.tmpl": "package {{ .name }}",
		"/tpl/static/logo.txt":          "{{ untouched }}",
	})

	written, err := r.RenderDir("/tpl", "/out", map[string]any{"name": "billing"})
	if err != nil {
		t.Fatalf("RenderDir error: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("written = %v, want 3 files", written)
	}

	if got := readFile(t, fsys, "/out/README.md"); got != "# Billing" {
		t.Errorf("README.md = %q, want %q", got, "# Billing")
	}
	if got := readFile(t, fsys, "/out/billing/main.go"); got != "package billing" {
		t.Errorf("billing/main.go = %q, want %q", got, "package billing")
	}
	if got := readFile(t, fsys, "/out/static/logo.txt"); got != "{{ untouched }}" {
		t.Errorf("static/logo.txt = %q, copied files must not be rendered", got)
	}
	if exists, _ := afero.Exists(fsys, "/out/manifest.json"); exists {
		t.Error("template manifest should not be copied to the target")
	}
}

func TestRenderDir_RefusesOverwrite(t *testing.T) {
	r, _ := newTestRenderer(t, map[string]string{
		"/tpl/a.txt": "new",
		"/out/a.txt": "old",
	})

	_, err := r.RenderDir("/tpl", "/out", nil)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	r.Overwrite = true
	if _, err := r.RenderDir("/tpl", "/out", nil); err != nil {
		t.Fatalf("RenderDir with Overwrite error: %v", err)
	}
}

func TestRenderFile(t *testing.T) {
	r, fsys := newTestRenderer(t, map[string]string{
		"/src/greeting.tmpl": "hello {{ .who }}",
	})
	if err := r.RenderFile("/src/greeting.tmpl", "/dst/nested/greeting.txt", map[string]string{"who": "world"}); err != nil {
		t.Fatalf("RenderFile error: %v", err)
	}
	if got := readFile(t, fsys, "/dst/nested/greeting.txt"); got != "hello world" {
		t.Errorf("greeting.txt = %q, want %q", got, "hello world")
	}
}

func TestRenderDir_KeepsLinksAndModes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs symlinks and Unix permission bits")
	}
	src := filepath.Join(t.TempDir(), "tpl")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "gradlew"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "README.md"), []byte("docs"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("README.md", filepath.Join(src, "CONTRIBUTING.md")); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "out")
	r := New(afero.NewOsFs(), nil)
	if _, err := r.RenderDir(src, dst, nil); err != nil {
		t.Fatalf("RenderDir error: %v", err)
	}

	info, err := os.Stat(filepath.Join(dst, "gradlew"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o755 {
		t.Errorf("gradlew permissions = %o, want %o", perm, 0o755)
	}

	target, err := os.Readlink(filepath.Join(dst, "CONTRIBUTING.md"))
	if err != nil {
		t.Fatalf("CONTRIBUTING.md is not a link: %v", err)
	}
	if target != "README.md" {
		t.Errorf("link target = %q, want %q", target, "README.md")
	}

	r.Overwrite = true
	if _, err := r.RenderDir(src, dst, nil); err != nil {
		t.Fatalf("second RenderDir with Overwrite error: %v", err)
	}
}
