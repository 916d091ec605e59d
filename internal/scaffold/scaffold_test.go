package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/apotek-labs/apotek/internal/manifest"
)

func TestNewData(t *testing.T) {
	t.Run("description defaults from name and kind", func(t *testing.T) {
		d := NewData("new-service", KindCommand, "")
		if d.Description != "new-service command" {
			t.Errorf("Description = %q, want %q", d.Description, "new-service command")
		}
		if d.Order != manifest.DefaultOrder {
			t.Errorf("Order = %d, want %d", d.Order, manifest.DefaultOrder)
		}
	})

	t.Run("year is populated", func(t *testing.T) {
		d := NewData("x", KindTemplate, "desc")
		if d.Year == 0 {
			t.Error("Year should not be zero")
		}
	})
}

func TestGenerateCommand(t *testing.T) {
	fsys := afero.NewOsFs()
	outDir := filepath.Join(t.TempDir(), "new-service")

	result, err := Generate(fsys, KindCommand, NewData("new-service", KindCommand, `Create a "service"`), outDir)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	assertFiles(t, result, []string{"context.go", "manifest.json"})

	manifestContent := readGenerated(t, outDir, "manifest.json")
	assertContains(t, manifestContent, `"name": "new-service"`)
	assertContains(t, manifestContent, `"description": "Create a \"service\""`)
	assertContains(t, manifestContent, `"order": 100`)

	contextContent := readGenerated(t, outDir, "context.go")
	assertContains(t, contextContent, "package main")
	assertContains(t, contextContent, `"apotek/host"`)
	assertContains(t, contextContent, "func Exec(state map[string]interface{}) (string, error)")
	assertContains(t, contextContent, `fmt.Printf("new-service: %v in %s\n"`)

	doc, err := manifest.ReadFile(fsys, filepath.Join(outDir, "manifest.json"))
	if err != nil {
		t.Fatalf("generated manifest does not decode: %v", err)
	}
	if doc.Entries[0].Name != "new-service" {
		t.Errorf("Name = %q, want %q", doc.Entries[0].Name, "new-service")
	}

	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestGenerateTemplate(t *testing.T) {
	fsys := afero.NewMemMapFs()
	outDir := "/pastaga/templates/service"

	result, err := Generate(fsys, KindTemplate, NewData("service", KindTemplate, ""), outDir)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	assertFiles(t, result, []string{"README.md.tmpl", "manifest.json"})

	data, err := afero.ReadFile(fsys, filepath.Join(outDir, "README.md.tmpl"))
	if err != nil {
		t.Fatalf("reading README.md.tmpl: %v", err)
	}
	readme := string(data)
	assertContains(t, readme, "{{ .name | title }}")
	assertContains(t, readme, "Generated from the service template.")

	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	_, err := Generate(afero.NewMemMapFs(), "plugin", NewData("x", "plugin", ""), "/out")
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestGenerateNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "existing.txt"), []byte("hello"), 0644)

	_, err := Generate(afero.NewOsFs(), KindCommand, NewData("x", KindCommand, ""), dir)
	if err == nil {
		t.Fatal("expected error for non-empty output directory")
	}
	if !strings.Contains(err.Error(), "not empty") {
		t.Errorf("error should mention non-empty dir, got: %v", err)
	}
}

func readGenerated(t *testing.T, dir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("reading %s: %v", filename, err)
	}
	return string(data)
}

func assertFiles(t *testing.T, result *Result, expected []string) {
	t.Helper()
	if len(result.Files) != len(expected) {
		t.Errorf("got %d files %v, want %d files %v", len(result.Files), result.Files, len(expected), expected)
		return
	}
	for i, f := range expected {
		if result.Files[i] != f {
			t.Errorf("file[%d] = %q, want %q", i, result.Files[i], f)
		}
	}
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("content does not contain %q\n--- content ---\n%s", substr, content)
	}
}
