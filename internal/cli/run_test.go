package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/apotek-labs/apotek/internal/builtin"
	"github.com/apotek-labs/apotek/internal/config"
	"github.com/apotek-labs/apotek/internal/engine"
	"github.com/apotek-labs/apotek/internal/prompt"
)

type noAsker struct{ t *testing.T }

func (a noAsker) Ask(_ context.Context, spec prompt.Spec) (any, error) {
	a.t.Fatalf("unexpected question %q", spec.Name)
	return nil, nil
}

func (a noAsker) Say(msg string) { a.t.Logf("say: %s", msg) }

func TestParseSetArgs(t *testing.T) {
	got, err := parseSetArgs([]string{"name=billing", " lang = go ", "expr=a=b"})
	if err != nil {
		t.Fatalf("parseSetArgs error: %v", err)
	}
	want := map[string]string{"name": "billing", "lang": "go", "expr": "a=b"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}

	for _, bad := range []string{"novalue", "=value"} {
		if _, err := parseSetArgs([]string{bad}); err == nil {
			t.Errorf("parseSetArgs(%q) should fail", bad)
		}
	}
}

func TestInitialState(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "/answers.yaml", []byte("name: from-file\nport: 8080\nflags:\n  debug: true\n"), 0644)
	afero.WriteFile(fsys, "/answers.json", []byte(`{"name":"json"}`), 0644)

	state, err := initialState(fsys, "/answers.yaml", []string{"name=from-flag"})
	if err != nil {
		t.Fatalf("initialState error: %v", err)
	}
	if state["name"] != "from-flag" {
		t.Errorf("name = %v, --set should override the file", state["name"])
	}
	if state["port"] != 8080 {
		t.Errorf("port = %v (%T), want 8080", state["port"], state["port"])
	}

	state, err = initialState(fsys, "/answers.json", nil)
	if err != nil {
		t.Fatalf("initialState(json) error: %v", err)
	}
	if state["name"] != "json" {
		t.Errorf("name = %v, want %q", state["name"], "json")
	}

	if _, err := initialState(fsys, "/missing.yaml", nil); err == nil {
		t.Error("expected error for missing state file")
	}
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"deploy", "new-service", "v2"} {
		if err := validateName(ok); err != nil {
			t.Errorf("validateName(%q) error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "-lead", "Upper", "with space", "../escape"} {
		if err := validateName(bad); err == nil {
			t.Errorf("validateName(%q) should fail", bad)
		}
	}
}

func TestCommandMenu(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "deploy"), 0755)
	os.MkdirAll(filepath.Join(dir, "generate"), 0755)

	registry := engine.NewRegistry(nil)
	builtin.Register(registry)

	entries := commandMenu(&config.Options{CommandFolder: dir}, registry)
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID())
	}
	if len(ids) != 2 || ids[0] != "deploy" || ids[1] != "generate" {
		t.Errorf("menu = %v, want [deploy generate] with the folder shadowing the built-in", ids)
	}
}

func TestNewExecutor_GeneratesFromTemplate(t *testing.T) {
	root := t.TempDir()
	templates := filepath.Join(root, "templates")
	os.MkdirAll(filepath.Join(templates, "service"), 0755)
	os.WriteFile(filepath.Join(templates, "service", "main.go.tmpl"), []byte("package {{ .name }}\n"), 0644)

	target := filepath.Join(root, "out")
	opts := &config.Options{
		CommandFolder:   filepath.Join(root, "commands"),
		TemplatesFolder: templates,
		CurrentFolder:   root,
	}
	exec, _, err := newExecutor(opts, noAsker{t})
	if err != nil {
		t.Fatalf("newExecutor error: %v", err)
	}

	final, err := exec.Run(context.Background(), builtin.GenerateName, engine.State{
		"template": "service",
		"name":     "billing",
		"target":   target,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(target, "main.go"))
	if err != nil {
		t.Fatalf("reading generated file: %v", err)
	}
	if string(data) != "package billing\n" {
		t.Errorf("main.go = %q", data)
	}
	if final.String("target") != target {
		t.Errorf("target = %q, want %q", final.String("target"), target)
	}
}

func TestNewExecutor_InterpretedCommand(t *testing.T) {
	root := t.TempDir()
	cmdDir := filepath.Join(root, "commands", "hello")
	os.MkdirAll(cmdDir, 0755)
	os.WriteFile(filepath.Join(cmdDir, "context.go"), []byte(`package main

import "apotek/host"

func Exec(state map[string]interface{}) (string, error) {
	out, err := host.Shell("echo -n hi")
	if err != nil {
		return "", err
	}
	state["greeting"] = out + " from " + host.CommandName()
	return "", nil
}
`), 0644)

	opts := &config.Options{
		CommandFolder:   filepath.Join(root, "commands"),
		TemplatesFolder: filepath.Join(root, "templates"),
		CurrentFolder:   root,
	}
	exec, _, err := newExecutor(opts, noAsker{t})
	if err != nil {
		t.Fatalf("newExecutor error: %v", err)
	}

	final, err := exec.Run(context.Background(), "hello", engine.State{})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if final["greeting"] != "hi from hello" {
		t.Errorf("greeting = %v, want %q", final["greeting"], "hi from hello")
	}
}
