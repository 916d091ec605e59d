package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func setup(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	t.Setenv("APOTEK_HOME", home)
	for _, k := range Keys {
		t.Setenv("APOTEK_"+strings.ToUpper(k), "")
	}
	return home
}

func TestResolve_Defaults(t *testing.T) {
	home := setup(t)
	Load()

	opts, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if opts.CommandFolder != filepath.Join(home, "commands") {
		t.Errorf("CommandFolder = %q, want %q", opts.CommandFolder, filepath.Join(home, "commands"))
	}
	if opts.TemplatesFolder != filepath.Join(home, "templates") {
		t.Errorf("TemplatesFolder = %q, want %q", opts.TemplatesFolder, filepath.Join(home, "templates"))
	}
	if opts.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", opts.LogLevel, "warn")
	}
	cwd, _ := os.Getwd()
	if opts.CurrentFolder != cwd {
		t.Errorf("CurrentFolder = %q, want %q", opts.CurrentFolder, cwd)
	}
}

func TestResolve_FileAndEnv(t *testing.T) {
	home := setup(t)
	os.WriteFile(filepath.Join(home, "config.yaml"), []byte("command_folder: /srv/commands\nstart_command: generate\n"), 0644)
	t.Setenv("APOTEK_START_COMMAND", "bootstrap")
	Load()

	opts, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if opts.CommandFolder != "/srv/commands" {
		t.Errorf("CommandFolder = %q, want %q", opts.CommandFolder, "/srv/commands")
	}
	if opts.StartCommand != "bootstrap" {
		t.Errorf("StartCommand = %q, want env value %q", opts.StartCommand, "bootstrap")
	}
}

func TestSet_WritesFile(t *testing.T) {
	home := setup(t)
	Load()

	if err := Set(KeyStartCommand, "generate"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if got := Get(KeyStartCommand); got != "generate" {
		t.Errorf("Get = %q, want %q", got, "generate")
	}

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if !strings.Contains(string(data), "start_command: generate") {
		t.Errorf("config file missing key, got:\n%s", data)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	setup(t)
	Load()

	if err := Set("mirror", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"rel/dir", "/work/rel/dir"},
		{"~/cmds", filepath.Join(home, "cmds")},
	}
	for _, tt := range tests {
		got, err := expandPath(tt.in, "/work")
		if err != nil {
			t.Fatalf("expandPath(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
