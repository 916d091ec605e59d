package manifest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func orderPtr(v float64) *float64 { return &v }

func TestReadFile_SingleObject(t *testing.T) {
	doc, err := ReadFile(afero.NewOsFs(), testPath("single.json"))
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if doc.Kind != KindObject {
		t.Errorf("Kind = %v, want %v", doc.Kind, KindObject)
	}

	want := []Entry{{
		Name:         "react-app",
		Description:  "React single page application",
		EntryPoint:   "post-install",
		Dependencies: []string{"node", "npm"},
		Order:        orderPtr(150),
		State:        map[string]any{"framework": "react"},
	}}
	if diff := cmp.Diff(want, doc.Entries); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFile_Array(t *testing.T) {
	doc, err := ReadFile(afero.NewOsFs(), testPath("multiple.json"))
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if doc.Kind != KindArray {
		t.Errorf("Kind = %v, want %v", doc.Kind, KindArray)
	}
	if len(doc.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(doc.Entries))
	}
	if doc.Entries[0].Priority() != 50 {
		t.Errorf("Entries[0].Priority() = %v, want 50", doc.Entries[0].Priority())
	}
	if doc.Entries[1].Priority() != DefaultOrder {
		t.Errorf("Entries[1].Priority() = %v, want %v", doc.Entries[1].Priority(), DefaultOrder)
	}
	if doc.Entries[2].Name != "" {
		t.Errorf("Entries[2].Name = %q, want empty", doc.Entries[2].Name)
	}
}

func TestReadFile_Malformed(t *testing.T) {
	tests := []struct {
		file   string
		issues bool
	}{
		{"bad-order.json", true},
		{"bad-dependencies.json", true},
		{"not-json.json", false},
		{"scalar.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := ReadFile(afero.NewOsFs(), testPath(tt.file))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("errors.Is(err, ErrMalformed) = false for %v", err)
			}
			var me *MalformedError
			if !errors.As(err, &me) {
				t.Fatalf("expected *MalformedError, got %T", err)
			}
			if me.Path != testPath(tt.file) {
				t.Errorf("Path = %q, want %q", me.Path, testPath(tt.file))
			}
			if tt.issues && len(me.Issues) == 0 {
				t.Error("expected schema issues")
			}
		})
	}
}

func TestReadFile_NotFound(t *testing.T) {
	_, err := ReadFile(afero.NewOsFs(), testPath("nonexistent.json"))
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
	if errors.Is(err, ErrMalformed) {
		t.Error("a missing file is not a malformed manifest")
	}
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode([]byte("  \n"))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecode_LeadingWhitespace(t *testing.T) {
	doc, err := Decode([]byte("\n\t  {\"name\": \"x\"}"))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if doc.Entries[0].Name != "x" {
		t.Errorf("Name = %q, want %q", doc.Entries[0].Name, "x")
	}
}

func TestEntry_ID(t *testing.T) {
	if got := (Entry{Name: "web/react", Value: "web/react-app"}).ID(); got != "web/react-app" {
		t.Errorf("ID() = %q, want %q", got, "web/react-app")
	}
	if got := (Entry{Name: "web/vue"}).ID(); got != "web/vue" {
		t.Errorf("ID() = %q, want %q", got, "web/vue")
	}
}
