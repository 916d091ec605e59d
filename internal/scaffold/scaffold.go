package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/afero"

	"github.com/apotek-labs/apotek/internal/manifest"
	"github.com/apotek-labs/apotek/internal/render"
)

//go:embed scaffolds
var scaffoldFS embed.FS

// Kinds that can be scaffolded.
const (
	KindCommand  = "command"
	KindTemplate = "template"
)

// Data holds the variables available to scaffold templates. Skeletons use
// [[ ]] delimiters so the {{ }} actions of generated templates pass through.
type Data struct {
	Name        string // e.g., "new-service"
	Kind        string // "command" or "template"
	Description string
	Order       int
	Year        int
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewData creates Data with defaults filled in.
func NewData(name, kind, description string) *Data {
	if description == "" {
		description = fmt.Sprintf("%s %s", name, kind)
	}
	return &Data{
		Name:        name,
		Kind:        kind,
		Description: description,
		Order:       manifest.DefaultOrder,
		Year:        time.Now().Year(),
	}
}

// Generate writes the skeleton for kind into outputDir, which must be absent
// or empty. The generated manifest is schema-checked; problems are returned
// as warnings.
func Generate(fsys afero.Fs, kind string, data *Data, outputDir string) (*Result, error) {
	setDir := path.Join("scaffolds", kind)
	entries, err := fs.ReadDir(scaffoldFS, setDir)
	if err != nil {
		return nil, fmt.Errorf("unknown kind %q: %w", kind, err)
	}

	if existing, err := afero.ReadDir(fsys, outputDir); err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}
	if err := fsys.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	funcs := render.FuncMap()
	funcs["json"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	}

	result := &Result{OutputDir: outputDir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		src := path.Join(setDir, entry.Name())
		body, err := fs.ReadFile(scaffoldFS, src)
		if err != nil {
			return nil, fmt.Errorf("reading skeleton %s: %w", src, err)
		}

		outName := strings.TrimSuffix(entry.Name(), render.TemplateSuffix)
		tmpl, err := template.New(entry.Name()).Delims("[[", "]]").Funcs(funcs).Parse(string(body))
		if err != nil {
			return nil, fmt.Errorf("parsing skeleton %s: %w", entry.Name(), err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing skeleton %s: %w", entry.Name(), err)
		}

		outPath := filepath.Join(outputDir, outName)
		if err := afero.WriteFile(fsys, outPath, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		result.Files = append(result.Files, outName)
	}

	manifestFile := filepath.Join(outputDir, manifest.FileName)
	valResult, valErr := manifest.ValidateFile(fsys, manifestFile)
	if valErr != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not validate manifest: %v", valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			msg := issue.Message
			if issue.Path != "" {
				msg = issue.Path + ": " + msg
			}
			result.Warnings = append(result.Warnings, msg)
		}
	}

	return result, nil
}
