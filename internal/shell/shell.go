package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Output captures the result of a script.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExitError is returned when a script finishes with a non-zero status.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("script exited with code %d", e.Code)
	}
	return fmt.Sprintf("script exited with code %d: %s", e.Code, msg)
}

// Runner executes scripts.
type Runner struct {
	// Stdout and Stderr receive a live copy of the script output; nil discards.
	Stdout io.Writer
	Stderr io.Writer
	// Env is appended to the process environment.
	Env []string

	log *zap.Logger
}

// New creates a Runner that streams script stderr to os.Stderr.
func New(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Stderr: os.Stderr, log: log}
}

// Run executes script with dir as working directory and returns its output.
// A non-zero exit status yields an *ExitError alongside the captured output.
func (r *Runner) Run(ctx context.Context, dir, script string) (*Output, error) {
	prog, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(script), "")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.StdIO(nil, tee(&stdout, r.Stdout), tee(&stderr, r.Stderr)),
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(append(os.Environ(), r.Env...)...)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	r.log.Debug("running script", zap.String("dir", dir), zap.String("script", script))
	err = runner.Run(ctx, prog)

	out := &Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	var status interp.ExitStatus
	if errors.As(err, &status) {
		out.ExitCode = int(status)
		return out, &ExitError{Code: out.ExitCode, Stderr: out.Stderr}
	}
	return out, fmt.Errorf("running script: %w", err)
}

// Which reports the path of an executable on PATH.
func Which(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", name, err)
	}
	return path, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
