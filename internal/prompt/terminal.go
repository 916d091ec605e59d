package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/apotek-labs/apotek/internal/manifest"
)

var (
	questionMark = color.New(color.FgGreen, color.Bold)
	hintColor    = color.New(color.FgHiBlack)
	warnColor    = color.New(color.FgYellow)
)

// Terminal asks questions on a line-oriented reader/writer pair.
type Terminal struct {
	reader *bufio.Reader
	out    io.Writer
	fd     int // terminal file descriptor for hidden input, -1 otherwise
}

// NewTerminal creates a Terminal. Password questions are read without echo
// when in is a TTY.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Terminal{reader: bufio.NewReader(in), out: out, fd: fd}
}

// Say prints a highlighted message.
func (t *Terminal) Say(msg string) {
	fmt.Fprintln(t.out, warnColor.Sprint(">> "+msg))
}

// Ask reads an answer for spec, asking again for as long as spec.Validate
// objects. A validator that never accepts keeps the user in this loop.
func (t *Terminal) Ask(ctx context.Context, spec Spec) (any, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			answer any
			err    error
		)
		switch spec.Type {
		case TypeConfirm:
			answer, err = t.confirm(spec)
		case TypeList:
			answer, err = t.choose(spec)
		case TypePassword:
			answer, err = t.password(spec)
		default:
			answer, err = t.input(spec)
		}
		if errors.Is(err, errRetry) {
			continue
		}
		if err != nil {
			return nil, err
		}

		msg, err := spec.Check(answer)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			t.Say(msg)
			continue
		}
		return answer, nil
	}
}

// errRetry signals an unusable line that was already reported to the user.
var errRetry = errors.New("retry")

func (t *Terminal) question(spec Spec, hint string) {
	fmt.Fprintf(t.out, "%s %s", questionMark.Sprint("?"), spec.Label())
	if hint != "" {
		fmt.Fprintf(t.out, " %s", hintColor.Sprint("("+hint+")"))
	}
	fmt.Fprint(t.out, ": ")
}

func (t *Terminal) input(spec Spec) (any, error) {
	def := ""
	if spec.Default != nil {
		def = fmt.Sprint(spec.Default)
	}
	t.question(spec, def)

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (t *Terminal) password(spec Spec) (any, error) {
	if t.fd < 0 {
		return t.input(spec)
	}
	t.question(spec, "")
	secret, err := term.ReadPassword(t.fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return string(secret), nil
}

func (t *Terminal) confirm(spec Spec) (any, error) {
	def, _ := spec.Default.(bool)
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	t.question(spec, hint)

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(line) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		t.Say(fmt.Sprintf("please answer yes or no, not %q", line))
		return nil, errRetry
	}
}

// choose presents a numbered list and returns the selected choice.
func (t *Terminal) choose(spec Spec) (any, error) {
	if len(spec.Choices) == 0 {
		return nil, fmt.Errorf("%s: %w", spec.Label(), ErrNoChoices)
	}

	defIdx := -1
	if def, ok := spec.Default.(string); ok {
		for i, c := range spec.Choices {
			if c == def {
				defIdx = i
				break
			}
		}
	}

	fmt.Fprintf(t.out, "%s %s\n", questionMark.Sprint("?"), spec.Label())
	for i, item := range spec.Choices {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, item)
	}
	hint := fmt.Sprintf("1-%d", len(spec.Choices))
	if defIdx >= 0 {
		hint += fmt.Sprintf(", default %d", defIdx+1)
	}
	fmt.Fprintf(t.out, "Enter number %s: ", hintColor.Sprint("["+hint+"]"))

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" && defIdx >= 0 {
		return spec.Choices[defIdx], nil
	}

	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(spec.Choices) {
		t.Say(fmt.Sprintf("invalid selection %q: choose 1-%d", line, len(spec.Choices)))
		return nil, errRetry
	}
	return spec.Choices[num-1], nil
}

// readLine returns the next trimmed line. A final line without newline is
// accepted; running out of input is an error so a closed stdin cannot spin
// the retry loops.
func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading answer: %w", io.ErrUnexpectedEOF)
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Select asks the user to pick one of entries and returns it.
func Select(ctx context.Context, asker Asker, message string, entries []manifest.Entry) (manifest.Entry, error) {
	if len(entries) == 0 {
		return manifest.Entry{}, fmt.Errorf("%s: %w", message, ErrNoChoices)
	}

	choices := make([]string, len(entries))
	for i, e := range entries {
		choices[i] = e.Name
	}

	answer, err := asker.Ask(ctx, Spec{
		Name:    "selection",
		Type:    TypeList,
		Message: message,
		Choices: choices,
	})
	if err != nil {
		return manifest.Entry{}, err
	}

	picked := fmt.Sprint(answer)
	for _, e := range entries {
		if e.Name == picked {
			return e, nil
		}
	}
	return manifest.Entry{}, fmt.Errorf("selection %q is not one of the offered choices", picked)
}
