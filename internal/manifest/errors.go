package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is matched (via errors.Is) by every decode failure.
var ErrMalformed = errors.New("malformed manifest")

// MalformedError reports a manifest that is not valid JSON, has the wrong
// top-level shape, or violates the schema.
type MalformedError struct {
	Path   string
	Reason string
	Issues []ValidationIssue
	Err    error
}

func (e *MalformedError) Error() string {
	var b strings.Builder
	b.WriteString("malformed manifest")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	for _, issue := range e.Issues {
		if issue.Path != "" {
			fmt.Fprintf(&b, "; %s: %s", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(&b, "; %s", issue.Message)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformed) hold for every MalformedError.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }
