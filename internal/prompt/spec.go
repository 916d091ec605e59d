package prompt

import (
	"context"
	"errors"
	"fmt"
)

// Question types understood by Terminal.
const (
	TypeInput    = "input"
	TypePassword = "password"
	TypeConfirm  = "confirm"
	TypeList     = "list"
)

// ErrNoChoices is returned when a list question or a menu has nothing to offer.
var ErrNoChoices = errors.New("no choices available")

// Spec describes one question. Name is the state key it populates.
type Spec struct {
	Name    string
	Type    string
	Message string
	Default any
	Choices []string

	// Validate returns an empty string to accept value, or a message to show.
	Validate func(value any) string
}

// Check runs Validate on value. A validator that panics is reported as an
// error instead of a message, so it ends the turn rather than the process.
func (s Spec) Check(value any) (msg string, err error) {
	if s.Validate == nil {
		return "", nil
	}
	defer func() {
		if r := recover(); r != nil {
			msg, err = "", fmt.Errorf("validating %q: %v", s.Name, r)
		}
	}()
	return s.Validate(value), nil
}

// Label is the text shown to the user.
func (s Spec) Label() string {
	if s.Message != "" {
		return s.Message
	}
	return s.Name
}

// Pending resolves to a Spec. Specs whose content depends on I/O (listing
// templates, calling an API) are produced lazily when the coordinator reaches them.
type Pending func(ctx context.Context) (Spec, error)

// Ready wraps an already known Spec.
func Ready(s Spec) Pending {
	return func(context.Context) (Spec, error) { return s, nil }
}

// Asker is the interactive collaborator that obtains answers from a user.
type Asker interface {
	// Ask returns the answer to spec.
	Ask(ctx context.Context, spec Spec) (any, error)
	// Say shows a message, typically a validation complaint.
	Say(msg string)
}

// IsUnset reports whether value counts as "not answered yet".
func IsUnset(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
