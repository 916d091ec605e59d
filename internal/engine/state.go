package engine

import (
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// State is the key-value data accumulated across the turns of a run.
type State map[string]any

// Clone returns a shallow copy. A nil State clones to an empty one.
func (s State) Clone() State {
	out := make(State, len(s))
	maps.Copy(out, s)
	return out
}

// Merge copies the entries of defaults whose keys are absent from s.
func (s State) Merge(defaults map[string]any) {
	for k, v := range defaults {
		if _, ok := s[k]; !ok {
			s[k] = v
		}
	}
}

// String returns the value at key formatted as a string, or "" when absent.
func (s State) String(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Decode copies the state into a struct using its json tags. Values are
// converted loosely, so "3" decodes into an int field.
func (s State) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(s)); err != nil {
		return fmt.Errorf("decoding state: %w", err)
	}
	return nil
}
