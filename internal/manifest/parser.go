package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

// ReadFile reads and decodes the manifest at path.
func ReadFile(fsys afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	doc, err := Decode(data)
	if err != nil {
		var me *MalformedError
		if errors.As(err, &me) {
			me.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Decode parses a manifest body. The first non-blank byte selects the shape:
// '{' is a single entry, '[' an array of entries. Anything else, invalid JSON
// and schema violations all return a *MalformedError.
func Decode(data []byte) (*Document, error) {
	body := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(body) == 0 {
		return nil, &MalformedError{Reason: "empty document"}
	}

	var kind Kind
	switch body[0] {
	case '{':
		kind = KindObject
	case '[':
		kind = KindArray
	default:
		return nil, &MalformedError{Reason: fmt.Sprintf("expected an object or an array, found %q", body[0])}
	}

	result, err := Validate(body)
	if err != nil {
		return nil, &MalformedError{Reason: "invalid JSON", Err: err}
	}
	if !result.Valid {
		return nil, &MalformedError{Reason: "schema violation", Issues: result.Issues}
	}

	doc := &Document{Kind: kind}
	switch kind {
	case KindObject:
		var e Entry
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, &MalformedError{Reason: "decoding entry", Err: err}
		}
		doc.Entries = []Entry{e}
	case KindArray:
		if err := json.Unmarshal(body, &doc.Entries); err != nil {
			return nil, &MalformedError{Reason: "decoding entries", Err: err}
		}
	}
	return doc, nil
}
