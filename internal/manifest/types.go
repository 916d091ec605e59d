package manifest

// FileName is the manifest file looked up inside every candidate directory.
const FileName = "manifest.json"

// DefaultOrder is the presentation priority of an entry without an explicit order.
// Orders are JSON numbers, so fractional values are allowed.
const DefaultOrder = 100

// Entry is one selectable unit (a command or a template) produced by discovery.
type Entry struct {
	Name         string         `json:"name,omitempty"`
	Value        string         `json:"value,omitempty"`
	EntryPoint   string         `json:"entryPoint,omitempty"`
	Description  string         `json:"description,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty"`
	Order        *float64       `json:"order,omitempty"`
	State        map[string]any `json:"state,omitempty"`
}

// Priority returns the explicit order, or DefaultOrder when none was declared.
func (e Entry) Priority() float64 {
	if e.Order == nil {
		return DefaultOrder
	}
	return *e.Order
}

// ID returns the identifier used to re-enter the tree: Value for manifest
// entries, Name for synthetic directory entries.
func (e Entry) ID() string {
	if e.Value != "" {
		return e.Value
	}
	return e.Name
}

// Kind discriminates the two accepted manifest shapes.
type Kind int

const (
	KindObject Kind = iota + 1
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Document is a decoded manifest file.
type Document struct {
	Kind    Kind
	Entries []Entry
}
