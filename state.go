package calc

import "sort"

// Names of the pseudo-variables holding the last result, as $? and $$.
const (
	LastResult    = "?"
	LastResultAlt = "$"
)

// DocumentState holds the persistent settings and variables of one document.
// Its lifetime should match the document's. It is not safe to use a
// DocumentState concurrently; evaluations that share one must run in order.
type DocumentState struct {
	settings Settings
	vars     map[string]Value
}

// NewDocumentState creates a document state with the given settings. Invalid
// settings are replaced with the defaults.
func NewDocumentState(defaults Settings) *DocumentState {
	if defaults.Validate() != nil {
		defaults = DefaultSettings()
	}
	return &DocumentState{
		settings: defaults,
		vars:     make(map[string]Value),
	}
}

// Settings returns the document's persisted settings.
func (s *DocumentState) Settings() Settings {
	return s.settings
}

// Set sets the value of a variable. The name does not include the $. Returns s
// for chaining.
func (s *DocumentState) Set(name string, v Value) *DocumentState {
	s.vars[name] = v
	return s
}

// Lookup returns the value of a variable. The name does not include the $.
func (s *DocumentState) Lookup(name string) (Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Names returns the names of all defined variables in sorted order.
func (s *DocumentState) Names() []string {
	names := make([]string, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone creates an independent copy of the document state.
func (s *DocumentState) Clone() *DocumentState {
	n := DocumentState{
		settings: s.settings,
		vars:     make(map[string]Value, len(s.vars)),
	}
	// Values are immutable, so sharing them is fine.
	for k, v := range s.vars {
		n.vars[k] = v
	}
	return &n
}
