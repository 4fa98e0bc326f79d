package router

import "strings"

// Flags modify how a dispatch is applied.
type Flags uint8

const (
	// JunctionsOnly keeps the UI already presented inside a Fork option when a
	// request only switches which option is selected, e.g. tapping a tab whose
	// root route is requested while the tab still holds a pushed stack.
	JunctionsOnly Flags = 1 << iota
)

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	if f.Has(JunctionsOnly) {
		names = append(names, "junctions_only")
	}
	if rest := f &^ JunctionsOnly; rest != 0 {
		names = append(names, "unknown")
	}
	return strings.Join(names, "|")
}

func combine(flags []Flags) Flags {
	var out Flags
	for _, f := range flags {
		out |= f
	}
	return out
}
