package models

// GlobalSentinel is the wire value clients send to search every folder.
const GlobalSentinel = "All"

// Scope selects either one folder or the global pseudo-scope. The zero
// value is the global scope.
type Scope struct {
	name string
}

// GlobalScope returns the scope that searches every folder.
func GlobalScope() Scope {
	return Scope{}
}

// NamedScope returns a scope restricted to a single folder.
func NamedScope(folder string) Scope {
	return Scope{name: folder}
}

// ParseScope maps a wire value to a scope. The sentinel "All" and the
// empty string both denote the global scope; anything else names a folder.
func ParseScope(s string) Scope {
	if s == "" || s == GlobalSentinel {
		return GlobalScope()
	}
	return NamedScope(s)
}

// IsGlobal reports whether the scope spans all folders.
func (s Scope) IsGlobal() bool {
	return s.name == ""
}

// Folder returns the folder name for a named scope ("" for global).
func (s Scope) Folder() string {
	return s.name
}

// String renders the scope in wire form.
func (s Scope) String() string {
	if s.IsGlobal() {
		return GlobalSentinel
	}
	return s.name
}
