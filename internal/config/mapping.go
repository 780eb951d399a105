package config

const (
	// MainNamespace is the token the IDE plugin uses for the global namespace
	MainNamespace = "__main__"
)

// NamespaceType describes how a mapped namespace is addressed
type NamespaceType string

const (
	// TypePath entries answer "@namespace/..." names, or plain names when global
	TypePath NamespaceType = "path"
	// TypeBundle entries answer "Bundle:Controller:file" names
	TypeBundle NamespaceType = "bundle"
)

// PathEntry maps one namespace token to one root directory
type PathEntry struct {
	Namespace string        // Empty for the global namespace
	Dir       string        // Root directory relative to the project tree
	Type      NamespaceType // Addressing convention
	Source    string        // Configuration file that declared the entry
}

// IsGlobal reports whether the entry belongs to the global namespace
func (e PathEntry) IsGlobal() bool {
	return e.Namespace == ""
}

// TemplatePathMapping is an ordered, immutable set of namespace roots.
// Lookups are exact and case-sensitive; entry order is resolution order.
type TemplatePathMapping struct {
	entries []PathEntry
}

// NewMapping creates a mapping from entries, keeping their order.
// The MainNamespace token is folded into the global namespace.
func NewMapping(entries ...PathEntry) *TemplatePathMapping {
	m := &TemplatePathMapping{entries: make([]PathEntry, 0, len(entries))}
	seen := make(map[PathEntry]bool, len(entries))
	for _, e := range entries {
		if e.Namespace == MainNamespace {
			e.Namespace = ""
		}
		if e.Type == "" {
			e.Type = TypePath
		}
		key := PathEntry{Namespace: e.Namespace, Dir: e.Dir, Type: e.Type}
		if seen[key] {
			continue
		}
		seen[key] = true
		m.entries = append(m.entries, e)
	}
	return m
}

// Merge returns a new mapping with other's entries after m's
func (m *TemplatePathMapping) Merge(other *TemplatePathMapping) *TemplatePathMapping {
	return NewMapping(append(m.Entries(), other.Entries()...)...)
}

// Entries returns a copy of all entries in resolution order
func (m *TemplatePathMapping) Entries() []PathEntry {
	if m == nil {
		return nil
	}
	out := make([]PathEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries
func (m *TemplatePathMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Lookup returns the entries for namespace with the given type, in order
func (m *TemplatePathMapping) Lookup(namespace string, typ NamespaceType) []PathEntry {
	if m == nil {
		return nil
	}
	if namespace == MainNamespace {
		namespace = ""
	}

	var out []PathEntry
	for _, e := range m.entries {
		if e.Namespace == namespace && e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// Namespace returns the entries for namespace whatever their type, in order
func (m *TemplatePathMapping) Namespace(namespace string) []PathEntry {
	if m == nil {
		return nil
	}
	if namespace == MainNamespace {
		namespace = ""
	}

	var out []PathEntry
	for _, e := range m.entries {
		if e.Namespace == namespace {
			out = append(out, e)
		}
	}
	return out
}

// Global returns the entries of the global namespace
func (m *TemplatePathMapping) Global() []PathEntry {
	return m.Lookup("", TypePath)
}

// Bundles returns the distinct bundle names declared with TypeBundle
func (m *TemplatePathMapping) Bundles() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, e := range m.entries {
		if e.Type == TypeBundle && !seen[e.Namespace] {
			seen[e.Namespace] = true
			out = append(out, e.Namespace)
		}
	}
	return out
}
