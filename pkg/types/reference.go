package types

import "strings"

// ReferenceKind represents the naming convention a template reference uses
type ReferenceKind string

const (
	// RefBundle is the legacy "Bundle:Controller:file" notation
	RefBundle ReferenceKind = "bundle"
	// RefNamespaced is the "@Namespace/path" notation
	RefNamespaced ReferenceKind = "namespaced"
	// RefPath is a plain path relative to a template root
	RefPath ReferenceKind = "path"
)

// BundleSuffix is the naming suffix every bundle carries
const BundleSuffix = "Bundle"

// TemplateReference is the parsed form of a raw template name
type TemplateReference struct {
	Raw  string
	Kind ReferenceKind

	// Namespace is the bundle name for RefBundle ("FooBundle", may be empty for
	// app-level templates) and the token after "@" for RefNamespaced.
	Namespace string

	// Dir holds the intermediate directories, "/" separated, without leading
	// or trailing slash. File is the last path segment.
	Dir  string
	File string
}

// RelativePath returns the template path below its root directory
func (r TemplateReference) RelativePath() string {
	if r.Dir == "" {
		return r.File
	}
	return r.Dir + "/" + r.File
}

// String renders the reference in its canonical form.
// Bundle references render as "Bundle:dir/file", the overwrite form.
func (r TemplateReference) String() string {
	switch r.Kind {
	case RefBundle:
		return r.Namespace + ":" + r.RelativePath()
	case RefNamespaced:
		return "@" + r.Namespace + "/" + r.RelativePath()
	default:
		return r.RelativePath()
	}
}

// Segments returns the relative path split into its "/" separated parts
func (r TemplateReference) Segments() []string {
	return strings.Split(r.RelativePath(), "/")
}

// Validate checks if the reference is well formed
func (r TemplateReference) Validate() error {
	switch r.Kind {
	case RefBundle, RefPath:
	case RefNamespaced:
		if r.Namespace == "" {
			return ErrMissingNamespace
		}
	default:
		return ErrInvalidKind
	}

	if r.File == "" {
		return ErrMissingFileName
	}

	for _, segment := range r.Segments() {
		if segment == ".." {
			return ErrParentTraversal
		}
		if segment == "" {
			return ErrInvalidReference
		}
	}

	return nil
}

// ShortBundleName strips the "Bundle" suffix: "FooBundle" -> "Foo".
// Names without the suffix are returned unchanged.
func ShortBundleName(bundle string) string {
	if len(bundle) > len(BundleSuffix) && strings.HasSuffix(bundle, BundleSuffix) {
		return strings.TrimSuffix(bundle, BundleSuffix)
	}
	return bundle
}

// IsBundleName reports whether name follows the bundle naming rule
func IsBundleName(name string) bool {
	return len(name) > len(BundleSuffix) && strings.HasSuffix(name, BundleSuffix)
}
