package resolver

import (
	"regexp"
	"strings"

	"github.com/dshills/twigcontext-mcp/pkg/types"
)

var (
	bundleToken    = regexp.MustCompile(`^(\w+Bundle)?$`)
	namespaceToken = regexp.MustCompile(`^[\w-]+$`)
	plainPath      = regexp.MustCompile(`^[\w./-]+$`)
)

// ParseTemplateReference decomposes a raw template name.
//
//	"@foo/bar/baz.html.twig"          namespaced foo, bar/baz.html.twig
//	"FooBundle:Bar:dummy.html.twig"   bundle FooBundle, Bar/dummy.html.twig
//	"FooBundle:Bar/dummy.html.twig"   bundle FooBundle, Bar/dummy.html.twig
//	"::base.html.twig"                bundle "", base.html.twig
//	"base/layout.html.twig"           plain path
//
// Backslashes are directory separators in every position. The token before
// a ":" must be empty or end in "Bundle". Names matching none of the shapes
// report false.
func ParseTemplateReference(raw string) (types.TemplateReference, bool) {
	name := strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/")
	ref := types.TemplateReference{Raw: raw}

	switch {
	case name == "":
		return ref, false

	case strings.HasPrefix(name, "@"):
		namespace, rel, found := strings.Cut(name[1:], "/")
		if !found || !namespaceToken.MatchString(namespace) {
			return ref, false
		}
		ref.Kind = types.RefNamespaced
		ref.Namespace = namespace
		ref.Dir, ref.File = splitPath(rel)

	case strings.Contains(name, ":"):
		parts := strings.Split(name, ":")
		if len(parts) > 3 || !bundleToken.MatchString(parts[0]) {
			return ref, false
		}
		ref.Kind = types.RefBundle
		ref.Namespace = parts[0]

		// "Bundle::file" has no controller part
		segments := parts[1:]
		if len(segments) == 2 && segments[0] == "" {
			segments = segments[1:]
		}
		ref.Dir, ref.File = splitPath(strings.Join(segments, "/"))

	default:
		ref.Kind = types.RefPath
		ref.Dir, ref.File = splitPath(name)
	}

	if ref.Validate() != nil || !plainPath.MatchString(ref.RelativePath()) {
		return ref, false
	}
	return ref, true
}

// splitPath separates the directory part from the file name
func splitPath(rel string) (dir, file string) {
	i := strings.LastIndex(rel, "/")
	if i < 0 {
		return "", rel
	}
	return rel[:i], rel[i+1:]
}

// NormalizeTemplateName rewrites a template name into its canonical form:
// forward slashes and, for bundle names, "Bundle:dir/file".
// Names that cannot be parsed are returned with slashes normalized only.
func NormalizeTemplateName(raw string) string {
	ref, ok := ParseTemplateReference(raw)
	if !ok {
		return strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/")
	}
	return ref.String()
}
