package resolver

import (
	"strings"

	"github.com/dshills/twigcontext-mcp/internal/config"
	"github.com/dshills/twigcontext-mcp/internal/filetree"
	"github.com/dshills/twigcontext-mcp/pkg/types"
)

// GetTemplateNameByOverwrite returns the name a bundle override file is
// exposed under:
//
//	app/Resources/FooBundle/views/Bar/a.html.twig  ->  FooBundle:Bar/a.html.twig
//	templates/bundles/Foo/Bar/a.html.twig          ->  @Foo/Bar/a.html.twig
//
// The file must exist in tree. Files outside an override directory report
// false.
func GetTemplateNameByOverwrite(tree filetree.Tree, file string) (string, bool) {
	rel, ok := tree.FindRelativeFile(file)
	if !ok {
		return "", false
	}
	return overwriteName(rel)
}

func overwriteName(rel string) (string, bool) {
	segments := strings.Split(rel, "/")

	if len(segments) >= 5 && segments[0] == "app" && segments[1] == "Resources" &&
		types.IsBundleName(segments[2]) && segments[3] == viewsDirName {
		return segments[2] + ":" + strings.Join(segments[4:], "/"), true
	}

	if len(segments) >= 4 && segments[0] == "templates" && segments[1] == "bundles" {
		return "@" + segments[2] + "/" + strings.Join(segments[3:], "/"), true
	}

	return "", false
}

// TemplateNameByOverwrite is GetTemplateNameByOverwrite on the session tree
func (r *Resolver) TemplateNameByOverwrite(file string) (string, bool) {
	return GetTemplateNameByOverwrite(r.sess.Tree(), file)
}

// TemplateNames returns every name file can be referenced by, the override
// name first, then configured names, bundle names and default root names.
// file is a path relative to the tree root; its existence is not checked.
func (r *Resolver) TemplateNames(file string) []string {
	rel, err := filetree.Clean(file)
	if err != nil || rel == "." {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	if name, ok := overwriteName(rel); ok {
		add(name)
	}

	snap := r.sess.Current()
	for _, e := range snap.Mapping.Entries() {
		inner, ok := below(e.Dir, rel)
		if !ok {
			continue
		}
		switch {
		case e.Type == config.TypeBundle:
			add(e.Namespace + ":" + inner)
			add("@" + e.Namespace + "/" + inner)
		case e.IsGlobal():
			add(inner)
		default:
			add("@" + e.Namespace + "/" + inner)
		}
	}

	for _, b := range snap.Bundles {
		inner, ok := below(b.ViewsDir(), rel)
		if !ok {
			continue
		}
		add(b.Name + ":" + inner)
		add("@" + types.ShortBundleName(b.Name) + "/" + inner)
	}

	for _, root := range []string{TemplatesDir, AppViewsDir} {
		if inner, ok := below(root, rel); ok {
			add(inner)
		}
	}

	return names
}

// below returns rel relative to dir when rel lies inside dir
func below(dir, rel string) (string, bool) {
	dir = filetree.Join(dir)
	if dir == "." {
		return rel, true
	}
	inner, ok := strings.CutPrefix(rel, dir+"/")
	return inner, ok && inner != ""
}
