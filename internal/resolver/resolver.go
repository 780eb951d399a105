package resolver

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/twigcontext-mcp/internal/config"
	"github.com/dshills/twigcontext-mcp/internal/filetree"
	"github.com/dshills/twigcontext-mcp/internal/session"
	"github.com/dshills/twigcontext-mcp/pkg/types"
)

// Convention directories, relative to the project root
const (
	AppViewsDir      = "app/Resources/views"
	AppResourcesDir  = "app/Resources"
	TemplatesDir     = "templates"
	TemplatesBundles = "templates/bundles"
)

const (
	defaultCacheSize = 1024
	viewsDirName     = "views"
)

// RootSource tells which rule produced a template root
type RootSource string

const (
	SourceMapping  RootSource = "mapping"  // ide-twig.json or twig yaml entry
	SourceOverride RootSource = "override" // app/Resources/<Bundle>/views or templates/bundles/<Short>
	SourceBundle   RootSource = "bundle"   // <bundle>/Resources/views
	SourceDefault  RootSource = "default"  // templates or app/Resources/views
)

// Candidate is one place a template could live
type Candidate struct {
	Root   string
	Path   string // Root joined with the template's relative path
	Source RootSource
}

type cacheKey struct {
	generation uint64
	name       string
}

// Resolver maps template names to files using a project session.
// It is safe for concurrent use.
type Resolver struct {
	sess *session.Session

	cache      *lru.Cache[cacheKey, []string]
	cacheMu    sync.Mutex
	generation uint64
}

// New creates a resolver reading configuration from sess
func New(sess *session.Session) *Resolver {
	cache, err := lru.New[cacheKey, []string](defaultCacheSize)
	if err != nil {
		// This should never happen with valid size parameter
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &Resolver{
		sess:       sess,
		cache:      cache,
		generation: sess.Generation(),
	}
}

// Session returns the session the resolver reads from
func (r *Resolver) Session() *session.Session {
	return r.sess
}

// Candidates lists every root a template name may resolve against, in
// priority order, without checking the file system
func (r *Resolver) Candidates(name string) []Candidate {
	ref, ok := ParseTemplateReference(name)
	if !ok {
		return nil
	}
	return candidates(r.sess.Current(), ref)
}

// TemplateFiles returns the existing files name refers to, highest
// priority first. Unresolvable names yield an empty result.
func (r *Resolver) TemplateFiles(name string) []string {
	snap := r.sess.Current()

	r.cacheMu.Lock()
	if snap.Generation != r.generation {
		r.cache.Purge()
		r.generation = snap.Generation
	}
	r.cacheMu.Unlock()

	key := cacheKey{generation: snap.Generation, name: name}
	if files, ok := r.cache.Get(key); ok {
		return clone(files)
	}

	files := []string{}
	if ref, ok := ParseTemplateReference(name); ok {
		tree := r.sess.Tree()
		seen := make(map[string]bool)
		for _, c := range candidates(snap, ref) {
			file, found := tree.FindRelativeFile(c.Path)
			if found && !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}

	r.cache.Add(key, files)
	return clone(files)
}

// clone copies a cached result so callers cannot modify the cache
func clone(files []string) []string {
	out := make([]string, len(files))
	copy(out, files)
	return out
}

// GetTemplateName returns the highest priority file name refers to
func (r *Resolver) GetTemplateName(name string) (string, bool) {
	files := r.TemplateFiles(name)
	if len(files) == 0 {
		return "", false
	}
	return files[0], true
}

// GetCreateAbleTemplatePaths returns the paths a missing template could be
// created at, one per matching root. Configured roots are always offered;
// convention roots only when their directory exists. Malformed names yield
// an empty result.
func (r *Resolver) GetCreateAbleTemplatePaths(name string) []string {
	paths := []string{}

	ref, ok := ParseTemplateReference(name)
	if !ok {
		return paths
	}

	tree := r.sess.Tree()
	seen := make(map[string]bool)
	for _, c := range candidates(r.sess.Current(), ref) {
		if c.Source != SourceMapping && !tree.IsDir(c.Root) {
			continue
		}
		if !seen[c.Path] {
			seen[c.Path] = true
			paths = append(paths, c.Path)
		}
	}
	return paths
}

// candidates expands a reference into its template roots.
//
// Configured mapping entries come before convention directories. A
// namespaced name matches configured entries of either type on the exact
// token, so a "FooBundle" bundle entry also answers "@FooBundle/...". For
// bundle names the namespaced "@Short" entries come before bundle typed
// entries, and override directories come before bundle internal ones.
func candidates(snap *session.Snapshot, ref types.TemplateReference) []Candidate {
	var out []Candidate
	add := func(root string, source RootSource) {
		out = append(out, Candidate{
			Root:   filetree.Join(root),
			Path:   filetree.Join(root, ref.RelativePath()),
			Source: source,
		})
	}
	addEntries := func(entries []config.PathEntry) {
		for _, e := range entries {
			add(e.Dir, SourceMapping)
		}
	}

	switch ref.Kind {
	case types.RefNamespaced:
		addEntries(snap.Mapping.Namespace(ref.Namespace))
		if types.IsBundleName(ref.Namespace) {
			// "@FooBundle/..." only exists when configured
			break
		}
		bundle := ref.Namespace + types.BundleSuffix
		add(filetree.Join(TemplatesBundles, ref.Namespace), SourceOverride)
		add(filetree.Join(AppResourcesDir, bundle, viewsDirName), SourceOverride)
		for _, b := range snap.Bundle(bundle) {
			add(b.ViewsDir(), SourceBundle)
		}

	case types.RefBundle:
		if ref.Namespace == "" {
			addEntries(snap.Mapping.Global())
			add(AppViewsDir, SourceDefault)
			add(TemplatesDir, SourceDefault)
			break
		}
		short := types.ShortBundleName(ref.Namespace)
		if short != ref.Namespace {
			addEntries(snap.Mapping.Lookup(short, config.TypePath))
		}
		addEntries(snap.Mapping.Lookup(ref.Namespace, config.TypeBundle))
		add(filetree.Join(AppResourcesDir, ref.Namespace, viewsDirName), SourceOverride)
		if short != ref.Namespace {
			add(filetree.Join(TemplatesBundles, short), SourceOverride)
		}
		for _, b := range snap.Bundle(ref.Namespace) {
			add(b.ViewsDir(), SourceBundle)
		}

	case types.RefPath:
		addEntries(snap.Mapping.Global())
		add(TemplatesDir, SourceDefault)
		add(AppViewsDir, SourceDefault)
	}

	return out
}
