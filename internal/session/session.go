package session

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"sync"

	"github.com/dshills/twigcontext-mcp/internal/config"
	"github.com/dshills/twigcontext-mcp/internal/filetree"
	"github.com/dshills/twigcontext-mcp/pkg/types"
	"golang.org/x/sync/errgroup"
)

// BundleViewsDir is the template directory inside a bundle
const BundleViewsDir = "Resources/views"

// Bundle is a bundle directory found in the project
type Bundle struct {
	Name string // "FooBundle"
	Dir  string // Bundle directory relative to the tree root
}

// ViewsDir returns the bundle internal template directory
func (b Bundle) ViewsDir() string {
	return path.Join(b.Dir, BundleViewsDir)
}

// Snapshot is the immutable project state queries run against
type Snapshot struct {
	Mapping    *config.TemplatePathMapping
	Bundles    []Bundle
	Generation uint64
}

// Bundle returns the discovered bundles called name, in discovery order
func (s *Snapshot) Bundle(name string) []Bundle {
	var out []Bundle
	for _, b := range s.Bundles {
		if b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

// Session holds the loaded configuration of one project.
// Queries read the current snapshot; Load and Invalidate replace it.
type Session struct {
	tree   filetree.Tree
	logger *slog.Logger

	mu         sync.RWMutex
	snapshot   *Snapshot
	generation uint64
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger used for configuration problems
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a session for tree. Until Load is called queries see an empty
// snapshot and fall back to convention-only resolution.
func New(tree filetree.Tree, opts ...Option) *Session {
	s := &Session{
		tree:   tree,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot = &Snapshot{Mapping: config.NewMapping()}
	return s
}

// Tree returns the project file tree
func (s *Session) Tree() filetree.Tree {
	return s.tree
}

// Current returns the snapshot in effect
func (s *Session) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Mapping returns the current template path mapping
func (s *Session) Mapping() *config.TemplatePathMapping {
	return s.Current().Mapping
}

// Bundles returns the bundles found by the last Load
func (s *Session) Bundles() []Bundle {
	return s.Current().Bundles
}

// Generation increases every time the snapshot is replaced
func (s *Session) Generation() uint64 {
	return s.Current().Generation
}

// Load reads the project configuration and discovers bundles.
// Missing configuration is not an error; malformed configuration files are
// logged and the entries that could be read are kept.
func (s *Session) Load(ctx context.Context) error {
	var (
		ideEntries  []config.PathEntry
		yamlEntries []config.PathEntry
		bundles     []Bundle
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		files, err := config.DiscoverIdeTwigFiles(gctx, s.tree)
		if err != nil {
			return fmt.Errorf("discover %s: %w", config.IdeTwigFileName, err)
		}
		for _, file := range files {
			entries, err := config.LoadIdeTwigFile(s.tree, file)
			if err != nil {
				s.logger.Warn("invalid template path configuration", "file", file, "error", err)
			}
			ideEntries = append(ideEntries, entries...)
		}
		return nil
	})

	g.Go(func() error {
		entries, err := config.LoadTwigYAML(s.tree)
		if err != nil {
			s.logger.Warn("invalid twig configuration", "error", err)
		}
		yamlEntries = entries
		return nil
	})

	g.Go(func() error {
		found, err := discoverBundles(gctx, s.tree)
		if err != nil {
			return fmt.Errorf("discover bundles: %w", err)
		}
		bundles = found
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	mapping := config.NewMapping(append(ideEntries, yamlEntries...)...)

	s.mu.Lock()
	s.generation++
	s.snapshot = &Snapshot{
		Mapping:    mapping,
		Bundles:    bundles,
		Generation: s.generation,
	}
	s.mu.Unlock()

	s.logger.Debug("project session loaded",
		"root", s.tree.Root(),
		"mappings", mapping.Len(),
		"bundles", len(bundles),
	)
	return nil
}

// Invalidate drops the loaded configuration. Queries fall back to
// convention-only resolution until the next Load.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.snapshot = &Snapshot{Mapping: config.NewMapping(), Generation: s.generation}
}

// discoverBundles finds directories named "*Bundle" that hold templates
func discoverBundles(ctx context.Context, tree filetree.Tree) ([]Bundle, error) {
	var bundles []Bundle

	err := tree.Walk("", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.IsDir() {
			return nil
		}
		if filetree.SkipDir(d.Name()) {
			return fs.SkipDir
		}
		if p == "." || !types.IsBundleName(d.Name()) {
			return nil
		}
		if tree.IsDir(path.Join(p, BundleViewsDir)) {
			bundles = append(bundles, Bundle{Name: d.Name(), Dir: p})
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(bundles, func(i, j int) bool {
		return bundles[i].Dir < bundles[j].Dir
	})
	return bundles, nil
}
