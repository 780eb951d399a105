package indexer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/twigcontext-mcp/internal/filetree"
	"github.com/dshills/twigcontext-mcp/internal/parser"
	"github.com/dshills/twigcontext-mcp/internal/resolver"
	"github.com/dshills/twigcontext-mcp/internal/session"
	"github.com/dshills/twigcontext-mcp/internal/storage"
	"github.com/dshills/twigcontext-mcp/internal/translation"
	"github.com/dshills/twigcontext-mcp/pkg/types"
)

// TemplateExtension marks the files the indexer picks up
const TemplateExtension = ".twig"

const defaultBatchSize = 20

// Indexer coordinates the indexing pipeline: discover -> analyze -> store
type Indexer struct {
	storage storage.Storage
	logger  *slog.Logger
}

// Config contains configuration for the indexer
type Config struct {
	Workers       int  // Number of concurrent workers (default: runtime.NumCPU())
	BatchSize     int  // Number of templates to commit per transaction (default: 20)
	IncludeVendor bool // Whether to index the vendor directory (default: false)
	ForceReindex  bool // Reanalyze templates whose content hash is unchanged
}

// Statistics contains statistics about the indexing operation
type Statistics struct {
	TemplatesIndexed     int
	TemplatesSkipped     int
	TemplatesFailed      int
	TemplatesRemoved     int
	NamesRecorded        int
	ReferencesRecorded   int
	TranslationsRecorded int
	ParseErrors          int
	ConfigChanged        bool // Template path configuration differs from the last run
	Duration             time.Duration
	ErrorMessages        []string
}

// Option configures an Indexer
type Option func(*Indexer)

// WithLogger sets the logger used for per-file failures
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Indexer) {
		idx.logger = logger
	}
}

// New creates a new Indexer instance
func New(store storage.Storage, opts ...Option) *Indexer {
	idx := &Indexer{storage: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// analysis is everything recorded for one template
type analysis struct {
	template     *storage.Template
	names        []*storage.TemplateName
	references   []*storage.Reference
	translations []*storage.Translation
}

// IndexProject indexes the Twig templates of the project at rootPath
func (idx *Indexer) IndexProject(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	return idx.IndexTree(ctx, filetree.NewOS(abs), config)
}

// IndexTree indexes the templates of tree. tree.Root() is the project key.
func (idx *Indexer) IndexTree(ctx context.Context, tree filetree.Tree, config *Config) (*Statistics, error) {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	startTime := time.Now()
	stats := &Statistics{ErrorMessages: make([]string, 0)}

	sess := session.New(tree, session.WithLogger(idx.logger))
	if err := sess.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load project session: %w", err)
	}
	res := resolver.New(sess)

	project, err := idx.getOrCreateProject(ctx, tree.Root())
	if err != nil {
		return nil, fmt.Errorf("failed to get or create project: %w", err)
	}

	files, err := discoverTemplates(ctx, tree, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to discover templates: %w", err)
	}

	existing, err := idx.storage.ListTemplates(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed templates: %w", err)
	}
	// Template names depend on the configuration as well as the content
	fingerprint := configFingerprint(sess.Current())
	stats.ConfigChanged = project.ConfigHash != nil && !bytes.Equal(project.ConfigHash, fingerprint)

	known := make(map[string]*storage.Template, len(existing))
	if !cfg.ForceReindex && bytes.Equal(project.ConfigHash, fingerprint) {
		for _, tpl := range existing {
			known[tpl.FilePath] = tpl
		}
	}

	results, err := idx.analyzeFiles(ctx, tree, res, project, files, known, cfg, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze templates: %w", err)
	}

	if err := idx.store(ctx, results, cfg.BatchSize, stats); err != nil {
		return nil, fmt.Errorf("failed to store templates: %w", err)
	}

	if err := idx.removeStale(ctx, files, existing, stats); err != nil {
		return nil, fmt.Errorf("failed to remove stale templates: %w", err)
	}

	// Failed templates keep names from the previous configuration
	if stats.TemplatesFailed == 0 || bytes.Equal(project.ConfigHash, fingerprint) {
		project.ConfigHash = fingerprint
	}
	if err := idx.updateProjectStats(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project stats: %w", err)
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// configFingerprint hashes everything template names are derived from
// besides the file path: the path mapping and the discovered bundles.
func configFingerprint(snap *session.Snapshot) []byte {
	h := sha256.New()
	for _, e := range snap.Mapping.Entries() {
		fmt.Fprintf(h, "map\x00%s\x00%s\x00%s\n", e.Namespace, e.Dir, e.Type)
	}
	for _, b := range snap.Bundles {
		fmt.Fprintf(h, "bundle\x00%s\x00%s\n", b.Name, b.Dir)
	}
	return h.Sum(nil)
}

// getOrCreateProject retrieves an existing project or creates a new one
func (idx *Indexer) getOrCreateProject(ctx context.Context, rootPath string) (*storage.Project, error) {
	project, err := idx.storage.GetProject(ctx, rootPath)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	project = &storage.Project{
		RootPath:     rootPath,
		IndexVersion: storage.CurrentSchemaVersion,
	}
	if err := idx.storage.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// discoverTemplates finds all template files in the tree
func discoverTemplates(ctx context.Context, tree filetree.Tree, cfg Config) ([]string, error) {
	var files []string

	err := tree.Walk("", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if p == "." {
				return nil
			}
			if filetree.SkipDir(d.Name()) || (!cfg.IncludeVendor && d.Name() == "vendor") {
				return fs.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(p, TemplateExtension) {
			files = append(files, p)
		}
		return nil
	})

	return files, err
}

// analyzeFiles reads and analyzes templates concurrently. Unchanged templates
// are counted as skipped and produce no result.
func (idx *Indexer) analyzeFiles(ctx context.Context, tree filetree.Tree, res *resolver.Resolver,
	project *storage.Project, files []string, known map[string]*storage.Template,
	cfg Config, stats *Statistics) ([]*analysis, error) {

	semaphore := make(chan struct{}, cfg.Workers)
	results := make([]*analysis, len(files))

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex // Protects stats

dispatch:
	for i, rel := range files {
		select {
		case <-gctx.Done():
			break dispatch
		case semaphore <- struct{}{}:
		}

		g.Go(func() error {
			defer func() { <-semaphore }()

			a, err := analyzeFile(tree, res, project.ID, rel, known[rel])
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				stats.TemplatesFailed++
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", rel, err))
				idx.logger.Warn("failed to index template", "file", rel, "error", err)
			case a == nil:
				stats.TemplatesSkipped++
			default:
				results[i] = a
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*analysis, 0, len(results))
	for _, a := range results {
		if a != nil {
			out = append(out, a)
		}
	}
	return out, nil
}

// analyzeFile parses one template. It returns nil when the stored content
// hash matches.
func analyzeFile(tree filetree.Tree, res *resolver.Resolver, projectID int64, rel string, previous *storage.Template) (*analysis, error) {
	content, err := tree.ReadFile(rel)
	if err != nil {
		return nil, err
	}
	info, err := tree.Stat(rel)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(content)
	if previous != nil && previous.ContentHash == hash {
		return nil, nil
	}

	doc := parser.Parse(string(content))

	tpl := &storage.Template{
		ProjectID:   projectID,
		FilePath:    rel,
		ContentHash: hash,
		ModTime:     info.ModTime(),
		SizeBytes:   info.Size(),
	}
	if doc.HasErrors() {
		msg := doc.Errors[0].Error()
		tpl.ParseError = &msg
	}
	if domain, ok := translation.FileDomain(doc); ok {
		tpl.DefaultDomain = domain
	}

	a := &analysis{template: tpl}

	for priority, name := range res.TemplateNames(rel) {
		kind := types.RefPath
		if ref, ok := resolver.ParseTemplateReference(name); ok {
			kind = ref.Kind
		}
		a.names = append(a.names, &storage.TemplateName{Name: name, Kind: string(kind), Priority: priority})
	}

	for _, ref := range References(doc) {
		line, _ := doc.Position(ref.Offset)
		a.references = append(a.references, &storage.Reference{Tag: ref.Tag, Target: ref.Target, Line: line})
	}

	for _, usage := range translation.Usages(doc) {
		line, _ := doc.Position(usage.Offset)
		a.translations = append(a.translations, &storage.Translation{Key: usage.Key, Domain: usage.Domain, Line: line})
	}

	return a, nil
}

// store writes analyzed templates, one transaction per batch
func (idx *Indexer) store(ctx context.Context, results []*analysis, batchSize int, stats *Statistics) error {
	for i := 0; i < len(results); i += batchSize {
		end := i + batchSize
		if end > len(results) {
			end = len(results)
		}
		if err := idx.storeBatch(ctx, results[i:end], stats); err != nil {
			return err
		}
	}
	return nil
}

func (idx *Indexer) storeBatch(ctx context.Context, batch []*analysis, stats *Statistics) error {
	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var names, refs, trans, parseErrors int
	for _, a := range batch {
		if err := storeAnalysis(ctx, tx, a); err != nil {
			return fmt.Errorf("%s: %w", a.template.FilePath, err)
		}
		names += len(a.names)
		refs += len(a.references)
		trans += len(a.translations)
		if a.template.ParseError != nil {
			parseErrors++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	stats.TemplatesIndexed += len(batch)
	stats.NamesRecorded += names
	stats.ReferencesRecorded += refs
	stats.TranslationsRecorded += trans
	stats.ParseErrors += parseErrors
	return nil
}

// storeAnalysis replaces everything recorded for one template
func storeAnalysis(ctx context.Context, tx storage.Tx, a *analysis) error {
	if err := tx.UpsertTemplate(ctx, a.template); err != nil {
		return err
	}
	id := a.template.ID

	if err := tx.DeleteTemplateNamesByTemplate(ctx, id); err != nil {
		return fmt.Errorf("failed to delete old names: %w", err)
	}
	if err := tx.DeleteReferencesByTemplate(ctx, id); err != nil {
		return fmt.Errorf("failed to delete old references: %w", err)
	}
	if err := tx.DeleteTranslationsByTemplate(ctx, id); err != nil {
		return fmt.Errorf("failed to delete old translations: %w", err)
	}

	for _, n := range a.names {
		n.TemplateID = id
		if err := tx.UpsertTemplateName(ctx, n); err != nil {
			return err
		}
	}
	for _, r := range a.references {
		r.TemplateID = id
		if err := tx.InsertReference(ctx, r); err != nil {
			return err
		}
	}
	for _, t := range a.translations {
		t.TemplateID = id
		if err := tx.InsertTranslation(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// removeStale deletes indexed templates that are no longer on disk
func (idx *Indexer) removeStale(ctx context.Context, files []string, existing []*storage.Template, stats *Statistics) error {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}

	for _, tpl := range existing {
		if present[tpl.FilePath] {
			continue
		}
		if err := idx.storage.DeleteTemplate(ctx, tpl.ID); err != nil {
			return err
		}
		stats.TemplatesRemoved++
	}
	return nil
}

// updateProjectStats updates the project's template count
func (idx *Indexer) updateProjectStats(ctx context.Context, project *storage.Project) error {
	templates, err := idx.storage.ListTemplates(ctx, project.ID)
	if err != nil {
		return err
	}

	project.TotalTemplates = len(templates)
	project.LastIndexedAt = time.Now()
	return idx.storage.UpdateProject(ctx, project)
}
