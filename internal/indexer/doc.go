// Package indexer builds the template index of a Symfony project.
//
// The indexer walks the project, analyzes every Twig template and stores
// the results so that name search and usage queries do not have to reparse
// the project.
//
// # Basic Usage
//
//	idx := indexer.New(store)
//
//	stats, err := idx.IndexProject(ctx, "/path/to/project", &indexer.Config{
//	    Workers: 4,
//	})
//
//	fmt.Printf("Indexed %d templates in %v\n", stats.TemplatesIndexed, stats.Duration)
//
// # Indexing Pipeline
//
//  1. Session: load ide-twig.json, twig yaml paths and discover bundles
//  2. Discovery: find all *.twig files, skipping hidden, cache and vendor dirs
//  3. Incremental decision: compare the configuration fingerprint and the
//     SHA-256 content hashes with the index
//  4. Analysis (parallel): parse, compute template names, the file level
//     trans_default_domain, template references and translation keys
//  5. Store: one transaction per batch of templates
//  6. Cleanup: delete templates that disappeared from disk
//
// # Incremental Indexing
//
// A second run over an unchanged project analyzes nothing:
//
//	stats1, _ := idx.IndexProject(ctx, root, nil) // 12 indexed, 0 skipped
//	stats2, _ := idx.IndexProject(ctx, root, nil) // 0 indexed, 12 skipped
//
// Template names also depend on the path mapping and the discovered bundles.
// Their fingerprint is stored on the project, and when it differs every
// template is reanalyzed and Statistics.ConfigChanged is set. Set
// Config.ForceReindex to reanalyze everything regardless.
//
// # Concurrency
//
// Analysis runs on a worker pool bounded by a channel semaphore inside an
// errgroup. Storage writes happen on the calling goroutine, because SQLite
// has a single writer.
//
// # Error Handling
//
// A template that cannot be read is counted in Statistics.TemplatesFailed
// and logged; indexing continues. Parse errors are not failures: the
// template is indexed from the partial tree and the first error is stored.
// Storage errors abort the run.
//
// IndexLock lets callers such as the MCP server refuse concurrent runs.
package indexer
