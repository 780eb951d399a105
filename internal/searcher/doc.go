// Package searcher finds indexed templates by name.
//
// Every name a template can be referenced by is stored by the indexer, so a
// template shows up under its bundle, namespaced and plain path names. A
// search matches the query case-insensitively against all of them and keeps
// the best match per template.
//
// # Basic Usage
//
//	s := searcher.NewSearcher(store)
//
//	resp, err := s.Search(ctx, searcher.SearchRequest{
//	    Query:     "layout",
//	    Limit:     10,
//	    ProjectID: projectID,
//	    UseCache:  true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	for _, result := range resp.Results {
//	    fmt.Printf("%d. %s (%s) %.2f\n",
//	        result.Rank, result.Name, result.File.Path, result.RelevanceScore)
//	}
//
// # Ranking
//
// Scores lie in (0, 1]:
//   - Exact match: 1
//   - Prefix match: between 0.5 and 0.9, higher when the query covers more of the name
//   - Substring match: between 0.1 and 0.5, same rule
//
// Ties keep the storage order: shorter names first, then higher priority
// names (the order the resolver lists them in), then alphabetical.
//
// # Filters
//
// Kinds restricts results to names written in the given conventions
// (bundle, namespaced, path). The searcher over-fetches from storage so that
// filtering and per-template collapsing still fill the limit.
//
// # Caching
//
// Responses are cached in an LRU keyed by query, project, limit and kinds.
// Entries expire after CacheTTL (default one hour). InvalidateCache drops a
// project's entries once it has been reindexed.
//
// # Thread Safety
//
// A Searcher is safe for concurrent use.
package searcher
