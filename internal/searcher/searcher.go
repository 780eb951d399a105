package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/twigcontext-mcp/internal/storage"
	"github.com/dshills/twigcontext-mcp/pkg/types"
)

const (
	defaultLimit    = 10
	maxLimit        = 100
	defaultCacheTTL = time.Hour
	cacheSize       = 1000

	// overFetch leaves room for kind filtering and per-template collapsing
	overFetch = 4
)

// SearchRequest contains parameters for a template search
type SearchRequest struct {
	Query     string
	Limit     int
	ProjectID int64
	Kinds     []types.ReferenceKind // Only names in these conventions; all when empty
	UseCache  bool
	CacheTTL  time.Duration
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Results      []types.SearchResult
	TotalResults int
	Duration     time.Duration
	CacheHit     bool
}

// cacheEntry represents a cached search response with expiration time
type cacheEntry struct {
	projectID int64
	response  *SearchResponse
	expiresAt time.Time
}

// Searcher matches queries against indexed template names
type Searcher struct {
	storage storage.Storage
	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
}

// NewSearcher creates a new Searcher instance
func NewSearcher(store storage.Storage) *Searcher {
	cache, err := lru.New[[32]byte, *cacheEntry](cacheSize)
	if err != nil {
		// This should never happen with valid size parameter
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &Searcher{
		storage: store,
		cache:   cache,
	}
}

// Search finds templates whose names contain the query. Exact matches rank
// first, then prefix matches, then other substring matches; shorter names
// rank higher within each group. Each template appears once, under its best
// matching name.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	if err := validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	if req.UseCache {
		if cached, ok := s.checkCache(req); ok {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			return cached, nil
		}
	}

	matches, err := s.storage.SearchTemplateNames(ctx, req.ProjectID, req.Query, req.Limit*overFetch)
	if err != nil {
		return nil, err
	}

	results := rank(req, matches)
	response := &SearchResponse{
		Results:      results,
		TotalResults: len(results),
		Duration:     time.Since(startTime),
	}

	if req.UseCache && len(results) > 0 {
		s.storeInCache(req, response)
	}

	return response, nil
}

// rank scores, filters, collapses and truncates storage matches
func rank(req SearchRequest, matches []storage.NameMatch) []types.SearchResult {
	allowed := make(map[types.ReferenceKind]bool, len(req.Kinds))
	for _, k := range req.Kinds {
		allowed[k] = true
	}

	best := make(map[int64]int) // template id -> index in results
	results := make([]types.SearchResult, 0, req.Limit)

	for _, m := range matches {
		kind := types.ReferenceKind(m.Kind)
		if len(allowed) > 0 && !allowed[kind] {
			continue
		}

		result := types.SearchResult{
			TemplateID:     m.TemplateID,
			RelevanceScore: Score(req.Query, m.Name),
			Name:           m.Name,
			Kind:           kind,
			File:           &types.FileInfo{Path: m.FilePath, Size: m.SizeBytes},
			Domain:         m.DefaultDomain,
		}

		if i, seen := best[m.TemplateID]; seen {
			if result.RelevanceScore > results[i].RelevanceScore {
				results[i] = result
			}
			continue
		}
		best[m.TemplateID] = len(results)
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	if len(results) > req.Limit {
		results = results[:req.Limit]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// Score rates how well name matches query, case-insensitively:
// 1.0 for an exact match, (0.5, 0.9) for a prefix and (0.1, 0.5) for a
// substring, higher for names closer in length to the query. Names not
// containing query score 0.
func Score(query, name string) float64 {
	q := strings.ToLower(query)
	n := strings.ToLower(name)
	if q == "" || n == "" {
		return 0
	}

	ratio := float64(len(q)) / float64(len(n))
	switch {
	case q == n:
		return 1
	case strings.HasPrefix(n, q):
		return 0.5 + 0.4*ratio
	case strings.Contains(n, q):
		return 0.1 + 0.4*ratio
	default:
		return 0
	}
}

// validateRequest ensures search request is valid
func validateRequest(req *SearchRequest) error {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}

	for _, k := range req.Kinds {
		switch k {
		case types.RefBundle, types.RefNamespaced, types.RefPath:
		default:
			return fmt.Errorf("%w: %q", types.ErrInvalidKind, k)
		}
	}

	if req.CacheTTL == 0 {
		req.CacheTTL = defaultCacheTTL
	}

	return nil
}

// checkCache looks up cached search results
func (s *Searcher) checkCache(req SearchRequest) (*SearchResponse, bool) {
	hash := computeQueryHash(req)
	now := time.Now()

	s.cacheMu.RLock()
	entry, found := s.cache.Get(hash)
	if !found {
		s.cacheMu.RUnlock()
		return nil, false
	}

	if now.After(entry.expiresAt) {
		s.cacheMu.RUnlock()

		s.cacheMu.Lock()
		s.cache.Remove(hash)
		s.cacheMu.Unlock()
		return nil, false
	}

	response := copySearchResponse(entry.response)
	s.cacheMu.RUnlock()

	return response, true
}

// storeInCache saves a copy of response
func (s *Searcher) storeInCache(req SearchRequest, response *SearchResponse) {
	entry := &cacheEntry{
		projectID: req.ProjectID,
		response:  copySearchResponse(response),
		expiresAt: time.Now().Add(req.CacheTTL),
	}

	s.cacheMu.Lock()
	s.cache.Add(computeQueryHash(req), entry)
	s.cacheMu.Unlock()
}

// copySearchResponse creates a deep copy of a SearchResponse
func copySearchResponse(src *SearchResponse) *SearchResponse {
	if src == nil {
		return nil
	}

	dst := &SearchResponse{
		TotalResults: src.TotalResults,
		Duration:     src.Duration,
		CacheHit:     src.CacheHit,
		Results:      make([]types.SearchResult, len(src.Results)),
	}

	for i, result := range src.Results {
		dst.Results[i] = result
		// FileInfo holds only primitive fields
		if result.File != nil {
			fileCopy := *result.File
			dst.Results[i].File = &fileCopy
		}
	}

	return dst
}

// computeQueryHash computes a unique hash for a search request
func computeQueryHash(req SearchRequest) [32]byte {
	var data strings.Builder
	data.WriteString(strings.ToLower(req.Query))
	fmt.Fprintf(&data, "|%d|%d|", req.ProjectID, req.Limit)

	kinds := make([]string, len(req.Kinds))
	for i, k := range req.Kinds {
		kinds[i] = string(k)
	}
	sort.Strings(kinds)
	data.WriteString(strings.Join(kinds, ","))

	return sha256.Sum256([]byte(data.String()))
}

// InvalidateCache removes cached queries for a project, typically after it
// was reindexed
func (s *Searcher) InvalidateCache(projectID int64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	for _, key := range s.cache.Keys() {
		if entry, ok := s.cache.Peek(key); ok && entry.projectID == projectID {
			s.cache.Remove(key)
		}
	}
}

// CacheLen reports the number of cached responses
func (s *Searcher) CacheLen() int {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.cache.Len()
}
