package types

// SearchResult represents a single template search result with relevance information
type SearchResult struct {
	// Identification
	TemplateID int64
	Rank       int // Position in result set (1-based)

	// Scoring
	RelevanceScore float64 // 1.0 exact, lower for prefix and substring matches

	// Metadata
	Name   string        // Matched template name
	Kind   ReferenceKind // Convention the name uses
	File   *FileInfo
	Domain string // File-level trans_default_domain, if any
}

// FileInfo contains file metadata for a search result
type FileInfo struct {
	Path string // Relative to project root
	Size int64
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.Rank < 1 {
		return ErrInvalidRank
	}

	if sr.RelevanceScore < 0 || sr.RelevanceScore > 1 {
		return ErrInvalidRelevanceScore
	}

	if sr.Name == "" {
		return ErrMissingTemplateName
	}

	if sr.File == nil || sr.File.Path == "" {
		return ErrMissingFilePath
	}

	return nil
}
