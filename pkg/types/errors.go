package types

import "errors"

// Domain errors for type validation
var (
	// Template reference errors
	ErrEmptyReference   = errors.New("template reference cannot be empty")
	ErrInvalidReference = errors.New("invalid template reference")
	ErrInvalidKind      = errors.New("invalid reference kind")
	ErrMissingNamespace = errors.New("namespaced reference requires a namespace")
	ErrMissingFileName  = errors.New("template reference requires a file name")
	ErrParentTraversal  = errors.New("template reference must not contain '..' segments")

	// Search result errors
	ErrInvalidRank           = errors.New("rank must be >= 1")
	ErrInvalidRelevanceScore = errors.New("relevance score must be between 0 and 1")
	ErrMissingTemplateName   = errors.New("template name is required")
	ErrMissingFilePath       = errors.New("file path is required")
)
