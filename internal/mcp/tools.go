package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/twigcontext-mcp/internal/filetree"
	"github.com/dshills/twigcontext-mcp/internal/indexer"
	"github.com/dshills/twigcontext-mcp/internal/searcher"
	"github.com/dshills/twigcontext-mcp/internal/storage"
	"github.com/dshills/twigcontext-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeProjectNotFound    = -32001 // Specified path does not contain Twig templates
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeNotIndexed         = -32003 // Project not indexed
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
)

const maxReportedErrors = 5

// handleIndexTemplates handles the index_templates tool invocation
func (s *Server) handleIndexTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	root, err := projectRoot(args)
	if err != nil {
		return nil, err
	}

	if err := checkTemplates(root); err != nil {
		return nil, newMCPError(ErrorCodeProjectNotFound, "no Twig templates found", map[string]interface{}{
			"path":   root,
			"reason": err.Error(),
		})
	}

	release, ok := s.locks.TryLock(root)
	if !ok {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "indexing already in progress", map[string]interface{}{
			"path": root,
		})
	}
	defer release()

	config := &indexer.Config{
		Workers:       getIntDefault(args, "workers", 0),
		IncludeVendor: getBoolDefault(args, "include_vendor", false),
		ForceReindex:  getBoolDefault(args, "force_reindex", false),
	}

	stats, err := s.indexer.IndexProject(ctx, root, config)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if project, err := s.storage.GetProject(ctx, root); err == nil {
		s.searcher.InvalidateCache(project.ID)
	}
	s.reloadSession(ctx, root)

	response := map[string]interface{}{
		"indexed":               true,
		"templates_indexed":     stats.TemplatesIndexed,
		"templates_skipped":     stats.TemplatesSkipped,
		"templates_failed":      stats.TemplatesFailed,
		"templates_removed":     stats.TemplatesRemoved,
		"names_recorded":        stats.NamesRecorded,
		"references_recorded":   stats.ReferencesRecorded,
		"translations_recorded": stats.TranslationsRecorded,
		"parse_errors":          stats.ParseErrors,
		"config_changed":        stats.ConfigChanged,
		"duration_ms":           stats.Duration.Milliseconds(),
	}

	if errorCount := len(stats.ErrorMessages); errorCount > 0 {
		if errorCount > maxReportedErrors {
			response["errors"] = stats.ErrorMessages[:maxReportedErrors]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchTemplates handles the search_templates tool invocation
func (s *Server) handleSearchTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	root, err := projectRoot(args)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(getStringDefault(args, "query", ""))
	if query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	project, err := s.indexedProject(ctx, root)
	if err != nil {
		return nil, err
	}

	var kinds []types.ReferenceKind
	for _, k := range getStringSlice(args, "kinds") {
		kinds = append(kinds, types.ReferenceKind(k))
	}

	resp, err := s.searcher.Search(ctx, searcher.SearchRequest{
		Query:     query,
		Limit:     limit,
		ProjectID: project.ID,
		Kinds:     kinds,
		UseCache:  true,
	})
	if errors.Is(err, types.ErrInvalidKind) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid kinds", map[string]interface{}{
			"param":   "kinds",
			"reason":  err.Error(),
			"allowed": []string{string(types.RefBundle), string(types.RefNamespaced), string(types.RefPath)},
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		result := map[string]interface{}{
			"rank":            r.Rank,
			"relevance_score": r.RelevanceScore,
			"name":            r.Name,
			"kind":            r.Kind,
			"domain":          r.Domain,
		}
		if r.File != nil {
			result["file"] = map[string]interface{}{
				"path": r.File.Path,
				"size": r.File.Size,
			}
		}
		results = append(results, result)
	}

	response := map[string]interface{}{
		"query":         query,
		"results":       results,
		"total_results": resp.TotalResults,
		"duration_ms":   resp.Duration.Milliseconds(),
		"cache_hit":     resp.CacheHit,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	root, err := projectRoot(args)
	if err != nil {
		return nil, err
	}

	project, err := s.storage.GetProject(ctx, root)
	if errors.Is(err, storage.ErrNotFound) {
		response := map[string]interface{}{
			"indexed": false,
			"path":    root,
			"message": "Project not indexed. Use index_templates tool to index this project.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get project status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	status, err := s.storage.GetStatus(ctx, project.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed": true,
		"project": map[string]interface{}{
			"path":            project.RootPath,
			"index_version":   project.IndexVersion,
			"last_indexed_at": project.LastIndexedAt.Format(time.RFC3339),
		},
		"statistics": map[string]interface{}{
			"templates_count":    status.TemplatesCount,
			"names_count":        status.NamesCount,
			"references_count":   status.ReferencesCount,
			"translations_count": status.TranslationsCount,
			"parse_errors_count": status.ParseErrorsCount,
			"index_size_mb":      fmt.Sprintf("%.2f", status.IndexSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"schema_version":      status.Health.SchemaVersion,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// indexedProject loads the stored project at root
func (s *Server) indexedProject(ctx context.Context, root string) (*storage.Project, error) {
	project, err := s.storage.GetProject(ctx, root)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeNotIndexed, "project not indexed", map[string]interface{}{
			"path":    root,
			"message": "Use index_templates tool to index this project.",
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get project", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return project, nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// arguments extracts the argument object of a tool call
func arguments(request mcp.CallToolRequest) (map[string]interface{}, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

// requireString returns a mandatory, non-empty string parameter
func requireString(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key].(string)
	if !ok || val == "" {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	return val, nil
}

// projectRoot reads and validates the path parameter
func projectRoot(args map[string]interface{}) (string, error) {
	path, err := requireString(args, "path")
	if err != nil {
		return "", err
	}

	if err := validatePath(path); err != nil {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}
	return filepath.Clean(path), nil
}

// validatePath checks if a path exists and is accessible
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	// Check if directory is readable
	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// checkTemplates reports ErrNoTemplates when no Twig file lives below root
func checkTemplates(root string) error {
	found := false
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != root && filetree.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".twig") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNoTemplates
	}
	return nil
}

// relativeFile converts a file parameter to a path relative to root.
// Absolute paths must lie inside root.
func relativeFile(root, file string) (string, error) {
	if filepath.IsAbs(file) {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return "", ErrFileOutsideProject
		}
		file = rel
	}

	rel, err := filetree.Clean(filepath.ToSlash(file))
	if err != nil || rel == "." {
		return "", ErrFileOutsideProject
	}
	return rel, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts an array of strings, skipping other element types
func getStringSlice(args map[string]interface{}, key string) []string {
	switch val := args[key].(type) {
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, v := range val {
			if str, ok := v.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// Validation helpers

var (
	ErrPathRequired       = errors.New("path is required")
	ErrPathNotAbsolute    = errors.New("path must be absolute")
	ErrPathNotFound       = errors.New("path does not exist")
	ErrPathNotReadable    = errors.New("path is not readable")
	ErrNotDirectory       = errors.New("path is not a directory")
	ErrNoTemplates        = errors.New("directory does not contain Twig templates")
	ErrFileOutsideProject = errors.New("file must lie inside the project")
)
