package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/twigcontext-mcp/internal/filetree"
	"github.com/dshills/twigcontext-mcp/internal/indexer"
	"github.com/dshills/twigcontext-mcp/internal/resolver"
	"github.com/dshills/twigcontext-mcp/internal/searcher"
	"github.com/dshills/twigcontext-mcp/internal/session"
	"github.com/dshills/twigcontext-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "twigcontext-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.twigcontext"

	dbFileName = "twigcontext.db"

	// maxSessions bounds how many project sessions stay loaded
	maxSessions = 32
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
	logger   *slog.Logger

	sessionsMu sync.Mutex
	sessions   *lru.Cache[string, *resolver.Resolver]

	locks indexer.ProjectLocks
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger handed to the indexer and project sessions
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP server instance storing its index below dbPath
func NewServer(dbPath string, opts ...Option) (*Server, error) {
	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".twigcontext")
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// One database holds every indexed project
	store, err := storage.NewSQLiteStorage(filepath.Join(dbPath, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	sessions, err := lru.New[string, *resolver.Resolver](maxSessions)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	s := &Server{
		storage:  store,
		searcher: searcher.NewSearcher(store),
		logger:   slog.Default(),
		sessions: sessions,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.indexer = indexer.New(store, indexer.WithLogger(s.logger))

	s.mcp = server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the storage
func (s *Server) Close() error {
	return s.storage.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(indexTemplatesTool(), s.handleIndexTemplates)
	s.mcp.AddTool(resolveTemplateTool(), s.handleResolveTemplate)
	s.mcp.AddTool(templateNameByOverwriteTool(), s.handleTemplateNameByOverwrite)
	s.mcp.AddTool(createTemplatePathsTool(), s.handleCreateTemplatePaths)
	s.mcp.AddTool(translationDomainTool(), s.handleTranslationDomain)
	s.mcp.AddTool(validateTemplateStringTool(), s.handleValidateTemplateString)
	s.mcp.AddTool(searchTemplatesTool(), s.handleSearchTemplates)
	s.mcp.AddTool(findTemplateUsagesTool(), s.handleFindTemplateUsages)
	s.mcp.AddTool(findTranslationUsagesTool(), s.handleFindTranslationUsages)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}

// resolverFor returns the resolver of the project at root, loading its
// session on first use
func (s *Server) resolverFor(ctx context.Context, root string) (*resolver.Resolver, error) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	if res, ok := s.sessions.Get(root); ok {
		return res, nil
	}

	sess := session.New(filetree.NewOS(root), session.WithLogger(s.logger))
	if err := sess.Load(ctx); err != nil {
		return nil, fmt.Errorf("load project %s: %w", root, err)
	}

	res := resolver.New(sess)
	s.sessions.Add(root, res)
	return res, nil
}

// reloadSession rereads the configuration of a loaded project. Projects
// that were never queried are left alone.
func (s *Server) reloadSession(ctx context.Context, root string) {
	s.sessionsMu.Lock()
	res, ok := s.sessions.Peek(root)
	s.sessionsMu.Unlock()
	if !ok {
		return
	}

	if err := res.Session().Load(ctx); err != nil {
		s.logger.Warn("project reload failed", "root", root, "error", err)
		res.Session().Invalidate()
	}
}
