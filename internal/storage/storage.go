package storage

import (
	"context"
	"time"
)

// Storage defines the interface for persisting and querying the template index
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, rootPath string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// Template operations
	UpsertTemplate(ctx context.Context, template *Template) error
	GetTemplate(ctx context.Context, projectID int64, filePath string) (*Template, error)
	GetTemplateByID(ctx context.Context, templateID int64) (*Template, error)
	DeleteTemplate(ctx context.Context, templateID int64) error
	ListTemplates(ctx context.Context, projectID int64) ([]*Template, error)

	// Template name operations
	UpsertTemplateName(ctx context.Context, name *TemplateName) error
	ListTemplateNames(ctx context.Context, templateID int64) ([]*TemplateName, error)
	DeleteTemplateNamesByTemplate(ctx context.Context, templateID int64) error
	SearchTemplateNames(ctx context.Context, projectID int64, query string, limit int) ([]NameMatch, error)

	// Reference operations
	InsertReference(ctx context.Context, ref *Reference) error
	ListReferencesByTemplate(ctx context.Context, templateID int64) ([]*Reference, error)
	ListReferencesByTarget(ctx context.Context, projectID int64, target string) ([]ReferenceMatch, error)
	DeleteReferencesByTemplate(ctx context.Context, templateID int64) error

	// Translation operations
	InsertTranslation(ctx context.Context, tr *Translation) error
	ListTranslationsByKey(ctx context.Context, projectID int64, key string) ([]TranslationMatch, error)
	DeleteTranslationsByTemplate(ctx context.Context, templateID int64) error

	// Status operations
	GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Project represents an indexed Symfony project
type Project struct {
	ID             int64
	RootPath       string
	TotalTemplates int
	IndexVersion   string
	ConfigHash     []byte // Template path configuration the names were derived from
	LastIndexedAt  time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Template represents a tracked Twig file
type Template struct {
	ID            int64
	ProjectID     int64
	FilePath      string // Relative to project root
	ContentHash   [32]byte
	ModTime       time.Time
	SizeBytes     int64
	ParseError    *string // Nullable
	DefaultDomain string  // File level trans_default_domain, empty if none
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TemplateName is one name a template can be referenced by
type TemplateName struct {
	ID         int64
	TemplateID int64
	Name       string
	Kind       string // bundle, namespaced or path
	Priority   int    // 0 is the preferred name
}

// Reference is a template name used inside another template
type Reference struct {
	ID         int64
	TemplateID int64
	Tag        string // extends, include, embed, import, from, use or function name
	Target     string // Normalized template name
	Line       int
}

// Translation is a translation key used in a template
type Translation struct {
	ID         int64
	TemplateID int64
	Key        string
	Domain     string
	Line       int
}

// NameMatch is a template name found by SearchTemplateNames
type NameMatch struct {
	TemplateID    int64
	Name          string
	Kind          string
	Priority      int
	FilePath      string
	SizeBytes     int64
	DefaultDomain string
}

// ReferenceMatch is a reference together with the template containing it
type ReferenceMatch struct {
	Reference
	FilePath string
}

// TranslationMatch is a translation usage together with its template
type TranslationMatch struct {
	Translation
	FilePath string
}

// ProjectStatus contains statistics about an indexed project
type ProjectStatus struct {
	Project           *Project
	TemplatesCount    int
	NamesCount        int
	ReferencesCount   int
	TranslationsCount int
	ParseErrorsCount  int
	IndexSizeMB       float64
	LastIndexedAt     time.Time
	Health            HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible bool
	SchemaVersion      string
}
