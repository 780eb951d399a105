package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// WAL lets searches read while the indexer writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) querier() querier {
	return t.tx
}

func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Project operations

const projectColumns = `id, root_path, total_templates, index_version, config_hash, last_indexed_at, created_at, updated_at`

func scanProject(row rowScanner) (*Project, error) {
	var project Project
	var lastIndexedAt sql.NullTime
	err := row.Scan(
		&project.ID, &project.RootPath, &project.TotalTemplates, &project.IndexVersion,
		&project.ConfigHash, &lastIndexedAt, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		project.LastIndexedAt = lastIndexedAt.Time
	}
	return &project, nil
}

func (s *SQLiteStorage) createProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		INSERT INTO projects (root_path, index_version, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query, project.RootPath, project.IndexVersion, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("project %s: %w", project.RootPath, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateProject(ctx context.Context, project *Project) error {
	return s.createProjectWithQuerier(ctx, s.querier(), project)
}

func (s *SQLiteStorage) getProjectWithQuerier(ctx context.Context, q querier, rootPath string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE root_path = ?`
	return scanProject(q.QueryRowContext(ctx, query, rootPath))
}

func (s *SQLiteStorage) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return s.getProjectWithQuerier(ctx, s.querier(), rootPath)
}

func (s *SQLiteStorage) getProjectByIDWithQuerier(ctx context.Context, q querier, projectID int64) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return scanProject(q.QueryRowContext(ctx, query, projectID))
}

func (s *SQLiteStorage) updateProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		UPDATE projects
		SET total_templates = ?, index_version = ?, config_hash = ?, last_indexed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		project.TotalTemplates, project.IndexVersion, project.ConfigHash, project.LastIndexedAt, now, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateProject(ctx context.Context, project *Project) error {
	return s.updateProjectWithQuerier(ctx, s.querier(), project)
}

// Template operations

const templateColumns = `id, project_id, file_path, content_hash, mod_time, size_bytes,
	parse_error, default_domain, last_indexed_at, created_at, updated_at`

func scanTemplate(row rowScanner) (*Template, error) {
	var tpl Template
	var hash []byte
	var parseError sql.NullString
	var lastIndexedAt sql.NullTime
	err := row.Scan(
		&tpl.ID, &tpl.ProjectID, &tpl.FilePath, &hash, &tpl.ModTime, &tpl.SizeBytes,
		&parseError, &tpl.DefaultDomain, &lastIndexedAt, &tpl.CreatedAt, &tpl.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	copy(tpl.ContentHash[:], hash)
	if parseError.Valid {
		tpl.ParseError = &parseError.String
	}
	if lastIndexedAt.Valid {
		tpl.LastIndexedAt = lastIndexedAt.Time
	}
	return &tpl, nil
}

func (s *SQLiteStorage) upsertTemplateWithQuerier(ctx context.Context, q querier, tpl *Template) error {
	query := `
		INSERT INTO templates (project_id, file_path, content_hash, mod_time, size_bytes,
			parse_error, default_domain, last_indexed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, file_path) DO UPDATE SET
			content_hash = excluded.content_hash,
			mod_time = excluded.mod_time,
			size_bytes = excluded.size_bytes,
			parse_error = excluded.parse_error,
			default_domain = excluded.default_domain,
			last_indexed_at = excluded.last_indexed_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		tpl.ProjectID, tpl.FilePath, tpl.ContentHash[:], tpl.ModTime, tpl.SizeBytes,
		tpl.ParseError, tpl.DefaultDomain, now, now, now).Scan(&tpl.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert template: %w", err)
	}

	tpl.LastIndexedAt = now
	tpl.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertTemplate(ctx context.Context, tpl *Template) error {
	return s.upsertTemplateWithQuerier(ctx, s.querier(), tpl)
}

func (s *SQLiteStorage) getTemplateWithQuerier(ctx context.Context, q querier, projectID int64, filePath string) (*Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE project_id = ? AND file_path = ?`
	return scanTemplate(q.QueryRowContext(ctx, query, projectID, filePath))
}

func (s *SQLiteStorage) GetTemplate(ctx context.Context, projectID int64, filePath string) (*Template, error) {
	return s.getTemplateWithQuerier(ctx, s.querier(), projectID, filePath)
}

func (s *SQLiteStorage) getTemplateByIDWithQuerier(ctx context.Context, q querier, templateID int64) (*Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = ?`
	return scanTemplate(q.QueryRowContext(ctx, query, templateID))
}

func (s *SQLiteStorage) GetTemplateByID(ctx context.Context, templateID int64) (*Template, error) {
	return s.getTemplateByIDWithQuerier(ctx, s.querier(), templateID)
}

// deleteTemplateWithQuerier removes a template; names, references and
// translations go with it through ON DELETE CASCADE
func (s *SQLiteStorage) deleteTemplateWithQuerier(ctx context.Context, q querier, templateID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, templateID)
	return err
}

func (s *SQLiteStorage) DeleteTemplate(ctx context.Context, templateID int64) error {
	return s.deleteTemplateWithQuerier(ctx, s.querier(), templateID)
}

func (s *SQLiteStorage) listTemplatesWithQuerier(ctx context.Context, q querier, projectID int64) ([]*Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE project_id = ? ORDER BY file_path`
	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	templates := make([]*Template, 0)
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func (s *SQLiteStorage) ListTemplates(ctx context.Context, projectID int64) ([]*Template, error) {
	return s.listTemplatesWithQuerier(ctx, s.querier(), projectID)
}

// Template name operations

func (s *SQLiteStorage) upsertTemplateNameWithQuerier(ctx context.Context, q querier, name *TemplateName) error {
	query := `
		INSERT INTO template_names (template_id, name, kind, priority)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(template_id, name) DO UPDATE SET
			kind = excluded.kind,
			priority = excluded.priority
		RETURNING id
	`
	err := q.QueryRowContext(ctx, query, name.TemplateID, name.Name, name.Kind, name.Priority).Scan(&name.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert template name: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpsertTemplateName(ctx context.Context, name *TemplateName) error {
	return s.upsertTemplateNameWithQuerier(ctx, s.querier(), name)
}

func (s *SQLiteStorage) listTemplateNamesWithQuerier(ctx context.Context, q querier, templateID int64) ([]*TemplateName, error) {
	query := `
		SELECT id, template_id, name, kind, priority
		FROM template_names
		WHERE template_id = ?
		ORDER BY priority, name
	`
	rows, err := q.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	names := make([]*TemplateName, 0)
	for rows.Next() {
		var name TemplateName
		if err := rows.Scan(&name.ID, &name.TemplateID, &name.Name, &name.Kind, &name.Priority); err != nil {
			return nil, err
		}
		names = append(names, &name)
	}
	return names, rows.Err()
}

func (s *SQLiteStorage) ListTemplateNames(ctx context.Context, templateID int64) ([]*TemplateName, error) {
	return s.listTemplateNamesWithQuerier(ctx, s.querier(), templateID)
}

func (s *SQLiteStorage) deleteTemplateNamesByTemplateWithQuerier(ctx context.Context, q querier, templateID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM template_names WHERE template_id = ?`, templateID)
	return err
}

func (s *SQLiteStorage) DeleteTemplateNamesByTemplate(ctx context.Context, templateID int64) error {
	return s.deleteTemplateNamesByTemplateWithQuerier(ctx, s.querier(), templateID)
}

// escapeLike escapes LIKE wildcards so query is matched literally
func escapeLike(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(query)
}

// searchTemplateNamesWithQuerier matches names containing query and orders
// exact matches first, then prefix matches, then shorter names
func (s *SQLiteStorage) searchTemplateNamesWithQuerier(ctx context.Context, q querier, projectID int64, query string, limit int) ([]NameMatch, error) {
	if limit <= 0 {
		limit = 20
	}
	escaped := escapeLike(query)
	sqlQuery := `
		SELECT n.template_id, n.name, n.kind, n.priority, t.file_path, t.size_bytes, t.default_domain
		FROM template_names n
		JOIN templates t ON n.template_id = t.id
		WHERE t.project_id = ? AND n.name LIKE ? ESCAPE '\'
		ORDER BY
			CASE
				WHEN n.name = ? THEN 0
				WHEN n.name LIKE ? ESCAPE '\' THEN 1
				ELSE 2
			END,
			length(n.name), n.priority, n.name
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, sqlQuery, projectID, "%"+escaped+"%", query, escaped+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search template names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	matches := make([]NameMatch, 0)
	for rows.Next() {
		var m NameMatch
		if err := rows.Scan(&m.TemplateID, &m.Name, &m.Kind, &m.Priority, &m.FilePath, &m.SizeBytes, &m.DefaultDomain); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *SQLiteStorage) SearchTemplateNames(ctx context.Context, projectID int64, query string, limit int) ([]NameMatch, error) {
	return s.searchTemplateNamesWithQuerier(ctx, s.querier(), projectID, query, limit)
}

// Reference operations

func (s *SQLiteStorage) insertReferenceWithQuerier(ctx context.Context, q querier, ref *Reference) error {
	query := `
		INSERT INTO template_references (template_id, tag, target, line)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	if err := q.QueryRowContext(ctx, query, ref.TemplateID, ref.Tag, ref.Target, ref.Line).Scan(&ref.ID); err != nil {
		return fmt.Errorf("failed to insert reference: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) InsertReference(ctx context.Context, ref *Reference) error {
	return s.insertReferenceWithQuerier(ctx, s.querier(), ref)
}

func (s *SQLiteStorage) listReferencesByTemplateWithQuerier(ctx context.Context, q querier, templateID int64) ([]*Reference, error) {
	query := `
		SELECT id, template_id, tag, target, line
		FROM template_references
		WHERE template_id = ?
		ORDER BY line, id
	`
	rows, err := q.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	refs := make([]*Reference, 0)
	for rows.Next() {
		var ref Reference
		if err := rows.Scan(&ref.ID, &ref.TemplateID, &ref.Tag, &ref.Target, &ref.Line); err != nil {
			return nil, err
		}
		refs = append(refs, &ref)
	}
	return refs, rows.Err()
}

func (s *SQLiteStorage) ListReferencesByTemplate(ctx context.Context, templateID int64) ([]*Reference, error) {
	return s.listReferencesByTemplateWithQuerier(ctx, s.querier(), templateID)
}

func (s *SQLiteStorage) listReferencesByTargetWithQuerier(ctx context.Context, q querier, projectID int64, target string) ([]ReferenceMatch, error) {
	query := `
		SELECT r.id, r.template_id, r.tag, r.target, r.line, t.file_path
		FROM template_references r
		JOIN templates t ON r.template_id = t.id
		WHERE t.project_id = ? AND r.target = ?
		ORDER BY t.file_path, r.line
	`
	rows, err := q.QueryContext(ctx, query, projectID, target)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	matches := make([]ReferenceMatch, 0)
	for rows.Next() {
		var m ReferenceMatch
		if err := rows.Scan(&m.ID, &m.TemplateID, &m.Tag, &m.Target, &m.Line, &m.FilePath); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *SQLiteStorage) ListReferencesByTarget(ctx context.Context, projectID int64, target string) ([]ReferenceMatch, error) {
	return s.listReferencesByTargetWithQuerier(ctx, s.querier(), projectID, target)
}

func (s *SQLiteStorage) deleteReferencesByTemplateWithQuerier(ctx context.Context, q querier, templateID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM template_references WHERE template_id = ?`, templateID)
	return err
}

func (s *SQLiteStorage) DeleteReferencesByTemplate(ctx context.Context, templateID int64) error {
	return s.deleteReferencesByTemplateWithQuerier(ctx, s.querier(), templateID)
}

// Translation operations

func (s *SQLiteStorage) insertTranslationWithQuerier(ctx context.Context, q querier, tr *Translation) error {
	query := `
		INSERT INTO translations (template_id, trans_key, domain, line)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	if err := q.QueryRowContext(ctx, query, tr.TemplateID, tr.Key, tr.Domain, tr.Line).Scan(&tr.ID); err != nil {
		return fmt.Errorf("failed to insert translation: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) InsertTranslation(ctx context.Context, tr *Translation) error {
	return s.insertTranslationWithQuerier(ctx, s.querier(), tr)
}

func (s *SQLiteStorage) listTranslationsByKeyWithQuerier(ctx context.Context, q querier, projectID int64, key string) ([]TranslationMatch, error) {
	query := `
		SELECT tr.id, tr.template_id, tr.trans_key, tr.domain, tr.line, t.file_path
		FROM translations tr
		JOIN templates t ON tr.template_id = t.id
		WHERE t.project_id = ? AND tr.trans_key = ?
		ORDER BY t.file_path, tr.line
	`
	rows, err := q.QueryContext(ctx, query, projectID, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	matches := make([]TranslationMatch, 0)
	for rows.Next() {
		var m TranslationMatch
		if err := rows.Scan(&m.ID, &m.TemplateID, &m.Key, &m.Domain, &m.Line, &m.FilePath); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *SQLiteStorage) ListTranslationsByKey(ctx context.Context, projectID int64, key string) ([]TranslationMatch, error) {
	return s.listTranslationsByKeyWithQuerier(ctx, s.querier(), projectID, key)
}

func (s *SQLiteStorage) deleteTranslationsByTemplateWithQuerier(ctx context.Context, q querier, templateID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM translations WHERE template_id = ?`, templateID)
	return err
}

func (s *SQLiteStorage) DeleteTranslationsByTemplate(ctx context.Context, templateID int64) error {
	return s.deleteTranslationsByTemplateWithQuerier(ctx, s.querier(), templateID)
}

// Status operations

func (s *SQLiteStorage) getStatusWithQuerier(ctx context.Context, q querier, projectID int64) (*ProjectStatus, error) {
	project, err := s.getProjectByIDWithQuerier(ctx, q, projectID)
	if err != nil {
		return nil, err
	}

	status := &ProjectStatus{
		Project:       project,
		LastIndexedAt: project.LastIndexedAt,
	}

	counts := []struct {
		dest  *int
		query string
	}{
		{&status.TemplatesCount, `SELECT COUNT(*) FROM templates WHERE project_id = ?`},
		{&status.ParseErrorsCount, `SELECT COUNT(*) FROM templates WHERE project_id = ? AND parse_error IS NOT NULL`},
		{&status.NamesCount, `
			SELECT COUNT(*) FROM template_names n
			JOIN templates t ON n.template_id = t.id
			WHERE t.project_id = ?`},
		{&status.ReferencesCount, `
			SELECT COUNT(*) FROM template_references r
			JOIN templates t ON r.template_id = t.id
			WHERE t.project_id = ?`},
		{&status.TranslationsCount, `
			SELECT COUNT(*) FROM translations tr
			JOIN templates t ON tr.template_id = t.id
			WHERE t.project_id = ?`},
	}
	for _, c := range counts {
		if err := q.QueryRowContext(ctx, c.query, projectID).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	var pageCount, pageSize int
	if err := q.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		_ = q.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.IndexSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	status.Health = HealthStatus{DatabaseAccessible: true}
	_ = q.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").
		Scan(&status.Health.SchemaVersion)

	return status, nil
}

func (s *SQLiteStorage) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return s.getStatusWithQuerier(ctx, s.querier(), projectID)
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// Both drivers put the SQLite message in the error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Transaction implementations delegate to the querier helpers with the tx

func (t *sqliteTx) CreateProject(ctx context.Context, project *Project) error {
	return t.storage.createProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return t.storage.getProjectWithQuerier(ctx, t.querier(), rootPath)
}

func (t *sqliteTx) UpdateProject(ctx context.Context, project *Project) error {
	return t.storage.updateProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) UpsertTemplate(ctx context.Context, tpl *Template) error {
	return t.storage.upsertTemplateWithQuerier(ctx, t.querier(), tpl)
}

func (t *sqliteTx) GetTemplate(ctx context.Context, projectID int64, filePath string) (*Template, error) {
	return t.storage.getTemplateWithQuerier(ctx, t.querier(), projectID, filePath)
}

func (t *sqliteTx) GetTemplateByID(ctx context.Context, templateID int64) (*Template, error) {
	return t.storage.getTemplateByIDWithQuerier(ctx, t.querier(), templateID)
}

func (t *sqliteTx) DeleteTemplate(ctx context.Context, templateID int64) error {
	return t.storage.deleteTemplateWithQuerier(ctx, t.querier(), templateID)
}

func (t *sqliteTx) ListTemplates(ctx context.Context, projectID int64) ([]*Template, error) {
	return t.storage.listTemplatesWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) UpsertTemplateName(ctx context.Context, name *TemplateName) error {
	return t.storage.upsertTemplateNameWithQuerier(ctx, t.querier(), name)
}

func (t *sqliteTx) ListTemplateNames(ctx context.Context, templateID int64) ([]*TemplateName, error) {
	return t.storage.listTemplateNamesWithQuerier(ctx, t.querier(), templateID)
}

func (t *sqliteTx) DeleteTemplateNamesByTemplate(ctx context.Context, templateID int64) error {
	return t.storage.deleteTemplateNamesByTemplateWithQuerier(ctx, t.querier(), templateID)
}

func (t *sqliteTx) SearchTemplateNames(ctx context.Context, projectID int64, query string, limit int) ([]NameMatch, error) {
	return t.storage.searchTemplateNamesWithQuerier(ctx, t.querier(), projectID, query, limit)
}

func (t *sqliteTx) InsertReference(ctx context.Context, ref *Reference) error {
	return t.storage.insertReferenceWithQuerier(ctx, t.querier(), ref)
}

func (t *sqliteTx) ListReferencesByTemplate(ctx context.Context, templateID int64) ([]*Reference, error) {
	return t.storage.listReferencesByTemplateWithQuerier(ctx, t.querier(), templateID)
}

func (t *sqliteTx) ListReferencesByTarget(ctx context.Context, projectID int64, target string) ([]ReferenceMatch, error) {
	return t.storage.listReferencesByTargetWithQuerier(ctx, t.querier(), projectID, target)
}

func (t *sqliteTx) DeleteReferencesByTemplate(ctx context.Context, templateID int64) error {
	return t.storage.deleteReferencesByTemplateWithQuerier(ctx, t.querier(), templateID)
}

func (t *sqliteTx) InsertTranslation(ctx context.Context, tr *Translation) error {
	return t.storage.insertTranslationWithQuerier(ctx, t.querier(), tr)
}

func (t *sqliteTx) ListTranslationsByKey(ctx context.Context, projectID int64, key string) ([]TranslationMatch, error) {
	return t.storage.listTranslationsByKeyWithQuerier(ctx, t.querier(), projectID, key)
}

func (t *sqliteTx) DeleteTranslationsByTemplate(ctx context.Context, templateID int64) error {
	return t.storage.deleteTranslationsByTemplateWithQuerier(ctx, t.querier(), templateID)
}

func (t *sqliteTx) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return t.storage.getStatusWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite has no nested transactions
	return nil, errors.New("nested transactions not supported")
}
