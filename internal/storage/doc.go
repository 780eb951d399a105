// Package storage provides SQLite-based persistence for the template index.
//
// The storage layer manages:
//   - Project metadata
//   - Template files and their content hashes
//   - The names each template can be referenced by
//   - References between templates (extends, include, embed, ...)
//   - Translation keys and their resolved domains
//
// # Database Schema
//
// Tables:
//   - projects: Project metadata (root path, template count, config fingerprint)
//   - templates: File paths, SHA-256 hashes, parse errors, default domain
//   - template_names: Bundle, namespaced and path names per template
//   - template_references: Normalized template names used by a template
//   - translations: Translation keys with their domain
//
// Child tables cascade on template deletion.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.twigcontext/index.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	tpl := &storage.Template{
//	    ProjectID:   project.ID,
//	    FilePath:    "templates/base.html.twig",
//	    ContentHash: sha256.Sum256(content),
//	}
//	err = db.UpsertTemplate(ctx, tpl)
//
// # Transactions
//
// The indexer writes one batch of templates per transaction:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	_ = tx.UpsertTemplate(ctx, tpl)
//	_ = tx.UpsertTemplateName(ctx, &storage.TemplateName{TemplateID: tpl.ID, Name: "base.html.twig"})
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// The database allows a single open connection, so code holding a Tx must
// not call the SQLiteStorage methods directly until it commits or rolls back.
//
// # Build Modes
//
// The default build uses modernc.org/sqlite and needs no C compiler.
// Building with -tags sqlite_cgo switches to github.com/mattn/go-sqlite3.
//
// # Migrations
//
// Schema versions are semver strings applied in order by ApplyMigrations
// when the storage is opened. RollbackMigration reverts the latest one.
package storage
