package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lexrag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the document and index blob stores through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lexrag/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lexrag")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// IndexBlobStore returns an IndexBlobStore interface backed by this store.
func (s *Store) IndexBlobStore() driven.IndexBlobStore {
	return &blobStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `id, filename, source_path, case_id, uploaded_at,
	summary_brief, summary_detailed, summary_key_points`

// Save stores or replaces a record, including its cached summaries.
func (s *documentStore) Save(ctx context.Context, record *domain.DocumentRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			source_path = excluded.source_path,
			case_id = excluded.case_id,
			uploaded_at = excluded.uploaded_at,
			summary_brief = excluded.summary_brief,
			summary_detailed = excluded.summary_detailed,
			summary_key_points = excluded.summary_key_points
	`, record.ID, record.Filename, record.SourcePath, record.CaseID, record.UploadedAt.UTC(),
		record.Summaries[domain.SummaryBrief],
		record.Summaries[domain.SummaryDetailed],
		record.Summaries[domain.SummaryKeyPoints])
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// List returns records newest first, optionally filtered by case.
func (s *documentStore) List(ctx context.Context, caseID string) ([]domain.DocumentRecord, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	var args []any
	if caseID != "" {
		query += ` WHERE case_id = ?`
		args = append(args, caseID)
	}
	query += ` ORDER BY uploaded_at DESC, id`

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var records []domain.DocumentRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return records, nil
}

// Delete removes a record.
func (s *documentStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// SetSummary caches a summary in the column for its type.
func (s *documentStore) SetSummary(ctx context.Context, id string, summaryType domain.SummaryType, summary string) error {
	if !summaryType.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSummaryType, summaryType)
	}

	// The column name comes from a validated summary type.
	res, err := s.store.db.ExecContext(ctx,
		`UPDATE documents SET `+summaryType.CacheField()+` = ? WHERE id = ?`, summary, id)
	if err != nil {
		return fmt.Errorf("saving summary: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving summary: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClearSummaries empties every summary column of the record.
func (s *documentStore) ClearSummaries(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, `
		UPDATE documents
		SET summary_brief = '', summary_detailed = '', summary_key_points = ''
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("clearing summaries: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument scans a single document row.
func scanDocument(row rowScanner) (*domain.DocumentRecord, error) {
	var record domain.DocumentRecord
	var brief, detailed, keyPoints string

	if err := row.Scan(&record.ID, &record.Filename, &record.SourcePath, &record.CaseID,
		&record.UploadedAt, &brief, &detailed, &keyPoints); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	record.Summaries = make(map[domain.SummaryType]string)
	for t, s := range map[domain.SummaryType]string{
		domain.SummaryBrief:     brief,
		domain.SummaryDetailed:  detailed,
		domain.SummaryKeyPoints: keyPoints,
	} {
		if s != "" {
			record.Summaries[t] = s
		}
	}

	return &record, nil
}

// ==================== Index Blob Store ====================

// blobStore implements driven.IndexBlobStore.
type blobStore struct {
	store *Store
}

var _ driven.IndexBlobStore = (*blobStore)(nil)

// Get returns the blob stored under key.
func (s *blobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := s.store.db.QueryRowContext(ctx, "SELECT blob FROM index_blobs WHERE key = ?", key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading index blob: %w", err)
	}
	return blob, nil
}

// Put replaces the blob in a single statement, so readers never see a partial write.
func (s *blobStore) Put(ctx context.Context, key string, blob []byte) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO index_blobs (key, blob, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			blob = excluded.blob,
			updated_at = excluded.updated_at
	`, key, blob, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing index blob: %w", err)
	}
	return nil
}

// Delete removes the blob. Returns true if a row was removed.
func (s *blobStore) Delete(ctx context.Context, key string) (bool, error) {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM index_blobs WHERE key = ?", key)
	if err != nil {
		return false, fmt.Errorf("deleting index blob: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting index blob: %w", err)
	}
	return n > 0, nil
}

// Exists checks for the key without reading the blob.
func (s *blobStore) Exists(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.store.db.QueryRowContext(ctx, "SELECT 1 FROM index_blobs WHERE key = ?", key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking index blob: %w", err)
	}
	return true, nil
}
