package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// uploadTimeLayout prefixes stored uploads so repeated names never collide.
const uploadTimeLayout = "20060102_150405"

// DocumentService manages uploaded documents, their records and indexes.
type DocumentService struct {
	extractors driven.ExtractorRegistry
	docs       driven.DocumentStore
	ingest     driving.IngestService
	indexes    *IndexStore
	uploadDir  string
	now        func() time.Time
	newID      func() string
}

// NewDocumentService creates a document service that stores uploads in uploadDir.
func NewDocumentService(
	extractors driven.ExtractorRegistry,
	docs driven.DocumentStore,
	ingest driving.IngestService,
	indexes *IndexStore,
	uploadDir string,
) *DocumentService {
	return &DocumentService{
		extractors: extractors,
		docs:       docs,
		ingest:     ingest,
		indexes:    indexes,
		uploadDir:  uploadDir,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Upload stores a copy of srcPath, records it and indexes it. On any
// failure after the copy, the stored file and the record are removed.
func (s *DocumentService) Upload(ctx context.Context, srcPath, filename, caseID string) (*domain.DocumentRecord, error) {
	if filename == "" {
		filename = filepath.Base(srcPath)
	}
	filename = filepath.Base(filename)

	ext := domain.FileExtension(filename)
	if !s.extractors.Supports(ext) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}

	id := s.newID()
	now := s.now()
	prefix := now.Format(uploadTimeLayout)
	stored, err := s.store(srcPath, prefix+"_"+filename)
	if errors.Is(err, os.ErrExist) {
		// Same name uploaded within the same second.
		stored, err = s.store(srcPath, prefix+"_"+shortID(id)+"_"+filename)
	}
	if err != nil {
		return nil, err
	}

	record := &domain.DocumentRecord{
		ID:         id,
		Filename:   filename,
		SourcePath: stored,
		CaseID:     caseID,
		UploadedAt: now.UTC(),
	}
	if err := s.docs.Save(ctx, record); err != nil {
		removeFile(stored)
		return nil, fmt.Errorf("save record: %w", err)
	}

	logger.Info("Uploaded %s as document %s", filename, record.ID)

	if _, err := s.ingest.IndexDocument(ctx, stored, record.ID, caseID); err != nil {
		logger.Warn("Indexing %s failed, rolling back upload: %v", record.ID, err)
		if delErr := s.docs.Delete(ctx, record.ID); delErr != nil {
			logger.Warn("Failed to remove record %s: %v", record.ID, delErr)
		}
		removeFile(stored)
		return nil, err
	}

	return record, nil
}

// Get returns a document record.
func (s *DocumentService) Get(ctx context.Context, docID string) (*domain.DocumentRecord, error) {
	return s.docs.Get(ctx, docID)
}

// List returns records newest first, optionally limited to caseID.
func (s *DocumentService) List(ctx context.Context, caseID string) ([]domain.DocumentRecord, error) {
	return s.docs.List(ctx, caseID)
}

// Delete removes the stored file, the index and the record of docID.
func (s *DocumentService) Delete(ctx context.Context, docID string) error {
	record, err := s.docs.Get(ctx, docID)
	if err != nil {
		return err
	}

	if _, err := s.indexes.Delete(ctx, docID); err != nil {
		return err
	}
	if record.SourcePath != "" {
		removeFile(record.SourcePath)
	}
	if err := s.docs.Delete(ctx, docID); err != nil {
		return fmt.Errorf("delete record %s: %w", docID, err)
	}

	logger.Info("Deleted document %s", docID)
	return nil
}

// store copies srcPath into the upload directory under name.
func (s *DocumentService) store(srcPath, name string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0700); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst := filepath.Join(s.uploadDir, name)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("create stored file: %w", err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		removeFile(dst)
		return "", fmt.Errorf("copy upload: %w", err)
	}
	if err := out.Close(); err != nil {
		removeFile(dst)
		return "", fmt.Errorf("close stored file: %w", err)
	}
	return dst, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to remove %s: %v", path, err)
	}
}

// SupportedExtensions lists the file extensions accepted by Upload.
func (s *DocumentService) SupportedExtensions() string {
	return strings.Join(s.extractors.Extensions(), ", ")
}

// Supports reports whether Upload accepts filename.
func (s *DocumentService) Supports(filename string) bool {
	return s.extractors.Supports(domain.FileExtension(filename))
}
