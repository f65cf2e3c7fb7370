package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

func fixedClock(s *DocumentService, at time.Time) {
	s.now = func() time.Time { return at }
}

func uploadedFiles(t *testing.T, s *DocumentService) []string {
	t.Helper()
	entries, err := os.ReadDir(s.uploadDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	fixedClock(s.documents, time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC))
	s.documents.newID = func() string { return "doc-1" }
	src := writeFile(t, "ruling.txt", contractText)

	record, err := s.documents.Upload(ctx, src, "", "case-4")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", record.ID)
	assert.Equal(t, "ruling.txt", record.Filename)
	assert.Equal(t, "case-4", record.CaseID)
	assert.Equal(t, filepath.Join(s.documents.uploadDir, "20240305_140709_ruling.txt"), record.SourcePath)
	assert.FileExists(t, record.SourcePath)

	stored, err := s.docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, record.SourcePath, stored.SourcePath)

	exists, err := s.indexes.Exists(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDocumentService_Upload_SameNameSameSecond(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	fixedClock(s.documents, time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC))
	src := writeFile(t, "ruling.txt", contractText)

	first, err := s.documents.Upload(ctx, src, "ruling.txt", "")
	require.NoError(t, err)
	second, err := s.documents.Upload(ctx, src, "ruling.txt", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.SourcePath, second.SourcePath)
	assert.Len(t, uploadedFiles(t, s.documents), 2)
}

func TestDocumentService_Upload_UnsupportedWritesNothing(t *testing.T) {
	s := newTestStack(t)
	src := writeFile(t, "sheet.xlsx", "a,b,c")

	_, err := s.documents.Upload(context.Background(), src, "sheet.xlsx", "")

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	assert.Empty(t, uploadedFiles(t, s.documents))
	records, err := s.docs.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDocumentService_Upload_RollsBackOnIndexFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	src := writeFile(t, "blank.txt", "   \n\n  ")

	_, err := s.documents.Upload(ctx, src, "blank.txt", "")

	assert.ErrorIs(t, err, domain.ErrEmptyExtraction)
	assert.Empty(t, uploadedFiles(t, s.documents))
	records, err := s.docs.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDocumentService_Upload_MissingSource(t *testing.T) {
	s := newTestStack(t)

	_, err := s.documents.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), "", "")

	assert.Error(t, err)
}

func TestDocumentService_ListAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	src := writeFile(t, "a.txt", contractText)

	fixedClock(s.documents, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	older, err := s.documents.Upload(ctx, src, "a.txt", "c1")
	require.NoError(t, err)
	fixedClock(s.documents, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	newer, err := s.documents.Upload(ctx, src, "b.txt", "c1")
	require.NoError(t, err)
	_, err = s.documents.Upload(ctx, src, "c.txt", "c2")
	require.NoError(t, err)

	list, err := s.documents.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	got, err := s.documents.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.Filename)
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t)
	record, err := s.documents.Upload(ctx, writeFile(t, "a.txt", contractText), "", "")
	require.NoError(t, err)

	require.NoError(t, s.documents.Delete(ctx, record.ID))

	assert.NoFileExists(t, record.SourcePath)
	exists, err := s.indexes.Exists(ctx, record.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	_, err = s.docs.Get(ctx, record.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.documents.Delete(ctx, record.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_SupportedExtensions(t *testing.T) {
	s := newTestStack(t)

	exts := s.documents.SupportedExtensions()

	for _, ext := range []string{".pdf", ".docx", ".doc", ".txt", ".md", ".html"} {
		assert.Contains(t, exts, ext)
	}
}

func TestDocumentService_Supports(t *testing.T) {
	s := newTestStack(t)

	assert.True(t, s.documents.Supports("ruling.PDF"))
	assert.True(t, s.documents.Supports("notes.md"))
	assert.False(t, s.documents.Supports("sheet.xlsx"))
	assert.False(t, s.documents.Supports("README"))
}
