package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentRecord is the metadata kept for an uploaded document.
// The record is the home of the summary cache.
type DocumentRecord struct {
	// ID is the opaque document identifier assigned at upload.
	ID string

	// Filename is the name the document was uploaded under.
	Filename string

	// SourcePath is where the uploaded file is stored locally.
	SourcePath string

	// CaseID optionally groups documents belonging to one case.
	CaseID string

	// UploadedAt is when the document was uploaded.
	UploadedAt time.Time

	// Summaries holds cached summaries keyed by type.
	Summaries map[SummaryType]string
}

// Extension returns the lower-case file extension of the record's filename.
func (r *DocumentRecord) Extension() string {
	return FileExtension(r.Filename)
}

// Summary returns the cached summary for t, if a non-empty one exists.
func (r *DocumentRecord) Summary(t SummaryType) (string, bool) {
	if r.Summaries == nil {
		return "", false
	}
	s, ok := r.Summaries[t]
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// FileExtension returns the lower-case extension of path including the dot.
func FileExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// TextBlock is a run of extracted text with its provenance.
type TextBlock struct {
	// Text is the extracted plain text.
	Text string

	// Source describes where the text came from (page, format, path).
	Source map[string]string
}
