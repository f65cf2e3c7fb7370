package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Ingestion Errors.

	// ErrUnsupportedFileType indicates the file extension has no extractor.
	// Wrapped errors name the rejected extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrEmptyExtraction indicates a document produced no passages.
	ErrEmptyExtraction = errors.New("no extractable text")

	// ErrIndexCreation indicates embedding or persistence of an index failed.
	// No loadable index is left behind when this is returned.
	ErrIndexCreation = errors.New("index creation failed")

	// Query Errors.

	// ErrDocumentNotIndexed indicates a query or summary against a document without an index.
	// This is client-correctable: the document must be re-uploaded.
	ErrDocumentNotIndexed = errors.New("document not indexed")

	// ErrIndexOutdated indicates an index whose vectors do not match the
	// configured embedding model. The document must be re-indexed.
	ErrIndexOutdated = errors.New("index built with a different embedding model")

	// ErrGeneration indicates the generation provider failed.
	ErrGeneration = errors.New("generation failed")

	// ErrEmptyInput indicates a combined operation received no document ids.
	ErrEmptyInput = errors.New("no document ids provided")

	// ErrInvalidSummaryType indicates a summary type outside brief, detailed and key_points.
	ErrInvalidSummaryType = errors.New("invalid summary type")

	// ErrProviderTimeout indicates an embedding or generation provider did not answer in time.
	// It is the only retryable error class.
	ErrProviderTimeout = errors.New("provider timed out")
)

// ErrorCode identifies an error class with a stable machine-readable value.
type ErrorCode string

// Stable error codes, one per error class.
const (
	CodeUnsupportedFileType ErrorCode = "unsupported_file_type"
	CodeEmptyExtraction     ErrorCode = "empty_extraction"
	CodeIndexCreation       ErrorCode = "index_creation_failed"
	CodeDocumentNotIndexed  ErrorCode = "document_not_indexed"
	CodeIndexOutdated       ErrorCode = "index_outdated"
	CodeGeneration          ErrorCode = "generation_failed"
	CodeEmptyInput          ErrorCode = "empty_input"
	CodeInvalidSummaryType  ErrorCode = "invalid_summary_type"
	CodeTimeout             ErrorCode = "provider_timeout"
	CodeNotFound            ErrorCode = "not_found"
	CodeInvalidInput        ErrorCode = "invalid_input"
	CodeUnavailable         ErrorCode = "service_unavailable"
	CodeInternal            ErrorCode = "internal"
)

// errorClass pairs a sentinel with its code and user-facing message.
// Order matters: the first match wins, so timeouts are checked before
// the generation class they are usually wrapped with.
type errorClass struct {
	err     error
	code    ErrorCode
	message string
}

var errorClasses = []errorClass{
	{ErrProviderTimeout, CodeTimeout, "The request timed out. Please try again."},
	{ErrUnsupportedFileType, CodeUnsupportedFileType, "Unsupported file type. Allowed: .pdf, .docx, .doc, .txt, .md, .html"},
	{ErrEmptyExtraction, CodeEmptyExtraction, "No text could be extracted from the document."},
	{ErrIndexCreation, CodeIndexCreation, "Failed to index document. Please try uploading it again."},
	{ErrDocumentNotIndexed, CodeDocumentNotIndexed, "Document not indexed. Please re-upload."},
	{ErrIndexOutdated, CodeIndexOutdated, "The document was indexed with a different embedding model. Please re-index it."},
	{ErrGeneration, CodeGeneration, "The answer service is unavailable. Please try again later."},
	{ErrEmptyInput, CodeEmptyInput, "Select at least one document."},
	{ErrInvalidSummaryType, CodeInvalidSummaryType, "Summary type must be one of: brief, detailed, key_points."},
	{ErrNotFound, CodeNotFound, "Document not found."},
	{ErrInvalidInput, CodeInvalidInput, "The request is invalid."},
	{ErrLLMUnavailable, CodeUnavailable, "No language model is configured."},
	{ErrEmbeddingUnavailable, CodeUnavailable, "No embedding model is configured."},
}

// ErrorCodeOf returns the stable code for err, or CodeInternal when err
// belongs to no known class. A nil error has an empty code.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// UserMessage returns the stable user-facing message for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return c.message
		}
	}
	return "An unexpected error occurred."
}

// IsRetryable reports whether the operation that produced err may succeed if repeated.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrProviderTimeout)
}
