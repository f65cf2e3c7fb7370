package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrUnsupportedFileType", ErrUnsupportedFileType},
		{"ErrEmptyExtraction", ErrEmptyExtraction},
		{"ErrIndexCreation", ErrIndexCreation},
		{"ErrDocumentNotIndexed", ErrDocumentNotIndexed},
		{"ErrIndexOutdated", ErrIndexOutdated},
		{"ErrGeneration", ErrGeneration},
		{"ErrEmptyInput", ErrEmptyInput},
		{"ErrInvalidSummaryType", ErrInvalidSummaryType},
		{"ErrProviderTimeout", ErrProviderTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrUnsupportedFileType, ErrEmptyExtraction, ErrIndexCreation,
		ErrDocumentNotIndexed, ErrIndexOutdated, ErrGeneration, ErrEmptyInput, ErrProviderTimeout,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestErrorCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"unsupported wrapped", fmt.Errorf("%w: .xls", ErrUnsupportedFileType), CodeUnsupportedFileType},
		{"empty extraction", ErrEmptyExtraction, CodeEmptyExtraction},
		{"index creation", fmt.Errorf("create index: %w", ErrIndexCreation), CodeIndexCreation},
		{"not indexed", ErrDocumentNotIndexed, CodeDocumentNotIndexed},
		{"index outdated", fmt.Errorf("search index 7: %w", ErrIndexOutdated), CodeIndexOutdated},
		{"generation", ErrGeneration, CodeGeneration},
		{"generation timeout", fmt.Errorf("%w: %w", ErrGeneration, ErrProviderTimeout), CodeTimeout},
		{"empty input", ErrEmptyInput, CodeEmptyInput},
		{"not found", ErrNotFound, CodeNotFound},
		{"unknown", errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCodeOf(tt.err))
		})
	}
}

func TestUserMessage_StablePerClass(t *testing.T) {
	assert.Equal(t, "Document not indexed. Please re-upload.", UserMessage(ErrDocumentNotIndexed))
	assert.Equal(t, "Document not indexed. Please re-upload.",
		UserMessage(fmt.Errorf("ask doc 42: %w", ErrDocumentNotIndexed)))
	assert.Equal(t, "The request timed out. Please try again.",
		UserMessage(fmt.Errorf("%w: %w", ErrGeneration, ErrProviderTimeout)))
	assert.Equal(t, "An unexpected error occurred.", UserMessage(errors.New("boom")))
	assert.Empty(t, UserMessage(nil))

	// Each class maps to a different message so clients can branch on it.
	seen := make(map[string]bool)
	for _, c := range errorClasses {
		if c.code == CodeUnavailable {
			continue
		}
		assert.False(t, seen[c.message], "duplicate message %q", c.message)
		seen[c.message] = true
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrProviderTimeout))
	assert.True(t, IsRetryable(fmt.Errorf("%w: %w", ErrGeneration, ErrProviderTimeout)))
	assert.False(t, IsRetryable(ErrGeneration))
	assert.False(t, IsRetryable(ErrDocumentNotIndexed))
	assert.False(t, IsRetryable(nil))
}
