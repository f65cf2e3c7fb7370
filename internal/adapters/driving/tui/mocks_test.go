package tui

import (
	"context"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	Documents []domain.DocumentRecord
}

func (m *MockDocumentService) Upload(_ context.Context, _, _, _ string) (*domain.DocumentRecord, error) {
	return nil, domain.ErrUnsupportedFileType
}

func (m *MockDocumentService) Get(_ context.Context, docID string) (*domain.DocumentRecord, error) {
	for i := range m.Documents {
		if m.Documents[i].ID == docID {
			return &m.Documents[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockDocumentService) List(_ context.Context, _ string) ([]domain.DocumentRecord, error) {
	return m.Documents, nil
}

func (m *MockDocumentService) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *MockDocumentService) Supports(_ string) bool {
	return true
}

// MockQueryService implements driving.QueryService for testing.
type MockQueryService struct {
	Err error
}

func (m *MockQueryService) Ask(_ context.Context, _, docID string) (*domain.AskResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.AskResult{Answer: "answer", Sources: map[string]int{docID: 4}}, nil
}

func (m *MockQueryService) AskMany(_ context.Context, _ string, docIDs []string) (*domain.AskResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.AskResult{Answer: "answer", PrimaryDocID: docIDs[0]}, nil
}

// MockSummaryService implements driving.SummaryService for testing.
type MockSummaryService struct{}

func (m *MockSummaryService) Summarize(
	_ context.Context, docID string, t domain.SummaryType,
) (*domain.SummaryResult, error) {
	return &domain.SummaryResult{DocIDs: []string{docID}, Type: t, Summary: "summary"}, nil
}

func (m *MockSummaryService) SummarizeMany(
	_ context.Context, docIDs []string, t domain.SummaryType,
) (*domain.SummaryResult, error) {
	return &domain.SummaryResult{DocIDs: docIDs, Type: t, Summary: "summary"}, nil
}

func (m *MockSummaryService) Invalidate(_ context.Context, _ string) error {
	return nil
}

func testPorts() *Ports {
	return &Ports{
		Document: &MockDocumentService{Documents: []domain.DocumentRecord{
			{ID: "doc-1", Filename: "judgment.pdf"},
			{ID: "doc-2", Filename: "appeal.docx"},
		}},
		Query:   &MockQueryService{},
		Summary: &MockSummaryService{},
	}
}
