package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	result   *domain.AskResult
	err      error
	question string
	docIDs   []string
}

func (m *mockQueryService) Ask(_ context.Context, question, docID string) (*domain.AskResult, error) {
	m.question = question
	m.docIDs = []string{docID}
	return m.result, m.err
}

func (m *mockQueryService) AskMany(_ context.Context, question string, docIDs []string) (*domain.AskResult, error) {
	m.question = question
	m.docIDs = docIDs
	return m.result, m.err
}

// mockSummaryService is a mock implementation of driving.SummaryService.
type mockSummaryService struct {
	err    error
	docIDs []string
	typ    domain.SummaryType
}

func (m *mockSummaryService) Summarize(
	_ context.Context, docID string, t domain.SummaryType,
) (*domain.SummaryResult, error) {
	return m.SummarizeMany(context.Background(), []string{docID}, t)
}

func (m *mockSummaryService) SummarizeMany(
	_ context.Context, docIDs []string, t domain.SummaryType,
) (*domain.SummaryResult, error) {
	m.docIDs = docIDs
	m.typ = t
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SummaryResult{DocIDs: docIDs, Type: t, Summary: "The court dismissed the appeal.", Cached: len(docIDs) == 1}, nil
}

func (m *mockSummaryService) Invalidate(_ context.Context, _ string) error {
	return nil
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	indexed map[string]bool
	err     error
}

func (m *mockIndexService) Exists(_ context.Context, docID string) (bool, error) {
	return m.indexed[docID], m.err
}

func (m *mockIndexService) Delete(_ context.Context, docID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	existed := m.indexed[docID]
	delete(m.indexed, docID)
	return existed, nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.DocumentRecord
	caseID    string
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, _, _, _ string) (*domain.DocumentRecord, error) {
	return nil, m.err
}

func (m *mockDocumentService) Get(_ context.Context, docID string) (*domain.DocumentRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.documents {
		if m.documents[i].ID == docID {
			return &m.documents[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(_ context.Context, caseID string) ([]domain.DocumentRecord, error) {
	m.caseID = caseID
	return m.documents, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Supports(_ string) bool {
	return true
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	s, err := NewServer(ports)
	require.NoError(t, err)
	return s
}
