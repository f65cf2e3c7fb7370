// Package memory provides in-memory implementations of the storage ports.
// They back the memory index and metadata backends and the service tests.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu      sync.RWMutex
	records map[string]domain.DocumentRecord
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		records: make(map[string]domain.DocumentRecord),
	}
}

// Save stores or replaces a record.
func (s *DocumentStore) Save(_ context.Context, record *domain.DocumentRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = copyRecord(*record)
	return nil
}

// Get retrieves a record by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	record = copyRecord(record)
	return &record, nil
}

// List returns records newest first, optionally filtered by case.
func (s *DocumentStore) List(_ context.Context, caseID string) ([]domain.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []domain.DocumentRecord
	for _, r := range s.records {
		if caseID != "" && r.CaseID != caseID {
			continue
		}
		records = append(records, copyRecord(r))
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].UploadedAt.Equal(records[j].UploadedAt) {
			return records[i].UploadedAt.After(records[j].UploadedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Delete removes a record.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// SetSummary caches a summary on the record.
func (s *DocumentStore) SetSummary(_ context.Context, id string, summaryType domain.SummaryType, summary string) error {
	if !summaryType.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSummaryType, summaryType)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if record.Summaries == nil {
		record.Summaries = make(map[domain.SummaryType]string)
	}
	record.Summaries[summaryType] = summary
	s.records[id] = record
	return nil
}

// ClearSummaries drops every cached summary of the record.
func (s *DocumentStore) ClearSummaries(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return nil
	}
	record.Summaries = nil
	s.records[id] = record
	return nil
}

// copyRecord detaches the summary map so callers cannot mutate stored state.
func copyRecord(r domain.DocumentRecord) domain.DocumentRecord {
	r.Summaries = maps.Clone(r.Summaries)
	return r
}
