package cli

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
)

// Ensure mocks implement the driving ports.
var (
	_ driving.IngestService      = (*mockIngestService)(nil)
	_ driving.QueryService       = (*mockQueryService)(nil)
	_ driving.SummaryService     = (*mockSummaryService)(nil)
	_ driving.IndexService       = (*mockIndexService)(nil)
	_ driving.DocumentService    = (*mockDocumentService)(nil)
	_ driving.CaseRankingService = (*mockCaseRankingService)(nil)
	_ driving.SettingsService    = (*mockSettingsService)(nil)
)

type mockIngestService struct {
	err   error
	calls []string
}

func (m *mockIngestService) IndexDocument(_ context.Context, path, docID, caseID string) (bool, error) {
	m.calls = append(m.calls, path+"|"+docID+"|"+caseID)
	if m.err != nil {
		return false, m.err
	}
	return true, nil
}

type mockQueryService struct {
	result   *domain.AskResult
	err      error
	question string
	docIDs   []string
}

func (m *mockQueryService) Ask(_ context.Context, question, docID string) (*domain.AskResult, error) {
	m.question = question
	m.docIDs = []string{docID}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockQueryService) AskMany(_ context.Context, question string, docIDs []string) (*domain.AskResult, error) {
	m.question = question
	m.docIDs = docIDs
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockSummaryService struct {
	summary     string
	cached      bool
	err         error
	lastType    domain.SummaryType
	lastDocIDs  []string
	invalidated []string
}

func (m *mockSummaryService) Summarize(_ context.Context, docID string, t domain.SummaryType) (*domain.SummaryResult, error) {
	m.lastType = t
	m.lastDocIDs = []string{docID}
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SummaryResult{DocIDs: []string{docID}, Type: t, Summary: m.summary, Cached: m.cached}, nil
}

func (m *mockSummaryService) SummarizeMany(_ context.Context, docIDs []string, t domain.SummaryType) (*domain.SummaryResult, error) {
	m.lastType = t
	m.lastDocIDs = docIDs
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SummaryResult{DocIDs: docIDs, Type: t, Summary: m.summary}, nil
}

func (m *mockSummaryService) Invalidate(_ context.Context, docID string) error {
	m.invalidated = append(m.invalidated, docID)
	return m.err
}

type mockIndexService struct {
	indexed map[string]bool
	err     error
}

func (m *mockIndexService) Exists(_ context.Context, docID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.indexed[docID], nil
}

func (m *mockIndexService) Delete(_ context.Context, docID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	existed := m.indexed[docID]
	delete(m.indexed, docID)
	return existed, nil
}

type mockDocumentService struct {
	records   map[string]*domain.DocumentRecord
	uploadErr error
	uploads   []string
	deleted   []string
	nextID    int
}

func newMockDocumentService() *mockDocumentService {
	return &mockDocumentService{records: make(map[string]*domain.DocumentRecord)}
}

func (m *mockDocumentService) Upload(_ context.Context, srcPath, filename, caseID string) (*domain.DocumentRecord, error) {
	m.uploads = append(m.uploads, srcPath)
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.nextID++
	rec := &domain.DocumentRecord{
		ID:         fmt.Sprintf("doc-%d", m.nextID),
		Filename:   filename,
		SourcePath: "/uploads/" + filename,
		CaseID:     caseID,
		UploadedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *mockDocumentService) Get(_ context.Context, docID string) (*domain.DocumentRecord, error) {
	rec, ok := m.records[docID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (m *mockDocumentService) List(_ context.Context, caseID string) ([]domain.DocumentRecord, error) {
	var out []domain.DocumentRecord
	for _, rec := range m.records {
		if caseID == "" || rec.CaseID == caseID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (m *mockDocumentService) Delete(_ context.Context, docID string) error {
	if _, ok := m.records[docID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.records, docID)
	m.deleted = append(m.deleted, docID)
	return nil
}

func (m *mockDocumentService) Supports(filename string) bool {
	switch domain.FileExtension(filename) {
	case ".pdf", ".docx", ".doc", ".txt", ".md", ".html", ".htm":
		return true
	default:
		return false
	}
}

type mockCaseRankingService struct {
	ranking    *domain.CaseRanking
	err        error
	text       string
	candidates []domain.CaseCandidate
	limit      int
}

func (m *mockCaseRankingService) Rank(_ context.Context, text string, candidates []domain.CaseCandidate, limit int) (*domain.CaseRanking, error) {
	m.text = text
	m.candidates = candidates
	m.limit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.ranking, nil
}

type mockSettingsService struct {
	settings    domain.AppSettings
	getErr      error
	setErr      error
	validateErr error
	set         map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), set: make(map[string]string)}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	m.set[key] = value
	return m.setErr
}

func (m *mockSettingsService) Keys() []string {
	return []string{"embedding.provider", "llm.model", "retrieval.k"}
}

func (m *mockSettingsService) ValidateProviders() error {
	return m.validateErr
}

// testServices are the mocks installed by setupTestServices.
type testServices struct {
	ingest   *mockIngestService
	query    *mockQueryService
	summary  *mockSummaryService
	index    *mockIndexService
	document *mockDocumentService
	ranking  *mockCaseRankingService
	settings *mockSettingsService
}

// setupTestServices installs fresh mocks and returns a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		ingest:   &mockIngestService{},
		query:    &mockQueryService{result: &domain.AskResult{Answer: "The hearing is on 3 May."}},
		summary:  &mockSummaryService{summary: "A brief summary."},
		index:    &mockIndexService{indexed: make(map[string]bool)},
		document: newMockDocumentService(),
		ranking:  &mockCaseRankingService{ranking: &domain.CaseRanking{Ranked: true}},
		settings: newMockSettingsService(),
	}
	SetServices(Services{
		Ingest:      ts.ingest,
		Query:       ts.query,
		Summary:     ts.summary,
		Index:       ts.index,
		Document:    ts.document,
		CaseRanking: ts.ranking,
		Settings:    ts.settings,
	})
	return ts, func() { SetServices(Services{}) }
}

// resetFlags restores every flag of every command to its default.
// Package-level flag variables otherwise leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// withStdin replaces the candidate input for one test.
func withStdin(t *testing.T, s string) {
	t.Helper()
	old := stdin
	stdin = strings.NewReader(s)
	t.Cleanup(func() { stdin = old })
}
