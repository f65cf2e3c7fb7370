package summary

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// MockSummaryService implements driving.SummaryService for testing.
type MockSummaryService struct {
	SummarizeFunc     func(ctx context.Context, docID string, t domain.SummaryType) (*domain.SummaryResult, error)
	SummarizeManyFunc func(ctx context.Context, docIDs []string, t domain.SummaryType) (*domain.SummaryResult, error)
}

func (m *MockSummaryService) Summarize(
	ctx context.Context, docID string, t domain.SummaryType,
) (*domain.SummaryResult, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, docID, t)
	}
	return &domain.SummaryResult{DocIDs: []string{docID}, Type: t, Summary: "summary of " + docID}, nil
}

func (m *MockSummaryService) SummarizeMany(
	ctx context.Context, docIDs []string, t domain.SummaryType,
) (*domain.SummaryResult, error) {
	if m.SummarizeManyFunc != nil {
		return m.SummarizeManyFunc(ctx, docIDs, t)
	}
	return &domain.SummaryResult{DocIDs: docIDs, Type: t, Summary: "combined"}, nil
}

func (m *MockSummaryService) Invalidate(_ context.Context, _ string) error {
	return nil
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewView(t *testing.T) {
	v := NewView(styles.DefaultStyles(), &MockSummaryService{})

	require.NotNil(t, v)
	assert.Equal(t, domain.SummaryBrief, v.SummaryType())
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "(No summary)")
}

func TestView_SetRequest_Single(t *testing.T) {
	svc := &MockSummaryService{
		SummarizeFunc: func(_ context.Context, docID string, st domain.SummaryType) (*domain.SummaryResult, error) {
			assert.Equal(t, "doc-1", docID)
			assert.Equal(t, domain.SummaryDetailed, st)
			return &domain.SummaryResult{
				DocIDs: []string{docID}, Type: st, Summary: "Parties: A v B.", Cached: true,
			}, nil
		},
	}
	v := NewView(nil, svc)

	cmd := v.SetRequest([]string{"doc-1"}, domain.SummaryDetailed)
	require.NotNil(t, cmd)
	assert.Contains(t, v.View(), "Generating summary...")

	v.Update(cmd())

	require.NotNil(t, v.Result())
	out := v.View()
	assert.Contains(t, out, "Detailed summary")
	assert.Contains(t, out, "Parties: A v B.")
	assert.Contains(t, out, "(cached)")
}

func TestView_SetRequest_Many(t *testing.T) {
	var got []string
	svc := &MockSummaryService{
		SummarizeManyFunc: func(_ context.Context, docIDs []string, st domain.SummaryType) (*domain.SummaryResult, error) {
			got = docIDs
			return &domain.SummaryResult{DocIDs: docIDs, Type: st, Summary: "Across both filings."}, nil
		},
	}
	v := NewView(nil, svc)

	v.Update(v.SetRequest([]string{"doc-1", "doc-2"}, domain.SummaryKeyPoints)())

	assert.Equal(t, []string{"doc-1", "doc-2"}, got)
	assert.Contains(t, v.View(), "Across both filings.")
	assert.NotContains(t, v.View(), "(cached)")
}

func TestView_SetRequest_InvalidTypeDefaultsToBrief(t *testing.T) {
	v := NewView(nil, &MockSummaryService{})

	v.SetRequest([]string{"doc-1"}, domain.SummaryType("long"))

	assert.Equal(t, domain.SummaryBrief, v.SummaryType())
}

func TestView_Error(t *testing.T) {
	svc := &MockSummaryService{
		SummarizeFunc: func(context.Context, string, domain.SummaryType) (*domain.SummaryResult, error) {
			return nil, domain.ErrLLMUnavailable
		},
	}
	v := NewView(nil, svc)

	v.Update(v.SetRequest([]string{"doc-1"}, domain.SummaryBrief)())

	assert.ErrorIs(t, v.Err(), domain.ErrLLMUnavailable)
	assert.Contains(t, v.View(), "Error: "+domain.UserMessage(domain.ErrLLMUnavailable))
}

func TestView_TabCyclesType(t *testing.T) {
	v := NewView(nil, &MockSummaryService{})
	v.Update(v.SetRequest([]string{"doc-1"}, domain.SummaryBrief)())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	assert.Equal(t, domain.SummaryDetailed, v.SummaryType())

	msg := cmd().(messages.SummaryLoaded)
	assert.Equal(t, domain.SummaryDetailed, msg.Type)
}

func TestView_NumberKeysSelectType(t *testing.T) {
	v := NewView(nil, &MockSummaryService{})
	v.Update(v.SetRequest([]string{"doc-1"}, domain.SummaryBrief)())

	_, cmd := v.Update(keyRune('1'))
	assert.Nil(t, cmd)

	_, cmd = v.Update(keyRune('3'))
	require.NotNil(t, cmd)
	assert.Equal(t, domain.SummaryKeyPoints, v.SummaryType())
}

func TestView_StaleSummaryIgnored(t *testing.T) {
	v := NewView(nil, &MockSummaryService{})
	v.SetRequest([]string{"doc-1"}, domain.SummaryDetailed)

	v.Update(messages.SummaryLoaded{
		Type:   domain.SummaryBrief,
		Result: &domain.SummaryResult{Summary: "stale"},
	})

	assert.Nil(t, v.Result())
}

func TestView_Scroll(t *testing.T) {
	long := strings.Repeat("line\n", 30)
	svc := &MockSummaryService{
		SummarizeFunc: func(_ context.Context, _ string, st domain.SummaryType) (*domain.SummaryResult, error) {
			return &domain.SummaryResult{Type: st, Summary: long}, nil
		},
	}
	v := NewView(nil, svc)
	v.SetDimensions(80, 12)
	v.Update(v.SetRequest([]string{"doc-1"}, domain.SummaryBrief)())
	require.Greater(t, v.maxScrollOffset(), 0)

	v.Update(keyRune('j'))
	assert.Equal(t, 1, v.scrollOffset)

	v.Update(keyRune('G'))
	assert.Equal(t, v.maxScrollOffset(), v.scrollOffset)

	v.Update(keyRune('k'))
	assert.Equal(t, v.maxScrollOffset()-1, v.scrollOffset)

	v.Update(keyRune('g'))
	assert.Equal(t, 0, v.scrollOffset)
	assert.Contains(t, v.View(), "Line 1-5 of")
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil)

	msg := v.SetRequest([]string{"doc-1"}, domain.SummaryBrief)().(messages.SummaryLoaded)

	assert.Error(t, msg.Err)
}

func TestView_EscReturnsToDocuments(t *testing.T) {
	v := NewView(nil, &MockSummaryService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewDocuments}, cmd())
}

func TestNextType(t *testing.T) {
	assert.Equal(t, domain.SummaryDetailed, nextType(domain.SummaryBrief))
	assert.Equal(t, domain.SummaryKeyPoints, nextType(domain.SummaryDetailed))
	assert.Equal(t, domain.SummaryBrief, nextType(domain.SummaryKeyPoints))
	assert.Equal(t, domain.SummaryBrief, nextType(domain.SummaryType("x")))
}
