// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewDocuments lists uploaded documents.
	ViewDocuments
	// ViewAsk takes a question about the chosen documents.
	ViewAsk
	// ViewSummary shows a summary of the chosen documents.
	ViewSummary
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewDocuments:
		return "documents"
	case ViewAsk:
		return "ask"
	case ViewSummary:
		return "summary"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// DocumentsLoaded carries the uploaded documents and their index state.
type DocumentsLoaded struct {
	CaseID    string
	Documents []domain.DocumentRecord
	// Indexed is nil when index state is unknown.
	Indexed map[string]bool
	Err     error
}

// DocumentDeleted signals a document and its index were removed.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// AskRequested opens the ask view for the given documents.
type AskRequested struct {
	DocIDs []string
}

// AnswerReceived carries the answer to a question.
type AnswerReceived struct {
	Question string
	Result   *domain.AskResult
	Err      error
}

// SummaryRequested opens the summary view for the given documents.
type SummaryRequested struct {
	DocIDs []string
	Type   domain.SummaryType
}

// SummaryLoaded carries a generated or cached summary.
type SummaryLoaded struct {
	Type   domain.SummaryType
	Result *domain.SummaryResult
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
