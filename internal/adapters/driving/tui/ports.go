// Package tui provides an interactive terminal interface for lexrag.
// It is a driving adapter over the document, query and summary ports.
package tui

import (
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI depends on.
type Ports struct {
	// Document lists and deletes uploaded documents.
	Document driving.DocumentService

	// Query answers questions over indexed documents.
	Query driving.QueryService

	// Summary produces cached document summaries.
	Summary driving.SummaryService

	// Index reports which documents have an index. Optional.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Summary == nil {
		return ErrMissingSummaryService
	}
	return nil
}
