package mcp

import (
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server exposes.
type Ports struct {
	// Query answers questions.
	Query driving.QueryService

	// Summary produces document summaries.
	Summary driving.SummaryService

	// Index checks and deletes indexes. Optional; its tools are omitted when nil.
	Index driving.IndexService

	// Document lists document records. Optional; resources are omitted when nil.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Summary == nil {
		return ErrMissingSummaryService
	}
	return nil
}
