// Package mcp exposes lexrag to AI assistants over the Model Context Protocol.
// Questions, summaries and index management are tools; document records are resources.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// ErrMissingSummaryService is returned when the summary service is not provided.
var ErrMissingSummaryService = errors.New("mcp: summary service is required")
