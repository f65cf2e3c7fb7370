// Package domain defines the core business entities for lexrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRecord: An uploaded document and its cached summaries
//   - TextBlock: Extracted text with provenance
//   - Passage: A bounded slice of a document, the unit of retrieval
//   - IndexData: The persisted per-document vector index
//   - QueryState: The ephemeral state of one question-answering run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
