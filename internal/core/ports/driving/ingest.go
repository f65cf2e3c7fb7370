package driving

import "context"

// IngestService turns a file into a per-document index.
type IngestService interface {
	// IndexDocument extracts, chunks and indexes the file at path under docID.
	// Any existing index for docID is replaced. caseID may be empty.
	IndexDocument(ctx context.Context, path, docID, caseID string) (bool, error)
}
