package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

const uriScheme = "lexrag://"

// documentInfo is the JSON shape of a document record resource.
type documentInfo struct {
	ID         string            `json:"id"`
	Filename   string            `json:"filename"`
	CaseID     string            `json:"case_id,omitempty"`
	UploadedAt string            `json:"uploaded_at"`
	Summaries  map[string]string `json:"summaries,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "All uploaded legal documents, newest first",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "cases/{caseId}/documents",
		Name:        "case-documents",
		Description: "Documents uploaded for one case",
		MIMEType:    "application/json",
	}, s.handleCaseDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document",
		Description: "One document record with its cached summaries",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return s.listDocuments(ctx, req.Params.URI, "")
}

func (s *Server) handleCaseDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	caseID := extractCaseID(req.Params.URI)
	if caseID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.listDocuments(ctx, req.Params.URI, caseID)
}

func (s *Server) listDocuments(ctx context.Context, uri, caseID string) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Document.List(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]documentInfo, len(docs))
	for i := range docs {
		infos[i] = newDocumentInfo(&docs[i])
		infos[i].Summaries = nil
	}
	return jsonResult(uri, infos)
}

func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return jsonResult(req.Params.URI, newDocumentInfo(doc))
}

func newDocumentInfo(doc *domain.DocumentRecord) documentInfo {
	info := documentInfo{
		ID:         doc.ID,
		Filename:   doc.Filename,
		CaseID:     doc.CaseID,
		UploadedAt: doc.UploadedAt.UTC().Format(time.RFC3339),
	}
	for _, t := range domain.SummaryTypes() {
		if text, ok := doc.Summary(t); ok {
			if info.Summaries == nil {
				info.Summaries = make(map[string]string)
			}
			info.Summaries[t.String()] = text
		}
	}
	return info
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCaseID extracts the case ID from lexrag://cases/{caseId}/documents.
func extractCaseID(uri string) string {
	const prefix = uriScheme + "cases/"
	const suffix = "/documents"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

// extractDocumentID extracts the document ID from lexrag://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
