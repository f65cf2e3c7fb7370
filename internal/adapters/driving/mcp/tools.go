package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	DocID    string `json:"doc_id" jsonschema:"the document to ask about"`
	Question string `json:"question" jsonschema:"the question to answer from the document"`
}

// AskManyInput is the input schema for the ask_many tool.
type AskManyInput struct {
	DocIDs   []string `json:"doc_ids" jsonschema:"the documents to ask about, first is primary"`
	Question string   `json:"question" jsonschema:"the question to answer from the documents"`
}

// AnswerOutput is the output schema for the ask tools.
type AnswerOutput struct {
	Answer       string         `json:"answer"`
	PrimaryDocID string         `json:"primary_doc_id,omitempty"`
	Sources      map[string]int `json:"sources,omitempty"`
}

// SummarizeInput is the input schema for the summarize tool.
type SummarizeInput struct {
	DocID string `json:"doc_id" jsonschema:"the document to summarize"`
	Type  string `json:"type,omitempty" jsonschema:"brief, detailed or key_points (default brief)"`
}

// SummarizeManyInput is the input schema for the summarize_many tool.
type SummarizeManyInput struct {
	DocIDs []string `json:"doc_ids" jsonschema:"the documents to summarize together"`
	Type   string   `json:"type,omitempty" jsonschema:"brief, detailed or key_points (default brief)"`
}

// SummaryOutput is the output schema for the summarize tools.
type SummaryOutput struct {
	DocIDs  []string `json:"doc_ids"`
	Type    string   `json:"summary_type"`
	Summary string   `json:"summary"`
	Cached  bool     `json:"cached"`
}

// IndexInput is the input schema for the index tools.
type IndexInput struct {
	DocID string `json:"doc_id" jsonschema:"the document whose index to check or delete"`
}

// IndexExistsOutput is the output schema for index_exists.
type IndexExistsOutput struct {
	DocID  string `json:"doc_id"`
	Exists bool   `json:"exists"`
}

// IndexDeleteOutput is the output schema for delete_index.
type IndexDeleteOutput struct {
	DocID   string `json:"doc_id"`
	Deleted bool   `json:"deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only passages retrieved from one legal document",
	}, s.handleAsk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_many",
		Description: "Answer a question using passages retrieved from several legal documents",
	}, s.handleAskMany)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize",
		Description: "Summarize one legal document; summaries are cached per document and type",
	}, s.handleSummarize)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_many",
		Description: "Produce one combined summary of several legal documents",
	}, s.handleSummarizeMany)

	if s.ports.Index == nil {
		return
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_exists",
		Description: "Report whether a document has been indexed",
	}, s.handleIndexExists)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_index",
		Description: "Delete the index of a document",
	}, s.handleDeleteIndex)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	result, err := s.ports.Query.Ask(ctx, input.Question, input.DocID)
	if err != nil {
		return nil, AnswerOutput{}, err
	}
	return nil, answerOutput(result), nil
}

func (s *Server) handleAskMany(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskManyInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	result, err := s.ports.Query.AskMany(ctx, input.Question, input.DocIDs)
	if err != nil {
		return nil, AnswerOutput{}, err
	}
	return nil, answerOutput(result), nil
}

func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	t, err := parseSummaryType(input.Type)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	result, err := s.ports.Summary.Summarize(ctx, input.DocID, t)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, summaryOutput(result), nil
}

func (s *Server) handleSummarizeMany(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeManyInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	t, err := parseSummaryType(input.Type)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	result, err := s.ports.Summary.SummarizeMany(ctx, input.DocIDs, t)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, summaryOutput(result), nil
}

func (s *Server) handleIndexExists(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexExistsOutput, error) {
	exists, err := s.ports.Index.Exists(ctx, input.DocID)
	if err != nil {
		return nil, IndexExistsOutput{}, err
	}
	return nil, IndexExistsOutput{DocID: input.DocID, Exists: exists}, nil
}

func (s *Server) handleDeleteIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexDeleteOutput, error) {
	deleted, err := s.ports.Index.Delete(ctx, input.DocID)
	if err != nil {
		return nil, IndexDeleteOutput{}, err
	}
	return nil, IndexDeleteOutput{DocID: input.DocID, Deleted: deleted}, nil
}

// parseSummaryType defaults an empty type to brief.
func parseSummaryType(s string) (domain.SummaryType, error) {
	if s == "" {
		return domain.SummaryBrief, nil
	}
	t := domain.SummaryType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown summary type %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func answerOutput(r *domain.AskResult) AnswerOutput {
	if r == nil {
		return AnswerOutput{}
	}
	return AnswerOutput{
		Answer:       r.Answer,
		PrimaryDocID: r.PrimaryDocID,
		Sources:      r.Sources,
	}
}

func summaryOutput(r *domain.SummaryResult) SummaryOutput {
	if r == nil {
		return SummaryOutput{}
	}
	return SummaryOutput{
		DocIDs:  r.DocIDs,
		Type:    r.Type.String(),
		Summary: r.Summary,
		Cached:  r.Cached,
	}
}
