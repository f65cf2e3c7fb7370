package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload and index a document",
	Long: `Copies the file into the upload directory, records it and builds its index.

Supported formats: .pdf, .docx, .doc, .txt, .md, .html. If indexing fails the copy
and the record are removed again.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Index a file under a given document id",
	Long: `Extracts, chunks and indexes a file without recording an upload.
An existing index for the document id is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

var (
	uploadCaseID string
	indexDocID   string
	indexCaseID  string
)

func init() {
	uploadCmd.Flags().StringVarP(&uploadCaseID, "case", "c", "", "Case the document belongs to")

	indexCmd.Flags().StringVarP(&indexDocID, "doc-id", "d", "", "Document id to index under (required)")
	indexCmd.Flags().StringVarP(&indexCaseID, "case", "c", "", "Case the document belongs to")
	_ = indexCmd.MarkFlagRequired("doc-id")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(indexCmd)
}

// documentView is the printable form of a document record.
type documentView struct {
	ID         string   `json:"id"`
	Filename   string   `json:"filename"`
	CaseID     string   `json:"case_id,omitempty"`
	SourcePath string   `json:"source_path"`
	UploadedAt string   `json:"uploaded_at"`
	Summaries  []string `json:"cached_summaries,omitempty"`
}

func newDocumentView(rec *domain.DocumentRecord) documentView {
	view := documentView{
		ID:         rec.ID,
		Filename:   rec.Filename,
		CaseID:     rec.CaseID,
		SourcePath: rec.SourcePath,
		UploadedAt: rec.UploadedAt.Format(timeLayout),
	}
	for _, t := range domain.SummaryTypes() {
		if _, ok := rec.Summary(t); ok {
			view.Summaries = append(view.Summaries, t.String())
		}
	}
	return view
}

const timeLayout = "2006-01-02 15:04:05"

func runUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document service")
	}

	path := args[0]
	rec, err := documentService.Upload(cmd.Context(), path, filepath.Base(path), uploadCaseID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, newDocumentView(rec))
	}

	cmd.Printf("Uploaded %s\n", rec.Filename)
	cmd.Printf("  Document ID: %s\n", rec.ID)
	if rec.CaseID != "" {
		cmd.Printf("  Case:        %s\n", rec.CaseID)
	}
	cmd.Printf("  Stored at:   %s\n", rec.SourcePath)
	return nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest service")
	}

	ok, err := ingestService.IndexDocument(cmd.Context(), args[0], indexDocID, indexCaseID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, map[string]any{"doc_id": indexDocID, "indexed": ok})
	}

	cmd.Printf("Indexed %s as %s\n", filepath.Base(args[0]), indexDocID)
	return nil
}
