package cli

import (
	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage uploaded documents",
	Long:  `List, view, or delete uploaded documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents, newest first",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Long:  `Removes the stored file, the index and the record of a document.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentListCaseID string

func init() {
	documentListCmd.Flags().StringVarP(&documentListCaseID, "case", "c", "", "Only list documents of this case")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return notConfigured("document service")
	}

	docs, err := documentService.List(cmd.Context(), documentListCaseID)
	if err != nil {
		return err
	}

	if jsonOutput {
		views := make([]documentView, 0, len(docs))
		for i := range docs {
			views = append(views, newDocumentView(&docs[i]))
		}
		return printJSON(cmd, views)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File:     %s\n", docs[i].Filename)
		if docs[i].CaseID != "" {
			cmd.Printf("    Case:     %s\n", docs[i].CaseID)
		}
		cmd.Printf("    Uploaded: %s\n", docs[i].UploadedAt.Format(timeLayout))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document service")
	}

	rec, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	view := newDocumentView(rec)
	if jsonOutput {
		return printJSON(cmd, view)
	}

	cmd.Printf("Document: %s\n\n", view.ID)
	cmd.Printf("  File:      %s\n", view.Filename)
	if view.CaseID != "" {
		cmd.Printf("  Case:      %s\n", view.CaseID)
	}
	cmd.Printf("  Stored at: %s\n", view.SourcePath)
	cmd.Printf("  Uploaded:  %s\n", view.UploadedAt)
	if len(view.Summaries) > 0 {
		cmd.Println("\n  Cached summaries:")
		for _, s := range view.Summaries {
			cmd.Printf("    %s\n", s)
		}
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document service")
	}

	docID := args[0]
	if err := documentService.Delete(cmd.Context(), docID); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, map[string]any{"doc_id": docID, "deleted": true})
	}

	cmd.Printf("Deleted document %s\n", docID)
	return nil
}
