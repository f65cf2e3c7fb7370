package cli

import (
	"github.com/spf13/cobra"
)

var indexExistsCmd = &cobra.Command{
	Use:   "index-exists [doc-id]",
	Short: "Check whether a document has an index",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexExists,
}

var indexDeleteCmd = &cobra.Command{
	Use:   "index-delete [doc-id]",
	Short: "Delete the index of a document",
	Long:  `Removes the stored index. The upload record and file are kept; use "document delete" to remove those too.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexDelete,
}

func init() {
	rootCmd.AddCommand(indexExistsCmd)
	rootCmd.AddCommand(indexDeleteCmd)
}

func runIndexExists(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return notConfigured("index service")
	}

	docID := args[0]
	exists, err := indexService.Exists(cmd.Context(), docID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, map[string]any{"doc_id": docID, "exists": exists})
	}

	if exists {
		cmd.Printf("Index exists for %s\n", docID)
	} else {
		cmd.Printf("No index for %s\n", docID)
	}
	return nil
}

func runIndexDelete(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return notConfigured("index service")
	}

	docID := args[0]
	deleted, err := indexService.Delete(cmd.Context(), docID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, map[string]any{"doc_id": docID, "deleted": deleted})
	}

	if deleted {
		cmd.Printf("Deleted index for %s\n", docID)
	} else {
		cmd.Printf("No index for %s\n", docID)
	}
	return nil
}
