package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [doc-id] [question]",
	Short: "Ask a question about a document",
	Long: `Retrieves the passages most relevant to the question and answers from them only.
Words after the document id are joined into the question.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

var askManyCmd = &cobra.Command{
	Use:   "ask-many [question]",
	Short: "Ask one question across several documents",
	Long: `Retrieves passages from every selected document and answers from all of them.

Example:
  lexrag ask-many --doc 1f0c --doc 9ab2 "Which hearing dates are mentioned?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAskMany,
}

var askManyDocIDs []string

func init() {
	askManyCmd.Flags().StringArrayVarP(&askManyDocIDs, "doc", "d", nil, "Document id to include (repeatable)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(askManyCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return notConfigured("query service")
	}

	result, err := queryService.Ask(cmd.Context(), strings.Join(args[1:], " "), args[0])
	if err != nil {
		return err
	}
	return printAnswer(cmd, result)
}

func runAskMany(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return notConfigured("query service")
	}

	result, err := queryService.AskMany(cmd.Context(), strings.Join(args, " "), askManyDocIDs)
	if err != nil {
		return err
	}
	return printAnswer(cmd, result)
}

func printAnswer(cmd *cobra.Command, result *domain.AskResult) error {
	if jsonOutput {
		return printJSON(cmd, result)
	}

	cmd.Println(result.Answer)
	if len(result.Sources) == 0 {
		return nil
	}

	ids := make([]string, 0, len(result.Sources))
	for id := range result.Sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cmd.Println()
	cmd.Println("Sources:")
	for _, id := range ids {
		cmd.Printf("  %s: %d passages\n", id, result.Sources[id])
	}
	return nil
}
