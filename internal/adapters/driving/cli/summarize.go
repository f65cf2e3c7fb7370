package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [doc-id]",
	Short: "Summarise a document",
	Long: `Summarises a document in one of three styles:

  brief      - 3-5 sentence overview
  detailed   - structured multi-section analysis
  key_points - enumerated key points

Summaries are cached per document and type until the document is re-indexed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

var summarizeManyCmd = &cobra.Command{
	Use:   "summarize-many",
	Short: "Summarise several documents together",
	Long:  `Produces one summary spanning every selected document. Combined summaries are not cached.`,
	Args:  cobra.NoArgs,
	RunE:  runSummarizeMany,
}

var (
	summaryTypeFlag     string
	summarizeManyDocIDs []string
	summarizeManyType   string
)

func init() {
	summarizeCmd.Flags().StringVarP(&summaryTypeFlag, "type", "t", string(domain.SummaryBrief), summaryTypeUsage())

	summarizeManyCmd.Flags().StringArrayVarP(&summarizeManyDocIDs, "doc", "d", nil, "Document id to include (repeatable)")
	summarizeManyCmd.Flags().StringVarP(&summarizeManyType, "type", "t", string(domain.SummaryBrief), summaryTypeUsage())

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(summarizeManyCmd)
}

func summaryTypeUsage() string {
	names := make([]string, 0, len(domain.SummaryTypes()))
	for _, t := range domain.SummaryTypes() {
		names = append(names, t.String())
	}
	return "Summary type: " + strings.Join(names, ", ")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return notConfigured("summary service")
	}

	result, err := summaryService.Summarize(cmd.Context(), args[0], domain.SummaryType(summaryTypeFlag))
	if err != nil {
		return err
	}
	return printSummary(cmd, result)
}

func runSummarizeMany(cmd *cobra.Command, _ []string) error {
	if summaryService == nil {
		return notConfigured("summary service")
	}

	result, err := summaryService.SummarizeMany(cmd.Context(), summarizeManyDocIDs, domain.SummaryType(summarizeManyType))
	if err != nil {
		return err
	}
	return printSummary(cmd, result)
}

func printSummary(cmd *cobra.Command, result *domain.SummaryResult) error {
	if jsonOutput {
		return printJSON(cmd, map[string]any{
			"doc_ids":      result.DocIDs,
			"summary_type": result.Type,
			"summary":      result.Summary,
			"cached":       result.Cached,
		})
	}

	cmd.Printf("%s summary of %s", result.Type, strings.Join(result.DocIDs, ", "))
	if result.Cached {
		cmd.Print(" (cached)")
	}
	cmd.Println()
	cmd.Println()
	cmd.Println(result.Summary)
	return nil
}
