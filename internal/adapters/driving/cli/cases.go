package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Find related cases",
}

var casesRankCmd = &cobra.Command{
	Use:   "rank [text]",
	Short: "Rank candidate cases by similarity",
	Long: `Ranks candidate precedents by how similar their summaries are to a text.

Candidates are read as a JSON array of {"id", "title", "summary"} objects from
the --candidates file, or from stdin when the file is "-". The text is taken
from the arguments, or from the brief summary of --doc.

If embeddings are unavailable the first candidates are returned unranked.`,
	RunE: runCasesRank,
}

var (
	casesCandidatesPath string
	casesLimit          int
	casesDocID          string
)

func init() {
	casesRankCmd.Flags().StringVarP(&casesCandidatesPath, "candidates", "f", "-", "JSON file of candidate cases, - for stdin")
	casesRankCmd.Flags().IntVarP(&casesLimit, "limit", "n", domain.DefaultCaseRankLimit, "Maximum number of cases to return")
	casesRankCmd.Flags().StringVarP(&casesDocID, "doc", "d", "", "Use the brief summary of this document as the text")

	casesCmd.AddCommand(casesRankCmd)
	rootCmd.AddCommand(casesCmd)
}

func runCasesRank(cmd *cobra.Command, args []string) error {
	if caseRankingService == nil {
		return notConfigured("case ranking service")
	}

	text, err := rankText(cmd, args)
	if err != nil {
		return err
	}

	candidates, err := readCandidates(casesCandidatesPath)
	if err != nil {
		return err
	}

	ranking, err := caseRankingService.Rank(cmd.Context(), text, candidates, casesLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, ranking)
	}

	if ranking.Warning != "" {
		cmd.Printf("Warning: %s\n\n", ranking.Warning)
	}
	if len(ranking.Cases) == 0 {
		cmd.Println("No related cases")
		return nil
	}
	for i, c := range ranking.Cases {
		if ranking.Ranked {
			cmd.Printf("%d. %s (%.3f)\n", i+1, c.Title, c.Similarity)
		} else {
			cmd.Printf("%d. %s\n", i+1, c.Title)
		}
		cmd.Printf("   ID: %s\n", c.ID)
	}
	return nil
}

// rankText resolves the query text from the arguments or a document summary.
func rankText(cmd *cobra.Command, args []string) (string, error) {
	if casesDocID == "" {
		if len(args) == 0 {
			return "", fmt.Errorf("provide a text or --doc: %w", domain.ErrInvalidInput)
		}
		return strings.Join(args, " "), nil
	}

	if summaryService == nil {
		return "", notConfigured("summary service")
	}
	result, err := summaryService.Summarize(cmd.Context(), casesDocID, domain.SummaryBrief)
	if err != nil {
		return "", err
	}
	return result.Summary, nil
}

func readCandidates(path string) ([]domain.CaseCandidate, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open candidates: %w", err)
		}
		defer f.Close()
		r = f
	}

	var candidates []domain.CaseCandidate
	if err := json.NewDecoder(r).Decode(&candidates); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse candidates: %w: %w", domain.ErrInvalidInput, err)
	}
	return candidates, nil
}
