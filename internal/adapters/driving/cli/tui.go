package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui"
)

var tuiCaseID string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse documents, ask questions and read summaries interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

// startTUI is replaced in tests.
var startTUI = func(app *tui.App) error {
	return app.Run()
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiCaseID, "case", "c", "", "Only show documents of this case")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	app, err := tui.NewApp(&tui.Ports{
		Document: documentService,
		Query:    queryService,
		Summary:  summaryService,
		Index:    indexService,
	})
	if err != nil {
		return err
	}

	return startTUI(app.WithContext(cmd.Context()).WithCase(tuiCaseID))
}
