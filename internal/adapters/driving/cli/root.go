// Package cli implements the lexrag command line interface on top of cobra.
//
// Commands talk to the core only through the driving ports. The services are
// injected by cmd/lexrag via SetServices before Execute runs. Services that
// need the document and index stores may instead come from a ServiceLoader,
// run once before the first command that uses them.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/core/ports/driving"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// version is set at build time.
var version = "dev"

// Injected services.
var (
	ingestService      driving.IngestService
	queryService       driving.QueryService
	summaryService     driving.SummaryService
	indexService       driving.IndexService
	documentService    driving.DocumentService
	caseRankingService driving.CaseRankingService
	settingsService    driving.SettingsService
)

// Persistent flags.
var (
	verboseFlag bool
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:   "lexrag",
	Short: "Question answering and summaries over legal documents",
	Long: `lexrag indexes court documents and answers questions about them.

Upload a PDF, DOCX, DOC, TXT or Markdown file, then ask questions or request
summaries. Answers are grounded only in the passages retrieved from the
selected documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		return loadServices(cmd)
	},
}

// annotationNoStores marks commands that run without the stores, so a
// broken backend can still be fixed with "lexrag settings set".
const annotationNoStores = "lexrag/no-stores"

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

// Services holds the driving ports used by the commands.
type Services struct {
	Ingest      driving.IngestService
	Query       driving.QueryService
	Summary     driving.SummaryService
	Index       driving.IndexService
	Document    driving.DocumentService
	CaseRanking driving.CaseRankingService
	Settings    driving.SettingsService
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	queryService = s.Query
	summaryService = s.Summary
	indexService = s.Index
	documentService = s.Document
	caseRankingService = s.CaseRanking
	settingsService = s.Settings
}

// ServiceLoader opens the stores and builds every service.
type ServiceLoader func(ctx context.Context) (Services, error)

var serviceLoader ServiceLoader

// SetServiceLoader defers building the store-backed services until a
// command needs them. A nil loader leaves the injected services alone.
func SetServiceLoader(l ServiceLoader) {
	serviceLoader = l
}

// loadServices runs the loader once, for commands that use the stores.
func loadServices(cmd *cobra.Command) error {
	if serviceLoader == nil || !needsStores(cmd) {
		return nil
	}
	s, err := serviceLoader(cmd.Context())
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	SetServices(s)
	serviceLoader = nil
	return nil
}

func needsStores(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoStores] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printError writes the stable code and message for err.
// Errors outside the known classes are printed verbatim.
func printError(w io.Writer, err error) {
	code := domain.ErrorCodeOf(err)
	msg := domain.UserMessage(err)
	if code == domain.CodeInternal {
		msg = err.Error()
	}
	fmt.Fprintf(w, "Error [%s]: %s\n", code, msg)
	logger.Debug("cause: %v", err)
}

// printJSON writes v as indented JSON to the command output.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

var errNotConfigured = errors.New("service not configured")

// notConfigured reports a missing service.
func notConfigured(name string) error {
	return fmt.Errorf("%s %w", name, errNotConfigured)
}

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin
