package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag/internal/core/domain"
	"github.com/custodia-labs/lexrag/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Upload documents dropped into a folder",
	Long: `Watches a folder and uploads every supported file created or changed in it.
Files are uploaded once they stop changing. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchCaseID string
	watchSettle time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchCaseID, "case", "c", "", "Case the uploaded documents belong to")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", watcher.DefaultSettle, "How long a file must be unchanged before upload")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document service")
	}

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	if err := checkNotUploadDir(dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(dir, uploadHandler(cmd),
		watcher.WithFilter(documentService.Supports),
		watcher.WithSettle(watchSettle),
	)

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	return w.Run(ctx)
}

// uploadHandler uploads a settled file and reports the outcome.
func uploadHandler(cmd *cobra.Command) watcher.Handler {
	return func(ctx context.Context, path string) error {
		rec, err := documentService.Upload(ctx, path, filepath.Base(path), watchCaseID)
		if err != nil {
			cmd.PrintErrf("Failed %s: %s\n", filepath.Base(path), domain.UserMessage(err))
			return err
		}
		if jsonOutput {
			return printJSON(cmd, newDocumentView(rec))
		}
		cmd.Printf("Uploaded %s as %s\n", rec.Filename, rec.ID)
		return nil
	}
}

// checkNotUploadDir refuses to watch the upload directory, whose copies
// would trigger further uploads.
func checkNotUploadDir(dir string) error {
	if settingsService == nil {
		return nil
	}
	settings, err := settingsService.Get()
	if err != nil || settings.UploadDir == "" {
		return nil
	}
	uploadDir, err := filepath.Abs(settings.UploadDir)
	if err != nil {
		return nil
	}
	if filepath.Clean(uploadDir) == filepath.Clean(dir) {
		return fmt.Errorf("cannot watch the upload directory %s: %w", dir, domain.ErrInvalidInput)
	}
	return nil
}
