package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/docshelf/internal/client"
)

var (
	ingestFolder string
	ingestNoWait bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Upload documents into a folder",
	Long: `Upload one or more documents for asynchronous ingestion.

The server extracts text page by page (running OCR where needed) and
indexes the result. Progress is shown live until the batch finishes;
Ctrl+C leaves the job running on the server.

Examples:
  docshelf ingest report.pdf
  docshelf ingest -f legal contract.pdf appendix.docx
  docshelf ingest -f legal --no-wait *.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFolder, "folder", "f", "default", "target folder")
	ingestCmd.Flags().BoolVar(&ingestNoWait, "no-wait", false, "submit and exit without waiting for completion")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	files := make([]client.UploadFile, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, client.UploadFile{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}

	accepted, err := api.Upload(ctx, ingestFolder, "", files)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	fmt.Printf("Submitted %d file(s) to folder %q (job %s)\n", len(files), ingestFolder, accepted.JobID)

	if ingestNoWait {
		fmt.Printf("Use 'docshelf jobs %s' to check progress.\n", accepted.JobID)
		return nil
	}

	return RunJobProgress(api, accepted.JobID)
}
