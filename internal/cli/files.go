package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files <folder>",
	Short: "List the indexed files in a folder",
	Long: `List the filenames that have been successfully indexed in a folder.

Examples:
  docshelf files default
  docshelf files legal`,
	Args: cobra.ExactArgs(1),
	RunE: runListFiles,
}

func runListFiles(cmd *cobra.Command, args []string) error {
	files, err := api.ListFiles(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	if len(files) == 0 {
		fmt.Printf("No indexed files in folder %q\n", args[0])
		return nil
	}

	for _, name := range files {
		fmt.Println(name)
	}
	return nil
}
