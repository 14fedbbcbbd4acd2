package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/docshelf/internal/models"
)

var (
	askScope   string
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about your documents",
	Long: `Ask a question scoped to one folder or to the whole knowledge base.

Examples:
  docshelf ask "What is the notice period in the contract?"
  docshelf ask -f legal "Who are the contracting parties?"
  docshelf ask --sources "Which invoice is overdue?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askScope, "folder", "f", models.GlobalSentinel, "folder to search (default: all folders)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "show the document chunks backing the answer")
}

func runAsk(cmd *cobra.Command, args []string) error {
	result, err := api.Query(context.Background(), args[0], askScope)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	fmt.Println(result.Answer)

	if askSources && len(result.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, s := range result.Sources {
			fmt.Printf("  %s/%s page %d\n", s.Folder, s.Filename, s.Page+1)
		}
	}
	return nil
}
