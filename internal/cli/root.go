// Package cli provides the command-line interface for docshelf.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/docshelf/internal/client"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string

	// API client shared by all commands
	api *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docshelf",
	Short: "Folder-scoped document knowledge base",
	Long: `Docshelf ingests documents (PDF, DOCX, text, markdown) into named folders
and answers questions scoped to a folder or the whole knowledge base.

Uploads run asynchronously on the server; the CLI polls job progress
page by page until the batch finishes.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		api = client.New(serverURL)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server base URL (default from DOCSHELF_SERVER_URL or http://localhost:8000)")

	rootCmd.AddCommand(foldersCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statsCmd)
}
