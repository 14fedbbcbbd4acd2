package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Manage knowledge base folders",
	Long: `List, create or delete folders.

Examples:
  docshelf folders
  docshelf folders create legal
  docshelf folders delete legal`,
	RunE: runListFolders,
}

var foldersCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreateFolder,
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a folder and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteFolder,
}

func init() {
	foldersCmd.AddCommand(foldersCreateCmd)
	foldersCmd.AddCommand(foldersDeleteCmd)
}

func runListFolders(cmd *cobra.Command, args []string) error {
	folders, err := api.ListFolders(context.Background())
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}

	if len(folders) == 0 {
		fmt.Println("No folders found")
		return nil
	}

	for _, f := range folders {
		fmt.Println(f.Name)
	}
	return nil
}

func runCreateFolder(cmd *cobra.Command, args []string) error {
	folder, err := api.CreateFolder(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	fmt.Printf("Created folder %q\n", folder.Name)
	return nil
}

func runDeleteFolder(cmd *cobra.Command, args []string) error {
	if err := api.DeleteFolder(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	fmt.Printf("Deleted folder %q\n", args[0])
	return nil
}
