package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show server statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	raw, err := api.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}

	var pretty map[string]any
	if err := json.Unmarshal(raw, &pretty); err != nil {
		return fmt.Errorf("decode stats: %w", err)
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return fmt.Errorf("format stats: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
