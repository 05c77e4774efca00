package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// StatsResult represents the stats API response.
type StatsResult struct {
	Documents         int64 `json:"documents"`
	ConversationTurns int64 `json:"conversation_turns"`
}

// StatsCmd creates the stats command.
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show document and conversation counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStats(cmd, outputJSON)
		},
	}
}

func runStats(cmd *cobra.Command, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/stats")
	if err != nil {
		return err
	}

	var stats StatsResult
	if err := json.Unmarshal(resp.Data, &stats); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		out, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Documents:          %d\n", stats.Documents)
	fmt.Printf("Conversation turns: %d\n", stats.ConversationTurns)
	return nil
}
