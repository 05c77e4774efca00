package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// TurnResult represents one conversation turn in the history API response.
type TurnResult struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// HistoryCmd creates the history command.
func HistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <session-id>",
		Short: "Show the question/answer log for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runHistory(cmd, args[0], outputJSON)
		},
	}
}

func runHistory(cmd *cobra.Command, sessionID string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/history?session_id=" + url.QueryEscape(sessionID))
	if err != nil {
		return err
	}

	var turns []TurnResult
	if err := json.Unmarshal(resp.Data, &turns); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		out, _ := json.MarshalIndent(turns, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	if len(turns) == 0 {
		fmt.Println("No conversation recorded for this session.")
		return nil
	}

	for _, t := range turns {
		fmt.Printf("[%s] %s\n", t.Role, t.Content)
	}
	return nil
}
