package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// AskRequest represents the ask API request.
type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// AskSource is one retrieved document backing the answer.
type AskSource struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Score      float64 `json:"score"`
}

// AskResult represents the ask API response.
type AskResult struct {
	Answer  string      `json:"answer"`
	Sources []AskSource `json:"sources"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question over the uploaded documents",
		Long: `Ask a question. The most relevant uploaded documents are retrieved
and an answer is generated from their content.

Examples:
  docyard ask "What does the contract say about termination?"
  docyard ask --session review-1 "Summarize the findings"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAsk(cmd, args[0], sessionID, outputJSON)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID for conversation logging")

	return cmd
}

func runAsk(cmd *cobra.Command, question, sessionID string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/api/ask", AskRequest{Question: question, SessionID: sessionID})
	if err != nil {
		return err
	}

	var result AskResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(result.Answer)
	if len(result.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range result.Sources {
			fmt.Printf("  %s (score %.3f)\n", src.Filename, src.Score)
		}
	}
	return nil
}
