package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// DocumentResult represents one document in the listing API response.
type DocumentResult struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Text        string `json:"text"`
	Characters  int    `json:"characters"`
	CreatedAt   string `json:"created_at"`
}

// ListCmd creates the list command.
func ListCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runList(cmd, full, outputJSON)
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print full extracted text for each document")

	return cmd
}

func runList(cmd *cobra.Command, full, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/documents")
	if err != nil {
		return err
	}

	var docs []DocumentResult
	if err := json.Unmarshal(resp.Data, &docs); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		out, _ := json.MarshalIndent(docs, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	if len(docs) == 0 {
		fmt.Println("No documents uploaded yet.")
		return nil
	}

	for _, d := range docs {
		fmt.Printf("%s  %s  (%d characters, %s)\n", d.ID, d.Filename, d.Characters, d.CreatedAt)
		if full {
			fmt.Println(d.Text)
			fmt.Println()
		}
	}
	return nil
}
