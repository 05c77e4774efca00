package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// UploadResult represents the upload API response.
type UploadResult struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Characters int    `json:"characters"`
	Preview    string `json:"preview"`
	CreatedAt  string `json:"created_at"`
}

// UploadCmd creates the upload command.
func UploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document (PDF or plain text)",
		Long: `Upload a document for indexing. The file's text is extracted,
embedded, and stored so later questions can draw on it.

Examples:
  docyard upload report.pdf
  docyard upload notes.txt --output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runUpload(cmd, args[0], outputJSON)
		},
	}

	return cmd
}

func runUpload(cmd *cobra.Command, path string, outputJSON bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.PostFile("/api/upload", "file", filepath.Base(path), data)
	if err != nil {
		return err
	}

	var result UploadResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Uploaded %s (%d characters)\n", result.Filename, result.Characters)
	fmt.Printf("ID: %s\n", result.ID)
	return nil
}
