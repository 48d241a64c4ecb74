package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Item mirrors the API's knowledge item representation.
type Item struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Summary   string   `json:"summary"`
	Type      string   `json:"type"`
	Tags      []string `json:"tags"`
	SourceURL string   `json:"source_url"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// CreateItemRequest represents the create item API request.
type CreateItemRequest struct {
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Summary   string   `json:"summary,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	SourceURL string   `json:"source_url,omitempty"`
}

// AddCmd creates the add command.
func AddCmd() *cobra.Command {
	var (
		file      string
		itemType  string
		title     string
		summary   string
		tags      []string
		sourceURL string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a knowledge item from stdin or file",
		Long: `Add a knowledge item with content from stdin or a file.

Examples:
  # Add a note from stdin
  echo "Closures capture their lexical scope." | mindstash add --type note --title "JS closures"

  # Add a link from a file with tags
  mindstash add --file article.md --type link --title "Raft paper" --url https://raft.github.io --tags consensus,raft`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAdd(cmd, file, itemType, title, summary, sourceURL, tags, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read content from file instead of stdin")
	cmd.Flags().StringVarP(&itemType, "type", "t", "note", "Item type (note, link, insight)")
	cmd.Flags().StringVar(&title, "title", "", "Title (required)")
	cmd.Flags().StringVar(&summary, "summary", "", "Summary (generated if omitted)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags (generated if omitted)")
	cmd.Flags().StringVar(&sourceURL, "url", "", "Source URL")

	return cmd
}

func runAdd(cmd *cobra.Command, file, itemType, title, summary, sourceURL string, tags []string, outputJSON bool) error {
	if title == "" {
		return fmt.Errorf("--title is required")
	}

	var content []byte
	var err error
	if file != "" {
		content, err = os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
	} else {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	if len(strings.TrimSpace(string(content))) == 0 {
		return fmt.Errorf("no content provided")
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	req := CreateItemRequest{
		Type:      itemType,
		Title:     title,
		Content:   string(content),
		Summary:   summary,
		Tags:      tags,
		SourceURL: sourceURL,
	}

	resp, err := api.Post("/items", req)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	var item Item
	if err := json.Unmarshal(resp.Data, &item); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(item, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Printf("Added %s: %s\n", item.Type, item.Title)
		fmt.Printf("ID: %s\n", item.ID)
		if item.Summary != "" {
			fmt.Printf("Summary: %s\n", item.Summary)
		}
		if len(item.Tags) > 0 {
			fmt.Printf("Tags: %s\n", strings.Join(item.Tags, ", "))
		}
	}

	return nil
}
