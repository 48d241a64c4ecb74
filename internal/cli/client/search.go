package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// PublicQueryResponse represents the public query API response.
type PublicQueryResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Data    []Item `json:"data"`
	Error   string `json:"error,omitempty"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge base",
		Long:  "Searches the knowledge base through the public query endpoint.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runSearch(cmd, args[0], outputJSON)
		},
	}

	return cmd
}

func runSearch(cmd *cobra.Command, query string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	// The public endpoint has its own envelope, so bypass the data wrapper.
	resp, err := api.httpClient.Get(api.baseURL + "/api/public/brain/query?q=" + url.QueryEscape(query))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	defer resp.Body.Close()

	var searchResp PublicQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return fmt.Errorf("failed to parse search results: %w", err)
	}

	if !searchResp.Success {
		return fmt.Errorf("search failed: %s", searchResp.Error)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(searchResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if searchResp.Count == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results:\n\n", searchResp.Count)
	for i, item := range searchResp.Data {
		fmt.Printf("%d. %s [%s]\n", i+1, item.Title, item.Type)
		if item.Summary != "" {
			summary := item.Summary
			if len(summary) > 100 {
				summary = summary[:97] + "..."
			}
			fmt.Printf("   %s\n", summary)
		}
		if len(item.Tags) > 0 {
			fmt.Printf("   Tags: %s\n", strings.Join(item.Tags, ", "))
		}
		fmt.Printf("   ID: %s\n", item.ID)
		if i < len(searchResp.Data)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}

	return nil
}
