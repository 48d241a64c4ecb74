package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// ItemListResponse represents the list API response.
type ItemListResponse struct {
	Items []Item `json:"items"`
	Count int    `json:"count"`
}

// ListCmd creates the list command.
func ListCmd() *cobra.Command {
	var (
		itemType  string
		tags      []string
		search    string
		sortBy    string
		sortOrder string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge items",
		Long:  "Lists knowledge items with optional type, tag and text filters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runList(cmd, itemType, tags, search, sortBy, sortOrder, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&itemType, "type", "t", "", "Filter by item type (note, link, insight)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Filter by tags (any match)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Full-text search term")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort column (created_at, title)")
	cmd.Flags().StringVar(&sortOrder, "order", "", "Sort order (asc, desc)")

	return cmd
}

func runList(cmd *cobra.Command, itemType string, tags []string, search, sortBy, sortOrder string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	query := url.Values{}
	if itemType != "" {
		query.Set("type", itemType)
	}
	if len(tags) > 0 {
		query.Set("tags", strings.Join(tags, ","))
	}
	if search != "" {
		query.Set("search", search)
	}
	if sortBy != "" {
		query.Set("sort_by", sortBy)
	}
	if sortOrder != "" {
		query.Set("sort_order", sortOrder)
	}

	path := "/items"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	var listResp ItemListResponse
	if err := json.Unmarshal(resp.Data, &listResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(listResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(listResp.Items) == 0 {
		fmt.Println("No items found.")
		return nil
	}

	fmt.Printf("Found %d items:\n\n", listResp.Count)
	for i, item := range listResp.Items {
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
		if item.SourceURL != "" {
			fmt.Printf("   Source: %s\n", item.SourceURL)
		}
		fmt.Printf("   ID: %s\n", item.ID)
		if i < len(listResp.Items)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}

	return nil
}
