package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a knowledge item by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runDelete(cmd, args[0], outputJSON)
		},
	}

	return cmd
}

func runDelete(cmd *cobra.Command, itemID string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	if _, err := api.Delete(fmt.Sprintf("/items/%s", itemID)); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(map[string]string{
			"id":     itemID,
			"status": "deleted",
		}, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Printf("Deleted item: %s\n", itemID)
	}

	return nil
}
