package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var (
		website   string
		imagePath string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search a website",
		Long:  "Searches one website using a text query, an image, or both.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			if query == "" && imagePath == "" {
				return fmt.Errorf("provide a query, an image, or both")
			}

			api := NewAPIClientWithCmd(cmd)
			raw, status, err := api.SearchWebsite(website, query, imagePath)
			if err != nil {
				return err
			}

			printJSON(raw)
			if status != 200 {
				return fmt.Errorf("search failed with status %d", status)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&website, "website", "w", "", "Website domain to search (required)")
	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to a PNG or JPEG image")
	_ = cmd.MarkFlagRequired("website")

	return cmd
}

func printJSON(raw json.RawMessage) {
	var pretty interface{}
	if err := json.Unmarshal(raw, &pretty); err != nil {
		fmt.Println(string(raw))
		return
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(string(out))
}
