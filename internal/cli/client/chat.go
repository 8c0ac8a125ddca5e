package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ChatCmd creates the chat command.
func ChatCmd() *cobra.Command {
	var (
		website string
		model   string
	)

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Chat with search grounding",
		Long:  "Sends a message to the search-augmented chat endpoint scoped to one website.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := NewAPIClientWithCmd(cmd)
			messages := []map[string]string{
				{"role": "user", "content": args[0]},
			}

			raw, status, err := api.ChatWebsite(website, model, messages)
			if err != nil {
				return err
			}

			printJSON(raw)
			if status != 200 {
				return fmt.Errorf("chat failed with status %d", status)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&website, "website", "w", "", "Website domain to ground the chat (required)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Override the chat model")
	_ = cmd.MarkFlagRequired("website")

	return cmd
}
