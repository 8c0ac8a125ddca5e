package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/sitelens/internal/cli"
	"github.com/cloo-solutions/sitelens/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "sitelens",
		Short: "Sitelens CLI - website search from images and text",
		Long: `Sitelens CLI sends search and chat requests to a running sitelens server.

Environment variables:
  SITELENS_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.ChatCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
