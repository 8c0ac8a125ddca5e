package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/sitelens/internal/cli"
	"github.com/cloo-solutions/sitelens/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sitelensd",
		Short: "Sitelens daemon",
		Long:  "Sitelens daemon for running the website search API server",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
