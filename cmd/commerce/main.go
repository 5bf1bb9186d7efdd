package main

import (
	"fmt"
	"os"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/cli"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "commerce",
		Short: "Commerce CLI - Conversational shopping assistant",
		Long: `Commerce CLI talks to the shopping assistant API server.

Environment variables:
  COMMERCE_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.ChatCmd())
	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.ReinitCmd())
	rootCmd.AddCommand(client.StatusCmd())
	rootCmd.AddCommand(client.MessagesCmd())
	rootCmd.AddCommand(client.AnalyticsCmd())
	rootCmd.AddCommand(client.ConfigureCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
