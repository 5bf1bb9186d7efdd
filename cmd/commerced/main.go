package main

import (
	"fmt"
	"os"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/cli"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "commerced",
		Short: "Commerce assistant daemon and CLI",
		Long:  "Commerce assistant daemon for running the API server and managing catalog embeddings",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.CatalogCmd())
	rootCmd.AddCommand(admin.AnalyticsCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
