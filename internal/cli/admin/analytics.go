package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/repository"
	"github.com/spf13/cobra"
)

func AnalyticsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show conversation analytics",
		Long:  "Aggregate message, session, and search activity over a trailing window",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runAnalytics(outputFormat, days)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().IntVarP(&days, "days", "d", 7, "Window size in days")

	return cmd
}

func runAnalytics(outputFormat string, days int) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	analyticsRepo := repository.NewAnalyticsRepository(pool)
	report, err := analyticsRepo.BuildReport(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if outputFormat == "json" {
		jsonBytes, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(jsonBytes))
		return nil
	}

	fmt.Printf("Last %d days\n", days)
	fmt.Printf("  Messages:        %d\n", report.TotalMessages)
	fmt.Printf("  Sessions:        %d\n", report.TotalSessions)
	fmt.Printf("  Searches:        %d\n", report.TotalSearches)
	fmt.Printf("  Missing queries: %d\n", report.MissingQueries)

	if len(report.TopSearches) > 0 {
		fmt.Println("Top searches:")
		for _, qc := range report.TopSearches {
			fmt.Printf("  %4d  %s\n", qc.Count, qc.Query)
		}
	}
	if len(report.TopMissing) > 0 {
		fmt.Println("Top missing queries:")
		for _, qc := range report.TopMissing {
			fmt.Printf("  %4d  %s\n", qc.Count, qc.Query)
		}
	}
	if len(report.MessagesPerDay) > 0 {
		fmt.Println("Messages per day:")
		for _, dc := range report.MessagesPerDay {
			fmt.Printf("  %s  %d\n", dc.Date, dc.Count)
		}
	}

	return nil
}
