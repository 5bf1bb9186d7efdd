package client

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// QueryCount is one aggregated query with its occurrence count.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// DayCount is one day's message volume.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsReport represents the analytics API response payload.
type AnalyticsReport struct {
	TotalMessages  int          `json:"total_messages"`
	TotalSessions  int          `json:"total_sessions"`
	TotalSearches  int          `json:"total_searches"`
	MissingQueries int          `json:"missing_queries"`
	TopSearches    []QueryCount `json:"top_searches"`
	TopMissing     []QueryCount `json:"top_missing"`
	MessagesPerDay []DayCount   `json:"messages_per_day"`
}

// AnalyticsCmd creates the analytics command.
func AnalyticsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show conversation analytics",
		Long:  "Prints aggregate message, session, and search activity over a trailing window.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runClientAnalytics(days, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "Window size in days")

	return cmd
}

func runClientAnalytics(days int, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	body, err := api.Get("/api/admin/analytics?days=" + strconv.Itoa(days))
	if err != nil {
		return fmt.Errorf("failed to fetch analytics: %w", err)
	}

	var envelope struct {
		Data AnalyticsReport `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	report := envelope.Data

	if outputJSON {
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
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

	return nil
}
