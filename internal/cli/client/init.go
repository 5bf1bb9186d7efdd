package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// InitResponse represents the embedding initialization API response.
type InitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// StatusResponse represents the embedding status API response.
type StatusResponse struct {
	Initialized bool `json:"initialized"`
	Count       int  `json:"count"`
}

type initActionRequest struct {
	Action string `json:"action"`
}

// InitCmd creates the init command.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize product embeddings",
		Long:  "Asks the server to embed the product catalog. Idempotent: does nothing if embeddings already exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runInit(outputJSON)
		},
	}
	return cmd
}

func runInit(outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	body, err := api.Get("/api/assistant/init")
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}

	return printInitResponse(body, outputJSON)
}

// ReinitCmd creates the reinit command.
func ReinitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reinit",
		Short: "Rebuild product embeddings",
		Long:  "Asks the server to delete all stored embeddings and regenerate them from the catalog.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runReinit(outputJSON)
		},
	}
	return cmd
}

func runReinit(outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	body, err := api.Post("/api/assistant/init", initActionRequest{Action: "reinitialize"})
	if err != nil {
		return fmt.Errorf("reinit failed: %w", err)
	}

	return printInitResponse(body, outputJSON)
}

func printInitResponse(body []byte, outputJSON bool) error {
	var initResp InitResponse
	if err := json.Unmarshal(body, &initResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(initResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("%s (%d products)\n", initResp.Message, initResp.Count)
	return nil
}

// StatusCmd creates the status command.
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show embedding store status",
		Long:  "Reports whether product embeddings exist and how many products are indexed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStatus(outputJSON)
		},
	}
	return cmd
}

func runStatus(outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	body, err := api.Post("/api/assistant/init", initActionRequest{Action: "status"})
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	var statusResp StatusResponse
	if err := json.Unmarshal(body, &statusResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(statusResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if statusResp.Initialized {
		fmt.Printf("Embeddings initialized: %d products indexed\n", statusResp.Count)
	} else {
		fmt.Println("Embeddings not initialized")
	}

	return nil
}
