package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Message represents one message in a session transcript.
type Message struct {
	ID        int64  `json:"id"`
	SessionID string `json:"sessionId"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// MessagesResponse represents the session transcript API response.
type MessagesResponse struct {
	SessionID string    `json:"sessionId"`
	Messages  []Message `json:"messages"`
}

// MessagesCmd creates the messages command.
func MessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages <session-id>",
		Short: "Show a session transcript",
		Long:  "Prints every message in a conversation session in insertion order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runMessages(args[0], outputJSON)
		},
	}
	return cmd
}

func runMessages(sessionID string, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	body, err := api.Get("/api/assistant/sessions/" + sessionID + "/messages")
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}

	var msgResp MessagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(msgResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(msgResp.Messages) == 0 {
		fmt.Println("No messages in this session.")
		return nil
	}

	for _, msg := range msgResp.Messages {
		fmt.Printf("[%s] %s: %s\n", msg.CreatedAt, msg.Role, msg.Content)
	}

	return nil
}
