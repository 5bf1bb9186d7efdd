package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ChatRequest represents the chat API request.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// Product represents one recommended product in a chat response.
type Product struct {
	ProductID        string   `json:"productId"`
	ProductHandle    string   `json:"productHandle"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Price            string   `json:"price"`
	AvailableForSale bool     `json:"availableForSale"`
	Tags             []string `json:"tags"`
}

// ChatResponse represents the chat API response.
type ChatResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Products  []Product `json:"products"`
	SessionID string    `json:"sessionId,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// streamFrame is one server-sent event payload from the streaming endpoint.
type streamFrame struct {
	Type      string    `json:"type"`
	Content   string    `json:"content,omitempty"`
	Products  []Product `json:"products,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
}

// ChatCmd creates the chat command.
func ChatCmd() *cobra.Command {
	var (
		sessionID string
		stream    bool
	)

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message to the shopping assistant",
		Long:  "Sends one chat turn and prints the assistant's reply with any recommended products.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			if stream {
				return runChatStream(args[0], sessionID)
			}
			return runChat(args[0], sessionID, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID to continue an existing conversation")
	cmd.Flags().BoolVar(&stream, "stream", false, "Stream the reply token by token")

	return cmd
}

func runChat(message, sessionID string, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	body, err := api.Post("/api/assistant/chat", ChatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return fmt.Errorf("failed to parse chat response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(chatResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(chatResp.Message)
	printProducts(chatResp.Products)
	if chatResp.SessionID != "" {
		fmt.Printf("\nSession: %s\n", chatResp.SessionID)
	}

	return nil
}

func runChatStream(message, sessionID string) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	body, err := api.Stream("/api/assistant/chat/stream", ChatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	defer body.Close()

	var products []Product
	var doneSessionID string

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var frame streamFrame
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame); err != nil {
			continue
		}

		switch frame.Type {
		case "token", "error":
			fmt.Print(frame.Content)
		case "products":
			products = frame.Products
		case "done":
			doneSessionID = frame.SessionID
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream interrupted: %w", err)
	}

	fmt.Println()
	printProducts(products)
	if doneSessionID != "" {
		fmt.Printf("\nSession: %s\n", doneSessionID)
	}

	return nil
}

func printProducts(products []Product) {
	if len(products) == 0 {
		return
	}

	fmt.Printf("\nRecommended products:\n")
	for i, p := range products {
		fmt.Printf("%d. %s (%s)\n", i+1, p.Title, p.Price)
		if p.Description != "" {
			desc := p.Description
			if len(desc) > 100 {
				desc = desc[:97] + "..."
			}
			fmt.Printf("   %s\n", desc)
		}
		if !p.AvailableForSale {
			fmt.Println("   Currently unavailable")
		}
		if len(p.Tags) > 0 {
			fmt.Printf("   Tags: %s\n", strings.Join(p.Tags, ", "))
		}
	}
}
