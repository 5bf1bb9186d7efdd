package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// ConfigureCmd creates the configure command.
func ConfigureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Manage client configuration",
		Long:  "Show or change the server URL the client talks to.",
	}

	cmd.AddCommand(configureSetURLCmd())
	cmd.AddCommand(configureShowCmd())
	cmd.AddCommand(configureResetCmd())

	return cmd
}

func configureSetURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <url>",
		Short: "Set the server URL",
		Long:  "Saves the server base URL to the global config file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadGlobalConfig()
			if err != nil {
				return err
			}
			if config == nil {
				config = &GlobalConfig{}
			}
			config.APIURL = args[0]

			if err := SaveGlobalConfig(config); err != nil {
				return err
			}

			configPath, _ := GetConfigPath()
			fmt.Printf("Saved server URL to %s\n", configPath)
			return nil
		},
	}
}

func configureShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active configuration",
		Long:  "Prints the resolved server URL and where it came from.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClient()
			if err != nil {
				return err
			}

			if outputJSON {
				output, _ := json.MarshalIndent(map[string]string{"api_url": api.baseURL}, "", "  ")
				fmt.Println(string(output))
				return nil
			}

			fmt.Printf("Server URL: %s\n", api.baseURL)
			return nil
		},
	}
}

func configureResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved configuration",
		Long:  "Removes the global config file so the client falls back to environment and defaults.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := DeleteGlobalConfig(); err != nil {
				return err
			}
			fmt.Println("Configuration reset")
			return nil
		},
	}
}
