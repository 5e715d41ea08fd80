package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var statusCmd = &cobra.Command{
	Use:   "status <document-id>",
	Short: "Show the processing status of an uploaded document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		doc, err := client.Status(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("formatting status: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
