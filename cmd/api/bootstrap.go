package main

import (
	"github.com/procodeli/portal/internal/infrastructure/dynamo"
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the sessions and verifications tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dynamo.NewClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		dynamo.Bootstrap(cmd.Context(), client, cfg.DynamoTables)
		return nil
	},
}
