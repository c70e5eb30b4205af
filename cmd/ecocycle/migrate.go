package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/ecocycle/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// initStore migrates as part of opening.
			store, err := initStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Database schema is up to date"))
			return nil
		},
	}
}
