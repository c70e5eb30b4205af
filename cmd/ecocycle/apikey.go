package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/ecocycle/internal/cli"
	"github.com/verdantlabs/ecocycle/internal/common"
)

func apikeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage your classifier API key",
		Long: `Manage the image-classifier API key tied to your principal. Without a
key, logging still works; you just pick categories by hand.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key>",
		Short: "Store your classifier API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStoreAndPrincipal(cmd, func(ctx commandContext) error {
				if err := ctx.store.SetCredential(ctx.ctx, ctx.principal, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("API key saved"))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show whether an API key is configured",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStoreAndPrincipal(cmd, func(ctx commandContext) error {
				key, err := ctx.store.GetCredential(ctx.ctx, ctx.principal)
				if errors.Is(err, common.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No API key configured"))
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("API key configured: "+maskKey(key)))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Delete your classifier API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStoreAndPrincipal(cmd, func(ctx commandContext) error {
				if err := ctx.store.RemoveCredential(ctx.ctx, ctx.principal); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("API key removed"))
				return nil
			})
		},
	})

	return cmd
}

// maskKey leaves just enough of the key visible to recognize it.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
