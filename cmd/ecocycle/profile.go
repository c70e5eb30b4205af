package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/ecocycle/internal/cli"
	"github.com/verdantlabs/ecocycle/internal/common"
	"github.com/verdantlabs/ecocycle/internal/model"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		RunE:  runShowProfile,
	}

	set := &cobra.Command{
		Use:   "set <name>",
		Short: "Set your display name",
		Args:  cobra.ExactArgs(1),
		RunE:  runSetProfile,
	}

	cmd.AddCommand(set)
	return cmd
}

func runShowProfile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	principal, err := resolvePrincipal()
	if err != nil {
		return err
	}

	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	profile, err := store.GetProfile(ctx, principal)
	if errors.Is(err, common.ErrNotFound) {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf(
			"No profile for %s yet; run 'ecocycle profile set <name>'", principal)))
		return nil
	}
	if err != nil {
		return err
	}

	content := fmt.Sprintf("Principal: %s\nName:      %s\nMember since: %s",
		profile.Principal, profile.Name, formatDay(profile.CreatedAt))
	fmt.Fprintln(out, cli.RenderBox("Profile", content))
	return nil
}

func runSetProfile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	principal, err := resolvePrincipal()
	if err != nil {
		return err
	}

	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	profile := &model.UserProfile{Principal: principal, Name: args[0]}
	if err := store.SaveProfile(ctx, profile); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Profile saved"))
	return nil
}
