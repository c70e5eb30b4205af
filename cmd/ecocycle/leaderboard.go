package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/ecocycle/internal/cli"
	"github.com/verdantlabs/ecocycle/internal/leaderboard"
)

func leaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the community leaderboard",
		RunE:  runLeaderboard,
	}

	cmd.Flags().IntP("limit", "n", 10, "Number of entries to show")

	return cmd
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rows, err := store.GetLeaderboardRows(ctx)
	if err != nil {
		return err
	}

	ranked := leaderboard.Rank(rows)
	if len(ranked) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No participants yet. Be the first to log some waste!"))
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	fmt.Fprintln(out, cli.FormatTitle("Community leaderboard"))
	fmt.Fprintln(out, cli.TableHeaderStyle.Render(fmt.Sprintf("%4s  %-24s %10s %8s", "Rank", "User", "Points", "Logs")))
	for _, entry := range ranked {
		line := fmt.Sprintf("%4d  %-24s %10d %8d", entry.Rank, entry.User, entry.Points, entry.WasteLogged)
		if entry.Rank == 1 {
			line += "  " + cli.TrophyIcon
		}
		fmt.Fprintln(out, cli.TableCellStyle.Render(line))
	}

	if principal, err := resolvePrincipal(); err == nil {
		if rank, ok := leaderboard.RankOf(rows, principal); ok {
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Your rank: #%d of %d", rank, len(rows))))
		}
	}

	return nil
}
