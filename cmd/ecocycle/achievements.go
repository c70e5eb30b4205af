package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/ecocycle/internal/cli"
	"github.com/verdantlabs/ecocycle/internal/progression"
)

func achievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "Show your achievements, milestones, and streak",
		RunE:  runAchievements,
	}
}

func runAchievements(cmd *cobra.Command, _ []string) error {
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

	logs, err := store.GetLogs(ctx, principal)
	if err != nil {
		return err
	}
	balance, err := store.GetBalance(ctx, principal)
	if err != nil {
		return err
	}

	streak := progression.Streak(logs)
	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Progress for %s", principal)))
	fmt.Fprintf(out, "  Current streak: %d day(s)\n\n", streak)

	fmt.Fprintln(out, cli.TitleStyle.Render("Milestones:"))
	for _, milestone := range progression.Milestones(len(logs)) {
		marker := cli.SubtleStyle.Render("○")
		if milestone.Achieved {
			marker = cli.SuccessStyle.Render(cli.SuccessIcon)
		}
		fmt.Fprintf(out, "  %s %s (%d logs)\n", marker, milestone.Label, milestone.Threshold)
	}
	if next, ok := progression.NextMilestone(len(logs)); ok {
		percent := progression.ProgressToNext(len(logs)) * 100
		fmt.Fprintf(out, "  %s\n", cli.SubtleStyle.Render(
			fmt.Sprintf("next: %s, %.0f%% there", next.Label, percent)))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.TitleStyle.Render("Achievements:"))
	for _, achievement := range progression.EvaluateAchievements(logs, balance) {
		var line strings.Builder
		if achievement.Unlocked {
			line.WriteString(cli.SuccessStyle.Render(cli.SuccessIcon + " " + achievement.Name))
		} else {
			line.WriteString(cli.SubtleStyle.Render("○ " + achievement.Name))
		}
		line.WriteString(fmt.Sprintf("  %d/%d", achievement.Progress, achievement.Target))
		line.WriteString("  " + cli.SubtleStyle.Render(achievement.Description))
		fmt.Fprintln(out, "  "+line.String())
	}

	return nil
}
