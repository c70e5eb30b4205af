package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdantlabs/ecocycle/internal/analytics"
	"github.com/verdantlabs/ecocycle/internal/cli"
	"github.com/verdantlabs/ecocycle/internal/model"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your waste breakdown and balance",
		RunE:  runStats,
	}

	cmd.Flags().IntP("recent", "n", 5, "Number of recent entries to show")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
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

	report := analytics.Reduce(logs)

	var b strings.Builder
	fmt.Fprintf(&b, "Entries:      %d\n", report.LogCount)
	fmt.Fprintf(&b, "Total waste:  %.2f kg\n", report.TotalQuantity)
	fmt.Fprintf(&b, "Balance:      %s %d points\n\n", cli.CoinIcon, balance)

	b.WriteString("By category:\n")
	for _, category := range model.Categories() {
		if kg, ok := report.ByCategory[category]; ok {
			fmt.Fprintf(&b, "  %-20s %8.2f kg\n", category, kg)
		}
	}

	b.WriteString("\nBy method:\n")
	for _, method := range model.Methods() {
		if kg, ok := report.ByMethod[method]; ok {
			fmt.Fprintf(&b, "  %-20s %8.2f kg\n", method, kg)
		}
	}

	fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" Waste statistics", strings.TrimRight(b.String(), "\n")))

	recent, _ := cmd.Flags().GetInt("recent")
	if recent > 0 && len(logs) > 0 {
		if recent > len(logs) {
			recent = len(logs)
		}
		fmt.Fprintln(out, cli.TitleStyle.Render("Recent entries:"))
		for _, log := range logs[:recent] {
			fmt.Fprintf(out, "  %s  %-20s %-14s %6.2f kg\n",
				formatDay(log.Timestamp), log.Category, log.Method, log.Quantity)
		}
	}

	return nil
}
