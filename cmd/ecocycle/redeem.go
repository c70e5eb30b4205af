package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verdantlabs/ecocycle/internal/cli"
	"github.com/verdantlabs/ecocycle/internal/model"
)

func redeemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redeem",
		Short: "Redeem reward points for crypto",
		Long: `Redeem reward points. The amount is debited from your balance when the
request is created; payout happens out of band once the request is approved.`,
		RunE: runRedeem,
	}

	cmd.Flags().Int64P("amount", "a", 0, "Points to redeem")
	cmd.Flags().String("crypto", "ICP", "Crypto token to redeem for")
	cmd.Flags().Bool("list", false, "List your redemption requests instead")

	return cmd
}

func runRedeem(cmd *cobra.Command, _ []string) error {
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

	if list, _ := cmd.Flags().GetBool("list"); list {
		requests, listErr := store.GetRedemptions(ctx, principal)
		if listErr != nil {
			return listErr
		}
		if len(requests) == 0 {
			fmt.Fprintln(out, cli.FormatInfo("No redemption requests yet"))
			return nil
		}
		fmt.Fprintln(out, cli.TableHeaderStyle.Render(fmt.Sprintf("%-18s %8s %-6s %-10s", "Created", "Points", "Token", "Status")))
		for _, req := range requests {
			fmt.Fprintf(out, "%-18s %8d %-6s %-10s\n",
				formatDay(req.CreatedAt), req.Amount, req.CryptoType, req.Status)
		}
		return nil
	}

	amount, _ := cmd.Flags().GetInt64("amount")
	if amount <= 0 {
		return fmt.Errorf("pass a positive --amount of points to redeem")
	}
	crypto, _ := cmd.Flags().GetString("crypto")

	exchangeRate := viper.GetFloat64("redeem.rates." + crypto)
	if exchangeRate == 0 {
		exchangeRate = 0.001
	}

	balance, err := store.GetBalance(ctx, principal)
	if err != nil {
		return err
	}

	prompter := cli.NewPrompter(os.Stdin, out)
	confirmed, err := prompter.Confirm(ctx, fmt.Sprintf(
		"Redeem %d of your %d points for %.4f %s?",
		amount, balance, float64(amount)*exchangeRate, crypto))
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(out, cli.FormatInfo("Redemption canceled"))
		return nil
	}

	req := &model.RedemptionRequest{
		Owner:        principal,
		Amount:       amount,
		CryptoType:   crypto,
		ExchangeRate: exchangeRate,
	}
	if err := store.CreateRedemption(ctx, req); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf(
		"Redemption request #%d created (%d points, pending approval)", req.ID, req.Amount)))

	return nil
}
