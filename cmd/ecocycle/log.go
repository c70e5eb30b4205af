package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verdantlabs/ecocycle/internal/cli"
	"github.com/verdantlabs/ecocycle/internal/common"
	"github.com/verdantlabs/ecocycle/internal/model"
	"github.com/verdantlabs/ecocycle/internal/vision"
	"github.com/verdantlabs/ecocycle/internal/workflow"
)

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a waste disposal and earn points",
		Long: `Log a waste disposal entry. With --image, the classifier suggests a
category from the photo and you confirm or correct it; without one, you pick
the category yourself. Either way you always have the final word.`,
		RunE: runLog,
	}

	cmd.Flags().StringP("image", "i", "", "Photo of the waste item to classify")
	cmd.Flags().StringP("category", "c", "", "Waste category (skips the interactive pick)")
	cmd.Flags().StringP("method", "m", "", "Disposal method (skips the interactive pick)")
	cmd.Flags().Float64P("quantity", "q", 0, "Weight in kilograms")

	_ = viper.BindPFlag("log.image", cmd.Flags().Lookup("image"))

	return cmd
}

func runLog(cmd *cobra.Command, _ []string) error {
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

	gateway := newGateway(nil)
	defer func() { _ = gateway.Close() }()

	wf := workflow.New(gateway, store, principal, nil)
	prompter := cli.NewPrompter(os.Stdin, os.Stdout)

	imagePath, _ := cmd.Flags().GetString("image")
	categoryFlag, _ := cmd.Flags().GetString("category")
	methodFlag, _ := cmd.Flags().GetString("method")
	quantityFlag, _ := cmd.Flags().GetFloat64("quantity")

	// Category: classifier suggestion, explicit flag, or interactive pick.
	switch {
	case categoryFlag != "":
		category, parseErr := model.ParseCategory(categoryFlag)
		if parseErr != nil {
			return parseErr
		}
		if err := wf.Override(category); err != nil {
			return err
		}

	case imagePath != "":
		if err := classifyImage(cmd, wf, store, prompter, principal, imagePath); err != nil {
			return err
		}

	default:
		category, pickErr := prompter.PickCategory(ctx)
		if pickErr != nil {
			return pickErr
		}
		if err := wf.Override(category); err != nil {
			return err
		}
	}

	// Disposal method.
	if methodFlag != "" {
		method, parseErr := model.ParseMethod(methodFlag)
		if parseErr != nil {
			return parseErr
		}
		if err := wf.SetMethod(method); err != nil {
			return err
		}
	} else {
		method, pickErr := prompter.PickMethod(ctx)
		if pickErr != nil {
			return pickErr
		}
		if err := wf.SetMethod(method); err != nil {
			return err
		}
	}

	// Quantity.
	if quantityFlag > 0 {
		if err := wf.SetQuantity(quantityFlag); err != nil {
			return err
		}
	} else {
		quantity, askErr := prompter.AskQuantity(ctx)
		if askErr != nil {
			return askErr
		}
		if err := wf.SetQuantity(quantity); err != nil {
			return err
		}
	}

	result, err := wf.Submit(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Logged %.2f kg of %s (+%d points)",
		result.Log.Quantity, result.Log.Category, result.Points)))

	return nil
}

// classifyImage runs the select-analyze-review leg of the workflow.
func classifyImage(cmd *cobra.Command, wf *workflow.Workflow, store credentialSource, prompter *cli.Prompter, principal, imagePath string) error {
	ctx := cmd.Context()

	img, err := readImage(imagePath)
	if err != nil {
		return err
	}

	credential, err := store.GetCredential(ctx, principal)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	if err := wf.SelectImage(img); err != nil {
		return err
	}
	if err := wf.Analyze(ctx, credential); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Analyzing image..."))

	suggestion, err := wf.AwaitAnalysis(ctx)
	if err != nil {
		// Classification failing never blocks logging; fall back to a
		// manual pick.
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(classifyFailureMessage(err)))
		category, pickErr := prompter.PickCategory(ctx)
		if pickErr != nil {
			return pickErr
		}
		return wf.Override(category)
	}

	category, accepted, err := prompter.ReviewSuggestion(ctx, suggestion)
	if err != nil {
		return err
	}
	if accepted {
		return wf.AcceptSuggestion()
	}
	return wf.Override(category)
}

func classifyFailureMessage(err error) string {
	switch {
	case errors.Is(err, vision.ErrCredentialMissing):
		return "No classifier API key configured (run 'ecocycle apikey set'); pick the category manually"
	case errors.Is(err, vision.ErrEmptyResponse):
		return "The classifier returned nothing useful; pick the category manually"
	default:
		return fmt.Sprintf("Classification failed (%v); pick the category manually", err)
	}
}

// credentialSource is the slice of the store classifyImage needs.
type credentialSource interface {
	GetCredential(ctx context.Context, owner string) (string, error)
}
