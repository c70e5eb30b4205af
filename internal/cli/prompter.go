package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verdantlabs/ecocycle/internal/model"
)

// Prompter walks a user through reviewing a classification suggestion and
// filling out the rest of a waste-log draft.
type Prompter struct {
	reader *NonBlockingReader
	out    io.Writer
}

// NewPrompter creates a prompter over the given input and output streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: NewNonBlockingReader(in),
		out:    out,
	}
}

// ReviewSuggestion shows the classifier's suggestion and lets the user accept
// it or pick a different category. The returned bool reports whether the
// suggestion was accepted as-is.
func (p *Prompter) ReviewSuggestion(ctx context.Context, suggestion model.ClassificationSuggestion) (model.WasteCategory, bool, error) {
	content := fmt.Sprintf("Category:    %s\nDescription: %s\nConfidence:  %.0f%%",
		suggestion.Category,
		suggestion.Description,
		suggestion.Confidence*100)
	fmt.Fprintln(p.out, RenderBox(CameraIcon+" Classification", content))

	for {
		fmt.Fprint(p.out, FormatPrompt("[a]ccept or [c]hange category"))

		answer, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", false, err
		}

		switch strings.ToLower(answer) {
		case "a", "accept", "":
			return suggestion.Category, true, nil
		case "c", "change":
			category, err := p.PickCategory(ctx)
			if err != nil {
				return "", false, err
			}
			return category, false, nil
		default:
			fmt.Fprintln(p.out, FormatWarning("Please answer 'a' or 'c'"))
		}
	}
}

// PickCategory presents the fixed waste taxonomy as a numbered list.
func (p *Prompter) PickCategory(ctx context.Context) (model.WasteCategory, error) {
	categories := model.Categories()

	fmt.Fprintln(p.out, TitleStyle.Render("Waste categories:"))
	for i, category := range categories {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, category)
	}

	index, err := p.pickIndex(ctx, len(categories))
	if err != nil {
		return "", err
	}
	return categories[index], nil
}

// PickMethod presents the disposal methods as a numbered list.
func (p *Prompter) PickMethod(ctx context.Context) (model.DisposalMethod, error) {
	methods := model.Methods()

	fmt.Fprintln(p.out, TitleStyle.Render("Disposal methods:"))
	for i, method := range methods {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, method)
	}

	index, err := p.pickIndex(ctx, len(methods))
	if err != nil {
		return "", err
	}
	return methods[index], nil
}

// AskQuantity reads a positive weight in kilograms.
func (p *Prompter) AskQuantity(ctx context.Context) (float64, error) {
	for {
		fmt.Fprint(p.out, FormatPrompt("Weight in kg"))

		answer, err := p.reader.ReadLine(ctx)
		if err != nil {
			return 0, err
		}

		quantity, parseErr := strconv.ParseFloat(answer, 64)
		if parseErr != nil || quantity <= 0 {
			fmt.Fprintln(p.out, FormatWarning("Enter a positive number, e.g. 0.5"))
			continue
		}
		return quantity, nil
	}
}

// Confirm asks a yes/no question. Empty input means yes.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		fmt.Fprint(p.out, FormatPrompt(question+" [Y/n]"))

		answer, err := p.reader.ReadLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes", "":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(p.out, FormatWarning("Please answer 'y' or 'n'"))
		}
	}
}

func (p *Prompter) pickIndex(ctx context.Context, count int) (int, error) {
	for {
		fmt.Fprint(p.out, FormatPrompt(fmt.Sprintf("Choice [1-%d]", count)))

		answer, err := p.reader.ReadLine(ctx)
		if err != nil {
			return 0, err
		}

		choice, parseErr := strconv.Atoi(answer)
		if parseErr != nil || choice < 1 || choice > count {
			fmt.Fprintln(p.out, FormatWarning(fmt.Sprintf("Enter a number between 1 and %d", count)))
			continue
		}
		return choice - 1, nil
	}
}
