package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/verdantlabs/ecocycle/internal/cli"
	"github.com/verdantlabs/ecocycle/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk import waste logs from a CSV file",
		Long: `Import waste log entries from a CSV file with columns:

    category,method,quantity

Each row is validated and awarded points exactly as if logged interactively.
Invalid rows are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Validate the file without saving anything")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	principal, err := resolvePrincipal()
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	file, err := os.Open(args[0]) // #nosec G304 -- user-supplied import path
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = file.Close() }()

	rows, err := readImportRows(file)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Nothing to import"))
		return nil
	}

	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	bar := progressbar.NewOptions(len(rows),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[green][bold]Importing waste logs...[reset]"),
	)

	var imported, skipped int
	var totalPoints int64
	for i, row := range rows {
		_ = bar.Add(1)

		if row.err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(
				fmt.Sprintf("row %d skipped: %v", i+1, row.err)))
			skipped++
			continue
		}
		if dryRun {
			imported++
			continue
		}

		_, points, logErr := store.LogWaste(ctx, principal, row.category, row.method, row.quantity)
		if logErr != nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(
				fmt.Sprintf("row %d skipped: %v", i+1, logErr)))
			skipped++
			continue
		}
		imported++
		totalPoints += points
	}

	summary := fmt.Sprintf("Imported %d entries (+%d points), skipped %d", imported, totalPoints, skipped)
	if dryRun {
		summary = fmt.Sprintf("Dry run: %d valid entries, %d invalid", imported, skipped)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(summary))

	return nil
}

type importRow struct {
	err      error
	category model.WasteCategory
	method   model.DisposalMethod
	quantity float64
}

// readImportRows parses the CSV, tolerating a header line.
func readImportRows(r io.Reader) ([]importRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var rows []importRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}

		if len(rows) == 0 && record[0] == "category" {
			continue
		}

		rows = append(rows, parseImportRow(record))
	}
	return rows, nil
}

func parseImportRow(record []string) importRow {
	category, err := model.ParseCategory(record[0])
	if err != nil {
		return importRow{err: err}
	}
	method, err := model.ParseMethod(record[1])
	if err != nil {
		return importRow{err: err}
	}
	quantity, err := strconv.ParseFloat(record[2], 64)
	if err != nil || quantity <= 0 {
		return importRow{err: fmt.Errorf("invalid quantity %q", record[2])}
	}
	return importRow{category: category, method: method, quantity: quantity}
}
