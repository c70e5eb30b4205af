// Package analytics reduces the waste-log history into display summaries.
package analytics

import "github.com/verdantlabs/ecocycle/internal/model"

// Report is the reduced view of a history snapshot: total kilograms plus
// per-category and per-method breakdowns. Only keys actually present in the
// history appear in the maps.
type Report struct {
	ByCategory    map[model.WasteCategory]float64  `json:"categoryBreakdown"`
	ByMethod      map[model.DisposalMethod]float64 `json:"methodBreakdown"`
	TotalQuantity float64                          `json:"totalWaste"`
	LogCount      int64                            `json:"logCount"`
}

// Reduce folds the history into a Report in a single pass. The fold is
// associative and commutative: entry order never affects the result.
func Reduce(logs []model.WasteLog) Report {
	report := Report{
		ByCategory: make(map[model.WasteCategory]float64),
		ByMethod:   make(map[model.DisposalMethod]float64),
	}

	for _, entry := range logs {
		report.TotalQuantity += entry.Quantity
		report.ByCategory[entry.Category] += entry.Quantity
		report.ByMethod[entry.Method] += entry.Quantity
		report.LogCount++
	}

	return report
}
