// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"
)

// WasteCategory identifies the fixed waste taxonomy an entry belongs to.
type WasteCategory string

// Waste category constants.
const (
	CategoryRecyclables  WasteCategory = "recyclables"
	CategoryCompostables WasteCategory = "compostables"
	CategoryGeneralWaste WasteCategory = "generalWaste"
	CategoryHazardous    WasteCategory = "hazardousMaterials"
	CategoryElectronics  WasteCategory = "electronicsWaste"
)

// Categories lists every valid waste category in display order.
func Categories() []WasteCategory {
	return []WasteCategory{
		CategoryRecyclables,
		CategoryCompostables,
		CategoryGeneralWaste,
		CategoryHazardous,
		CategoryElectronics,
	}
}

// Valid reports whether the category is one of the fixed enumeration values.
func (c WasteCategory) Valid() bool {
	switch c {
	case CategoryRecyclables, CategoryCompostables, CategoryGeneralWaste,
		CategoryHazardous, CategoryElectronics:
		return true
	}
	return false
}

// ParseCategory converts a string into a WasteCategory, failing on unknown values.
func ParseCategory(s string) (WasteCategory, error) {
	c := WasteCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown waste category: %q", s)
	}
	return c, nil
}

// DisposalMethod identifies how a waste entry was disposed of.
type DisposalMethod string

// Disposal method constants.
const (
	MethodRecycling    DisposalMethod = "recycling"
	MethodComposting   DisposalMethod = "composting"
	MethodLandfill     DisposalMethod = "landfill"
	MethodIncineration DisposalMethod = "incineration"
)

// Methods lists every valid disposal method in display order.
func Methods() []DisposalMethod {
	return []DisposalMethod{
		MethodRecycling,
		MethodComposting,
		MethodLandfill,
		MethodIncineration,
	}
}

// Valid reports whether the method is one of the fixed enumeration values.
func (m DisposalMethod) Valid() bool {
	switch m {
	case MethodRecycling, MethodComposting, MethodLandfill, MethodIncineration:
		return true
	}
	return false
}

// ParseMethod converts a string into a DisposalMethod, failing on unknown values.
func ParseMethod(s string) (DisposalMethod, error) {
	m := DisposalMethod(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown disposal method: %q", s)
	}
	return m, nil
}

// WasteLog is a single immutable waste-disposal event. Entries are append-only:
// the store assigns IDs monotonically and nothing ever mutates a saved entry.
type WasteLog struct {
	Timestamp time.Time      `json:"timestamp"`
	Owner     string         `json:"owner"`
	Category  WasteCategory  `json:"category"`
	Method    DisposalMethod `json:"method"`
	ID        int64          `json:"id"`
	Quantity  float64        `json:"quantity"` // kilograms, > 0
}
