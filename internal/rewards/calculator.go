// Package rewards maps a logged waste entry to an integer point award.
//
// The award is floor(base(category) × multiplier(method) × quantity), with
// quantity scaling linearly in kilograms. Base values and multipliers are
// configuration, not part of the algorithm.
package rewards

import (
	"math"

	"github.com/verdantlabs/ecocycle/internal/model"
)

// Config holds the reward tables. Zero or missing entries fall back to the
// defaults from DefaultConfig.
type Config struct {
	BaseValues  map[model.WasteCategory]float64
	Multipliers map[model.DisposalMethod]float64
}

// DefaultConfig returns the product's published reward tables: electronics
// carries the highest base value, and recycling the highest method multiplier.
func DefaultConfig() Config {
	return Config{
		BaseValues: map[model.WasteCategory]float64{
			model.CategoryElectronics:  20,
			model.CategoryHazardous:    15,
			model.CategoryRecyclables:  10,
			model.CategoryCompostables: 8,
			model.CategoryGeneralWaste: 5,
		},
		Multipliers: map[model.DisposalMethod]float64{
			model.MethodRecycling:    1.5,
			model.MethodComposting:   1.3,
			model.MethodIncineration: 1.2,
			model.MethodLandfill:     1.0,
		},
	}
}

// Calculator computes point awards from the configured tables.
type Calculator struct {
	base        map[model.WasteCategory]float64
	multipliers map[model.DisposalMethod]float64
}

// New creates a calculator, filling any gaps in cfg from the defaults.
func New(cfg Config) *Calculator {
	defaults := DefaultConfig()

	base := make(map[model.WasteCategory]float64, len(defaults.BaseValues))
	for cat, v := range defaults.BaseValues {
		base[cat] = v
	}
	for cat, v := range cfg.BaseValues {
		if v > 0 {
			base[cat] = v
		}
	}

	multipliers := make(map[model.DisposalMethod]float64, len(defaults.Multipliers))
	for m, v := range defaults.Multipliers {
		multipliers[m] = v
	}
	for m, v := range cfg.Multipliers {
		if v > 0 {
			multipliers[m] = v
		}
	}

	return &Calculator{base: base, multipliers: multipliers}
}

// Points returns the award for one entry. Non-positive quantities earn nothing;
// validation happens before submission, so this is a backstop, not an error path.
func (c *Calculator) Points(category model.WasteCategory, method model.DisposalMethod, quantity float64) int64 {
	if quantity <= 0 {
		return 0
	}

	base := c.base[category]
	multiplier := c.multipliers[method]
	if multiplier == 0 {
		multiplier = 1.0
	}

	return int64(math.Floor(base * multiplier * quantity))
}

// BaseValue reports the configured base value for a category.
func (c *Calculator) BaseValue(category model.WasteCategory) float64 {
	return c.base[category]
}

// Multiplier reports the configured multiplier for a disposal method.
func (c *Calculator) Multiplier(method model.DisposalMethod) float64 {
	return c.multipliers[method]
}
