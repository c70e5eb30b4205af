package progression

import (
	"math"

	"github.com/verdantlabs/ecocycle/internal/model"
)

// Summary is the complete input to achievement evaluation. It is derived from
// the history snapshot and the balance; achievements never read anything else.
type Summary struct {
	CategoryKilograms map[model.WasteCategory]float64
	LogCount          int64
	Balance           int64
	StreakDays        int64
}

// Summarize reduces a history snapshot and balance into the evaluation input.
func Summarize(logs []model.WasteLog, balance int64) Summary {
	byCategory := make(map[model.WasteCategory]float64)
	for _, entry := range logs {
		byCategory[entry.Category] += entry.Quantity
	}
	return Summary{
		LogCount:          int64(len(logs)),
		Balance:           balance,
		StreakDays:        int64(Streak(logs)),
		CategoryKilograms: byCategory,
	}
}

// definition declares one achievement: a target and a pure progress function.
type definition struct {
	progress    func(Summary) int64
	name        string
	description string
	id          int64
	target      int64
}

var catalog = []definition{
	{
		id:          1,
		name:        "First Steps",
		description: "Log your first waste entry",
		target:      1,
		progress:    func(s Summary) int64 { return s.LogCount },
	},
	{
		id:          2,
		name:        "Ten Entries",
		description: "Complete 10 waste logs",
		target:      10,
		progress:    func(s Summary) int64 { return s.LogCount },
	},
	{
		id:          3,
		name:        "Fifty Entries",
		description: "Complete 50 waste logs",
		target:      50,
		progress:    func(s Summary) int64 { return s.LogCount },
	},
	{
		id:          4,
		name:        "Hundred Entries",
		description: "Complete 100 waste logs",
		target:      100,
		progress:    func(s Summary) int64 { return s.LogCount },
	},
	{
		id:          5,
		name:        "Week Streak",
		description: "Log waste for 7 consecutive days",
		target:      7,
		progress:    func(s Summary) int64 { return s.StreakDays },
	},
	{
		id:          6,
		name:        "Month Streak",
		description: "Log waste for 30 consecutive days",
		target:      30,
		progress:    func(s Summary) int64 { return s.StreakDays },
	},
	{
		id:          7,
		name:        "Thousand Coins",
		description: "Earn 1000 EcoCoins",
		target:      1000,
		progress:    func(s Summary) int64 { return s.Balance },
	},
	{
		id:          8,
		name:        "Electronics Recycler",
		description: "Recycle 25kg of electronics waste",
		target:      25,
		progress: func(s Summary) int64 {
			return int64(math.Floor(s.CategoryKilograms[model.CategoryElectronics]))
		},
	},
}

// EvaluateAchievements computes the full achievement list for a history
// snapshot and balance. The evaluation is stateless and re-entrant: the same
// input always produces the same output.
func EvaluateAchievements(logs []model.WasteLog, balance int64) []model.Achievement {
	summary := Summarize(logs, balance)

	achievements := make([]model.Achievement, len(catalog))
	for i, def := range catalog {
		progress := def.progress(summary)
		if progress > def.target {
			progress = def.target
		}
		achievements[i] = model.Achievement{
			ID:          def.id,
			Name:        def.name,
			Description: def.description,
			Target:      def.target,
			Progress:    progress,
			Unlocked:    progress >= def.target,
		}
	}
	return achievements
}
