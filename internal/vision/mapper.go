package vision

import (
	"strings"

	"github.com/verdantlabs/ecocycle/internal/model"
)

// Keyword lists per category. Order below is the match priority: electronics
// terms must win over the generic recyclable material words ("metal",
// "battery" vs "can"), so an old phone never lands in recyclables.
var categoryKeywords = []struct {
	category model.WasteCategory
	keywords []string
}{
	{
		category: model.CategoryElectronics,
		keywords: []string{"electronic", "e-waste", "battery", "phone", "computer", "device"},
	},
	{
		category: model.CategoryRecyclables,
		keywords: []string{"recycle", "plastic", "bottle", "can", "paper", "cardboard", "glass", "metal"},
	},
	{
		category: model.CategoryCompostables,
		keywords: []string{"compost", "organic", "food", "vegetable", "fruit"},
	},
	{
		category: model.CategoryHazardous,
		keywords: []string{"hazard", "chemical", "toxic", "dangerous"},
	},
}

// MapDescription maps the classifier's free-text reply onto the fixed waste
// taxonomy: case-insensitive substring search, first matching category wins,
// general waste when nothing matches.
func MapDescription(text string) model.WasteCategory {
	lower := strings.ToLower(text)

	for _, group := range categoryKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.category
			}
		}
	}

	return model.CategoryGeneralWaste
}
