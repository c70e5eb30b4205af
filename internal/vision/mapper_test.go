package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdantlabs/ecocycle/internal/model"
)

func TestMapDescription(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected model.WasteCategory
	}{
		{
			name:     "electronics wins over recyclable words",
			text:     "An old smartphone battery, mostly metal casing",
			expected: model.CategoryElectronics,
		},
		{
			name:     "plastic bottle",
			text:     "A clear plastic water bottle",
			expected: model.CategoryRecyclables,
		},
		{
			name:     "banana peel",
			text:     "A banana peel, clearly organic food waste",
			expected: model.CategoryCompostables,
		},
		{
			name:     "chemical container",
			text:     "A container of toxic chemical cleaner",
			expected: model.CategoryHazardous,
		},
		{
			name:     "no keyword falls through to general",
			text:     "An unlabeled item of unknown origin",
			expected: model.CategoryGeneralWaste,
		},
		{
			name:     "case insensitive",
			text:     "BROKEN COMPUTER MONITOR",
			expected: model.CategoryElectronics,
		},
		{
			name:     "keyword as substring of a larger word",
			text:     "some cardboards stacked up",
			expected: model.CategoryRecyclables,
		},
		{
			name:     "empty text",
			text:     "",
			expected: model.CategoryGeneralWaste,
		},
		{
			name:     "recyclable beats compostable by priority",
			text:     "a glass jar with food residue",
			expected: model.CategoryRecyclables,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapDescription(tt.text))
		})
	}
}
