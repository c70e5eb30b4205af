package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdantlabs/ecocycle/internal/model"
)

func logAt(t time.Time) model.WasteLog {
	return model.WasteLog{
		Owner:     "alice",
		Category:  model.CategoryRecyclables,
		Method:    model.MethodRecycling,
		Quantity:  1.0,
		Timestamp: t,
	}
}

func TestStreak(t *testing.T) {
	day := func(daysAgo int, hour int) time.Time {
		base := time.Date(2025, 8, 20, hour, 0, 0, 0, time.Local)
		return base.AddDate(0, 0, -daysAgo)
	}

	tests := []struct {
		name string
		logs []model.WasteLog
		want int
	}{
		{
			name: "no entries means no streak",
			logs: nil,
			want: 0,
		},
		{
			name: "single entry",
			logs: []model.WasteLog{logAt(day(0, 9))},
			want: 1,
		},
		{
			name: "same-day entries collapse, gap of two stops the walk",
			// Days [D, D, D-1, D-3]: two entries today, one yesterday, then a
			// two-day gap.
			logs: []model.WasteLog{
				logAt(day(0, 9)),
				logAt(day(0, 18)),
				logAt(day(1, 12)),
				logAt(day(3, 12)),
			},
			want: 2,
		},
		{
			name: "unbroken week",
			logs: []model.WasteLog{
				logAt(day(0, 8)), logAt(day(1, 8)), logAt(day(2, 8)),
				logAt(day(3, 8)), logAt(day(4, 8)), logAt(day(5, 8)),
				logAt(day(6, 8)),
			},
			want: 7,
		},
		{
			name: "order of input does not matter",
			logs: []model.WasteLog{
				logAt(day(2, 8)), logAt(day(0, 8)), logAt(day(1, 8)),
			},
			want: 3,
		},
		{
			name: "entries on either side of midnight are different days",
			logs: []model.WasteLog{
				logAt(time.Date(2025, 8, 20, 0, 10, 0, 0, time.Local)),
				logAt(time.Date(2025, 8, 19, 23, 50, 0, 0, time.Local)),
			},
			want: 2,
		},
		{
			// The store returns UTC instants; days must still be counted in
			// the local calendar, like every timestamp shown to the user.
			name: "UTC-stored timestamps count as local days",
			logs: []model.WasteLog{
				logAt(time.Date(2025, 8, 20, 23, 30, 0, 0, time.Local).UTC()),
				logAt(time.Date(2025, 8, 20, 1, 15, 0, 0, time.Local).UTC()),
				logAt(time.Date(2025, 8, 19, 23, 45, 0, 0, time.Local).UTC()),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.logs))
		})
	}
}

func TestMilestones(t *testing.T) {
	statuses := Milestones(12)
	require.Len(t, statuses, 4)
	assert.True(t, statuses[0].Achieved)  // 1
	assert.True(t, statuses[1].Achieved)  // 10
	assert.False(t, statuses[2].Achieved) // 50
	assert.False(t, statuses[3].Achieved) // 100

	next, ok := NextMilestone(12)
	require.True(t, ok)
	assert.Equal(t, 50, next.Threshold)

	assert.InDelta(t, 12.0/50.0, ProgressToNext(12), 1e-9)
}

func TestMilestones_AllMet(t *testing.T) {
	_, ok := NextMilestone(150)
	assert.False(t, ok)
	assert.Equal(t, 1.0, ProgressToNext(150))

	for _, m := range Milestones(150) {
		assert.True(t, m.Achieved, m.Label)
	}
}

func TestEvaluateAchievements(t *testing.T) {
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, time.Local)

	var logs []model.WasteLog
	for i := 0; i < 12; i++ {
		entry := logAt(now.AddDate(0, 0, -i))
		logs = append(logs, entry)
	}
	// 30kg of electronics on the most recent day.
	electronics := logAt(now)
	electronics.Category = model.CategoryElectronics
	electronics.Quantity = 30
	logs = append(logs, electronics)

	achievements := EvaluateAchievements(logs, 450)

	byName := make(map[string]model.Achievement)
	for _, a := range achievements {
		byName[a.Name] = a
	}

	assert.True(t, byName["First Steps"].Unlocked)
	assert.True(t, byName["Ten Entries"].Unlocked)
	assert.False(t, byName["Fifty Entries"].Unlocked)
	assert.Equal(t, int64(13), byName["Fifty Entries"].Progress)

	assert.True(t, byName["Week Streak"].Unlocked)
	assert.False(t, byName["Month Streak"].Unlocked)

	assert.False(t, byName["Thousand Coins"].Unlocked)
	assert.Equal(t, int64(450), byName["Thousand Coins"].Progress)

	assert.True(t, byName["Electronics Recycler"].Unlocked)
	// Progress clamps at the target once met.
	assert.Equal(t, int64(25), byName["Electronics Recycler"].Progress)
}

// Re-running the aggregator on an unchanged history must produce identical
// results.
func TestEvaluateAchievements_Idempotent(t *testing.T) {
	now := time.Now()
	logs := []model.WasteLog{
		logAt(now), logAt(now.AddDate(0, 0, -1)), logAt(now.AddDate(0, 0, -2)),
	}

	first := EvaluateAchievements(logs, 300)
	second := EvaluateAchievements(logs, 300)
	assert.Equal(t, first, second)

	assert.Equal(t, Streak(logs), Streak(logs))
	assert.Equal(t, Milestones(len(logs)), Milestones(len(logs)))
}

func TestEvaluateAchievements_EmptyHistory(t *testing.T) {
	achievements := EvaluateAchievements(nil, 0)
	for _, a := range achievements {
		assert.False(t, a.Unlocked, a.Name)
		assert.Zero(t, a.Progress, a.Name)
	}
}
