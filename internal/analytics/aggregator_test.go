package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/verdantlabs/ecocycle/internal/model"
)

func sampleHistory() []model.WasteLog {
	now := time.Now()
	return []model.WasteLog{
		{ID: 1, Owner: "alice", Category: model.CategoryRecyclables, Method: model.MethodRecycling, Quantity: 2.5, Timestamp: now},
		{ID: 2, Owner: "alice", Category: model.CategoryCompostables, Method: model.MethodComposting, Quantity: 1.0, Timestamp: now},
		{ID: 3, Owner: "alice", Category: model.CategoryRecyclables, Method: model.MethodLandfill, Quantity: 0.5, Timestamp: now},
		{ID: 4, Owner: "alice", Category: model.CategoryElectronics, Method: model.MethodRecycling, Quantity: 4.0, Timestamp: now},
	}
}

func TestReduce(t *testing.T) {
	report := Reduce(sampleHistory())

	assert.InDelta(t, 8.0, report.TotalQuantity, 1e-9)
	assert.Equal(t, int64(4), report.LogCount)

	assert.InDelta(t, 3.0, report.ByCategory[model.CategoryRecyclables], 1e-9)
	assert.InDelta(t, 1.0, report.ByCategory[model.CategoryCompostables], 1e-9)
	assert.InDelta(t, 4.0, report.ByCategory[model.CategoryElectronics], 1e-9)

	assert.InDelta(t, 6.5, report.ByMethod[model.MethodRecycling], 1e-9)
	assert.InDelta(t, 0.5, report.ByMethod[model.MethodLandfill], 1e-9)

	// Only categories and methods that appear in the history are present.
	_, ok := report.ByCategory[model.CategoryHazardous]
	assert.False(t, ok)
	_, ok = report.ByMethod[model.MethodIncineration]
	assert.False(t, ok)
}

// Partition property: the per-category breakdown sums back to the total.
func TestReduce_PartitionProperty(t *testing.T) {
	report := Reduce(sampleHistory())

	var categorySum, methodSum float64
	for _, v := range report.ByCategory {
		categorySum += v
	}
	for _, v := range report.ByMethod {
		methodSum += v
	}

	assert.InDelta(t, report.TotalQuantity, categorySum, 1e-9)
	assert.InDelta(t, report.TotalQuantity, methodSum, 1e-9)
}

// Entry order must never affect the result.
func TestReduce_OrderIndependent(t *testing.T) {
	history := sampleHistory()
	want := Reduce(history)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(history), func(a, b int) {
			history[a], history[b] = history[b], history[a]
		})
		got := Reduce(history)
		assert.InDelta(t, want.TotalQuantity, got.TotalQuantity, 1e-9)
		assert.Equal(t, want.ByCategory, got.ByCategory)
		assert.Equal(t, want.ByMethod, got.ByMethod)
	}
}

func TestReduce_Empty(t *testing.T) {
	report := Reduce(nil)
	assert.Zero(t, report.TotalQuantity)
	assert.Zero(t, report.LogCount)
	assert.Empty(t, report.ByCategory)
	assert.Empty(t, report.ByMethod)
}
