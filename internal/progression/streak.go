// Package progression derives streaks, milestones, and achievements from the
// waste-log history. Everything here is a pure reduction over an immutable
// snapshot: no derived value is ever cached where it could drift from the
// history that produced it.
package progression

import (
	"sort"
	"time"

	"github.com/verdantlabs/ecocycle/internal/model"
)

// Streak returns the number of consecutive calendar days, counting back from
// the most recent entry, with at least one log. Multiple entries on the same
// local calendar day collapse into one day; the walk stops at the first gap of
// more than one day. No entries means no streak.
func Streak(logs []model.WasteLog) int {
	if len(logs) == 0 {
		return 0
	}

	seen := make(map[civilDay]struct{}, len(logs))
	days := make([]civilDay, 0, len(logs))
	for _, entry := range logs {
		d := toCivilDay(entry.Timestamp)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[j].before(days[i]) // most recent first
	})

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].sub(days[i]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// civilDay is a local calendar date, independent of the time of day. The
// store hands back UTC instants, so every timestamp is converted to the local
// zone before taking its date; otherwise an evening entry could land on the
// wrong day and split a streak.
type civilDay struct {
	year  int
	month time.Month
	day   int
}

func toCivilDay(t time.Time) civilDay {
	y, m, d := t.Local().Date()
	return civilDay{year: y, month: m, day: d}
}

func (d civilDay) time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d civilDay) before(other civilDay) bool {
	return d.time().Before(other.time())
}

// sub returns the whole-day difference d - other.
func (d civilDay) sub(other civilDay) int {
	return int(d.time().Sub(other.time()).Hours() / 24)
}
