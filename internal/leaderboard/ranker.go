// Package leaderboard orders participants by earned points with deterministic
// tie-breaking.
package leaderboard

import (
	"sort"

	"github.com/verdantlabs/ecocycle/internal/model"
)

// RankedEntry is a leaderboard entry with its computed rank (1-based).
type RankedEntry struct {
	model.LeaderboardEntry
	Rank int `json:"rank"`
}

// Rank sorts entries by points descending, breaking ties by ascending user
// identity so equal scores still produce a strict total order. The input is
// not modified.
func Rank(entries []model.LeaderboardEntry) []RankedEntry {
	sorted := make([]model.LeaderboardEntry, len(entries))
	copy(sorted, entries)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].User < sorted[j].User
	})

	ranked := make([]RankedEntry, len(sorted))
	for i, entry := range sorted {
		ranked[i] = RankedEntry{LeaderboardEntry: entry, Rank: i + 1}
	}
	return ranked
}

// RankOf returns the 1-based rank of user within entries: one more than the
// number of entries strictly ahead in the sort order. The second return is
// false when the user does not appear at all.
func RankOf(entries []model.LeaderboardEntry, user string) (int, bool) {
	for _, entry := range Rank(entries) {
		if entry.User == user {
			return entry.Rank, true
		}
	}
	return 0, false
}
