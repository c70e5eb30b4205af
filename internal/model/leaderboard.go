package model

// LeaderboardEntry is the derived competitive view for one participant: total
// reward points and total number of waste logs. One entry exists per user with
// at least one log or balance row.
type LeaderboardEntry struct {
	User        string `json:"user"`
	Points      int64  `json:"points"`
	WasteLogged int64  `json:"wasteLogged"`
}
