package progression

// Milestone thresholds on total log count, in ascending order.
var milestoneThresholds = []struct {
	label     string
	threshold int
}{
	{"First Log", 1},
	{"10 Logs", 10},
	{"50 Logs", 50},
	{"100 Logs", 100},
}

// MilestoneStatus reports one progression checkpoint against a log count.
type MilestoneStatus struct {
	Label     string `json:"label"`
	Threshold int    `json:"threshold"`
	Achieved  bool   `json:"achieved"`
}

// Milestones evaluates every checkpoint against the total log count.
// Achievement is monotone: once a threshold is met it stays met.
func Milestones(totalLogs int) []MilestoneStatus {
	statuses := make([]MilestoneStatus, len(milestoneThresholds))
	for i, m := range milestoneThresholds {
		statuses[i] = MilestoneStatus{
			Label:     m.label,
			Threshold: m.threshold,
			Achieved:  totalLogs >= m.threshold,
		}
	}
	return statuses
}

// NextMilestone returns the smallest unmet threshold, or false when every
// milestone has been reached.
func NextMilestone(totalLogs int) (MilestoneStatus, bool) {
	for _, m := range Milestones(totalLogs) {
		if !m.Achieved {
			return m, true
		}
	}
	return MilestoneStatus{}, false
}

// ProgressToNext returns the fraction of the way to the next milestone in
// [0, 1], clamped at 1 once all milestones are met.
func ProgressToNext(totalLogs int) float64 {
	next, ok := NextMilestone(totalLogs)
	if !ok {
		return 1.0
	}
	return float64(totalLogs) / float64(next.Threshold)
}
