package model

// Achievement is a derived progression badge. Progress is never stored: it is
// recomputed from the log history and balance on every evaluation, so two
// evaluations over the same history always agree.
type Achievement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ID          int64  `json:"id"`
	Target      int64  `json:"target"`
	Progress    int64  `json:"progress"`
	Unlocked    bool   `json:"unlocked"`
}
