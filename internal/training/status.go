package training

var statusRank = map[string]int{
	StatusDraft:     0,
	StatusPending:   1,
	StatusApproved:  2,
	StatusActive:    3,
	StatusCompleted: 4,
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// CanTransition reports whether a session may move from one status to another
// without an admin override. Progress only moves forward; any non-terminal
// status may be cancelled.
func CanTransition(from, to string) bool {
	if from == to || IsTerminal(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

func ValidStatus(status string) bool {
	_, ok := statusRank[status]
	return ok || status == StatusCancelled
}
