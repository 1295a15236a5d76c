package service

import (
	"strings"
	"time"
)

// FilteredTasks returns the tasks of state whose title contains search
// (case-insensitive) and that satisfy state's filter, in their original
// order. OVERDUE is evaluated against the calendar date of now, so the
// result is never cached: identical calls on different days may differ.
func FilteredTasks(state State, search string, now time.Time) []Task {
	needle := strings.ToLower(search)
	today := DateOf(now)

	result := make([]Task, 0, len(state.Tasks))
	for _, t := range state.Tasks {
		if !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		if !matchesFilter(t, state.Filter, today) {
			continue
		}
		result = append(result, t)
	}
	return result
}

func matchesFilter(t Task, f Filter, today Date) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	case FilterOverdue:
		return t.Overdue(today)
	default:
		return true
	}
}
