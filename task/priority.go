package task

// Priority is the priority of a task. Taskwarrior exports it as a single
// letter; absence means no priority.
type Priority string

const (
	PriorityHigh   Priority = "H"
	PriorityMedium Priority = "M"
	PriorityLow    Priority = "L"
)

// AllPriorities returns all valid priority values.
func AllPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Valid reports whether p is one of H, M or L.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Display returns a human-readable representation of the priority.
func (p Priority) Display() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}
