package task

// Status is the lifecycle state of a task as Taskwarrior exports it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusDeleted   Status = "deleted"
	StatusWaiting   Status = "waiting"
	StatusRecurring Status = "recurring"
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusCompleted,
		StatusDeleted,
		StatusWaiting,
		StatusRecurring,
	}
}

// Valid reports whether s is one of the statuses Taskwarrior supports.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusDeleted, StatusWaiting, StatusRecurring:
		return true
	}
	return false
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusCompleted:
		return "Completed"
	case StatusDeleted:
		return "Deleted"
	case StatusWaiting:
		return "Waiting"
	case StatusRecurring:
		return "Recurring"
	default:
		return string(s)
	}
}
