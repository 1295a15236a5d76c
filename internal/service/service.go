package service

// Service defines the interface for task store operations.
// Views read snapshots through State and change tasks only through
// the mutation methods.
type Service interface {
	// State returns a snapshot of the tasks (in insertion order) and the
	// active filter. The returned slice is a copy.
	State() State

	// CreateTask appends a new incomplete task with a fresh id.
	// Fields are stored as given; validation is the caller's job.
	CreateTask(f Fields) Task

	// EditTask merges the patch into the task with the given id.
	// Unknown ids are a no-op and report false.
	EditTask(id string, p Patch) bool

	// DeleteTask removes the task with the given id.
	// Unknown ids are a no-op and report false.
	DeleteTask(id string) bool

	// ToggleTask flips the completion flag of the task with the given id.
	// Unknown ids are a no-op and report false.
	ToggleTask(id string) bool

	// SetFilter replaces the active filter.
	// Returns ErrInvalidFilter, leaving state unchanged, for unknown values.
	SetFilter(f Filter) error
}
