// Package service defines the task store contract and its data model.
package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateLayout is the textual form of a Date.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a due date cannot be parsed.
var ErrInvalidDate = errors.New("invalid due date")

// ErrInvalidFilter is returned for a filter value outside the known set.
var ErrInvalidFilter = errors.New("invalid filter")

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %s", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether d is the zero date (no due date set).
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d falls on an earlier day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// An empty value decodes to the zero date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task represents a single task item.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	DueDate     Date   `json:"dueDate" yaml:"dueDate"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// Overdue reports whether the task is incomplete and due before today.
// A task without a due date is never overdue.
func (t Task) Overdue(today Date) bool {
	return !t.Completed && !t.DueDate.IsZero() && t.DueDate.Before(today)
}

// Fields holds the user-supplied fields of a new task.
type Fields struct {
	Title       string
	Description string
	DueDate     Date
}

// Patch is a partial set of task fields. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *Date
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil
}

// Apply returns t with the patch's set fields merged in.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	return t
}

// Filter selects which tasks a derived view shows.
type Filter string

const (
	FilterAll       Filter = "ALL"
	FilterCompleted Filter = "COMPLETED"
	FilterPending   Filter = "PENDING"
	FilterOverdue   Filter = "OVERDUE"
)

// Filters lists every filter value in display order.
var Filters = []Filter{FilterAll, FilterCompleted, FilterPending, FilterOverdue}

// Valid reports whether f is one of the known filters.
func (f Filter) Valid() bool {
	return slices.Contains(Filters, f)
}

// Label returns the human-readable name of the filter.
func (f Filter) Label() string {
	switch f {
	case FilterAll:
		return "All Tasks"
	case FilterCompleted:
		return "Completed"
	case FilterPending:
		return "Pending"
	case FilterOverdue:
		return "Overdue"
	}
	return string(f)
}

// ParseFilter parses a filter name case-insensitively.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToUpper(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidFilter, s)
	}
	return f, nil
}

// State is a snapshot of the store: the ordered tasks and the active filter.
type State struct {
	Tasks  []Task `json:"tasks" yaml:"tasks"`
	Filter Filter `json:"filter" yaml:"filter"`
}

// Find returns the task with the given id.
func (s State) Find(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Position returns the 1-based position of the task with the given id, or 0.
func (s State) Position(id string) int {
	for i, t := range s.Tasks {
		if t.ID == id {
			return i + 1
		}
	}
	return 0
}
