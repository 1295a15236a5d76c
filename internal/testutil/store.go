// Package testutil provides testing utilities.
package testutil

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"taskmaster/internal/backend/memory"
	"taskmaster/internal/service"
)

// Today is the fixed "current" date used by tests: 2024-02-10.
var Today = time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)

// Now returns Today. It matches the func() time.Time clocks used by views.
func Now() time.Time { return Today }

// SeqIDs returns a generator producing t1, t2, t3, ...
func SeqIDs() memory.IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("t%d", n)
	}
}

// QuietLogger returns a logger that discards everything.
func QuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewStore creates an empty store with sequential ids.
func NewStore() *memory.Store {
	return memory.NewWithIDGenerator(SeqIDs(), QuietLogger())
}

// Date parses a YYYY-MM-DD date or fails the test.
func Date(t *testing.T, s string) service.Date {
	t.Helper()
	d, err := service.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// Seed is a task to pre-load into a store.
type Seed struct {
	Title       string
	Description string
	Due         string
	Completed   bool
}

// SeededStore creates a store holding the given tasks in order.
// Ids are t1, t2, ... in seed order.
func SeededStore(t *testing.T, seeds ...Seed) *memory.Store {
	t.Helper()
	s := NewStore()
	for _, seed := range seeds {
		task := s.CreateTask(service.Fields{
			Title:       seed.Title,
			Description: seed.Description,
			DueDate:     Date(t, seed.Due),
		})
		if seed.Completed {
			s.ToggleTask(task.ID)
		}
	}
	return s
}
