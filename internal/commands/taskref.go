package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"taskmaster/internal/exitcode"
	"taskmaster/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num      int    // 1-based position in the task sequence, 0 if IDPrefix is set
	IDPrefix string // full id or unique id prefix
}

func (r TaskRef) String() string {
	if r.IDPrefix != "" {
		return r.IDPrefix
	}
	return strconv.Itoa(r.Num)
}

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrTaskNotFound indicates the reference matched no task.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousRef indicates an id prefix matched more than one task.
	ErrAmbiguousRef = errors.New("ambiguous task reference")
)

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
//  1. No args → ErrTaskRefRequired
//  2. All digits → position as printed by list (must be >= 1)
//  3. Anything else → task id or id prefix
//  4. More than one arg → error: unexpected argument
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	return TaskRef{IDPrefix: arg}, nil
}

// ResolveTaskRef finds the referenced task in state.
// Returns the task and its 1-based position.
func ResolveTaskRef(state service.State, ref TaskRef) (service.Task, int, error) {
	if ref.IDPrefix == "" {
		if ref.Num < 1 || ref.Num > len(state.Tasks) {
			return service.Task{}, 0, fmt.Errorf("%w: %d", ErrTaskNotFound, ref.Num)
		}
		return state.Tasks[ref.Num-1], ref.Num, nil
	}

	if task, ok := state.Find(ref.IDPrefix); ok {
		return task, state.Position(task.ID), nil
	}

	var match service.Task
	matches := 0
	for _, t := range state.Tasks {
		if strings.HasPrefix(t.ID, ref.IDPrefix) {
			match = t
			matches++
		}
	}
	switch matches {
	case 0:
		return service.Task{}, 0, fmt.Errorf("%w: %s", ErrTaskNotFound, ref.IDPrefix)
	case 1:
		return match, state.Position(match.ID), nil
	default:
		return service.Task{}, 0, fmt.Errorf("%w: %s", ErrAmbiguousRef, ref.IDPrefix)
	}
}

// resolveTask parses args and resolves them against the store's current
// state, printing an error and returning a non-zero code on failure.
func resolveTask(svc service.Service, args []string, errOut io.Writer) (service.Task, int, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, 0, exitcode.UserError
	}

	task, pos, err := ResolveTaskRef(svc.State(), ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, 0, exitcode.UserError
	}
	return task, pos, exitcode.Success
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
