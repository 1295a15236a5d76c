package commands

import (
	"errors"
	"testing"

	"taskmaster/internal/service"
)

func TestParseTaskRef_Position(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 5 || ref.IDPrefix != "" {
		t.Errorf("expected position 5, got %+v", ref)
	}
}

func TestParseTaskRef_IDPrefix(t *testing.T) {
	ref, err := ParseTaskRef([]string{"3f2a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.IDPrefix != "3f2a" || ref.Num != 0 {
		t.Errorf("expected id prefix, got %+v", ref)
	}
}

func TestParseTaskRef_Zero_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"0"})
	if err == nil {
		t.Fatal("expected error for position 0")
	}
	if err.Error() != "invalid task reference: 0" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	for _, args := range [][]string{nil, {}, {"  "}} {
		if _, err := ParseTaskRef(args); err != ErrTaskRefRequired {
			t.Errorf("ParseTaskRef(%q): expected ErrTaskRefRequired, got %v", args, err)
		}
	}
}

func TestParseTaskRef_ExtraArgs_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"1", "2"})
	if err == nil || err.Error() != "unexpected argument: 2" {
		t.Errorf("expected unexpected argument error, got %v", err)
	}
}

func TestResolveTaskRef(t *testing.T) {
	state := service.State{Tasks: []service.Task{
		{ID: "abc123", Title: "one"},
		{ID: "abd456", Title: "two"},
		{ID: "ab", Title: "three"},
	}}

	tests := []struct {
		name    string
		ref     TaskRef
		wantID  string
		wantPos int
		wantErr error
	}{
		{"position", TaskRef{Num: 2}, "abd456", 2, nil},
		{"position out of range", TaskRef{Num: 4}, "", 0, ErrTaskNotFound},
		{"exact id beats prefix", TaskRef{IDPrefix: "ab"}, "ab", 3, nil},
		{"unique prefix", TaskRef{IDPrefix: "abc"}, "abc123", 1, nil},
		{"ambiguous prefix", TaskRef{IDPrefix: "a"}, "", 0, ErrAmbiguousRef},
		{"unknown id", TaskRef{IDPrefix: "zz"}, "", 0, ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, pos, err := ResolveTaskRef(state, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if task.ID != tt.wantID || pos != tt.wantPos {
				t.Errorf("expected %s at %d, got %s at %d", tt.wantID, tt.wantPos, task.ID, pos)
			}
		})
	}
}
