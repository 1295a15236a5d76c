// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"taskmaster/internal/service"
)

// Format selects how list output is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %s", s)
}

// View is the encoded form of a derived task view.
type View struct {
	Filter service.Filter `json:"filter" yaml:"filter"`
	Search string         `json:"search,omitempty" yaml:"search,omitempty"`
	Tasks  []service.Task `json:"tasks" yaml:"tasks"`
}

// FormatTask formats one task line.
// Format: "{N:>4}  [x] {TITLE}  (due {DATE}[, overdue])\n"
func FormatTask(w io.Writer, num int, task service.Task, today service.Date) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	due := "due " + task.DueDate.String()
	if task.DueDate.IsZero() {
		due = "no due date"
	}
	if task.Overdue(today) {
		due += ", overdue"
	}
	fmt.Fprintf(w, "%4d  [%s] %s  (%s)\n", num, mark, normalizeTitle(task.Title), due)
}

// FormatTaskDetail prints every field of a task.
func FormatTaskDetail(w io.Writer, num int, task service.Task, today service.Date) {
	status := "pending"
	switch {
	case task.Completed:
		status = "completed"
	case task.Overdue(today):
		status = "overdue"
	}
	fmt.Fprintf(w, "#%d  %s\n", num, normalizeTitle(task.Title))
	fmt.Fprintf(w, "id:          %s\n", task.ID)
	fmt.Fprintf(w, "due:         %s\n", task.DueDate)
	fmt.Fprintf(w, "status:      %s\n", status)
	if desc := strings.TrimSpace(task.Description); desc != "" {
		fmt.Fprintln(w, "description:")
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintf(w, "  %s\n", strings.TrimRight(line, "\r"))
		}
	}
}

// FormatFilter prints the active filter.
func FormatFilter(w io.Writer, f service.Filter) {
	fmt.Fprintf(w, "%s (%s)\n", f, f.Label())
}

// WriteJSON writes the view as indented JSON.
func WriteJSON(w io.Writer, v View) error {
	if v.Tasks == nil {
		v.Tasks = []service.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes the view as YAML.
func WriteYAML(w io.Writer, v View) error {
	if v.Tasks == nil {
		v.Tasks = []service.Task{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
