// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskman/internal/service"
	"taskman/internal/session"
)

const (
	// Separator underlines the title in the task detail view.
	Separator = "------------"

	markDone = "[x]"
	markOpen = "[ ]"
)

// FormatTask formats a task line for the task list.
// Format: "{ID:>4}  [x] {TITLE}\n" (4-wide right-aligned id, two spaces, mark, title)
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", task.ID, mark(task.Completed), normalizeTitle(task.Title))
}

// FormatTaskDetail prints the single-task view.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "#%d %s\n", task.ID, normalizeTitle(task.Title))
	fmt.Fprintln(w, Separator)
	status := "open"
	if task.Completed {
		status = "completed"
	}
	fmt.Fprintf(w, "status: %s\n", status)
	if desc := strings.TrimSpace(task.Description); desc != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, desc)
	}
}

// FormatIdentity prints the logged-in identity.
func FormatIdentity(w io.Writer, id session.Identity) {
	fmt.Fprintln(w, id.Username)
	if id.ExpiresAt != nil {
		fmt.Fprintf(w, "token expires: %s\n", id.ExpiresAt.UTC().Format(time.RFC3339))
	}
}

func mark(done bool) string {
	if done {
		return markDone
	}
	return markOpen
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
