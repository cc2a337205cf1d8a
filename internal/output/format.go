// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gtasksync/internal/store"
	"gtasksync/internal/sync"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// FormatTask formats a task line for the default list.
// Format: "{N:>4}  {TITLE}{DUE}\n" (4-wide right-aligned number, two spaces, title)
// A num below 1 prints "-" in place of the number.
func FormatTask(w io.Writer, num int, task *store.Task) {
	fmt.Fprintf(w, "%4s  %s\n", number(num), taskLine(task))
}

// FormatTaskIndented formats a task line for a named list section.
// Format: "    {N:>4}  {TITLE}{DUE}\n"
func FormatTaskIndented(w io.Writer, num int, task *store.Task) {
	fmt.Fprintf(w, "    %4s  %s\n", number(num), taskLine(task))
}

func number(num int) string {
	if num < 1 {
		return "-"
	}
	return strconv.Itoa(num)
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, title string, isDefault bool) {
	displayTitle := normalizeListTitle(title)
	if isDefault {
		displayTitle += " [default]"
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, displayTitle)
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName formats a list name for the lists command.
func FormatListName(w io.Writer, list *store.TaskList, isDefault bool) {
	title := normalizeListTitle(list.Title)
	if isDefault {
		title += " [default]"
	}
	fmt.Fprintln(w, title)
}

// FormatOutcome prints the changes a sync run applied.
func FormatOutcome(w io.Writer, o sync.Outcome) {
	s := o.Stats
	fmt.Fprintf(w, "local:  %d inserted, %d updated, %d deleted\n", s.LocalInserts, s.LocalUpdates, s.LocalDeletes)
	fmt.Fprintf(w, "remote: %d inserted, %d updated, %d deleted\n", s.RemoteInserts, s.RemoteUpdates, s.RemoteDeletes)
}

// FormatDue renders a due time. Midnight is shown as a plain date.
func FormatDue(due time.Time) string {
	if due.Hour() == 0 && due.Minute() == 0 {
		return due.Format(dateLayout)
	}
	return due.Format(dateTimeLayout)
}

func taskLine(task *store.Task) string {
	line := normalizeTitle(task.Title)
	if task.IsCompleted() {
		line = "[x] " + line
	}
	if task.Due != nil {
		line += "  (due " + FormatDue(*task.Due) + ")"
	}
	return line
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

// normalizeListTitle normalizes a list title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
