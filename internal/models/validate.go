package models

import (
	"slices"
	"strings"
	"time"

	wkerrors "github.com/tgienger/weekly/internal/errors"
)

const (
	dateLayout  = "2006-01-02"
	maxProgress = 100
	maxTagLen   = 32
)

// IsValidStatus checks if a status is one of the four board columns.
func IsValidStatus(s Status) bool {
	return slices.Contains(Statuses, s)
}

// IsValidPriority checks if a priority is known.
func IsValidPriority(p Priority) bool {
	return slices.Contains(Priorities, p)
}

// PriorityOrder returns the sort order for a priority (lower = more urgent).
func PriorityOrder(p Priority) int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidStatus(st) {
		return "", wkerrors.InvalidStatusError{Value: s}
	}
	return st, nil
}

// ParsePriority validates a raw priority string.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidPriority(p) {
		return "", wkerrors.InvalidPriorityError{Value: s}
	}
	return p, nil
}

// ValidateDate checks that s is a YYYY-MM-DD date. Empty values pass unless
// required is set.
func ValidateDate(field, s string, required bool) error {
	if s == "" {
		if required {
			return wkerrors.InvalidArgumentError{Field: field, Reason: "required"}
		}
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return wkerrors.InvalidArgumentError{Field: field, Reason: "expected YYYY-MM-DD, got " + s}
	}
	return nil
}

// NormalizeTags trims, lower-cases, caps at maxTagLen runes and de-duplicates
// tags. The result is sorted since tag order carries no meaning.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		tag = truncateRunes(tag, maxTagLen)
		out = append(out, tag)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// truncateRunes cuts s to at most n runes without splitting one
func truncateRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// ValidateTask checks the field invariants of a task about to be written.
func ValidateTask(t *Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return wkerrors.InvalidArgumentError{Field: "title", Reason: "required"}
	}
	if !IsValidStatus(t.Status) {
		return wkerrors.InvalidStatusError{Value: string(t.Status)}
	}
	if !IsValidPriority(t.Priority) {
		return wkerrors.InvalidPriorityError{Value: string(t.Priority)}
	}
	if t.AssigneeID == "" {
		return wkerrors.InvalidArgumentError{Field: "assignee", Reason: "required"}
	}
	if err := ValidateDate("week", t.WeekOf, true); err != nil {
		return err
	}
	if err := ValidateDate("due date", t.DueDate, false); err != nil {
		return err
	}
	if t.EstimatedHours < 0 {
		return wkerrors.InvalidArgumentError{Field: "estimated hours", Reason: "must not be negative"}
	}
	if t.ActualHours < 0 {
		return wkerrors.InvalidArgumentError{Field: "actual hours", Reason: "must not be negative"}
	}
	if t.Progress < 0 || t.Progress > maxProgress {
		return wkerrors.InvalidArgumentError{Field: "progress", Reason: "must be between 0 and 100"}
	}
	return nil
}

// ValidateHistoryAppend checks that next only appends to prev: every entry of
// prev must appear, in order, at the start of next.
func ValidateHistoryAppend(taskID string, prev, next []CopyHistoryEntry) error {
	if len(next) < len(prev) {
		return wkerrors.HistoryRewriteError{TaskID: taskID}
	}
	for i := range prev {
		if prev[i].ID != next[i].ID {
			return wkerrors.HistoryRewriteError{TaskID: taskID}
		}
	}
	return nil
}
