package roadmap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/lanekit/lanekit/pkg/errors"
)

// Warnings collects non-fatal data-quality findings surfaced to the user
// before rendering: tasks referencing undeclared workstreams, tasks outside
// the overall range, and similar. Keys are categories, values are messages.
type Warnings map[string][]string

// Add appends a message to a warning category.
func (w Warnings) Add(category, format string, args ...any) {
	w[category] = append(w[category], fmt.Sprintf(format, args...))
}

// Merge folds other into w.
func (w Warnings) Merge(other Warnings) {
	for k, msgs := range other {
		w[k] = append(w[k], msgs...)
	}
}

// Empty reports whether no warnings were recorded.
func (w Warnings) Empty() bool { return len(w) == 0 }

// Warning categories.
const (
	WarnUnknownWorkstream = "unknown_workstream"
	WarnOutOfRange        = "out_of_range"
	WarnClamped           = "clamped"
)

// ValidateSettings checks required settings fields and the overall range.
func ValidateSettings(s Settings) error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "chart title is required")
	}
	if s.Start.IsZero() || s.End.IsZero() {
		return errors.New(errors.ErrCodeInvalidDate, "overall start and end dates are required")
	}
	if s.End.Before(s.Start) {
		return errors.New(errors.ErrCodeInvalidRange,
			"overall end date %s is before start date %s", FormatDate(s.End), FormatDate(s.Start))
	}
	if s.WeekStartDay != "" && s.WeekStartDay != WeekStartMon && s.WeekStartDay != WeekStartSun {
		return errors.New(errors.ErrCodeInvalidInput,
			"week start day must be %q or %q, got %q", WeekStartMon, WeekStartSun, s.WeekStartDay)
	}
	if s.PageSize != "" && s.PageSize != PageA3 && s.PageSize != PageA4 {
		return errors.New(errors.ErrCodeInvalidInput,
			"page size must be %q or %q, got %q", PageA3, PageA4, s.PageSize)
	}
	return nil
}

// ValidateWorkstreams checks workstream names for presence and uniqueness.
func ValidateWorkstreams(workstreams []Workstream) error {
	seen := make(map[string]bool, len(workstreams))
	var dups []string
	for i, ws := range workstreams {
		if strings.TrimSpace(ws.Name) == "" {
			return errors.New(errors.ErrCodeInvalidInput, "workstream %d: name is required", i+1)
		}
		if seen[ws.Name] {
			dups = append(dups, ws.Name)
		}
		seen[ws.Name] = true
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		return errors.New(errors.ErrCodeDuplicateID,
			"duplicate workstream name(s): %s", strings.Join(dups, ", "))
	}
	return nil
}

// ValidateTask checks a single task's required fields, enum membership, and
// date ordering.
func ValidateTask(t Task) error {
	if err := errors.ValidateID(t.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "task %q", t.ID)
	}
	if strings.TrimSpace(t.Workstream) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "task %s: workstream is required", t.ID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "task %s: title is required", t.ID)
	}
	if t.Start.IsZero() || t.End.IsZero() {
		return errors.New(errors.ErrCodeInvalidDate, "task %s: start and end dates are required", t.ID)
	}
	if t.End.Before(t.Start) {
		return errors.New(errors.ErrCodeInvalidRange,
			"task %s: end date %s is before start date %s", t.ID, FormatDate(t.End), FormatDate(t.Start))
	}
	if t.Status != "" && !ValidStatuses[t.Status] {
		return errors.New(errors.ErrCodeInvalidStatus,
			"task %s: status must be one of planned, in_progress, done, risk; got %q", t.ID, t.Status)
	}
	if t.Type != "" && !ValidTypes[t.Type] {
		return errors.New(errors.ErrCodeInvalidType,
			"task %s: type must be %q or %q, got %q", t.ID, TypeBlock, TypeMilestone, t.Type)
	}
	return nil
}

// ValidateTasks checks every task and ID uniqueness across the collection.
// Tasks referencing a workstream not present in declared are recorded as
// warnings, not errors; they are silently unrenderable downstream and the
// user decides whether to fix the data.
func ValidateTasks(tasks []Task, declared []Workstream) (Warnings, error) {
	known := make(map[string]bool, len(declared))
	for _, ws := range declared {
		known[ws.Name] = true
	}

	warns := make(Warnings)
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if err := ValidateTask(t); err != nil {
			return nil, err
		}
		if seen[t.ID] {
			return nil, errors.New(errors.ErrCodeDuplicateID, "duplicate task id %q", t.ID)
		}
		seen[t.ID] = true

		if !known[t.Workstream] {
			warns.Add(WarnUnknownWorkstream,
				"%s: %q references undeclared workstream %q", t.ID, t.Title, t.Workstream)
		}
	}
	return warns, nil
}

// AssignMissingIDs returns a copy of tasks where every blank ID has been
// replaced with a generated one. Generated IDs are stable for the returned
// slice only; documents meant to be edited over time should declare their
// own IDs.
func AssignMissingIDs(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			t.ID = "task-" + uuid.NewString()[:8]
		}
		out[i] = t
	}
	return out
}
