// Package roadmap defines the entities a swimlane roadmap is built from:
// tasks, workstreams, and chart settings.
//
// Entities are plain values. The scheduler and layout engine treat them as
// immutable; the one computed field, Task.Sublane, is populated via
// [Task.WithSublane], which returns a copy. This keeps identity and equality
// simple and makes concurrent scheduling calls safe as long as each call
// receives its own slices.
//
// Dates are calendar dates modeled as UTC-midnight [time.Time] values; no
// time-of-day or timezone information is carried. Use [Date] or [ParseDate]
// to construct them.
package roadmap

import (
	"time"
)

// Task statuses shown in the chart legend and status stripes.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusRisk       = "risk"
)

// Task types.
const (
	TypeBlock     = "block"     // a date-spanning bar
	TypeMilestone = "milestone" // a diamond marker on the start date
)

// ValidStatuses is the set of accepted task statuses.
var ValidStatuses = map[string]bool{
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusDone:       true,
	StatusRisk:       true,
}

// ValidTypes is the set of accepted task types.
var ValidTypes = map[string]bool{
	TypeBlock:     true,
	TypeMilestone: true,
}

// Week start days.
const (
	WeekStartMon = "Mon"
	WeekStartSun = "Sun"
)

// Page sizes (landscape).
const (
	PageA3 = "A3"
	PageA4 = "A4"
)

// Task is a single dated work item on the roadmap.
//
// Start and End are inclusive calendar dates: a task with Start == End
// occupies exactly one day. End >= Start is enforced by the validation
// layer, not re-checked downstream.
type Task struct {
	ID          string    `json:"id" bson:"id"`
	Workstream  string    `json:"workstream" bson:"workstream"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Start       time.Time `json:"start" bson:"start"`
	End         time.Time `json:"end" bson:"end"`
	Status      string    `json:"status,omitempty" bson:"status,omitempty"`
	Owner       string    `json:"owner,omitempty" bson:"owner,omitempty"`
	Color       string    `json:"color,omitempty" bson:"color,omitempty"` // normalized "#RRGGBB" override
	Type        string    `json:"type,omitempty" bson:"type,omitempty"`   // "block" (default) or "milestone"
	Hyperlink   string    `json:"hyperlink,omitempty" bson:"hyperlink,omitempty"`

	// Sublane is assigned by the scheduler; nil until scheduling has run.
	Sublane *int `json:"sublane,omitempty" bson:"sublane,omitempty"`
}

// WithSublane returns a copy of the task with Sublane set to n.
// The receiver is not modified.
func (t Task) WithSublane(n int) Task {
	t.Sublane = &n
	return t
}

// WithDates returns a copy of the task with the date range replaced.
// Used when clamping tasks to the overall chart range for rendering.
func (t Task) WithDates(start, end time.Time) Task {
	t.Start = start
	t.End = end
	return t
}

// IsMilestone reports whether the task renders as a milestone diamond.
func (t Task) IsMilestone() bool { return t.Type == TypeMilestone }

// EffectiveStatus returns the task status, defaulting to "planned".
func (t Task) EffectiveStatus() string {
	if t.Status == "" {
		return StatusPlanned
	}
	return t.Status
}

// Workstream is a named horizontal grouping (swimlane) of tasks.
type Workstream struct {
	Name  string `json:"workstream" bson:"workstream"`
	Order *int   `json:"order,omitempty" bson:"order,omitempty"` // lower numbers appear first; nil sorts last
	Color string `json:"color,omitempty" bson:"color,omitempty"` // normalized "#RRGGBB", empty = palette-assigned
}

// Settings holds global chart configuration.
type Settings struct {
	Title                string `json:"title" bson:"title"`
	Subtitle             string `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	ConfidentialityLabel string `json:"confidentiality_label,omitempty" bson:"confidentiality_label,omitempty"`

	Start time.Time `json:"start" bson:"start"` // overall chart range, inclusive
	End   time.Time `json:"end" bson:"end"`

	WeekStartDay string `json:"week_start_day,omitempty" bson:"week_start_day,omitempty"` // "Mon" (default) or "Sun"
	PageSize     string `json:"page_size,omitempty" bson:"page_size,omitempty"`           // "A3" (default) or "A4"

	ShowTodayLine bool       `json:"show_today_line,omitempty" bson:"show_today_line,omitempty"`
	TodayLineDate *time.Time `json:"today_line_date,omitempty" bson:"today_line_date,omitempty"` // nil = today
}

// Date returns the UTC-midnight time for a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateFormat is the wire format for calendar dates in roadmap documents.
const DateFormat = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" string into a UTC-midnight date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}

// FormatDate renders a date in the wire format.
func FormatDate(d time.Time) string {
	return d.Format(DateFormat)
}
