// Package schedule assigns roadmap tasks to sub-lanes within their
// workstream so that no two tasks sharing a sub-lane overlap in time.
//
// The algorithm is classic greedy interval partitioning: tasks are visited
// in (start, end, id) order and each is placed in the lowest-indexed lane
// that is free at its start date, opening a new lane when none is. The id
// tie-break makes the ordering total, so identical inputs always reproduce
// identical lane assignments regardless of input order; consumers diff and
// re-render across edits, and a stable layout is what makes those diffs
// meaningful. Greedy first-fit on earliest start is also optimal: the number
// of lanes opened equals the maximum number of tasks active on any single
// day.
//
// Whether two tasks that merely touch (one ends the day the other starts)
// count as overlapping is a caller decision via
// [Options.TouchingCountsAsOverlap]; both policies are legitimate depending
// on how the renderer treats minimum block widths.
package schedule

import (
	"slices"
	"strings"
	"time"

	"github.com/lanekit/lanekit/pkg/roadmap"
)

// Options configures the overlap predicate.
type Options struct {
	// TouchingCountsAsOverlap controls lane availability at exact date
	// boundaries. When true (the conventional default), a lane occupied
	// through day D is still busy on day D, so a task starting on D goes
	// to another lane. When false, a lane freed on day D can be reused by
	// a task starting on D.
	TouchingCountsAsOverlap bool
}

// DefaultOptions returns the conventional scheduling options: touching
// intervals are treated as overlapping.
func DefaultOptions() Options {
	return Options{TouchingCountsAsOverlap: true}
}

// available reports whether a lane whose last task ends on laneEnd can
// accept a task starting on start.
func (o Options) available(laneEnd, start time.Time) bool {
	if o.TouchingCountsAsOverlap {
		return laneEnd.Before(start)
	}
	return !laneEnd.After(start)
}

// overlaps reports whether two tasks adjacent in start order collide under
// the configured rule. prev must not start after cur.
func (o Options) overlaps(prevEnd, curStart time.Time) bool {
	return !o.available(prevEnd, curStart)
}

// sortTasks orders tasks by (start, end, id). The id tie-break guarantees a
// total order and therefore deterministic assignment.
func sortTasks(tasks []roadmap.Task) []roadmap.Task {
	out := slices.Clone(tasks)
	slices.SortFunc(out, func(a, b roadmap.Task) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		if c := a.End.Compare(b.End); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// AssignSublanes returns a new task list with Sublane populated on every
// task such that no two tasks sharing a lane overlap under opts. The input
// is not mutated; tasks are copied via [roadmap.Task.WithSublane].
//
// Tasks from different workstreams are treated as one pool here; use
// [ByWorkstream] to schedule each workstream independently.
func AssignSublanes(tasks []roadmap.Task, opts Options) []roadmap.Task {
	sorted := sortTasks(tasks)

	// laneEnds[i] holds the end date of the most recent task in lane i.
	var laneEnds []time.Time
	out := make([]roadmap.Task, 0, len(sorted))

	for _, t := range sorted {
		lane := -1
		for i, end := range laneEnds {
			if opts.available(end, t.Start) {
				lane = i
				laneEnds[i] = t.End
				break
			}
		}
		if lane < 0 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, t.End)
		}
		out = append(out, t.WithSublane(lane))
	}
	return out
}

// ByWorkstream partitions tasks by workstream and runs [AssignSublanes] on
// each group independently; tasks in different workstreams never interact
// for sub-lane purposes. Group contents preserve input order before
// scheduling (the scheduler sorts internally). Map keys are workstream
// names as they appear on the tasks, including names with no declared
// workstream.
func ByWorkstream(tasks []roadmap.Task, opts Options) map[string][]roadmap.Task {
	grouped := make(map[string][]roadmap.Task)
	for _, t := range tasks {
		grouped[t.Workstream] = append(grouped[t.Workstream], t)
	}

	scheduled := make(map[string][]roadmap.Task, len(grouped))
	for ws, group := range grouped {
		scheduled[ws] = AssignSublanes(group, opts)
	}
	return scheduled
}

// All flattens [ByWorkstream] output back into a single slice ordered by
// (workstream, sublane, start, id), convenient for layout and rendering.
func All(scheduled map[string][]roadmap.Task) []roadmap.Task {
	names := make([]string, 0, len(scheduled))
	for ws := range scheduled {
		names = append(names, ws)
	}
	slices.Sort(names)

	var out []roadmap.Task
	for _, ws := range names {
		out = append(out, scheduled[ws]...)
	}
	return out
}
