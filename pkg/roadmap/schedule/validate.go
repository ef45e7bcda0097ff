package schedule

import (
	"slices"
	"strings"

	"github.com/lanekit/lanekit/pkg/errors"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

// CheckLanes verifies an existing assignment: every task must carry a
// sub-lane, and no two tasks in the same workstream and sub-lane may
// overlap under opts. The error message names the first offending pair in
// deterministic order.
func CheckLanes(tasks []roadmap.Task, opts Options) error {
	for _, t := range tasks {
		if t.Sublane == nil {
			return errors.New(errors.ErrCodeInvalidInput,
				"task %q has no sub-lane assigned", t.ID)
		}
	}

	// Bucket by (workstream, sublane), then check consecutive pairs in
	// start order within each lane.
	type laneKey struct {
		ws   string
		lane int
	}
	lanes := make(map[laneKey][]roadmap.Task)
	for _, t := range tasks {
		k := laneKey{ws: t.Workstream, lane: *t.Sublane}
		lanes[k] = append(lanes[k], t)
	}

	keys := make([]laneKey, 0, len(lanes))
	for k := range lanes {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b laneKey) int {
		if c := strings.Compare(a.ws, b.ws); c != 0 {
			return c
		}
		return a.lane - b.lane
	})

	for _, k := range keys {
		group := sortTasks(lanes[k])
		for i := 1; i < len(group); i++ {
			prev, cur := group[i-1], group[i]
			if opts.overlaps(prev.End, cur.Start) {
				return errors.New(errors.ErrCodeInvalidInput,
					"tasks %q and %q overlap in workstream %q sub-lane %d",
					prev.ID, cur.ID, k.ws, k.lane)
			}
		}
	}
	return nil
}

// LaneCount returns the number of sub-lanes used by tasks, i.e. one more
// than the highest assigned lane index. Tasks without a lane are ignored.
func LaneCount(tasks []roadmap.Task) int {
	max := -1
	for _, t := range tasks {
		if t.Sublane != nil && *t.Sublane > max {
			max = *t.Sublane
		}
	}
	return max + 1
}
