package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/lanekit/lanekit/pkg/roadmap"
)

func task(id, ws string, start, end time.Time) roadmap.Task {
	return roadmap.Task{ID: id, Workstream: ws, Title: id, Start: start, End: end}
}

func lanesByID(tasks []roadmap.Task) map[string]int {
	out := make(map[string]int, len(tasks))
	for _, t := range tasks {
		if t.Sublane == nil {
			continue
		}
		out[t.ID] = *t.Sublane
	}
	return out
}

func TestAssignSublanesFirstFit(t *testing.T) {
	tasks := []roadmap.Task{
		task("A", "eng", roadmap.Date(2025, 1, 1), roadmap.Date(2025, 1, 10)),
		task("B", "eng", roadmap.Date(2025, 1, 5), roadmap.Date(2025, 1, 6)),
		task("C", "eng", roadmap.Date(2025, 1, 11), roadmap.Date(2025, 1, 12)),
		task("D", "eng", roadmap.Date(2025, 1, 10), roadmap.Date(2025, 1, 10)),
	}

	got := lanesByID(AssignSublanes(tasks, DefaultOptions()))
	want := map[string]int{"A": 0, "B": 1, "D": 1, "C": 0}
	for id, lane := range want {
		if got[id] != lane {
			t.Errorf("task %s: lane = %d, want %d", id, got[id], lane)
		}
	}
}

func TestAssignSublanesDeterministic(t *testing.T) {
	base := []roadmap.Task{
		task("a", "eng", roadmap.Date(2025, 3, 1), roadmap.Date(2025, 3, 20)),
		task("b", "eng", roadmap.Date(2025, 3, 5), roadmap.Date(2025, 3, 10)),
		task("c", "eng", roadmap.Date(2025, 3, 5), roadmap.Date(2025, 3, 10)),
		task("d", "eng", roadmap.Date(2025, 3, 12), roadmap.Date(2025, 3, 25)),
		task("e", "eng", roadmap.Date(2025, 3, 26), roadmap.Date(2025, 3, 30)),
	}
	want := lanesByID(AssignSublanes(base, DefaultOptions()))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 25; i++ {
		shuffled := make([]roadmap.Task, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := lanesByID(AssignSublanes(shuffled, DefaultOptions()))
		for id, lane := range want {
			if got[id] != lane {
				t.Fatalf("shuffle %d: task %s lane = %d, want %d", i, id, got[id], lane)
			}
		}
	}
}

// maxConcurrent computes the largest number of tasks active on any single
// day, which is the theoretical minimum lane count.
func maxConcurrent(tasks []roadmap.Task, touching bool) int {
	best := 0
	for _, probe := range tasks {
		n := 0
		for _, t := range tasks {
			startsBefore := !t.Start.After(probe.Start)
			var endsAfter bool
			if touching {
				endsAfter = !t.End.Before(probe.Start)
			} else {
				endsAfter = t.End.After(probe.Start)
			}
			if startsBefore && endsAfter {
				n++
			}
		}
		if n > best {
			best = n
		}
	}
	return best
}

func TestAssignSublanesMinimal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		var tasks []roadmap.Task
		n := 3 + rng.Intn(15)
		for i := 0; i < n; i++ {
			startDay := rng.Intn(60)
			dur := 1 + rng.Intn(19)
			start := roadmap.Date(2025, 1, 1).AddDate(0, 0, startDay)
			end := start.AddDate(0, 0, dur)
			tasks = append(tasks, task(string(rune('a'+i)), "eng", start, end))
		}

		opts := Options{TouchingCountsAsOverlap: trial%2 == 0}
		assigned := AssignSublanes(tasks, opts)
		if err := CheckLanes(assigned, opts); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if got, want := LaneCount(assigned), maxConcurrent(tasks, opts.TouchingCountsAsOverlap); got != want {
			t.Errorf("trial %d: lane count = %d, want %d", trial, got, want)
		}
	}
}

func TestTouchingBoundary(t *testing.T) {
	tasks := []roadmap.Task{
		task("first", "eng", roadmap.Date(2025, 6, 1), roadmap.Date(2025, 6, 10)),
		task("second", "eng", roadmap.Date(2025, 6, 10), roadmap.Date(2025, 6, 20)),
	}

	tests := []struct {
		name     string
		touching bool
		want     map[string]int
	}{
		{"touching counts as overlap", true, map[string]int{"first": 0, "second": 1}},
		{"touching allowed to share", false, map[string]int{"first": 0, "second": 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lanesByID(AssignSublanes(tasks, Options{TouchingCountsAsOverlap: tt.touching}))
			for id, lane := range tt.want {
				if got[id] != lane {
					t.Errorf("task %s: lane = %d, want %d", id, got[id], lane)
				}
			}
		})
	}
}

func TestAssignSublanesDoesNotMutateInput(t *testing.T) {
	tasks := []roadmap.Task{
		task("x", "eng", roadmap.Date(2025, 2, 1), roadmap.Date(2025, 2, 5)),
	}
	_ = AssignSublanes(tasks, DefaultOptions())
	if tasks[0].Sublane != nil {
		t.Error("input task mutated: Sublane set on original slice")
	}
}

func TestByWorkstreamIsolation(t *testing.T) {
	// Identical dates in different workstreams both land in lane 0.
	tasks := []roadmap.Task{
		task("e1", "eng", roadmap.Date(2025, 4, 1), roadmap.Date(2025, 4, 10)),
		task("d1", "design", roadmap.Date(2025, 4, 1), roadmap.Date(2025, 4, 10)),
	}
	scheduled := ByWorkstream(tasks, DefaultOptions())
	if len(scheduled) != 2 {
		t.Fatalf("group count = %d, want 2", len(scheduled))
	}
	for ws, group := range scheduled {
		if got := *group[0].Sublane; got != 0 {
			t.Errorf("workstream %s: lane = %d, want 0", ws, got)
		}
	}

	all := All(scheduled)
	if len(all) != 2 {
		t.Fatalf("flattened count = %d, want 2", len(all))
	}
	if all[0].Workstream != "design" || all[1].Workstream != "eng" {
		t.Errorf("flatten order = [%s, %s], want [design, eng]", all[0].Workstream, all[1].Workstream)
	}
}

func TestCheckLanes(t *testing.T) {
	lane := func(n int) *int { return &n }

	t.Run("missing lane", func(t *testing.T) {
		tasks := []roadmap.Task{task("a", "eng", roadmap.Date(2025, 1, 1), roadmap.Date(2025, 1, 2))}
		if err := CheckLanes(tasks, DefaultOptions()); err == nil {
			t.Error("expected error for unassigned task")
		}
	})

	t.Run("overlap in shared lane", func(t *testing.T) {
		a := task("a", "eng", roadmap.Date(2025, 1, 1), roadmap.Date(2025, 1, 10))
		b := task("b", "eng", roadmap.Date(2025, 1, 5), roadmap.Date(2025, 1, 6))
		a.Sublane, b.Sublane = lane(0), lane(0)
		if err := CheckLanes([]roadmap.Task{a, b}, DefaultOptions()); err == nil {
			t.Error("expected error for overlapping tasks in one lane")
		}
	})

	t.Run("valid assignment", func(t *testing.T) {
		a := task("a", "eng", roadmap.Date(2025, 1, 1), roadmap.Date(2025, 1, 10))
		b := task("b", "eng", roadmap.Date(2025, 1, 5), roadmap.Date(2025, 1, 6))
		a.Sublane, b.Sublane = lane(0), lane(1)
		if err := CheckLanes([]roadmap.Task{a, b}, DefaultOptions()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
