package roadmap

import (
	"slices"
	"strings"
)

// orderSentinel sorts workstreams without a declared order after those with
// one while keeping their relative alphabetical order.
const orderSentinel = 9999

// SortWorkstreams returns the workstreams in display order (top of the
// chart first). If any workstream declares an order, all are sorted by
// (order ascending, name ascending, case-insensitive) with undeclared
// orders placed last; otherwise sorting is alphabetical, case-insensitive.
//
// The input slice is not modified.
func SortWorkstreams(workstreams []Workstream) []Workstream {
	out := slices.Clone(workstreams)

	anyOrder := false
	for _, ws := range out {
		if ws.Order != nil {
			anyOrder = true
			break
		}
	}

	slices.SortStableFunc(out, func(a, b Workstream) int {
		if anyOrder {
			ao, bo := orderSentinel, orderSentinel
			if a.Order != nil {
				ao = *a.Order
			}
			if b.Order != nil {
				bo = *b.Order
			}
			if ao != bo {
				return ao - bo
			}
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}
