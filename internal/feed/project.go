package feed

import "github.com/nhle/insyd/internal/model"

// Project returns the notifications visible under selector. FilterAll yields
// the whole feed; a category yields the matching subsequence in original
// order. The input is never modified.
func Project(items []model.Notification, selector model.FilterSelector) []model.Notification {
	if selector == model.FilterAll || selector == "" {
		out := make([]model.Notification, len(items))
		copy(out, items)
		return out
	}

	out := make([]model.Notification, 0, len(items))
	for _, n := range items {
		if n.Type == model.Category(selector) {
			out = append(out, n)
		}
	}
	return out
}

// CountBy tallies notifications per display bucket. Unrecognized
// categories are counted under model.CategoryOther.
func CountBy(items []model.Notification) map[model.Category]int {
	counts := make(map[model.Category]int, len(model.Categories)+1)
	for _, n := range items {
		counts[n.Type.Bucket()]++
	}
	return counts
}
