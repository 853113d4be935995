package media

import (
	"cmp"
	"slices"
	"time"
)

// AssignSequence gives same-second items of the same extension a contiguous
// index starting at 0. Items are ordered by extension and embedded sequence
// hint first, so burst shots keep the camera's own numbering order. Only
// neighbours in that order are compared. The input slice is left untouched.
func AssignSequence(items []ResolvedItem) []SequencedItem {
	out := make([]SequencedItem, len(items))
	for i, item := range items {
		out[i] = SequencedItem{ResolvedItem: item, Index: NoIndex}
	}

	slices.SortStableFunc(out, func(a, b SequencedItem) int {
		return cmp.Or(
			cmp.Compare(a.Ext, b.Ext),
			cmp.Compare(a.SequenceHint, b.SequenceHint),
		)
	})

	var (
		prevTime time.Time
		prevExt  string
		counter  int
	)
	for i := range out {
		cur := &out[i]
		if i > 0 && cur.Timestamp.Equal(prevTime) && cur.Ext == prevExt {
			if counter == 0 {
				out[i-1].Index = 0
				counter++
			}
			cur.Index = counter
			counter++
		} else {
			counter = 0
		}
		prevTime = cur.Timestamp
		prevExt = cur.Ext
	}
	return out
}

// Collisions groups the items that received an index, keyed by their shared timestamp
func Collisions(items []SequencedItem) map[time.Time][]SequencedItem {
	groups := make(map[time.Time][]SequencedItem)
	for _, item := range items {
		if item.Index != NoIndex {
			groups[item.Timestamp] = append(groups[item.Timestamp], item)
		}
	}
	return groups
}
