package interval

import (
	"fmt"
	"sort"
)

// Interval is a half open byte range [Start, End).
type Interval struct {
	Start uint64
	End   uint64
}

func (iv Interval) Length() uint64 {
	return iv.End - iv.Start
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d)", iv.Start, iv.End)
}

// Merge sorts a copy of the input and coalesces overlapping or touching
// intervals. The input slice is left untouched.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
		} else {
			merged = append(merged, iv)
		}
	}
	return merged
}

// Complement returns the gaps of intervals inside [lowerBound, upperBound).
// Output is sorted, pairwise disjoint and every gap has positive width.
// Overlapping or contained input intervals are absorbed by the cursor sweep.
func Complement(intervals []Interval, lowerBound uint64, upperBound uint64) []Interval {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var gaps []Interval
	cursor := lowerBound
	for _, iv := range sorted {
		if cursor < iv.Start {
			end := iv.Start
			if end > upperBound {
				end = upperBound
			}
			if cursor < end {
				gaps = append(gaps, Interval{Start: cursor, End: end})
			}
		}
		if iv.End > cursor {
			cursor = iv.End
		}
	}
	if cursor < upperBound {
		gaps = append(gaps, Interval{Start: cursor, End: upperBound})
	}
	return gaps
}
