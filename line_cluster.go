package viamgo

import (
	"math"
	"slices"
)

// similarLines reports whether two lines are close enough to be the same board line.
// A line seen with a flipped offset sign has the complementary angle, so opposite signs
// compare |r1+r2| and pi-t1-t2 instead.
func similarLines(a, b Line, cfg GridConfig) bool {
	if a.Offset*b.Offset >= 0 {
		return math.Abs(a.Offset-b.Offset) <= cfg.OffsetTolerance &&
			math.Abs(a.Angle-b.Angle) <= cfg.AngleTolerance
	}
	return math.Abs(a.Offset+b.Offset) <= cfg.OffsetTolerance &&
		math.Abs(math.Pi-a.Angle-b.Angle) <= cfg.AngleTolerance
}

// ClusterLines removes near duplicates and orders the survivors by ascending |offset|.
//
// candidates must be ordered strongest first (the Hough detector returns them sorted by
// votes). When two candidates are similar the earlier one is kept, so the ordering of the
// input decides which of a pair of duplicates survives. Distinct lines with the same
// |offset| stay in arrival order, so the result is only non-decreasing in |offset|.
func ClusterLines(candidates []Line, cfg GridConfig) []Line {
	var set []Line
	for _, c := range candidates {
		if slices.ContainsFunc(set, func(l Line) bool { return similarLines(l, c, cfg) }) {
			continue
		}

		pos := slices.IndexFunc(set, func(l Line) bool {
			return math.Abs(l.Offset) > math.Abs(c.Offset)
		})
		if pos < 0 {
			pos = len(set)
		}
		set = slices.Insert(set, pos, c)
	}
	return set
}
