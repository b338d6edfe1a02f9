package viamgo

import (
	"fmt"
	"math"
)

// Line represents a line in the form: offset = x*cos(angle) + y*sin(angle)
// angle is in radians, 0 <= angle < pi
type Line struct {
	Offset float64
	Angle  float64
}

func (l Line) String() string {
	return fmt.Sprintf("(%0.1f, %0.1f°)", l.Offset, l.Angle*180/math.Pi)
}

// GridConfig holds the tolerances used to turn raw lines into a board grid.
// Angles are in radians, offsets in pixels.
type GridConfig struct {
	// AxisTolerance is how far a line may lean from horizontal/vertical and still count.
	AxisTolerance float64
	// OffsetTolerance and AngleTolerance decide when two lines are the same line.
	OffsetTolerance float64
	AngleTolerance  float64
	// MinLines is the fewest lines per orientation that still describe a board.
	MinLines int
	// EdgeWindow is the half width, in pixels, of the window sampled when voting on boundaries.
	EdgeWindow int
}

func DefaultGridConfig() GridConfig {
	return GridConfig{
		AxisTolerance:   degrees(20),
		OffsetTolerance: 10,
		AngleTolerance:  degrees(10),
		MinLines:        3,
		EdgeWindow:      3,
	}
}

func (cfg GridConfig) validate() error {
	if cfg.AxisTolerance <= 0 || cfg.AxisTolerance >= math.Pi/4 {
		return fmt.Errorf("axis tolerance must be in (0, 45°), got %v", cfg.AxisTolerance)
	}
	if cfg.OffsetTolerance < 0 || cfg.AngleTolerance < 0 {
		return fmt.Errorf("similarity tolerances can't be negative")
	}
	if cfg.MinLines < 2 {
		return fmt.Errorf("need at least 2 lines per orientation, got %d", cfg.MinLines)
	}
	if cfg.EdgeWindow < 0 {
		return fmt.Errorf("edge window can't be negative")
	}
	return nil
}

func degrees(d float64) float64 {
	return d * math.Pi / 180
}

// ClassifyLines splits lines into horizontal and vertical sets, dropping lines that are
// not close enough to either axis. Order within each set follows the input order.
//
// Near-vertical lines can come back from the detector with a negative offset and an angle
// close to pi, so those count as vertical too.
func ClassifyLines(lines []Line, cfg GridConfig) (horizontal, vertical []Line) {
	tol := cfg.AxisTolerance
	for _, l := range lines {
		switch {
		case l.Offset >= 0 && math.Abs(l.Angle-math.Pi/2) <= tol:
			horizontal = append(horizontal, l)
		case l.Offset >= 0 && l.Angle >= 0 && l.Angle <= tol:
			vertical = append(vertical, l)
		case l.Offset <= 0 && l.Angle >= math.Pi-tol && l.Angle < math.Pi:
			vertical = append(vertical, l)
		}
	}
	return horizontal, vertical
}
