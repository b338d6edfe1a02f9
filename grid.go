package viamgo

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/rdk/logging"
)

var (
	// ErrInsufficientStructure means the lines found don't describe a board. Try another
	// frame or looser tolerances.
	ErrInsufficientStructure = errors.New("not enough board lines")
	// ErrDegenerateGeometry is returned when a horizontal and a vertical line are too close
	// to parallel to intersect.
	ErrDegenerateGeometry = fmt.Errorf("%w: degenerate line pair", ErrInsufficientStructure)
)

const parallelEpsilon = 1e-6

// Grid holds board intersections in pixel coordinates, indexed [row][col]: row follows
// the horizontal lines from the top, col the vertical lines from the left.
type Grid [][]image.Point

func (g Grid) Rows() int {
	return len(g)
}

func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At returns the intersection for board position (x, y), x being the column.
func (g Grid) At(x, y int) image.Point {
	return g[y][x]
}

// Spacing is the average distance between neighbouring intersections along a row.
func (g Grid) Spacing() float64 {
	if g.Cols() < 2 {
		return 0
	}
	total := 0.0
	for _, row := range g {
		first := r2.Point{X: float64(row[0].X), Y: float64(row[0].Y)}
		last := r2.Point{X: float64(row[len(row)-1].X), Y: float64(row[len(row)-1].Y)}
		total += last.Sub(first).Norm()
	}
	return total / float64(g.Rows()*(g.Cols()-1))
}

// intersectPoint solves the two normal form equations with Cramer's rule.
func intersectPoint(h, v Line) (r2.Point, bool) {
	sh, ch := math.Sin(h.Angle), math.Cos(h.Angle)
	sv, cv := math.Sin(v.Angle), math.Cos(v.Angle)

	denom := sh*cv - sv*ch
	if math.Abs(denom) < parallelEpsilon {
		return r2.Point{}, false
	}

	return r2.Point{
		X: (v.Offset*sh - h.Offset*sv) / denom,
		Y: (h.Offset*cv - v.Offset*ch) / denom,
	}, true
}

// Intersect returns the pixel where a horizontal and a vertical line cross.
func Intersect(h, v Line) (image.Point, error) {
	p, ok := intersectPoint(h, v)
	if !ok {
		return image.Point{}, fmt.Errorf("%w: %v and %v", ErrDegenerateGeometry, h, v)
	}
	return image.Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}, nil
}

// BuildGrid intersects every horizontal line with every vertical line.
func BuildGrid(horizontal, vertical []Line) (Grid, error) {
	grid := make(Grid, len(horizontal))
	for i, h := range horizontal {
		grid[i] = make([]image.Point, len(vertical))
		for j, v := range vertical {
			p, err := Intersect(h, v)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, j, err)
			}
			grid[i][j] = p
		}
	}
	return grid, nil
}

// ExtractGrid turns detected lines into the intersection grid of the playing surface.
// lines must be ordered strongest first; edges is the binary edge image the lines were
// detected from.
func ExtractGrid(lines []Line, edges EdgeMask, cfg GridConfig, logger logging.Logger) (Grid, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	horizontal, vertical := ClassifyLines(lines, cfg)
	logger.Debugf("classified %d lines: %d horizontal %d vertical", len(lines), len(horizontal), len(vertical))

	horizontal = ClusterLines(horizontal, cfg)
	vertical = ClusterLines(vertical, cfg)
	logger.Debugf("after clustering: %d horizontal %d vertical", len(horizontal), len(vertical))

	if len(horizontal) < cfg.MinLines || len(vertical) < cfg.MinLines {
		return nil, fmt.Errorf("%w: %d horizontal, %d vertical, need %d",
			ErrInsufficientStructure, len(horizontal), len(vertical), cfg.MinLines)
	}

	full, err := BuildGrid(horizontal, vertical)
	if err != nil {
		return nil, err
	}

	extent, err := FindExtent(full, edges, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debugf("board extent %v in %dx%d grid", extent, full.Rows(), full.Cols())

	return full.Trim(extent), nil
}
