package viamgo

import (
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r2"
)

// EdgeMask is a binary edge image indexed [y][x].
type EdgeMask [][]bool

// At returns false outside of the mask.
func (m EdgeMask) At(x, y int) bool {
	if y < 0 || y >= len(m) || x < 0 || x >= len(m[y]) {
		return false
	}
	return m[y][x]
}

func (m EdgeMask) anyAlongX(x, y, radius int) bool {
	for dx := -radius; dx <= radius; dx++ {
		if m.At(x+dx, y) {
			return true
		}
	}
	return false
}

func (m EdgeMask) anyAlongY(x, y, radius int) bool {
	for dy := -radius; dy <= radius; dy++ {
		if m.At(x, y+dy) {
			return true
		}
	}
	return false
}

// BoardExtent delimits the playing surface inside a raw grid. All bounds are inclusive.
type BoardExtent struct {
	Top, Bottom, Left, Right int
}

func (e BoardExtent) String() string {
	return fmt.Sprintf("rows %d-%d cols %d-%d", e.Top, e.Bottom, e.Left, e.Right)
}

// Trim returns the sub grid inside the extent. The rows share memory with g.
func (g Grid) Trim(e BoardExtent) Grid {
	out := make(Grid, 0, e.Bottom-e.Top+1)
	for _, row := range g[e.Top : e.Bottom+1] {
		out = append(out, row[e.Left:e.Right+1])
	}
	return out
}

func midpoint(a, b image.Point) image.Point {
	m := r2.Point{X: float64(a.X), Y: float64(a.Y)}.
		Add(r2.Point{X: float64(b.X), Y: float64(b.Y)}).
		Mul(0.5)
	return image.Point{X: int(math.Round(m.X)), Y: int(math.Round(m.Y))}
}

// rowCorroborated checks whether the vertical lines really run from row i down to row i+1.
// A line outside the board (table edge, shadow) crosses the vertical lines' extensions
// where there is nothing drawn, so most midpoints miss.
func rowCorroborated(g Grid, edges EdgeMask, i, radius int) bool {
	count := 0
	for j := range g.Cols() {
		p := midpoint(g[i][j], g[i+1][j])
		if edges.anyAlongX(p.X, p.Y, radius) {
			count++
		}
	}
	return count > g.Cols()/2
}

func colCorroborated(g Grid, edges EdgeMask, i, radius int) bool {
	count := 0
	for j := range g.Rows() {
		p := midpoint(g[j][i], g[j][i+1])
		if edges.anyAlongY(p.X, p.Y, radius) {
			count++
		}
	}
	return count > g.Rows()/2
}

// FindExtent scans inward from each side of the grid and keeps the first row or column
// whose segments are backed by the edge image.
func FindExtent(g Grid, edges EdgeMask, cfg GridConfig) (BoardExtent, error) {
	rows, cols := g.Rows(), g.Cols()
	if rows < 2 || cols < 2 {
		return BoardExtent{}, fmt.Errorf("%w: %dx%d grid", ErrInsufficientStructure, rows, cols)
	}

	e := BoardExtent{Top: -1, Bottom: -1, Left: -1, Right: -1}

	for i := 0; i < rows-1; i++ {
		if rowCorroborated(g, edges, i, cfg.EdgeWindow) {
			e.Top = i
			break
		}
	}
	for i := rows - 2; i >= 0; i-- {
		if rowCorroborated(g, edges, i, cfg.EdgeWindow) {
			e.Bottom = i + 1
			break
		}
	}
	for i := 0; i < cols-1; i++ {
		if colCorroborated(g, edges, i, cfg.EdgeWindow) {
			e.Left = i
			break
		}
	}
	for i := cols - 2; i >= 0; i-- {
		if colCorroborated(g, edges, i, cfg.EdgeWindow) {
			e.Right = i + 1
			break
		}
	}

	if e.Top < 0 || e.Left < 0 {
		return BoardExtent{}, fmt.Errorf("%w: no board boundary found in edge image", ErrInsufficientStructure)
	}
	if e.Bottom-e.Top+1 < cfg.MinLines || e.Right-e.Left+1 < cfg.MinLines {
		return BoardExtent{}, fmt.Errorf("%w: board extent %v too small", ErrInsufficientStructure, e)
	}
	return e, nil
}
