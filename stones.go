package viamgo

import (
	"fmt"
	"image"
	"slices"
)

type StoneColor int

const (
	Empty StoneColor = iota
	Black
	White
)

func (c StoneColor) String() string {
	switch c {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	}
	return fmt.Sprintf("StoneColor(%d)", int(c))
}

// Opponent returns the other player. Empty has no opponent.
func (c StoneColor) Opponent() StoneColor {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

// StoneLayout is the colour at each board position, indexed [y][x].
type StoneLayout [][]StoneColor

func NewStoneLayout(rows, cols int) StoneLayout {
	l := make(StoneLayout, rows)
	for y := range rows {
		l[y] = make([]StoneColor, cols)
	}
	return l
}

func (l StoneLayout) Rows() int {
	return len(l)
}

func (l StoneLayout) Cols() int {
	if len(l) == 0 {
		return 0
	}
	return len(l[0])
}

func (l StoneLayout) At(x, y int) StoneColor {
	return l[y][x]
}

func (l StoneLayout) inBounds(x, y int) bool {
	return y >= 0 && y < l.Rows() && x >= 0 && x < l.Cols()
}

func (l StoneLayout) Clone() StoneLayout {
	out := make(StoneLayout, len(l))
	for y, row := range l {
		out[y] = slices.Clone(row)
	}
	return out
}

// Count returns how many stones of each colour are on the board.
func (l StoneLayout) Count() (black, white int) {
	for _, row := range l {
		for _, c := range row {
			switch c {
			case Black:
				black++
			case White:
				white++
			}
		}
	}
	return black, white
}

// layoutDiff is the change between the confirmed layout and an observed one.
type layoutDiff struct {
	placed  map[StoneColor][]image.Point
	removed map[StoneColor][]image.Point
	// flipped positions changed colour without being emptied, which no move can do.
	flipped []image.Point
}

func (d layoutDiff) empty() bool {
	return len(d.placed) == 0 && len(d.removed) == 0 && len(d.flipped) == 0
}

// diffLayouts walks the board row by row so positions in each list are in reading order.
func diffLayouts(confirmed, observed StoneLayout) layoutDiff {
	d := layoutDiff{
		placed:  map[StoneColor][]image.Point{},
		removed: map[StoneColor][]image.Point{},
	}
	for y := range confirmed.Rows() {
		for x := range confirmed.Cols() {
			was, now := confirmed[y][x], observed[y][x]
			p := image.Point{X: x, Y: y}
			switch {
			case was == now:
			case was == Empty:
				d.placed[now] = append(d.placed[now], p)
			case now == Empty:
				d.removed[was] = append(d.removed[was], p)
			default:
				d.flipped = append(d.flipped, p)
			}
		}
	}
	return d
}

// move works out which single move the diff describes. ok is false when the diff is not one
// placement, optionally capturing only opponent stones.
func (d layoutDiff) move() (player StoneColor, at image.Point, captured []image.Point, ok bool) {
	if len(d.flipped) > 0 {
		return Empty, image.Point{}, nil, false
	}
	for _, c := range []StoneColor{Black, White} {
		if len(d.placed[c]) != 1 || len(d.placed[c.Opponent()]) != 0 || len(d.removed[c]) != 0 {
			continue
		}
		return c, d.placed[c][0], d.removed[c.Opponent()], true
	}
	return Empty, image.Point{}, nil, false
}
