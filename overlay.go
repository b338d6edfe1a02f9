package viamgo

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	markColor  = color.RGBA{255, 0, 0, 255}
	labelColor = color.RGBA{0, 0, 255, 255}
)

// OverlayImage draws the grid intersections, the row and column indices and the sequence
// number of every stone in moves on top of a copy of src. Pass a nil grid to get a plain copy.
func OverlayImage(src image.Image, grid Grid, moves []Move) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, src.Bounds(), src, src.Bounds().Min, draw.Src)

	for _, row := range grid {
		for _, p := range row {
			drawCircle(dst, p.X, p.Y, 5, markColor)
		}
	}

	// indices along the top and left edges, crosses on the corners
	if grid.Rows() > 0 {
		last := grid[grid.Rows()-1]
		for _, p := range []image.Point{grid[0][0], grid[0][grid.Cols()-1], last[0], last[len(last)-1]} {
			drawCross(dst, p.X, p.Y, 15, markColor)
		}
		for x, p := range grid[0] {
			drawString(dst, p.X, 20, strconv.Itoa(x), labelColor)
		}
		for y, row := range grid {
			drawString(dst, 10, row[0].Y, strconv.Itoa(y), labelColor)
		}
	}

	for _, m := range moves {
		if m.Y >= grid.Rows() || m.X >= grid.Cols() {
			continue
		}
		c := color.Color(color.Black)
		if m.Color == Black {
			c = color.White
		}
		p := grid.At(m.X, m.Y)
		label := strconv.Itoa(m.Seq)
		w := font.MeasureString(basicfont.Face7x13, label).Round()
		drawString(dst, p.X-w/2, p.Y+basicfont.Face7x13.Ascent/2, label, c)
	}

	return dst
}

func drawString(dst *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

func drawCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for angle := 0.0; angle < 360; angle += 1 {
		x := cx + int(float64(radius)*math.Cos(angle*math.Pi/180))
		y := cy + int(float64(radius)*math.Sin(angle*math.Pi/180))
		if (image.Point{x, y}).In(img.Bounds()) {
			img.Set(x, y, c)
		}
	}
}

func drawCross(img *image.RGBA, cx, cy, size int, c color.Color) {
	for d := -size; d <= size; d++ {
		if (image.Point{cx + d, cy}).In(img.Bounds()) {
			img.Set(cx+d, cy, c)
		}
		if (image.Point{cx, cy + d}).In(img.Bounds()) {
			img.Set(cx, cy+d, c)
		}
	}
}
