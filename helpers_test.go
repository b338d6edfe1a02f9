package viamgo

import (
	"image"
	"image/color"
	"image/draw"
)

var (
	woodColor       = color.RGBA{220, 180, 110, 255}
	boardLineColor  = color.RGBA{0, 0, 0, 255}
	blackStoneColor = color.RGBA{10, 10, 10, 255}
	whiteStoneColor = color.RGBA{230, 222, 208, 255}
)

const (
	boardMargin  = 60
	boardSpacing = 40
	stoneRadius  = 18
)

// boardPixel is where board position (x, y) lands in a boardImage.
func boardPixel(x, y int) image.Point {
	return image.Point{X: boardMargin + x*boardSpacing, Y: boardMargin + y*boardSpacing}
}

// boardImage draws a size x size board seen straight from above, with one pixel lines.
func boardImage(size int, stones map[image.Point]StoneColor) *image.RGBA {
	extent := 2*boardMargin + (size-1)*boardSpacing
	img := image.NewRGBA(image.Rect(0, 0, extent, extent))
	draw.Draw(img, img.Bounds(), image.NewUniform(woodColor), image.Point{}, draw.Src)

	last := boardMargin + (size-1)*boardSpacing
	for i := range size {
		p := boardMargin + i*boardSpacing
		for q := boardMargin; q <= last; q++ {
			img.Set(p, q, boardLineColor)
			img.Set(q, p, boardLineColor)
		}
	}

	for pos, c := range stones {
		fill := blackStoneColor
		if c == White {
			fill = whiteStoneColor
		}
		center := boardPixel(pos.X, pos.Y)
		fillCircle(img, center, stoneRadius, fill)
	}
	return img
}

func fillCircle(img *image.RGBA, center image.Point, radius int, c color.Color) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.Set(center.X+dx, center.Y+dy, c)
			}
		}
	}
}

// testDetectorConfig keeps well clear of the votes of slightly tilted lines through the
// synthetic board's three pixel wide edge bands.
func testDetectorConfig() DetectorConfig {
	cfg := DefaultDetectorConfig()
	cfg.VoteThreshold = 250
	return cfg
}

// gridFromLines builds a grid of horizontal lines at rows and vertical lines at cols.
func gridFromLines(rows, cols []float64) ([]Line, []Line) {
	var h, v []Line
	for _, r := range rows {
		h = append(h, Line{Offset: r, Angle: degrees(90)})
	}
	for _, c := range cols {
		v = append(v, Line{Offset: c, Angle: 0})
	}
	return h, v
}

// drawnBoardMask is an edge mask with board lines at every offset in lines, spanning
// from the first to the last offset.
func drawnBoardMask(width, height int, lines []int) EdgeMask {
	mask := make(EdgeMask, height)
	for y := range mask {
		mask[y] = make([]bool, width)
	}
	first, last := lines[0], lines[len(lines)-1]
	for _, p := range lines {
		for q := first; q <= last; q++ {
			mask[q][p] = true
			mask[p][q] = true
		}
	}
	return mask
}
