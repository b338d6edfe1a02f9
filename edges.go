package viamgo

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/samber/lo"
)

// DetectorConfig controls the edge and line detection that feeds grid extraction.
type DetectorConfig struct {
	// EdgeThreshold is the minimum Sobel magnitude (0-255) for a pixel to be an edge.
	EdgeThreshold int
	// CloseRadius is the radius of the morphological closing applied to the edge mask.
	CloseRadius int
	// VoteThreshold is the minimum number of edge pixels a line needs.
	VoteThreshold int
}

func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		EdgeThreshold: 100,
		CloseRadius:   1,
		VoteThreshold: 300,
	}
}

// DetectLines runs edge detection and the Hough transform on a frame. The lines come back
// strongest first, ready for ExtractGrid.
func DetectLines(img image.Image, cfg DetectorConfig) ([]Line, EdgeMask) {
	edges := DetectEdges(img, cfg)
	return HoughLines(edges, cfg), edges
}

// grayLevels returns the 8 bit luma of img indexed [y][x] from the top left of its bounds.
func grayLevels(img image.Image) [][]int {
	b := img.Bounds()
	levels := make([][]int, b.Dy())
	for y := range levels {
		levels[y] = make([]int, b.Dx())
		for x := range levels[y] {
			levels[y][x] = int(color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y)
		}
	}
	return levels
}

// DetectEdges returns a closed binary edge mask of img.
func DetectEdges(img image.Image, cfg DetectorConfig) EdgeMask {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	gray := grayLevels(img)

	mask := newEdgeMask(width, height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			mask[y][x] = sobelMagnitude(gray, x, y) >= cfg.EdgeThreshold
		}
	}

	if cfg.CloseRadius > 0 {
		mask = closeMask(mask, cfg.CloseRadius)
	}

	return mask
}

// sobelMagnitude is the 3x3 Sobel gradient magnitude at (x, y), clamped to 255.
func sobelMagnitude(gray [][]int, x, y int) int {
	up, row, down := gray[y-1], gray[y], gray[y+1]
	gx := (up[x+1] + 2*row[x+1] + down[x+1]) - (up[x-1] + 2*row[x-1] + down[x-1])
	gy := (down[x-1] + 2*down[x] + down[x+1]) - (up[x-1] + 2*up[x] + up[x+1])
	return min(int(math.Hypot(float64(gx), float64(gy))), 255)
}

func newEdgeMask(width, height int) EdgeMask {
	m := make(EdgeMask, height)
	for y := range m {
		m[y] = make([]bool, width)
	}
	return m
}

// closeMask fills gaps up to radius pixels wide: a dilation followed by an erosion with
// the same square window. Pixels within radius of the border end up unset.
func closeMask(m EdgeMask, radius int) EdgeMask {
	grown := m.morph(radius, func(set, total int) bool { return set > 0 })
	return grown.morph(radius, func(set, total int) bool { return set == total })
}

// morph sets each pixel from the count of set pixels in the square window around it.
func (m EdgeMask) morph(radius int, keep func(set, total int) bool) EdgeMask {
	height := len(m)
	if height == 0 {
		return m
	}
	width := len(m[0])
	out := newEdgeMask(width, height)
	total := (2*radius + 1) * (2*radius + 1)

	for y := radius; y < height-radius; y++ {
		for x := radius; x < width-radius; x++ {
			set := 0
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if m[y+dy][x+dx] {
						set++
					}
				}
			}
			out[y][x] = keep(set, total)
		}
	}
	return out
}

type houghPeak struct {
	line  Line
	votes int
}

// HoughLines detects lines in an edge mask. Lines are returned by descending votes; equal
// votes keep accumulator order so the output is deterministic.
func HoughLines(edges EdgeMask, cfg DetectorConfig) []Line {
	height := len(edges)
	if height == 0 {
		return nil
	}
	width := len(edges[0])

	// Hough space parameters
	maxRho := int(math.Sqrt(float64(width*width + height*height)))
	numThetas := 180

	// Accumulator: rho ranges from -maxRho to +maxRho
	accumulator := make([][]int, 2*maxRho+1)
	for i := range accumulator {
		accumulator[i] = make([]int, numThetas)
	}

	cosTheta := make([]float64, numThetas)
	sinTheta := make([]float64, numThetas)
	for t := range numThetas {
		theta := float64(t) * math.Pi / float64(numThetas)
		cosTheta[t] = math.Cos(theta)
		sinTheta[t] = math.Sin(theta)
	}

	for y := range height {
		for x := range width {
			if !edges[y][x] {
				continue
			}

			for t := range numThetas {
				rho := float64(x)*cosTheta[t] + float64(y)*sinTheta[t]
				rhoIdx := int(math.Round(rho)) + maxRho
				if rhoIdx >= 0 && rhoIdx < 2*maxRho+1 {
					accumulator[rhoIdx][t]++
				}
			}
		}
	}

	var peaks []houghPeak
	for rhoIdx := range 2*maxRho + 1 {
		for t := range numThetas {
			votes := accumulator[rhoIdx][t]
			if votes < cfg.VoteThreshold {
				continue
			}

			// Local maximum check (simple 5x5 neighborhood)
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nRho := rhoIdx + dr
					nT := (t + dt + numThetas) % numThetas
					if nRho >= 0 && nRho < 2*maxRho+1 && accumulator[nRho][nT] > votes {
						isMax = false
					}
				}
			}

			if isMax {
				peaks = append(peaks, houghPeak{
					line: Line{
						Offset: float64(rhoIdx - maxRho),
						Angle:  float64(t) * math.Pi / float64(numThetas),
					},
					votes: votes,
				})
			}
		}
	}

	slices.SortStableFunc(peaks, func(a, b houghPeak) int {
		return b.votes - a.votes
	})

	return lo.Map(peaks, func(p houghPeak, _ int) Line { return p.line })
}
