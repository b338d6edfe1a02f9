package viamgo

import (
	"image"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// StoneConfig holds the colour thresholds for telling stones from the empty board.
// Hue is in degrees, saturation and value in 0-1.
type StoneConfig struct {
	BlackValue float64

	WhiteHue        float64
	WhiteSaturation float64
	WhiteValue      float64

	HueTolerance float64
	Tolerance    float64
}

func DefaultStoneConfig() StoneConfig {
	return StoneConfig{
		BlackValue:      20.0 / 255,
		WhiteHue:        38,
		WhiteSaturation: 24.0 / 255,
		WhiteValue:      230.5 / 255,
		HueTolerance:    40,
		Tolerance:       20.0 / 255,
	}
}

func hueDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	return min(d, 360-d)
}

func (cfg StoneConfig) classify(h, s, v float64) StoneColor {
	if math.Abs(v-cfg.BlackValue) <= cfg.Tolerance {
		return Black
	}
	if hueDistance(h, cfg.WhiteHue) <= cfg.HueTolerance &&
		math.Abs(s-cfg.WhiteSaturation) <= cfg.Tolerance &&
		math.Abs(v-cfg.WhiteValue) <= cfg.Tolerance {
		return White
	}
	return Empty
}

// median sorts values in place. An even count averages the two middle values.
func median(values []float64) float64 {
	slices.Sort(values)
	m := stat.Quantile(0.5, stat.Empirical, values, nil)
	if len(values)%2 == 0 {
		m = (m + values[len(values)/2]) / 2
	}
	return m
}

// meanHue is the circular mean of hues in degrees, in [0, 360).
func meanHue(hues []float64) float64 {
	rad := make([]float64, len(hues))
	for i, h := range hues {
		rad[i] = h * math.Pi / 180
	}
	deg := stat.CircularMean(rad, nil) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// stonePatch is the area sampled for the stone at p. It sits below and to the left of the
// intersection so the grid lines themselves stay out of it.
func stonePatch(p image.Point, r int) image.Rectangle {
	return image.Rect(p.X-2*r, p.Y+r, p.X-r, p.Y+2*r)
}

// ClassifyStone looks at the typical colour near p: mean hue, median saturation and
// median value. r is a sixth of the grid spacing.
func ClassifyStone(img image.Image, p image.Point, r int, cfg StoneConfig) StoneColor {
	area := stonePatch(p, max(r, 1)).Intersect(img.Bounds())
	if area.Empty() {
		return Empty
	}

	var hs, ss, vs []float64
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			h, s, v := c.Hsv()
			hs = append(hs, h)
			ss = append(ss, s)
			vs = append(vs, v)
		}
	}
	if len(vs) == 0 {
		return Empty
	}

	return cfg.classify(meanHue(hs), median(ss), median(vs))
}

// SampleStones classifies every intersection of grid in img and reports the occupied ones.
func SampleStones(img image.Image, grid Grid, cfg StoneConfig, found func(x, y int, color StoneColor) error) error {
	r := int(grid.Spacing()) / 6
	for y, row := range grid {
		for x, p := range row {
			color := ClassifyStone(img, p, r, cfg)
			if color == Empty {
				continue
			}
			if err := found(x, y, color); err != nil {
				return err
			}
		}
	}
	return nil
}
