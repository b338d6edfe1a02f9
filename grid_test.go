package viamgo

import (
	"errors"
	"image"
	"math"
	"testing"

	"go.viam.com/rdk/logging"
	"go.viam.com/test"
)

func TestIntersect(t *testing.T) {
	p, err := Intersect(Line{Offset: 50, Angle: math.Pi / 2}, Line{Offset: 80, Angle: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldResemble, image.Point{X: 80, Y: 50})

	// vertical line reported with a negative offset and an angle of pi
	p, err = Intersect(Line{Offset: 50, Angle: math.Pi / 2}, Line{Offset: -100, Angle: math.Pi})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p, test.ShouldResemble, image.Point{X: 100, Y: 50})

	// tilted lines: the point must satisfy both equations
	h := Line{Offset: 200, Angle: degrees(95)}
	v := Line{Offset: 150, Angle: degrees(4)}
	q, ok := intersectPoint(h, v)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, q.X*math.Cos(h.Angle)+q.Y*math.Sin(h.Angle), test.ShouldAlmostEqual, 200, 1e-9)
	test.That(t, q.X*math.Cos(v.Angle)+q.Y*math.Sin(v.Angle), test.ShouldAlmostEqual, 150, 1e-9)
}

func TestIntersectDegenerate(t *testing.T) {
	_, err := Intersect(Line{Offset: 50, Angle: math.Pi / 2}, Line{Offset: 80, Angle: math.Pi / 2})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrDegenerateGeometry), test.ShouldBeTrue)
	test.That(t, errors.Is(err, ErrInsufficientStructure), test.ShouldBeTrue)

	_, err = BuildGrid([]Line{{Offset: 10, Angle: 0}}, []Line{{Offset: 20, Angle: 0}})
	test.That(t, errors.Is(err, ErrDegenerateGeometry), test.ShouldBeTrue)
}

func TestBuildGrid(t *testing.T) {
	h, v := gridFromLines([]float64{0, 40, 80}, []float64{30, 60, 90, 120})

	g, err := BuildGrid(h, v)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Rows(), test.ShouldEqual, 3)
	test.That(t, g.Cols(), test.ShouldEqual, 4)

	for i := range g.Rows() {
		for j := range g.Cols() {
			test.That(t, g[i][j], test.ShouldResemble, image.Point{X: 30 + 30*j, Y: 40 * i})
		}
	}
	test.That(t, g.At(3, 1), test.ShouldResemble, image.Point{X: 120, Y: 40})
	test.That(t, g.Spacing(), test.ShouldAlmostEqual, 30)
}

func TestExtractGridTrimsOuterLines(t *testing.T) {
	logger := logging.NewTestLogger(t)

	// the board covers 60..140, the lines at 20 and 180 are table edges
	offsets := []float64{20, 60, 100, 140, 180}
	h, v := gridFromLines(offsets, offsets)
	edges := drawnBoardMask(200, 200, []int{60, 100, 140})

	// strongest first, in scrambled order
	lines := []Line{h[2], v[4], v[1], h[0], h[3], v[0], v[2], h[4], h[1], v[3]}

	g, err := ExtractGrid(lines, edges, DefaultGridConfig(), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.Rows(), test.ShouldEqual, 3)
	test.That(t, g.Cols(), test.ShouldEqual, 3)
	test.That(t, g.At(0, 0), test.ShouldResemble, image.Point{X: 60, Y: 60})
	test.That(t, g.At(2, 2), test.ShouldResemble, image.Point{X: 140, Y: 140})
}

func TestExtractGridNotEnoughLines(t *testing.T) {
	logger := logging.NewTestLogger(t)

	h, v := gridFromLines([]float64{60, 100, 140}, []float64{60, 100})
	edges := drawnBoardMask(200, 200, []int{60, 100, 140})

	_, err := ExtractGrid(append(h, v...), edges, DefaultGridConfig(), logger)
	test.That(t, errors.Is(err, ErrInsufficientStructure), test.ShouldBeTrue)

	// duplicates don't count twice
	v = append(v, Line{Offset: 103, Angle: degrees(1)})
	_, err = ExtractGrid(append(h, v...), edges, DefaultGridConfig(), logger)
	test.That(t, errors.Is(err, ErrInsufficientStructure), test.ShouldBeTrue)

	_, err = ExtractGrid(nil, edges, DefaultGridConfig(), logger)
	test.That(t, errors.Is(err, ErrInsufficientStructure), test.ShouldBeTrue)
}
