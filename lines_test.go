package viamgo

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestClassifyLines(t *testing.T) {
	cfg := DefaultGridConfig()

	lines := []Line{
		{Offset: 120, Angle: degrees(91)},  // horizontal
		{Offset: 80, Angle: degrees(3)},    // vertical
		{Offset: -60, Angle: degrees(178)}, // vertical, sign flipped
		{Offset: 200, Angle: degrees(45)},  // diagonal
		{Offset: -40, Angle: degrees(90)},  // horizontal angle, negative offset
		{Offset: 50, Angle: degrees(170)},  // near vertical but positive offset
		{Offset: 300, Angle: degrees(109)}, // horizontal at the tolerance edge
	}

	h, v := ClassifyLines(lines, cfg)
	test.That(t, h, test.ShouldResemble, []Line{lines[0], lines[6]})
	test.That(t, v, test.ShouldResemble, []Line{lines[1], lines[2]})
}

func TestClassifyLinesTolerance(t *testing.T) {
	cfg := DefaultGridConfig()
	cfg.AxisTolerance = degrees(5)

	h, v := ClassifyLines([]Line{
		{Offset: 10, Angle: degrees(84)},
		{Offset: 10, Angle: degrees(86)},
		{Offset: 10, Angle: degrees(6)},
		{Offset: 0, Angle: math.Pi - degrees(4)},
	}, cfg)
	test.That(t, len(h), test.ShouldEqual, 1)
	test.That(t, h[0].Angle, test.ShouldAlmostEqual, degrees(86))
	test.That(t, len(v), test.ShouldEqual, 1)
	test.That(t, v[0].Angle, test.ShouldAlmostEqual, math.Pi-degrees(4))
}

func TestGridConfigValidate(t *testing.T) {
	test.That(t, DefaultGridConfig().validate(), test.ShouldBeNil)

	cfg := DefaultGridConfig()
	cfg.MinLines = 1
	test.That(t, cfg.validate(), test.ShouldNotBeNil)

	cfg = DefaultGridConfig()
	cfg.AxisTolerance = degrees(50)
	test.That(t, cfg.validate(), test.ShouldNotBeNil)
}
