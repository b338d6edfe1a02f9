package viamgo

import (
	"errors"
	"image"
	"testing"

	"go.viam.com/rdk/logging"
	"go.viam.com/test"
)

func testSessionConfig() SessionConfig {
	cfg := DefaultSessionConfig()
	cfg.Detector = testDetectorConfig()
	return cfg
}

func TestSessionCalibrate(t *testing.T) {
	s := NewSession(testSessionConfig(), logging.NewTestLogger(t))
	test.That(t, s.Tracker(), test.ShouldBeNil)

	grid, err := s.Calibrate(boardImage(9, nil))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, grid.Rows(), test.ShouldEqual, 9)
	test.That(t, grid.Cols(), test.ShouldEqual, 9)
	test.That(t, grid.Spacing(), test.ShouldAlmostEqual, boardSpacing, 1)

	for _, pos := range []image.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 8}, {X: 8, Y: 8}} {
		want := boardPixel(pos.X, pos.Y)
		got := grid.At(pos.X, pos.Y)
		test.That(t, got.X, test.ShouldAlmostEqual, want.X, 1)
		test.That(t, got.Y, test.ShouldAlmostEqual, want.Y, 1)
	}

	test.That(t, s.Tracker(), test.ShouldNotBeNil)
	test.That(t, s.Tracker().Rows(), test.ShouldEqual, 9)
}

func TestSessionCalibrateSmallBoard(t *testing.T) {
	s := NewSession(testSessionConfig(), logging.NewTestLogger(t))

	// larger board, longer lines
	grid, err := s.Calibrate(boardImage(13, nil))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, grid.Rows(), test.ShouldEqual, 13)
	test.That(t, grid.Cols(), test.ShouldEqual, 13)
}

func TestSessionCalibrateNoBoard(t *testing.T) {
	s := NewSession(testSessionConfig(), logging.NewTestLogger(t))

	_, err := s.Calibrate(uniformImage(woodColor))
	test.That(t, errors.Is(err, ErrInsufficientStructure), test.ShouldBeTrue)
	test.That(t, s.Tracker(), test.ShouldBeNil)

	_, err = s.ProcessFrame(boardImage(9, nil))
	test.That(t, errors.Is(err, ErrNotCalibrated), test.ShouldBeTrue)
	test.That(t, errors.Is(s.Reset(), ErrNotCalibrated), test.ShouldBeTrue)
}

func TestSessionGame(t *testing.T) {
	s := NewSession(testSessionConfig(), logging.NewTestLogger(t))
	_, err := s.Calibrate(boardImage(9, nil))
	test.That(t, err, test.ShouldBeNil)

	res, err := s.ProcessFrame(boardImage(9, map[image.Point]StoneColor{{X: 4, Y: 4}: Black}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status, test.ShouldEqual, StatusRecorded)
	test.That(t, *res.Round.Placement, test.ShouldResemble, Stone{X: 4, Y: 4, Seq: 1})

	res, err = s.ProcessFrame(boardImage(9, map[image.Point]StoneColor{{X: 4, Y: 4}: Black}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status, test.ShouldEqual, StatusUnchanged)

	res, err = s.ProcessFrame(boardImage(9, map[image.Point]StoneColor{{X: 2, Y: 2}: White}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status, test.ShouldEqual, StatusRecorded)
	test.That(t, res.Round.Action, test.ShouldEqual, PlaceCapture)

	test.That(t, s.Tracker().SGF(), test.ShouldEqual, "(;SZ[9]\n;B[ee];W[cc])")

	test.That(t, s.Reset(), test.ShouldBeNil)
	test.That(t, s.Tracker().Rounds(), test.ShouldBeEmpty)
	test.That(t, s.Grid().Rows(), test.ShouldEqual, 9)
}
