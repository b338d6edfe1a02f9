package viamgo

import (
	"testing"

	"go.viam.com/test"
)

func TestWriteSGF(t *testing.T) {
	rounds := []Round{
		{Number: 1, Player: Black, Action: Place, Placement: &Stone{X: 0, Y: 0, Seq: 1}},
		{Number: 2, Player: White, Action: Place, Placement: &Stone{X: 1, Y: 1, Seq: 2}},
	}
	test.That(t, WriteSGF(rounds, 9, 9), test.ShouldEqual, "(;SZ[9]\n;B[aa];W[bb])")

	test.That(t, WriteSGF(nil, 19, 19), test.ShouldEqual, "(;SZ[19]\n)")
	test.That(t, WriteSGF(nil, 9, 13), test.ShouldEqual, "(;SZ[13:9]\n)")
}

func TestTrackerSGF(t *testing.T) {
	tr := newTestTracker(t, DefaultTrackerConfig())
	observe(t, tr, placed{0, 0, Black})
	observe(t, tr, placed{0, 0, Black}, placed{1, 1, Black})
	observe(t, tr, placed{0, 0, Black}, placed{1, 1, Black}, placed{8, 2, White})

	test.That(t, tr.SGF(), test.ShouldEqual, "(;SZ[9]\n;B[aa];W[];B[bb];W[ic])")

	s, err := tr.SGFUpTo(2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s, test.ShouldEqual, "(;SZ[9]\n;B[aa];W[])")

	_, err = tr.SGFUpTo(5)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTrackerSGFCapture(t *testing.T) {
	tr := newTestTracker(t, DefaultTrackerConfig())
	observe(t, tr, placed{4, 4, Black})
	observe(t, tr, placed{2, 2, White})

	// the capture is implied by the placement
	test.That(t, tr.SGF(), test.ShouldEqual, "(;SZ[9]\n;B[ee];W[cc])")
}
