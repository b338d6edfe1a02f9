package viamgo

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/samber/lo"

	"go.viam.com/rdk/logging"
)

var (
	ErrNoRound           = errors.New("no round in progress")
	ErrOutOfBounds       = errors.New("position off the board")
	ErrUnresolvedCapture = errors.New("captured stone was never placed")
)

// maxBoardSize is the largest board SGF's lowercase coordinates can address.
const maxBoardSize = 26

// NoSeq marks a captured stone whose placement could not be found.
const NoSeq = 0

type Action int

const (
	Place Action = iota + 1
	PlaceCapture
	Pass
)

func (a Action) String() string {
	switch a {
	case Place:
		return "place"
	case PlaceCapture:
		return "place-capture"
	case Pass:
		return "pass"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Stone is a board position and the sequence number of the stone placed there.
type Stone struct {
	X, Y int
	Seq  int
}

// Round is one entry of the game: a placement, with or without captures, or a pass.
type Round struct {
	Number    int
	Player    StoneColor
	Action    Action
	Placement *Stone
	Captures  []Stone
}

func (r Round) String() string {
	if r.Action == Pass {
		return fmt.Sprintf("round %d: %v passes", r.Number, r.Player)
	}
	s := fmt.Sprintf("round %d: %v plays (%d, %d)", r.Number, r.Player, r.Placement.X, r.Placement.Y)
	if len(r.Captures) > 0 {
		where := lo.Map(r.Captures, func(c Stone, _ int) string { return fmt.Sprintf("(%d, %d)", c.X, c.Y) })
		s += fmt.Sprintf(", captures %d: %s", len(r.Captures), strings.Join(where, ", "))
	}
	return s
}

// Move is a stone on the board, as returned by Moves.
type Move struct {
	X, Y  int
	Seq   int
	Color StoneColor
}

type RoundStatus int

const (
	// StatusUnchanged means the observed board matches the confirmed one.
	StatusUnchanged RoundStatus = iota
	// StatusAmbiguous means the change is not a single move. Sample a later frame.
	StatusAmbiguous
	// StatusRejected means the change looked like a move but could not be applied.
	StatusRejected
	StatusRecorded
)

func (s RoundStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusAmbiguous:
		return "ambiguous"
	case StatusRejected:
		return "rejected"
	case StatusRecorded:
		return "recorded"
	}
	return fmt.Sprintf("RoundStatus(%d)", int(s))
}

// RoundResult is what End found. Pass is set when the same colour moved twice and the
// opponent's skipped turn was recorded first.
type RoundResult struct {
	Status RoundStatus
	Pass   *Round
	Round  *Round
}

type TrackerConfig struct {
	// StrictCaptures rejects a round capturing a stone missing from the registry. When false
	// the capture is kept with Seq set to NoSeq and a warning is logged.
	StrictCaptures bool
}

func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{StrictCaptures: true}
}

// Tracker turns successive board observations into a game record.
//
// Each observation goes through Start, any number of Found calls and End. A Tracker is not
// safe for concurrent use.
type Tracker struct {
	rows, cols int
	cfg        TrackerConfig
	logger     logging.Logger

	rounds    []Round
	confirmed StoneLayout
	observed  StoneLayout

	// registry maps every stone on the confirmed board to its sequence number
	registry map[image.Point]int
	lastSeq  int
}

func NewTracker(rows, cols int, cfg TrackerConfig, logger logging.Logger) (*Tracker, error) {
	if rows < 1 || cols < 1 || rows > maxBoardSize || cols > maxBoardSize {
		return nil, fmt.Errorf("board must be between 1x1 and %dx%d, got %dx%d", maxBoardSize, maxBoardSize, cols, rows)
	}
	return &Tracker{
		rows:      rows,
		cols:      cols,
		cfg:       cfg,
		logger:    logger,
		confirmed: NewStoneLayout(rows, cols),
		registry:  map[image.Point]int{},
	}, nil
}

func (t *Tracker) Rows() int {
	return t.rows
}

func (t *Tracker) Cols() int {
	return t.cols
}

// Start opens a new observation with an empty board. An observation left open is dropped.
func (t *Tracker) Start() {
	t.observed = NewStoneLayout(t.rows, t.cols)
}

// Found records a stone seen at (x, y) in the current observation.
func (t *Tracker) Found(x, y int, color StoneColor) error {
	if t.observed == nil {
		return ErrNoRound
	}
	if color != Black && color != White {
		return fmt.Errorf("can't place a %v stone", color)
	}
	if !t.observed.inBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) on %dx%d", ErrOutOfBounds, x, y, t.cols, t.rows)
	}
	t.observed[y][x] = color
	return nil
}

// End closes the observation and compares it with the confirmed board. The confirmed board
// only changes when the difference is exactly one move.
func (t *Tracker) End() (RoundResult, error) {
	if t.observed == nil {
		return RoundResult{}, ErrNoRound
	}
	observed := t.observed
	t.observed = nil

	diff := diffLayouts(t.confirmed, observed)
	if diff.empty() {
		return RoundResult{Status: StatusUnchanged}, nil
	}

	player, at, captured, ok := diff.move()
	if !ok {
		t.logger.Debugf("ambiguous change: placed %v removed %v flipped %v", diff.placed, diff.removed, diff.flipped)
		return RoundResult{Status: StatusAmbiguous}, nil
	}

	captures := make([]Stone, 0, len(captured))
	for _, p := range captured {
		seq, found := t.registry[p]
		if !found {
			if t.cfg.StrictCaptures {
				return RoundResult{Status: StatusRejected}, fmt.Errorf("%w: (%d, %d)", ErrUnresolvedCapture, p.X, p.Y)
			}
			t.logger.Warnf("captured stone at (%d, %d) has no placement, recording without sequence number", p.X, p.Y)
			seq = NoSeq
		}
		captures = append(captures, Stone{X: p.X, Y: p.Y, Seq: seq})
	}

	var res RoundResult
	res.Status = StatusRecorded

	if len(t.rounds) > 0 && t.rounds[len(t.rounds)-1].Player == player {
		pass := Round{Number: len(t.rounds) + 1, Player: player.Opponent(), Action: Pass}
		t.rounds = append(t.rounds, pass)
		res.Pass = &pass
	}

	t.lastSeq++
	rd := Round{
		Number:    len(t.rounds) + 1,
		Player:    player,
		Action:    Place,
		Placement: &Stone{X: at.X, Y: at.Y, Seq: t.lastSeq},
		Captures:  captures,
	}
	if len(captures) > 0 {
		rd.Action = PlaceCapture
	}

	for _, p := range captured {
		delete(t.registry, p)
	}
	t.registry[at] = t.lastSeq
	t.rounds = append(t.rounds, rd)
	t.confirmed = observed

	res.Round = &rd
	return res, nil
}

// Rounds returns the game so far.
func (t *Tracker) Rounds() []Round {
	return slices.Clone(t.rounds)
}

// Layout returns a copy of the confirmed board.
func (t *Tracker) Layout() StoneLayout {
	return t.confirmed.Clone()
}

// Counts returns the number of black and white stones on the confirmed board.
func (t *Tracker) Counts() (black, white int) {
	return t.confirmed.Count()
}

// Moves returns the stones on the board after the last round, ordered by sequence number.
func (t *Tracker) Moves() []Move {
	moves, _ := t.MovesUpTo(len(t.rounds))
	return moves
}

// MovesUpTo replays the first n rounds and returns the stones left on the board.
func (t *Tracker) MovesUpTo(n int) ([]Move, error) {
	if n < 0 || n > len(t.rounds) {
		return nil, fmt.Errorf("round %d out of range, have %d rounds", n, len(t.rounds))
	}

	live := map[image.Point]Move{}
	for _, rd := range t.rounds[:n] {
		if rd.Placement == nil {
			continue
		}
		p := rd.Placement
		live[image.Point{X: p.X, Y: p.Y}] = Move{X: p.X, Y: p.Y, Seq: p.Seq, Color: rd.Player}
		for _, c := range rd.Captures {
			delete(live, image.Point{X: c.X, Y: c.Y})
		}
	}

	moves := lo.Values(live)
	slices.SortFunc(moves, func(a, b Move) int { return a.Seq - b.Seq })
	return moves, nil
}
