package viamgo

import (
	"errors"
	"fmt"
	"image"

	"go.viam.com/rdk/logging"
)

var ErrNotCalibrated = errors.New("board grid not found yet, calibrate first")

type SessionConfig struct {
	Detector DetectorConfig
	Grid     GridConfig
	Stones   StoneConfig
	Tracker  TrackerConfig
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Detector: DefaultDetectorConfig(),
		Grid:     DefaultGridConfig(),
		Stones:   DefaultStoneConfig(),
		Tracker:  DefaultTrackerConfig(),
	}
}

// Session records one game: it finds the board once, then turns frames into rounds.
type Session struct {
	cfg    SessionConfig
	logger logging.Logger

	grid    Grid
	tracker *Tracker
}

func NewSession(cfg SessionConfig, logger logging.Logger) *Session {
	return &Session{cfg: cfg, logger: logger}
}

// Calibrate finds the board grid in img and starts a new game sized to it.
func (s *Session) Calibrate(img image.Image) (Grid, error) {
	lines, edges := DetectLines(img, s.cfg.Detector)
	s.logger.Debugf("detected %d lines", len(lines))

	grid, err := ExtractGrid(lines, edges, s.cfg.Grid, s.logger)
	if err != nil {
		return nil, err
	}

	tracker, err := NewTracker(grid.Rows(), grid.Cols(), s.cfg.Tracker, s.logger)
	if err != nil {
		return nil, err
	}

	s.grid = grid
	s.tracker = tracker
	s.logger.Infof("found %dx%d board", grid.Cols(), grid.Rows())
	return grid, nil
}

func (s *Session) Grid() Grid {
	return s.grid
}

// Tracker is nil until Calibrate succeeds.
func (s *Session) Tracker() *Tracker {
	return s.tracker
}

// Reset starts a new game on the same grid.
func (s *Session) Reset() error {
	if s.grid == nil {
		return ErrNotCalibrated
	}
	tracker, err := NewTracker(s.grid.Rows(), s.grid.Cols(), s.cfg.Tracker, s.logger)
	if err != nil {
		return err
	}
	s.tracker = tracker
	return nil
}

// ProcessFrame samples every intersection of img as one observation.
func (s *Session) ProcessFrame(img image.Image) (RoundResult, error) {
	if s.tracker == nil {
		return RoundResult{}, ErrNotCalibrated
	}

	s.tracker.Start()
	if err := SampleStones(img, s.grid, s.cfg.Stones, s.tracker.Found); err != nil {
		return RoundResult{}, fmt.Errorf("sampling frame: %w", err)
	}

	res, err := s.tracker.End()
	if err != nil {
		return res, err
	}

	if res.Pass != nil {
		s.logger.Infof("%v", res.Pass)
	}
	if res.Round != nil {
		s.logger.Infof("%v", res.Round)
	}
	return res, nil
}
