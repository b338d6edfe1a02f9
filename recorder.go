package viamgo

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	generic "go.viam.com/rdk/services/generic"
)

var family = resource.ModelNamespace("erh").WithFamily("viam-go")

var RecorderModel = family.WithModel("go-recorder")

func init() {
	resource.RegisterService(generic.API, RecorderModel,
		resource.Registration[resource.Resource, *RecorderConfig]{
			Constructor: newGoRecorder,
		},
	)
}

// RecorderConfig angles are in degrees. Zero values fall back to the defaults.
type RecorderConfig struct {
	Camera string

	AxisTolerance   float64 `json:"axis-tolerance"`
	OffsetTolerance float64 `json:"offset-tolerance"`
	AngleTolerance  float64 `json:"angle-tolerance"`
	MinLines        int     `json:"min-lines"`

	EdgeThreshold int `json:"edge-threshold"`
	VoteThreshold int `json:"vote-threshold"`

	LenientCaptures bool `json:"lenient-captures"`
}

func (cfg *RecorderConfig) Validate(path string) ([]string, []string, error) {
	var err error
	if cfg.Camera == "" {
		err = multierr.Append(err, fmt.Errorf("need a camera"))
	}
	if cfg.AxisTolerance < 0 || cfg.AxisTolerance >= 45 {
		err = multierr.Append(err, fmt.Errorf("axis-tolerance must be in [0, 45), got %v", cfg.AxisTolerance))
	}
	if cfg.OffsetTolerance < 0 || cfg.AngleTolerance < 0 {
		err = multierr.Append(err, fmt.Errorf("offset-tolerance and angle-tolerance can't be negative"))
	}
	if cfg.MinLines != 0 && cfg.MinLines < 2 {
		err = multierr.Append(err, fmt.Errorf("min-lines must be at least 2, got %d", cfg.MinLines))
	}
	if cfg.EdgeThreshold < 0 || cfg.EdgeThreshold > 255 {
		err = multierr.Append(err, fmt.Errorf("edge-threshold must be in [0, 255], got %d", cfg.EdgeThreshold))
	}
	if cfg.VoteThreshold < 0 {
		err = multierr.Append(err, fmt.Errorf("vote-threshold can't be negative"))
	}
	if err != nil {
		return nil, nil, err
	}
	return []string{cfg.Camera}, nil, nil
}

func (cfg *RecorderConfig) sessionConfig() SessionConfig {
	sc := DefaultSessionConfig()
	if cfg.AxisTolerance > 0 {
		sc.Grid.AxisTolerance = degrees(cfg.AxisTolerance)
	}
	if cfg.OffsetTolerance > 0 {
		sc.Grid.OffsetTolerance = cfg.OffsetTolerance
	}
	if cfg.AngleTolerance > 0 {
		sc.Grid.AngleTolerance = degrees(cfg.AngleTolerance)
	}
	if cfg.MinLines > 0 {
		sc.Grid.MinLines = cfg.MinLines
	}
	if cfg.EdgeThreshold > 0 {
		sc.Detector.EdgeThreshold = cfg.EdgeThreshold
	}
	if cfg.VoteThreshold > 0 {
		sc.Detector.VoteThreshold = cfg.VoteThreshold
	}
	sc.Tracker.StrictCaptures = !cfg.LenientCaptures
	return sc
}

type frameSource func(ctx context.Context) (image.Image, error)

func cameraFrames(cam camera.Camera) frameSource {
	return func(ctx context.Context) (image.Image, error) {
		ni, _, err := cam.Images(ctx, nil, nil)
		if err != nil {
			return nil, err
		}
		if len(ni) == 0 {
			return nil, fmt.Errorf("no images returned from camera")
		}
		return ni[0].Image(ctx)
	}
}

type goRecorder struct {
	resource.AlwaysRebuild

	name resource.Name

	logger logging.Logger
	conf   *RecorderConfig

	frames frameSource

	mu      sync.Mutex
	session *Session
}

func newGoRecorder(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (resource.Resource, error) {
	conf, err := resource.NativeConfig[*RecorderConfig](rawConf)
	if err != nil {
		return nil, err
	}

	return NewRecorder(ctx, deps, rawConf.ResourceName(), conf, logger)
}

func NewRecorder(ctx context.Context, deps resource.Dependencies, name resource.Name, conf *RecorderConfig, logger logging.Logger) (resource.Resource, error) {
	cam, err := camera.FromProvider(deps, conf.Camera)
	if err != nil {
		return nil, err
	}

	return newRecorder(name, conf, cameraFrames(cam), logger), nil
}

func newRecorder(name resource.Name, conf *RecorderConfig, frames frameSource, logger logging.Logger) *goRecorder {
	return &goRecorder{
		name:    name,
		logger:  logger,
		conf:    conf,
		frames:  frames,
		session: NewSession(conf.sessionConfig(), logger),
	}
}

func (r *goRecorder) Name() resource.Name {
	return r.name
}

func (r *goRecorder) Close(context.Context) error {
	return nil
}

// ----

type historyQuery struct {
	// Round limits the answer to the first Round rounds; all rounds when unset.
	Round *int
}

type recorderCmd struct {
	Calibrate bool
	Round     bool
	SGF       *historyQuery `mapstructure:"sgf"`
	Moves     *historyQuery
	State     bool
	Reset     bool
}

func (r *goRecorder) DoCommand(ctx context.Context, cmdMap map[string]interface{}) (map[string]interface{}, error) {
	var cmd recorderCmd
	err := mapstructure.Decode(cmdMap, &cmd)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case cmd.Calibrate:
		return r.calibrate(ctx)
	case cmd.Round:
		return r.round(ctx)
	case cmd.SGF != nil:
		return r.sgf(cmd.SGF)
	case cmd.Moves != nil:
		return r.moves(cmd.Moves)
	case cmd.State:
		return r.state()
	case cmd.Reset:
		if err := r.session.Reset(); err != nil {
			return nil, err
		}
		return map[string]interface{}{"reset": true}, nil
	}

	return nil, fmt.Errorf("bad cmd %v", cmdMap)
}

func (r *goRecorder) calibrate(ctx context.Context) (map[string]interface{}, error) {
	img, err := r.frames(ctx)
	if err != nil {
		return nil, err
	}

	grid, err := r.session.Calibrate(img)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"rows": grid.Rows(), "cols": grid.Cols()}, nil
}

func (r *goRecorder) round(ctx context.Context) (map[string]interface{}, error) {
	img, err := r.frames(ctx)
	if err != nil {
		return nil, err
	}

	res, err := r.session.ProcessFrame(img)
	if err != nil {
		return nil, err
	}

	rounds := []interface{}{}
	if res.Pass != nil {
		rounds = append(rounds, roundToMap(*res.Pass))
	}
	if res.Round != nil {
		rounds = append(rounds, roundToMap(*res.Round))
	}
	return map[string]interface{}{"status": res.Status.String(), "rounds": rounds}, nil
}

func (r *goRecorder) tracker() (*Tracker, error) {
	t := r.session.Tracker()
	if t == nil {
		return nil, ErrNotCalibrated
	}
	return t, nil
}

func (q *historyQuery) limit(t *Tracker) int {
	if q.Round == nil {
		return len(t.rounds)
	}
	return *q.Round
}

func (r *goRecorder) sgf(q *historyQuery) (map[string]interface{}, error) {
	t, err := r.tracker()
	if err != nil {
		return nil, err
	}
	text, err := t.SGFUpTo(q.limit(t))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"sgf": text}, nil
}

func (r *goRecorder) moves(q *historyQuery) (map[string]interface{}, error) {
	t, err := r.tracker()
	if err != nil {
		return nil, err
	}
	moves, err := t.MovesUpTo(q.limit(t))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"moves": movesToList(moves)}, nil
}

func (r *goRecorder) state() (map[string]interface{}, error) {
	t, err := r.tracker()
	if err != nil {
		return nil, err
	}

	grid := []interface{}{}
	for _, row := range r.session.Grid() {
		points := []interface{}{}
		for _, p := range row {
			points = append(points, map[string]interface{}{"x": p.X, "y": p.Y})
		}
		grid = append(grid, points)
	}

	black, white := t.Counts()
	return map[string]interface{}{
		"grid":   grid,
		"moves":  movesToList(t.Moves()),
		"rounds": len(t.rounds),
		"black":  black,
		"white":  white,
	}, nil
}

func stoneToMap(s Stone) map[string]interface{} {
	return map[string]interface{}{"x": s.X, "y": s.Y, "seq": s.Seq}
}

func roundToMap(rd Round) map[string]interface{} {
	m := map[string]interface{}{
		"number": rd.Number,
		"player": rd.Player.String(),
		"action": rd.Action.String(),
	}
	if rd.Placement != nil {
		m["placement"] = stoneToMap(*rd.Placement)
	}
	captures := []interface{}{}
	for _, c := range rd.Captures {
		captures = append(captures, stoneToMap(c))
	}
	m["captures"] = captures
	return m
}

func movesToList(moves []Move) []interface{} {
	out := []interface{}{}
	for _, m := range moves {
		out = append(out, map[string]interface{}{
			"x":     m.X,
			"y":     m.Y,
			"seq":   m.Seq,
			"color": m.Color.String(),
		})
	}
	return out
}
