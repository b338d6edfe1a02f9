package viamgo

import (
	"context"
	"fmt"
	"image"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/data"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/resource"
	generic "go.viam.com/rdk/services/generic"
	"go.viam.com/rdk/spatialmath"
)

var GridCameraModel = family.WithModel("grid-overlay-camera")

func init() {
	resource.RegisterComponent(camera.API, GridCameraModel,
		resource.Registration[camera.Camera, *GridCameraConfig]{
			Constructor: newGridCamera,
		},
	)
}

type GridCameraConfig struct {
	Input string // camera looking down at the board
	// Recorder is an optional go-recorder whose grid and stones are drawn. Without it the
	// grid is searched for in every frame.
	Recorder string
}

func (cfg *GridCameraConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Input == "" {
		return nil, nil, fmt.Errorf("need an input")
	}
	deps := []string{cfg.Input}
	if cfg.Recorder != "" {
		deps = append(deps, cfg.Recorder)
	}
	return deps, nil, nil
}

func newGridCamera(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (camera.Camera, error) {
	conf, err := resource.NativeConfig[*GridCameraConfig](rawConf)
	if err != nil {
		return nil, err
	}

	return NewGridCamera(ctx, deps, rawConf.ResourceName(), conf, logger)
}

func NewGridCamera(ctx context.Context, deps resource.Dependencies, name resource.Name, conf *GridCameraConfig, logger logging.Logger) (camera.Camera, error) {
	var err error

	gc := &GridCamera{
		name:   name,
		conf:   conf,
		logger: logger,
	}

	gc.input, err = camera.FromProvider(deps, conf.Input)
	if err != nil {
		return nil, err
	}

	if conf.Recorder != "" {
		rec, err := generic.FromProvider(deps, conf.Recorder)
		if err != nil {
			return nil, err
		}
		gc.state = recorderState(rec)
	} else {
		gc.state = detectState(logger)
	}

	return gc, nil
}

type GridCamera struct {
	resource.AlwaysRebuild
	resource.TriviallyCloseable

	name   resource.Name
	conf   *GridCameraConfig
	logger logging.Logger

	input camera.Camera
	state stateSource
}

// overlayState is what gets drawn over a frame.
type overlayState struct {
	Grid  Grid
	Moves []Move
}

type stateSource func(ctx context.Context, frame image.Image) (overlayState, error)

func detectState(logger logging.Logger) stateSource {
	cfg := DefaultSessionConfig()
	return func(ctx context.Context, frame image.Image) (overlayState, error) {
		lines, edges := DetectLines(frame, cfg.Detector)
		grid, err := ExtractGrid(lines, edges, cfg.Grid, logger)
		if err != nil {
			return overlayState{}, err
		}
		return overlayState{Grid: grid}, nil
	}
}

func recorderState(rec resource.Resource) stateSource {
	return func(ctx context.Context, frame image.Image) (overlayState, error) {
		resp, err := rec.DoCommand(ctx, map[string]interface{}{"state": true})
		if err != nil {
			return overlayState{}, err
		}
		return decodeOverlayState(resp)
	}
}

var stoneColorType = reflect.TypeOf(Empty)

func stoneColorHook(from, to reflect.Type, v interface{}) (interface{}, error) {
	if to != stoneColorType || from.Kind() != reflect.String {
		return v, nil
	}
	for _, c := range []StoneColor{Empty, Black, White} {
		if strings.EqualFold(v.(string), c.String()) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown stone color %q", v)
}

func decodeOverlayState(resp map[string]interface{}) (overlayState, error) {
	var st overlayState
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stoneColorHook,
		Result:     &st,
	})
	if err != nil {
		return overlayState{}, err
	}
	if err := dec.Decode(resp); err != nil {
		return overlayState{}, err
	}
	return st, nil
}

func (gc *GridCamera) Image(ctx context.Context, mimeType string, extra map[string]interface{}) ([]byte, camera.ImageMetadata, error) {
	return camera.GetImageFromGetImages(ctx, nil, gc, extra, nil)
}

func (gc *GridCamera) Images(ctx context.Context, filterSourceNames []string, extra map[string]interface{}) ([]camera.NamedImage, resource.ResponseMetadata, error) {
	ni, rm, err := gc.input.Images(ctx, nil, extra)
	if err != nil {
		return nil, rm, err
	}

	if len(ni) == 0 {
		return nil, rm, fmt.Errorf("no images returned from input camera")
	}

	srcImg, err := ni[0].Image(ctx)
	if err != nil {
		return nil, rm, err
	}

	dst := gc.render(ctx, srcImg)

	result, err := camera.NamedImageFromImage(dst, ni[0].SourceName, "", data.Annotations{})
	if err != nil {
		return nil, rm, err
	}
	return []camera.NamedImage{result}, rm, nil
}

// render draws the overlay on the frame. A frame with no board found is passed through.
func (gc *GridCamera) render(ctx context.Context, frame image.Image) image.Image {
	st, err := gc.state(ctx, frame)
	if err != nil {
		gc.logger.Debugf("no overlay: %v", err)
		return frame
	}
	return OverlayImage(frame, st.Grid, st.Moves)
}

func (gc *GridCamera) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	return nil, fmt.Errorf("DoCommand not supported")
}

func (gc *GridCamera) NextPointCloud(ctx context.Context, extra map[string]interface{}) (pointcloud.PointCloud, error) {
	return nil, fmt.Errorf("NextPointCloud not supported")
}

func (gc *GridCamera) Properties(ctx context.Context) (camera.Properties, error) {
	return camera.Properties{}, nil
}

func (gc *GridCamera) Geometries(ctx context.Context, extra map[string]interface{}) ([]spatialmath.Geometry, error) {
	return nil, nil
}

func (gc *GridCamera) Name() resource.Name {
	return gc.name
}
