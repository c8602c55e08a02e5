package lightpass

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/gekko3d/lightpass/rt/core"
	"github.com/gekko3d/lightpass/rt/kernel"

	"github.com/google/uuid"
)

var ErrNoBackend = errors.New("no backend installed")

// Stage orders the systems run around each dispatch.
type Stage int

const (
	StagePreDispatch Stage = iota
	StagePostDispatch
)

// System runs once per frame in its stage. A non-nil error stops the run.
type System func(app *App, f *Frame) error

// Frame is the state of one dispatch. Image is reused between frames; sinks
// that keep frames must copy it.
type Frame struct {
	Index  int
	RunID  uuid.UUID
	Params kernel.Params
	Image  *core.Image
}

type App struct {
	config    Config
	kernel    kernel.Kernel
	backend   Backend
	sinks     []Sink
	systems   map[Stage][]System
	resources map[reflect.Type]any
	rendered  int
}

func (app *App) Config() Config { return app.config }

func (app *App) Kernel() kernel.Kernel { return app.kernel }

// Rendered is the number of frames dispatched so far.
func (app *App) Rendered() int { return app.rendered }

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource looks up a resource by its pointed-to type.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	t, ok := r.(*T)
	return t, ok
}

func (app *App) callSystems(stage Stage, f *Frame) error {
	for _, system := range app.systems[stage] {
		if err := system(app, f); err != nil {
			return err
		}
	}
	return nil
}

// Run renders Config.Frames frames, or frames until ctx is cancelled when
// Frames is 0. The backend and sinks are closed before Run returns.
func (app *App) Run(ctx context.Context) (err error) {
	if app.backend == nil {
		return ErrNoBackend
	}
	defer func() {
		if cerr := app.close(); err == nil {
			err = cerr
		}
	}()

	log := app.Logger()
	prof, _ := Resource[Profiler](app)
	unbounded := app.config.Frames == 0

	img := core.NewImage(app.config.Width, app.config.Height)
	base := app.config.Params()
	log.Infof("Rendering %s kernel on %s backend (%dx%d)", app.kernel.Name(), app.backend.Name(), base.Width, base.Height)

	for i := 0; unbounded || i < app.config.Frames; i++ {
		if ctx.Err() != nil {
			break
		}
		frame := &Frame{Index: i, RunID: uuid.New(), Params: base, Image: img}
		if err := app.callSystems(StagePreDispatch, frame); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}

		prof.BeginScope("dispatch")
		err := app.backend.Dispatch(ctx, app.kernel, frame.Params, img)
		prof.EndScope("dispatch")
		if err != nil {
			if unbounded && errors.Is(err, context.Canceled) {
				break
			}
			return fmt.Errorf("frame %d: %w", i, err)
		}
		app.rendered++
		log.Debugf("Frame %d (%s) light at %v", i, frame.RunID, frame.Params.LightPos)

		for _, sink := range app.sinks {
			prof.BeginScope("encode")
			err := sink.WriteFrame(frame)
			prof.EndScope("encode")
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}
		if err := app.callSystems(StagePostDispatch, frame); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	if !unbounded {
		return ctx.Err()
	}
	return nil
}

func (app *App) close() error {
	var errs []error
	for _, sink := range app.sinks {
		errs = append(errs, sink.Close())
	}
	errs = append(errs, app.backend.Close())

	if prof, ok := Resource[Profiler](app); ok {
		app.Logger().Debugf("Profile:\n%s", prof.GetStatsString())
	}
	return errors.Join(errs...)
}
