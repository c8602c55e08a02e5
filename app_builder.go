package lightpass

import (
	"reflect"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

type Module interface {
	Install(app *App, cmd *Commands)
}

// ModuleFunc adapts a function to Module.
type ModuleFunc func(app *App, cmd *Commands)

func (f ModuleFunc) Install(app *App, cmd *Commands) { f(app, cmd) }

func NewAppBuilder(cfg Config) *AppBuilder {
	return &AppBuilder{app: &App{
		config:    cfg,
		systems:   make(map[Stage][]System),
		resources: make(map[reflect.Type]any),
	}}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build validates the config and installs the modules in order. The first
// error reported by a module aborts the build.
func (b *AppBuilder) Build() (*App, error) {
	app := b.app
	if err := app.config.Validate(); err != nil {
		return nil, err
	}
	k, err := app.config.KernelFunc()
	if err != nil {
		return nil, err
	}
	app.kernel = k

	commands := &Commands{app: app}
	for _, module := range b.modules {
		module.Install(app, commands)
		if commands.err != nil {
			break
		}
	}
	if commands.err != nil {
		if app.backend != nil {
			_ = app.backend.Close()
		}
		return nil, commands.err
	}
	if app.backend == nil {
		return nil, ErrNoBackend
	}

	return app, nil
}

// DefaultModules wires a run from cfg: logging, timing, profiling, the
// backend, light animation and output.
func DefaultModules(cfg Config) []Module {
	mods := []Module{
		LoggingModule{Prefix: "lightpass", Debug: cfg.Debug},
		TimeModule{},
		FPSModule{Interval: cfg.FPSInterval},
		ProfilerModule{},
		BackendModule{Name: cfg.Backend, Workers: cfg.Workers},
		LightModule{Path: LightPath{
			Kind:   cfg.Light.Path,
			Origin: cfg.LightPos(),
			Width:  cfg.Width,
			Height: cfg.Height,
			Frames: cfg.Frames,
		}},
	}
	if cfg.Output != "" {
		mods = append(mods, OutputModule{Path: cfg.Output, Format: cfg.Format, GIFDelay: cfg.GIFDelay})
	}
	return mods
}
