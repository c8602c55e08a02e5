package lightpass

import (
	"fmt"
	"reflect"

	"github.com/gekko3d/lightpass/rt/gpu"
)

// BackendName identifies a concrete backend.
type BackendName string

const (
	BackendCPU BackendName = "cpu"
	BackendGPU BackendName = "gpu"
)

// BackendTag marks that a backend has been installed into the App.
// Only one backend should be installed at a time.
type BackendTag struct {
	Name string
}

// ensureSingleBackend enforces a single backend invariant.
// If a different backend is already installed, it panics with a clear message.
func ensureSingleBackend(app *App, name string) {
	if app == nil {
		panic("ensureSingleBackend: app is nil")
	}
	t := reflect.TypeOf((*BackendTag)(nil)).Elem()
	if res, ok := app.resources[t]; ok {
		if tag, ok2 := res.(*BackendTag); ok2 {
			if tag.Name != name {
				app.Logger().Errorf("Multiple backends installed: %s and %s", tag.Name, name)
				panic(fmt.Sprintf("Multiple backends installed: %s and %s", tag.Name, name))
			}
			return
		}
		panic("BackendTag resource present with unexpected type")
	}
	app.addResources(&BackendTag{Name: name})
}

// BackendModule creates the named backend. Workers only applies to the CPU
// backend.
type BackendModule struct {
	Name    BackendName
	Workers int
}

func (m BackendModule) Install(app *App, cmd *Commands) {
	switch m.Name {
	case BackendCPU, "":
		cmd.UseBackend(NewCPUBackend(m.Workers))
	case BackendGPU:
		b, err := gpu.New(app.Logger())
		if err != nil {
			cmd.Fail(err)
			return
		}
		cmd.UseBackend(b)
	default:
		cmd.Fail(fmt.Errorf("%w: backend %q", ErrInvalidConfig, m.Name))
		return
	}
	app.Logger().Infof("Backend selected: %s", app.backend.Name())
}
