package lightpass

type Commands struct {
	app *App
	err error
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(stage Stage, system System) *Commands {
	cmd.app.systems[stage] = append(cmd.app.systems[stage], system)
	return cmd
}

func (cmd *Commands) UseBackend(b Backend) *Commands {
	ensureSingleBackend(cmd.app, b.Name())
	cmd.app.backend = b
	return cmd
}

func (cmd *Commands) AddSink(s Sink) *Commands {
	cmd.app.sinks = append(cmd.app.sinks, s)
	return cmd
}

// Fail records an installation error; Build returns the first one.
func (cmd *Commands) Fail(err error) {
	if cmd.err == nil {
		cmd.err = err
	}
}
