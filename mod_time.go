package lightpass

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

type TimeModule struct {
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	cmd.UseSystem(StagePreDispatch, timeSystem)
}

func timeSystem(app *App, _ *Frame) error {
	timeResource, ok := Resource[Time](app)
	if !ok {
		return nil
	}
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	return nil
}

// FPSModule logs the frame rate every Interval frames. Requires TimeModule.
type FPSModule struct {
	Interval int
}

func (mod FPSModule) Install(app *App, cmd *Commands) {
	if mod.Interval <= 0 {
		return
	}
	var (
		since  time.Time
		frames int
	)
	cmd.UseSystem(StagePostDispatch, func(app *App, f *Frame) error {
		t, ok := Resource[Time](app)
		if !ok {
			return nil
		}
		if since.IsZero() {
			since = t.Time
		}
		frames++
		if frames < mod.Interval {
			return nil
		}
		if elapsed := time.Since(since); elapsed > 0 {
			app.Logger().Infof("FPS: %.1f (frame %d)", float64(frames)/elapsed.Seconds(), f.Index)
		}
		since, frames = time.Now(), 0
		return nil
	})
}
