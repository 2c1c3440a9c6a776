package shadowrefresh

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64
}

// DeltaSeconds is Dt in seconds. It is zero on a stalled frame.
func (t *Time) DeltaSeconds() float64 {
	if t.Dt <= 0 {
		return 0
	}
	return t.Dt.Seconds()
}

// TimeModule advances the Time resource at the start of every frame. With a
// zero FixedStep it follows the wall clock; otherwise every frame lasts
// exactly FixedStep, which keeps simulations and tests reproducible.
type TimeModule struct {
	FixedStep time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	if mod.FixedStep > 0 {
		app.UseSystem(System(fixedTimeSystem(mod.FixedStep)).InStage(PreUpdate))
		return
	}
	app.UseSystem(System(timeSystem).InStage(PreUpdate))
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Frame++
}

func fixedTimeSystem(step time.Duration) func(*Time) {
	return func(timeResource *Time) {
		timeResource.Dt = step
		timeResource.Time = timeResource.Time.Add(step)
		timeResource.Frame++
	}
}
