// Command shadowsim runs a headless scene with one shadow-casting light and a
// panning camera on a rig, and logs every shadow map refresh the scheduler
// requests.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	shadowrefresh "github.com/gekko3d/shadowrefresh"
	"github.com/gekko3d/shadowrefresh/shadow"
)

type simSettings struct {
	moveEvery int
}

// cameraRigModule nudges the camera rig every moveEvery frames so the motion
// trigger has something to react to.
type cameraRigModule struct {
	rig      shadowrefresh.EntityId
	settings *simSettings
}

func (m cameraRigModule) Install(app *shadowrefresh.App, cmd *shadowrefresh.Commands) {
	cmd.AddResources(m.settings)
	app.UseSystem(shadowrefresh.System(func(cmd *shadowrefresh.Commands, t *shadowrefresh.Time, s *simSettings) {
		if s.moveEvery <= 0 || t.Frame%uint64(s.moveEvery) != 0 {
			return
		}
		if rig := shadowrefresh.GetComponent[shadowrefresh.TransformComponent](cmd, m.rig); rig != nil {
			rig.Position = rig.Position.Add(mgl32.Vec3{0.5, 0, 0})
		}
	}).InStage(shadowrefresh.Update))
}

// requestLogModule stands in for the renderer: it drains the request queue.
type requestLogModule struct{}

func (requestLogModule) Install(app *shadowrefresh.App, cmd *shadowrefresh.Commands) {
	app.UseSystem(shadowrefresh.System(func(cmd *shadowrefresh.Commands, queue *shadowrefresh.ShadowRequestQueue) {
		logger := app.Logger()
		for _, req := range queue.Drain() {
			logger.Infof("%s", req)
		}
	}).InStage(shadowrefresh.Render))
}

func defaultConfig() shadow.Config {
	cfg := shadow.Config{
		Target:        shadow.RefreshCascades,
		Basis:         shadow.CountFrames,
		MotionTrigger: true,
	}
	for i, frames := range []int{1, 2, 4, 8} {
		cfg.SetCascade(i, shadow.Threshold{Frames: frames, Seconds: float64(frames) / 60})
	}
	return cfg
}

func loadConfig(path string) (shadow.Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return shadow.Config{}, err
	}
	defer f.Close()
	return shadow.LoadConfig(f)
}

func main() {
	frames := flag.Int("frames", 120, "Number of frames to simulate")
	dt := flag.Duration("dt", time.Second/60, "Fixed frame duration")
	configPath := flag.String("config", "", "Shadow refresh config (JSON); defaults to staggered cascades")
	moveEvery := flag.Int("move-every", 30, "Move the camera every N frames (0 disables)")
	pan := flag.Float64("pan", 0, "Pan the camera at this many degrees per second")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shadowsim: %v\n", err)
		os.Exit(1)
	}

	app := shadowrefresh.NewApp()
	app.UseModules(
		shadowrefresh.LoggingModule{Prefix: "shadowsim", Debug: *debug},
		shadowrefresh.TimeModule{FixedStep: *dt},
		shadowrefresh.FlyingCameraModule{},
		shadowrefresh.HierarchyModule{},
		shadowrefresh.TransformTrackingModule{},
		shadowrefresh.ShadowRefreshModule{},
		requestLogModule{},
	)

	cmd := app.Commands()
	rigTransform := shadowrefresh.NewTransform(mgl32.Vec3{0, 2, 10})
	rig := cmd.AddEntity(&rigTransform)
	cmd.AddEntity(
		&shadowrefresh.Parent{Entity: rig},
		&shadowrefresh.LocalTransformComponent{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
		&shadowrefresh.TransformComponent{},
		&shadowrefresh.CameraComponent{Fov: 60, Up: mgl32.Vec3{0, 1, 0}},
		&shadowrefresh.FlyingCameraComponent{Look: mgl32.Vec2{float32(*pan), 0}},
		&shadowrefresh.MainCameraTag{},
	)
	sunTransform := shadowrefresh.NewTransform(mgl32.Vec3{0, 50, 0})
	cmd.AddEntity(
		&sunTransform,
		&shadowrefresh.LightComponent{
			Type:         shadowrefresh.LightTypeDirectional,
			Color:        [3]float32{1, 0.95, 0.9},
			Intensity:    3,
			CastsShadows: true,
		},
		&shadowrefresh.ShadowRefreshComponent{Config: cfg},
	)
	app.UseModules(cameraRigModule{rig: rig, settings: &simSettings{moveEvery: *moveEvery}})

	app.Logger().Infof("simulating %d frames of %v, target=%s basis=%s", *frames, *dt, cfg.Target, cfg.Basis)
	app.Run(*frames)
}
