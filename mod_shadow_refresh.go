package shadowrefresh

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gekko3d/shadowrefresh/shadow"
)

// ShadowSchedule runs right before Render so that requests issued this frame
// are visible to the renderer in the same frame.
var ShadowSchedule = Stage{Name: "ShadowSchedule"}

// ShadowRefreshComponent schedules on-demand shadow map refreshes for the
// light on the same entity. Config may be edited between frames.
type ShadowRefreshComponent struct {
	Config shadow.Config
	// TrackedCamera is the viewpoint of the motion trigger. When nil the main
	// camera is used.
	TrackedCamera *EntityId

	// ID identifies the light in shadow requests. Assigned on first use if nil.
	ID uuid.UUID

	scheduler      *shadow.Scheduler
	boundCamera    EntityId
	hasBoundCamera bool
}

// Scheduler returns the scheduler bound to this light, or nil before the
// first frame.
func (sr *ShadowRefreshComponent) Scheduler() *shadow.Scheduler {
	return sr.scheduler
}

// Reset drops the bound scheduler; a fresh one with zeroed counters is bound
// on the next frame. This is how a light that failed to bind is retried.
func (sr *ShadowRefreshComponent) Reset() {
	sr.scheduler = nil
	sr.hasBoundCamera = false
}

// ShadowRefreshModule wires a shadow.Scheduler to every entity with a
// ShadowRefreshComponent and feeds it one Step and one CheckCameraMotion per
// frame. Requests end up in the ShadowRequestQueue resource.
//
// Requires TimeModule. Install TransformTrackingModule for the motion trigger.
type ShadowRefreshModule struct{}

func (ShadowRefreshModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&ShadowRequestQueue{})
	if !app.HasStage(ShadowSchedule) {
		app.UseStage(ShadowSchedule, BeforeStage(Render))
	}
	app.UseSystem(
		System(ShadowRefreshSystem).
			InStage(ShadowSchedule),
	)
}

func ShadowRefreshSystem(cmd *Commands, t *Time, queue *ShadowRequestQueue) {
	logger := cmd.app.Logger()
	dt := t.DeltaSeconds()

	MakeQuery2[ShadowRefreshComponent, LightComponent](cmd).Map(func(eid EntityId, sr *ShadowRefreshComponent, light *LightComponent) bool {
		sr.Config = sr.Config.Sanitize()
		if sr.scheduler == nil {
			bindShadowScheduler(cmd, eid, sr, light, t, queue, logger)
		}
		if !sr.scheduler.Active() {
			return true
		}

		sr.scheduler.SetConfig(sr.Config)
		if sr.Config.MotionTrigger {
			sr.syncTrackedCamera(cmd)
		}
		sr.scheduler.Step(dt)
		sr.scheduler.CheckCameraMotion()
		return true
	}, LightComponent{})
}

func bindShadowScheduler(cmd *Commands, eid EntityId, sr *ShadowRefreshComponent, light *LightComponent, t *Time, queue *ShadowRequestQueue, logger Logger) {
	if sr.ID == uuid.Nil {
		sr.ID = uuid.New()
	}
	lightLogger := withLabel(logger, fmt.Sprintf("shadow refresh %v", eid))

	// Left as a nil interface when there is nothing to render, which makes
	// the scheduler inert.
	var resource shadow.LightResource
	switch {
	case light == nil:
		lightLogger.Errorf("entity has no LightComponent")
	case !light.CanCastShadows():
		lightLogger.Errorf("light does not cast shadows")
	default:
		resource = &queuedLight{id: sr.ID, entity: eid, queue: queue, time: t}
	}

	scheduler, err := shadow.New(resource,
		shadow.WithConfig(sr.Config),
		shadow.WithLogger(lightLogger),
		shadow.WithViewpointResolver(mainCameraViewpoint(cmd)),
	)
	if err == nil {
		lightLogger.Debugf("bound as %s", sr.ID)
	}
	sr.scheduler = scheduler
	sr.hasBoundCamera = false
}

// syncTrackedCamera hands the explicitly tracked camera to the scheduler when
// it changes and makes sure the camera is tracked.
func (sr *ShadowRefreshComponent) syncTrackedCamera(cmd *Commands) {
	if sr.TrackedCamera == nil {
		if sr.hasBoundCamera {
			sr.scheduler.SetViewpoint(nil)
			sr.hasBoundCamera = false
		}
		return
	}

	camera := *sr.TrackedCamera
	ensureTracked(cmd, camera)
	if sr.hasBoundCamera && sr.boundCamera == camera {
		return
	}
	sr.scheduler.SetViewpoint(EntityViewpoint(cmd, camera))
	sr.boundCamera = camera
	sr.hasBoundCamera = true
}

// mainCameraViewpoint resolves the main camera, adding a TransformTracker to
// it if it has none yet. Motion is reported from the frame after that.
func mainCameraViewpoint(cmd *Commands) shadow.ViewpointResolver {
	resolve := MainCameraResolver(cmd)
	return func() (shadow.Viewpoint, bool) {
		if eid, ok := MainCamera(cmd); ok {
			ensureTracked(cmd, eid)
		}
		return resolve()
	}
}

func ensureTracked(cmd *Commands, eid EntityId) {
	if GetComponent[TransformTracker](cmd, eid) == nil {
		cmd.AddComponents(eid, TransformTracker{})
	}
}
