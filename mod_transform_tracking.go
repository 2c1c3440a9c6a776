package shadowrefresh

import (
	"github.com/gekko3d/shadowrefresh/shadow"
)

const DefaultTrackingTolerance float32 = 1e-5

// TransformTracker counts the frames on which an entity's pose differed from
// the one seen on the previous frame. Consumers compare Moves against the last
// value they saw, so any number of them can watch the same entity.
//
// The pose is taken from TransformComponent, or from CameraComponent for
// cameras without one.
type TransformTracker struct {
	Moves     uint64
	Tolerance float32

	last TransformComponent
	seen bool
}

type TransformTrackingModule struct{}

func (TransformTrackingModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(TransformTrackingSystem).
			InStage(PreRender),
	)
}

func TransformTrackingSystem(cmd *Commands) {
	MakeQuery3[TransformTracker, TransformComponent, CameraComponent](cmd).Map(func(eid EntityId, tracker *TransformTracker, tr *TransformComponent, cam *CameraComponent) bool {
		var pose TransformComponent
		switch {
		case tr != nil:
			pose = *tr
		case cam != nil:
			pose = cam.Pose()
		default:
			return true
		}
		tracker.observe(pose)
		return true
	}, TransformComponent{}, CameraComponent{})
}

func (t *TransformTracker) observe(pose TransformComponent) {
	tolerance := t.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTrackingTolerance
	}
	if t.seen && !pose.ApproxEqual(t.last, tolerance) {
		t.Moves++
	}
	t.last = pose
	t.seen = true
}

// entityViewpoint exposes an entity's TransformTracker as a shadow.Viewpoint
// with its own "changed since last query" state. It looks the tracker up on
// every call because component storage moves between frames. A missing entity
// or tracker reads as "not moved".
type entityViewpoint struct {
	cmd      *Commands
	entity   EntityId
	consumed uint64
}

// EntityViewpoint returns a viewpoint reporting moves of entity made after
// this call. Each viewpoint clears only its own flag.
func EntityViewpoint(cmd *Commands, entity EntityId) shadow.Viewpoint {
	v := &entityViewpoint{cmd: cmd, entity: entity}
	v.consumed = v.moves()
	return v
}

func (v *entityViewpoint) moves() uint64 {
	if tracker := GetComponent[TransformTracker](v.cmd, v.entity); tracker != nil {
		return tracker.Moves
	}
	return 0
}

func (v *entityViewpoint) TransformChangedSinceLastQuery() bool {
	return v.moves() != v.consumed
}

func (v *entityViewpoint) ClearChangedFlag() {
	v.consumed = v.moves()
}
