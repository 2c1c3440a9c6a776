package shadowrefresh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/shadowrefresh/shadow"
)

type CameraComponent struct {
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
	Up       mgl32.Vec3
	Yaw      float32 // degrees
	Pitch    float32 // degrees
	Fov      float32
}

// MainCameraTag marks the camera used when nothing else is specified.
type MainCameraTag struct{}

// Pose returns the camera as a transform: its position plus the yaw/pitch
// rotation.
func (c CameraComponent) Pose() TransformComponent {
	rot := mgl32.AnglesToQuat(mgl32.DegToRad(c.Yaw), mgl32.DegToRad(c.Pitch), 0, mgl32.YXZ)
	return TransformComponent{
		Position: c.Position,
		Rotation: rot,
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// MainCamera returns the lowest-id entity tagged MainCameraTag.
func MainCamera(cmd *Commands) (EntityId, bool) {
	var found EntityId
	ok := false
	MakeQuery1[MainCameraTag](cmd).Map(func(eid EntityId, _ *MainCameraTag) bool {
		found = eid
		ok = true
		return false
	})
	return found, ok
}

// MainCameraResolver resolves the main camera as the default viewpoint of
// the shadow motion trigger. The camera reports motion once it carries a
// TransformTracker. The viewpoint is kept while the main camera stays the
// same entity, so each resolver has its own "changed" state.
func MainCameraResolver(cmd *Commands) shadow.ViewpointResolver {
	var camera EntityId
	var vp shadow.Viewpoint
	return func() (shadow.Viewpoint, bool) {
		eid, ok := MainCamera(cmd)
		if !ok {
			return nil, false
		}
		if vp == nil || eid != camera {
			camera, vp = eid, EntityViewpoint(cmd, eid)
		}
		return vp, true
	}
}
