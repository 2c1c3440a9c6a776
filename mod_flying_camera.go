package shadowrefresh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FlyingCameraModule moves cameras from scripted Move/Look values instead of
// keyboard and mouse input.
type FlyingCameraModule struct{}

func (m FlyingCameraModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(FlyingCameraControlSystem).
			InStage(Update),
	)
}

// FlyingCameraComponent steers the CameraComponent on the same entity.
// Move is a direction in camera space (x right, y up, z forward) travelled at
// Speed units per second. Look is a yaw/pitch rate in degrees per second,
// scaled by Sensitivity.
type FlyingCameraComponent struct {
	Speed       float32
	Sensitivity float32
	Move        mgl32.Vec3
	Look        mgl32.Vec2
}

func FlyingCameraControlSystem(cmd *Commands, t *Time) {
	dt := float32(t.DeltaSeconds())
	if dt <= 0 {
		return
	}

	MakeQuery2[CameraComponent, FlyingCameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent, fly *FlyingCameraComponent) bool {
		if fly.Sensitivity == 0 {
			fly.Sensitivity = 1
		}

		cam.Yaw += fly.Look[0] * fly.Sensitivity * dt
		cam.Pitch -= fly.Look[1] * fly.Sensitivity * dt
		cam.Pitch = mgl32.Clamp(cam.Pitch, -89, 89)

		yawRad := float64(mgl32.DegToRad(cam.Yaw))
		pitchRad := float64(mgl32.DegToRad(cam.Pitch))
		forward := mgl32.Vec3{
			float32(math.Sin(yawRad) * math.Cos(pitchRad)),
			float32(math.Sin(pitchRad)),
			float32(-math.Cos(yawRad) * math.Cos(pitchRad)),
		}.Normalize()
		right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
		up := mgl32.Vec3{0, 1, 0}

		if fly.Speed == 0 {
			fly.Speed = 5.0
		}
		moveDir := right.Mul(fly.Move[0]).
			Add(up.Mul(fly.Move[1])).
			Add(forward.Mul(fly.Move[2]))
		var moved mgl32.Vec3
		if moveDir.Len() > 0 {
			moved = moveDir.Normalize().Mul(fly.Speed * dt)
		}

		moveCamera(cmd, eid, cam, moved)
		cam.LookAt = cam.Position.Add(forward)
		cam.Up = up
		return true
	})
}

// moveCamera moves the camera by a world-space offset and mirrors its pose
// into the entity's transform so that trackers see it.
//
// A camera mounted on a parent moves its local transform instead; the
// hierarchy turns that into the world pose. Its Position then follows the
// world transform of the previous hierarchy pass plus this frame's offset.
// Parent scale is ignored.
func moveCamera(cmd *Commands, eid EntityId, cam *CameraComponent, moved mgl32.Vec3) {
	rotation := cam.Pose().Rotation
	local := GetComponent[LocalTransformComponent](cmd, eid)
	parent := GetComponent[Parent](cmd, eid)
	if local != nil && parent != nil {
		local.Rotation = rotation
		localMove := moved
		if parentWorld := GetComponent[TransformComponent](cmd, parent.Entity); parentWorld != nil {
			localMove = parentWorld.Rotation.Inverse().Rotate(moved)
		}
		local.Position = local.Position.Add(localMove)
		if world := GetComponent[TransformComponent](cmd, eid); world != nil {
			cam.Position = world.Position.Add(moved)
		}
		return
	}

	cam.Position = cam.Position.Add(moved)
	if tr := GetComponent[TransformComponent](cmd, eid); tr != nil {
		tr.Position = cam.Position
		tr.Rotation = rotation
	}
}
