package shadowrefresh

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/shadowrefresh/shadow"
)

func TestFlyingCamera_MovesForward(t *testing.T) {
	app := NewApp()
	app.UseModules(TimeModule{FixedStep: 500 * time.Millisecond}, FlyingCameraModule{})
	cmd := app.Commands()

	tr := NewTransform(mgl32.Vec3{})
	eid := cmd.AddEntity(&tr, &CameraComponent{}, &FlyingCameraComponent{Speed: 2, Move: mgl32.Vec3{0, 0, 1}})
	app.Run(2)

	cam := GetComponent[CameraComponent](cmd, eid)
	// Yaw 0 looks down -Z.
	assert.InDelta(t, -2, cam.Position.Z(), 1e-5)
	assert.Equal(t, cam.Position, GetComponent[TransformComponent](cmd, eid).Position)
}

func TestFlyingCamera_ClampsPitch(t *testing.T) {
	app := NewApp()
	app.UseModules(TimeModule{FixedStep: time.Second}, FlyingCameraModule{})
	cmd := app.Commands()

	eid := cmd.AddEntity(&CameraComponent{}, &FlyingCameraComponent{Look: mgl32.Vec2{30, -500}})
	app.Step()

	cam := GetComponent[CameraComponent](cmd, eid)
	assert.InDelta(t, 30, cam.Yaw, 1e-5)
	assert.InDelta(t, 89, cam.Pitch, 1e-5)
}

func TestFlyingCamera_PanTriggersShadowRefresh(t *testing.T) {
	app := NewApp()
	app.UseModules(
		TimeModule{FixedStep: time.Second / 60},
		FlyingCameraModule{},
		HierarchyModule{},
		TransformTrackingModule{},
		ShadowRefreshModule{},
	)
	cmd := app.Commands()

	rigTransform := NewTransform(mgl32.Vec3{0, 2, 10})
	rig := cmd.AddEntity(&rigTransform)
	local := NewLocalTransform(mgl32.Vec3{})
	camera := cmd.AddEntity(
		&Parent{Entity: rig},
		&local,
		&TransformComponent{},
		&CameraComponent{},
		&FlyingCameraComponent{},
		&MainCameraTag{},
	)
	addShadowLight(cmd, shadow.Config{MotionTrigger: true})
	queue, ok := Resource[ShadowRequestQueue](app)
	require.True(t, ok)

	app.Run(3)
	require.Zero(t, queue.Pending())

	GetComponent[FlyingCameraComponent](cmd, camera).Look = mgl32.Vec2{90, 0}
	app.Step()
	assert.Equal(t, 1, queue.Pending())
	assert.Equal(t, mgl32.Vec3{0, 2, 10}, GetComponent[TransformComponent](cmd, camera).Position, "the rig keeps the camera in place")
}

func TestFlyingCamera_RiggedCameraMovesLocally(t *testing.T) {
	app := NewApp()
	app.UseModules(TimeModule{FixedStep: 500 * time.Millisecond}, FlyingCameraModule{}, HierarchyModule{})
	cmd := app.Commands()

	rigTransform := NewTransform(mgl32.Vec3{0, 2, 10})
	rig := cmd.AddEntity(&rigTransform)
	local := NewLocalTransform(mgl32.Vec3{})
	camera := cmd.AddEntity(
		&Parent{Entity: rig},
		&local,
		&TransformComponent{},
		&CameraComponent{},
		&FlyingCameraComponent{Speed: 2, Move: mgl32.Vec3{0, 0, 1}},
	)
	app.Run(2)

	world := GetComponent[TransformComponent](cmd, camera)
	assert.InDelta(t, 0, world.Position.Sub(mgl32.Vec3{0, 2, 8}).Len(), 1e-5)
	assert.InDelta(t, 0, GetComponent[LocalTransformComponent](cmd, camera).Position.Sub(mgl32.Vec3{0, 0, -2}).Len(), 1e-5)
	assert.InDelta(t, 0, GetComponent[CameraComponent](cmd, camera).Position.Sub(world.Position).Len(), 1e-5)
}
