package shadowrefresh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformTracking_FlagsMovement(t *testing.T) {
	app := NewApp()
	app.UseModules(TransformTrackingModule{})
	cmd := app.Commands()

	tr := NewTransform(mgl32.Vec3{0, 0, 0})
	eid := cmd.AddEntity(&tr, &TransformTracker{})
	app.Step()

	vp := EntityViewpoint(cmd, eid)
	assert.False(t, vp.TransformChangedSinceLastQuery(), "the first observation is the baseline")

	GetComponent[TransformComponent](cmd, eid).Position = mgl32.Vec3{1, 0, 0}
	app.Step()
	assert.True(t, vp.TransformChangedSinceLastQuery())

	vp.ClearChangedFlag()
	assert.False(t, vp.TransformChangedSinceLastQuery())

	app.Step()
	assert.False(t, vp.TransformChangedSinceLastQuery(), "standing still does not set the flag")

	GetComponent[TransformComponent](cmd, eid).Rotation = mgl32.QuatRotate(mgl32.DegToRad(10), mgl32.Vec3{0, 1, 0})
	app.Step()
	assert.True(t, vp.TransformChangedSinceLastQuery(), "rotation counts as movement")
}

func TestTransformTracking_FlagStaysUntilCleared(t *testing.T) {
	app := NewApp()
	app.UseModules(TransformTrackingModule{})
	cmd := app.Commands()

	tr := NewTransform(mgl32.Vec3{0, 0, 0})
	eid := cmd.AddEntity(&tr, &TransformTracker{})
	app.Step()
	vp := EntityViewpoint(cmd, eid)

	GetComponent[TransformComponent](cmd, eid).Position = mgl32.Vec3{0, 1, 0}
	app.Step()
	app.Step()
	app.Step()

	assert.Equal(t, uint64(1), GetComponent[TransformTracker](cmd, eid).Moves)
	assert.True(t, vp.TransformChangedSinceLastQuery())
}

func TestEntityViewpoint_IndependentConsumers(t *testing.T) {
	app := NewApp()
	app.UseModules(TransformTrackingModule{})
	cmd := app.Commands()

	tr := NewTransform(mgl32.Vec3{0, 0, 0})
	eid := cmd.AddEntity(&tr, &TransformTracker{})
	app.Step()
	first := EntityViewpoint(cmd, eid)
	second := EntityViewpoint(cmd, eid)

	GetComponent[TransformComponent](cmd, eid).Position = mgl32.Vec3{2, 0, 0}
	app.Step()

	require.True(t, first.TransformChangedSinceLastQuery())
	first.ClearChangedFlag()
	assert.False(t, first.TransformChangedSinceLastQuery())
	assert.True(t, second.TransformChangedSinceLastQuery(), "clearing one viewpoint leaves the other alone")

	late := EntityViewpoint(cmd, eid)
	assert.False(t, late.TransformChangedSinceLastQuery(), "moves before creation are not reported")
}

func TestTransformTracking_Tolerance(t *testing.T) {
	app := NewApp()
	app.UseModules(TransformTrackingModule{})
	cmd := app.Commands()

	tr := NewTransform(mgl32.Vec3{0, 0, 0})
	eid := cmd.AddEntity(&tr, &TransformTracker{Tolerance: 0.01})
	app.Step()

	GetComponent[TransformComponent](cmd, eid).Position = mgl32.Vec3{0.001, 0, 0}
	app.Step()
	assert.Zero(t, GetComponent[TransformTracker](cmd, eid).Moves)

	GetComponent[TransformComponent](cmd, eid).Position = mgl32.Vec3{0.5, 0, 0}
	app.Step()
	assert.Equal(t, uint64(1), GetComponent[TransformTracker](cmd, eid).Moves)
}

func TestTransformTracking_CameraWithoutTransform(t *testing.T) {
	app := NewApp()
	app.UseModules(TransformTrackingModule{})
	cmd := app.Commands()

	eid := cmd.AddEntity(&CameraComponent{Position: mgl32.Vec3{0, 2, 10}}, &TransformTracker{})
	app.Step()
	vp := EntityViewpoint(cmd, eid)

	GetComponent[CameraComponent](cmd, eid).Yaw = 45
	app.Step()
	assert.True(t, vp.TransformChangedSinceLastQuery())
}

func TestEntityViewpoint_MissingEntity(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	vp := EntityViewpoint(cmd, 42)
	assert.False(t, vp.TransformChangedSinceLastQuery())
	require.NotPanics(t, vp.ClearChangedFlag)
}

func TestMainCameraResolver(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	resolve := MainCameraResolver(cmd)

	_, ok := resolve()
	assert.False(t, ok)

	cmd.AddEntity(&CameraComponent{})
	main := cmd.AddEntity(&CameraComponent{}, &MainCameraTag{}, &TransformTracker{})
	app.FlushCommands()

	vp, ok := resolve()
	require.True(t, ok)
	assert.False(t, vp.TransformChangedSinceLastQuery())

	GetComponent[TransformTracker](cmd, main).Moves++
	again, ok := resolve()
	require.True(t, ok)
	assert.Same(t, vp, again, "the same camera keeps its viewpoint")
	assert.True(t, again.TransformChangedSinceLastQuery())

	eid, ok := MainCamera(cmd)
	require.True(t, ok)
	assert.Equal(t, main, eid)
}
