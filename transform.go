package shadowrefresh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is the world-space pose of an entity.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// LocalTransformComponent is the pose of a child relative to its Parent.
type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type Parent struct {
	Entity EntityId
}

func NewTransform(position mgl32.Vec3) TransformComponent {
	return TransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func NewLocalTransform(position mgl32.Vec3) LocalTransformComponent {
	return LocalTransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// ApproxEqual reports whether two poses are within epsilon of each other:
// positions and scales by distance, rotations by 1-|dot| so that q and -q
// compare equal.
func (t TransformComponent) ApproxEqual(o TransformComponent, epsilon float32) bool {
	sameRotation := t.Rotation == o.Rotation || 1-mgl32.Abs(t.Rotation.Dot(o.Rotation)) <= epsilon
	return sameRotation &&
		t.Position.Sub(o.Position).Len() <= epsilon &&
		t.Scale.Sub(o.Scale).Len() <= epsilon
}
