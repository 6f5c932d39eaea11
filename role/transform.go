package role

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/lantern/mediaref"
)

// Transform is a role that composes pushed transform values into a model matrix.
type Transform struct {
	// RequireGeometry rejects transform pushes until a model is bound.
	RequireGeometry bool

	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3
	model       *mediaref.MediaRef
	texture     *mediaref.MediaRef
	pushes      int
}

var _ Role = (*Transform)(nil)

// NewTransform creates a transform role at the origin with identity rotation and unit scale.
func NewTransform() *Transform {
	return &Transform{
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t *Transform) checkGeometry() error {
	if t.RequireGeometry && t.model == nil {
		return ErrNoGeometry
	}
	return nil
}

func (t *Transform) PushTranslation(v mgl32.Vec3) error {
	if err := t.checkGeometry(); err != nil {
		return err
	}
	t.translation = v
	t.pushes++
	return nil
}

func (t *Transform) PushRotation(q mgl32.Quat) error {
	if err := t.checkGeometry(); err != nil {
		return err
	}
	t.rotation = q
	t.pushes++
	return nil
}

func (t *Transform) PushScale(v mgl32.Vec3) error {
	if err := t.checkGeometry(); err != nil {
		return err
	}
	t.scale = v
	t.pushes++
	return nil
}

func (t *Transform) PushModel(ref *mediaref.MediaRef) error {
	t.model = ref
	t.pushes++
	return nil
}

func (t *Transform) PushTexture(ref *mediaref.MediaRef) error {
	t.texture = ref
	t.pushes++
	return nil
}

// Matrix returns translation · rotation · scale.
func (t *Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.translation[0], t.translation[1], t.translation[2])
	rotate := t.rotation.Normalize().Mat4()
	scale := mgl32.Scale3D(t.scale[0], t.scale[1], t.scale[2])
	return translate.Mul4(rotate).Mul4(scale)
}

func (t *Transform) Translation() mgl32.Vec3 { return t.translation }
func (t *Transform) Rotation() mgl32.Quat    { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3       { return t.scale }

func (t *Transform) Model() *mediaref.MediaRef   { return t.model }
func (t *Transform) Texture() *mediaref.MediaRef { return t.texture }

// Pushes returns the number of accepted pushes.
func (t *Transform) Pushes() int {
	return t.pushes
}
