package props

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/lantern/mediaref"
	"github.com/plus3/lantern/role"
)

// Value is a decoded property value. The set of implementations is closed.
type Value interface {
	// Name returns the property slot the value belongs in.
	Name() Name
	// PushTo hands the value to r.
	PushTo(r role.Role) error

	value()
}

// Translation is a position in parent space.
type Translation struct {
	V mgl32.Vec3
}

func (Translation) Name() Name                 { return Position }
func (t Translation) PushTo(r role.Role) error { return r.PushTranslation(t.V) }
func (Translation) value()                     {}

// Rotation is an orientation quaternion.
type Rotation struct {
	Q mgl32.Quat
}

func (Rotation) Name() Name                 { return Orientation }
func (q Rotation) PushTo(r role.Role) error { return r.PushRotation(q.Q) }
func (Rotation) value()                     {}

// NonuniformScale scales each axis independently.
type NonuniformScale struct {
	V mgl32.Vec3
}

func (NonuniformScale) Name() Name                 { return Scale }
func (s NonuniformScale) PushTo(r role.Role) error { return r.PushScale(s.V) }
func (NonuniformScale) value()                     {}

// ModelRef binds geometry.
type ModelRef struct {
	Ref *mediaref.MediaRef
}

func (ModelRef) Name() Name                 { return Model }
func (m ModelRef) PushTo(r role.Role) error { return r.PushModel(m.Ref) }
func (ModelRef) value()                     {}

// TextureRef binds a texture map.
type TextureRef struct {
	Ref *mediaref.MediaRef
}

func (TextureRef) Name() Name                 { return Texture }
func (t TextureRef) PushTo(r role.Role) error { return r.PushTexture(t.Ref) }
func (TextureRef) value()                     {}
