package actor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/lantern/props"
)

// SpinAngle is the per-tick rotation, in radians, applied by behave.
const SpinAngle = 0.035

// SpinDelta is the shared per-tick rotation: SpinAngle about +Y.
// It is computed once at program start and never written afterwards.
var SpinDelta = mgl32.QuatRotate(SpinAngle, mgl32.Vec3{0, 1, 0})

// BehaveTaskName names the task every active actor registers.
const BehaveTaskName = "Do behave"

// transformOrder is the fixed push order for transform properties:
// scale, then rotation, then translation.
var transformOrder = []props.Name{props.Scale, props.Orientation, props.Position}

// Kind describes the fixed property set of an actor type.
type Kind struct {
	Name string
	// Properties the kind accepts, in declaration order.
	Properties []props.Name
	// PreTransform properties are pushed on Init before the transform, since
	// transform pushes may need geometry bound to the role first.
	PreTransform []props.Name

	mask uint32
}

func newKind(name string, properties []props.Name, preTransform []props.Name) *Kind {
	k := &Kind{
		Name:         name,
		Properties:   properties,
		PreTransform: preTransform,
	}
	for _, p := range properties {
		k.mask |= 1 << uint(p)
	}
	return k
}

// Has reports whether name is one of the kind's properties.
func (k *Kind) Has(name props.Name) bool {
	if name <= 0 || name > 31 {
		return false
	}
	return k.mask&(1<<uint(name)) != 0
}

var (
	// CubeKind carries only transform properties.
	CubeKind = newKind("cube",
		[]props.Name{props.Position, props.Orientation, props.Scale},
		nil,
	)

	// ModelKind adds geometry and a texture map to the transform.
	ModelKind = newKind("model",
		[]props.Name{props.Position, props.Orientation, props.Scale, props.Model, props.Texture},
		[]props.Name{props.Texture, props.Model},
	)
)

var kinds = map[string]*Kind{
	CubeKind.Name:  CubeKind,
	ModelKind.Name: ModelKind,
}

// LookupKind returns the kind registered under name.
func LookupKind(name string) (*Kind, error) {
	kind, ok := kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return kind, nil
}
