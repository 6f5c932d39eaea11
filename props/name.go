// Package props holds the typed property values an actor carries, and the
// decoder that turns authored property streams into them.
//
// Wire format, all numbers big-endian IEEE-754 float32:
//
//	position, scale   12 bytes   x, y, z
//	orientation       16 bytes   x, y, z, w (vector part first)
//	model, texture    N bytes    raw asset bytes, or ASCII decimal index
package props

import "fmt"

// Name identifies a property slot on an actor.
type Name int

const (
	Position Name = iota + 1
	Orientation
	Scale
	Model
	Texture
)

// Names lists every property name in declaration order.
var Names = []Name{Position, Orientation, Scale, Model, Texture}

func (n Name) String() string {
	switch n {
	case Position:
		return "position"
	case Orientation:
		return "orientation"
	case Scale:
		return "scale"
	case Model:
		return "model"
	case Texture:
		return "texture"
	default:
		return fmt.Sprintf("Name(%d)", int(n))
	}
}

// ParseName maps an authoring name to its Name.
func ParseName(s string) (Name, error) {
	for _, n := range Names {
		if n.String() == s {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, s)
}

// Transform reports whether the property affects the role's transform.
func (n Name) Transform() bool {
	return n == Position || n == Orientation || n == Scale
}
