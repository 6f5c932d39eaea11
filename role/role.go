// Package role defines the push contract between an actor and its renderable
// counterpart, along with two implementations used by titles and tests.
package role

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/lantern/mediaref"
)

var (
	ErrNoGeometry = errors.New("role: no geometry bound")
	ErrPushFailed = errors.New("role: push failed")
)

// Role receives property values pushed by an actor.
// Any push may fail; actors decide whether the failure matters.
type Role interface {
	PushTranslation(v mgl32.Vec3) error
	PushRotation(q mgl32.Quat) error
	PushScale(v mgl32.Vec3) error
	PushModel(ref *mediaref.MediaRef) error
	PushTexture(ref *mediaref.MediaRef) error
}
