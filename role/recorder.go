package role

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/lantern/mediaref"
)

// PushKind names the slot a push targeted.
type PushKind int

const (
	PushTranslation PushKind = iota + 1
	PushRotation
	PushScale
	PushModel
	PushTexture
)

func (k PushKind) String() string {
	switch k {
	case PushTranslation:
		return "translation"
	case PushRotation:
		return "rotation"
	case PushScale:
		return "scale"
	case PushModel:
		return "model"
	case PushTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// Push is one recorded push.
type Push struct {
	Kind  PushKind
	Vec   mgl32.Vec3
	Quat  mgl32.Quat
	Media *mediaref.MediaRef
}

// Recorder records every push it receives. Pushes of a kind listed in FailOn
// are recorded and then rejected with ErrPushFailed.
type Recorder struct {
	Pushes []Push
	FailOn map[PushKind]bool
}

var _ Role = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{FailOn: make(map[PushKind]bool)}
}

func (r *Recorder) record(p Push) error {
	r.Pushes = append(r.Pushes, p)
	if r.FailOn[p.Kind] {
		return fmt.Errorf("%w: %s", ErrPushFailed, p.Kind)
	}
	return nil
}

func (r *Recorder) PushTranslation(v mgl32.Vec3) error {
	return r.record(Push{Kind: PushTranslation, Vec: v})
}

func (r *Recorder) PushRotation(q mgl32.Quat) error {
	return r.record(Push{Kind: PushRotation, Quat: q})
}

func (r *Recorder) PushScale(v mgl32.Vec3) error {
	return r.record(Push{Kind: PushScale, Vec: v})
}

func (r *Recorder) PushModel(ref *mediaref.MediaRef) error {
	return r.record(Push{Kind: PushModel, Media: ref})
}

func (r *Recorder) PushTexture(ref *mediaref.MediaRef) error {
	return r.record(Push{Kind: PushTexture, Media: ref})
}

// Kinds returns the kinds of all recorded pushes in order.
func (r *Recorder) Kinds() []PushKind {
	kinds := make([]PushKind, len(r.Pushes))
	for i, p := range r.Pushes {
		kinds[i] = p.Kind
	}
	return kinds
}

// Last returns the most recent push of the given kind.
func (r *Recorder) Last(kind PushKind) (Push, bool) {
	for i := len(r.Pushes) - 1; i >= 0; i-- {
		if r.Pushes[i].Kind == kind {
			return r.Pushes[i], true
		}
	}
	return Push{}, false
}

// Reset drops all recorded pushes.
func (r *Recorder) Reset() {
	r.Pushes = r.Pushes[:0]
}
