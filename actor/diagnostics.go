package actor

import (
	"errors"

	"github.com/plus3/lantern/props"
)

// PushResult records the outcome of pushing a batch of properties to the role.
// Callers that do not care may ignore it; failures are already counted.
type PushResult struct {
	Pushed []props.Name
	Failed []*PushError
}

// OK reports whether every push succeeded.
func (r PushResult) OK() bool {
	return len(r.Failed) == 0
}

// Err joins all push failures, or returns nil.
func (r PushResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func (r *PushResult) merge(other PushResult) {
	r.Pushed = append(r.Pushed, other.Pushed...)
	r.Failed = append(r.Failed, other.Failed...)
}

// Diagnostics counts pushes and suppressed push failures over an actor's lifetime.
type Diagnostics struct {
	Pushes     uint64
	Suppressed uint64
	LastError  error
	ByName     map[props.Name]uint64
}

func (d *Diagnostics) record(r PushResult) {
	d.Pushes += uint64(len(r.Pushed) + len(r.Failed))
	for _, f := range r.Failed {
		if d.ByName == nil {
			d.ByName = make(map[props.Name]uint64)
		}
		d.Suppressed++
		d.ByName[f.Name]++
		d.LastError = f
	}
}

func (d Diagnostics) clone() Diagnostics {
	if d.ByName != nil {
		byName := make(map[props.Name]uint64, len(d.ByName))
		for k, v := range d.ByName {
			byName[k] = v
		}
		d.ByName = byName
	}
	return d
}
