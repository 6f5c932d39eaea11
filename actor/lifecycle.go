package actor

import (
	"fmt"

	"github.com/plus3/lantern/props"
	"github.com/plus3/lantern/scheduler"
	"go.uber.org/zap"
)

// State is an actor's lifecycle state.
type State int

const (
	Unregistered State = iota
	Active
	Disposed
)

func (s State) String() string {
	switch s {
	case Unregistered:
		return "unregistered"
	case Active:
		return "active"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Host gives an actor access to the scheduler it registers with.
// *scheduler.Scheduler implements it.
type Host interface {
	Phase(name string) *scheduler.Phase
	AddTask(phase *scheduler.Phase, task *scheduler.Task) error
}

func (a *Actor) State() State {
	return a.state
}

// Task returns the behave task while the actor is active, otherwise nil.
func (a *Actor) Task() *scheduler.Task {
	return a.task
}

func actorPhase(host Host) (*scheduler.Phase, error) {
	if host == nil {
		return nil, ErrPhaseNotFound
	}
	phase := host.Phase(scheduler.ActorPhase)
	if phase == nil {
		return nil, ErrPhaseNotFound
	}
	return phase, nil
}

// Init pushes the actor's properties to its role and registers the behave
// task with the host's actor phase. Push failures are suppressed. A missing
// actor phase aborts Init and leaves the actor unregistered.
func (a *Actor) Init(host Host) error {
	if a.state != Unregistered {
		return fmt.Errorf("%s: init: %w: %s", a.kind.Name, ErrInvalidState, a.state)
	}

	result := a.pushAll(a.kind.PreTransform)
	result.merge(a.pushAll(transformOrder))
	a.suppress("init", result)

	phase, err := actorPhase(host)
	if err != nil {
		return fmt.Errorf("%s: init: %w", a.kind.Name, err)
	}

	task := scheduler.NewTask(BehaveTaskName, scheduler.ActionFunc(a.run))
	if err := host.AddTask(phase, task); err != nil {
		return fmt.Errorf("%s: init: %w", a.kind.Name, err)
	}

	a.task = task
	a.state = Active
	a.logger.Debug("actor registered",
		zap.String("phase", phase.Name()),
		zap.Uint64("task", uint64(task.Id())),
	)
	return nil
}

// Dispose removes the behave task from the actor phase. Disposing an actor
// that is not active fails with ErrInvalidState.
func (a *Actor) Dispose(host Host) error {
	if a.state != Active {
		return fmt.Errorf("%s: dispose: %w: %s", a.kind.Name, ErrInvalidState, a.state)
	}

	phase, err := actorPhase(host)
	if err != nil {
		return fmt.Errorf("%s: dispose: %w", a.kind.Name, err)
	}

	if !phase.DeleteTask(a.task) {
		// The task must not outlive the actor even if it sits elsewhere
		if owner := a.task.Phase(); owner != nil {
			owner.DeleteTask(a.task)
		}
	}

	a.task = nil
	a.state = Disposed
	a.logger.Debug("actor disposed", zap.String("phase", phase.Name()))
	return nil
}

// Update pushes scale, orientation and position to the role, in that order.
// A failing push does not stop the rest; failures are counted and returned.
// A disposed actor no longer pushes.
func (a *Actor) Update() PushResult {
	if a.state == Disposed {
		return PushResult{}
	}
	result := a.pushAll(transformOrder)
	a.suppress("update", result)
	return result
}

// Behave advances the actor one tick: orientation is right-multiplied by the
// spin delta, stored and pushed. It does nothing unless the actor is active
// or when no orientation is set.
func (a *Actor) Behave() PushResult {
	if a.state != Active {
		return PushResult{}
	}
	current, ok := a.Orientation()
	if !ok {
		return PushResult{}
	}

	a.values.Put(props.Orientation, props.Rotation{Q: current.Mul(a.spin)})

	result := a.pushAll([]props.Name{props.Orientation})
	a.suppress("behave", result)
	return result
}

// run is the behave task's action. The push error is handed to the scheduler
// for its stats; it never stops the frame.
func (a *Actor) run(*scheduler.Frame) error {
	return a.Behave().Err()
}

func (a *Actor) pushAll(names []props.Name) PushResult {
	var result PushResult
	for _, name := range names {
		if _, ok := a.values.Get(name); !ok {
			continue
		}
		if err := a.Push(name); err != nil {
			pushErr, ok := err.(*PushError)
			if !ok {
				pushErr = &PushError{Name: name, Err: err}
			}
			result.Failed = append(result.Failed, pushErr)
			continue
		}
		result.Pushed = append(result.Pushed, name)
	}
	return result
}

func (a *Actor) suppress(op string, result PushResult) {
	a.diag.record(result)
	for _, f := range result.Failed {
		a.logger.Debug("push failed",
			zap.String("op", op),
			zap.Stringer("property", f.Name),
			zap.Error(f.Err),
		)
	}
}
