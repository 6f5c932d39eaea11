// Package actor binds authored property values to a role and drives a
// per-frame behavior through the scheduler's actor phase.
//
// An actor moves through three states. Init pushes its properties to the role
// and registers a behave task with the actor phase; Dispose removes the task.
// Neither can be repeated, and a disposed actor cannot be re-initialized.
//
// Role pushes made by Init, Update and the behave task never fail the caller:
// failures are returned as a PushResult, counted in Diagnostics and logged.
package actor

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/kamstrup/intmap"
	"github.com/plus3/lantern/mediaref"
	"github.com/plus3/lantern/props"
	"github.com/plus3/lantern/role"
	"github.com/plus3/lantern/scheduler"
	"go.uber.org/zap"
)

// ChangeFunc is notified after a property is set. Old and new values are
// always nil: the notification is a change signal, not a diff.
type ChangeFunc func(name props.Name, oldValue, newValue props.Value)

// Actor is a property container bound to a role.
type Actor struct {
	id     uuid.UUID
	name   string
	kind   *Kind
	role   role.Role
	loader mediaref.Loader
	logger *zap.Logger
	spin   mgl32.Quat

	values    *intmap.Map[props.Name, props.Value]
	listeners []ChangeFunc

	state State
	task  *scheduler.Task
	diag  Diagnostics
}

// Option configures an Actor.
type Option func(*Actor)

// WithLogger sets the logger for lifecycle events and suppressed push failures.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Actor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithName sets a human-readable name used in logs.
func WithName(name string) Option {
	return func(a *Actor) {
		a.name = name
	}
}

// WithLoader sets the loader used to resolve media references by index.
func WithLoader(loader mediaref.Loader) Option {
	return func(a *Actor) {
		a.loader = loader
	}
}

// WithSpin replaces SpinDelta as the per-tick rotation for this actor.
func WithSpin(delta mgl32.Quat) Option {
	return func(a *Actor) {
		a.spin = delta
	}
}

// New creates an actor of the named kind.
func New(kindName string, r role.Role, opts ...Option) (*Actor, error) {
	kind, err := LookupKind(kindName)
	if err != nil {
		return nil, err
	}
	return newActor(kind, r, opts...), nil
}

// NewCube creates a cube actor with position, orientation and scale properties.
func NewCube(r role.Role, opts ...Option) *Actor {
	return newActor(CubeKind, r, opts...)
}

// NewModel creates a model actor whose model and texture properties may be
// resolved through loader.
func NewModel(r role.Role, loader mediaref.Loader, opts ...Option) *Actor {
	return newActor(ModelKind, r, append([]Option{WithLoader(loader)}, opts...)...)
}

func newActor(kind *Kind, r role.Role, opts ...Option) *Actor {
	a := &Actor{
		id:     uuid.New(),
		kind:   kind,
		role:   r,
		logger: zap.NewNop(),
		spin:   SpinDelta,
		values: intmap.New[props.Name, props.Value](len(kind.Properties)),
		state:  Unregistered,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.name == "" {
		a.name = kind.Name
	}
	a.logger = a.logger.With(
		zap.String("actor", a.name),
		zap.String("kind", kind.Name),
		zap.Stringer("id", a.id),
	)
	return a
}

func (a *Actor) ID() uuid.UUID {
	return a.id
}

func (a *Actor) Name() string {
	return a.name
}

func (a *Actor) Kind() *Kind {
	return a.kind
}

func (a *Actor) Role() role.Role {
	return a.role
}

// Diagnostics returns a snapshot of the actor's push counters.
func (a *Actor) Diagnostics() Diagnostics {
	return a.diag.clone()
}

// OnChange registers fn to be called after every successful property set.
func (a *Actor) OnChange(fn ChangeFunc) {
	a.listeners = append(a.listeners, fn)
}

func (a *Actor) notify(name props.Name) {
	for _, fn := range a.listeners {
		fn(name, nil, nil)
	}
}

// Get returns the value stored for name, or nil if it is unset.
func (a *Actor) Get(name props.Name) (props.Value, error) {
	if !a.kind.Has(name) {
		return nil, fmt.Errorf("%s: %w: %s", a.kind.Name, ErrUnknownProperty, name)
	}
	value, _ := a.values.Get(name)
	return value, nil
}

// GetProperty is Get keyed by authoring name.
func (a *Actor) GetProperty(name string) (props.Value, error) {
	n, err := props.ParseName(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.kind.Name, err)
	}
	return a.Get(n)
}

// Set decodes s into the property slot for name. On failure the slot keeps
// its previous value and the error is an *AssignmentError. Set does not push.
func (a *Actor) Set(name props.Name, s props.Stream) error {
	if !a.kind.Has(name) {
		return fmt.Errorf("%s: %w: %s", a.kind.Name, ErrUnknownProperty, name)
	}

	value, err := props.Decode(name, s, a.loader)
	if err != nil {
		return &AssignmentError{Kind: a.kind.Name, Name: name, Err: err}
	}

	a.values.Put(name, value)
	a.notify(name)
	return nil
}

// SetProperty is Set keyed by authoring name.
func (a *Actor) SetProperty(name string, s props.Stream) error {
	n, err := props.ParseName(name)
	if err != nil {
		return fmt.Errorf("%s: %w", a.kind.Name, err)
	}
	return a.Set(n, s)
}

// SetArray always fails: no actor kind has array-valued properties.
func (a *Actor) SetArray(name string, length, count int, r io.Reader) error {
	return fmt.Errorf("%s: %w: set property array %s", a.kind.Name, ErrUnsupportedOperation, name)
}

// Store places an already-built value in its slot and notifies listeners.
func (a *Actor) Store(value props.Value) error {
	if value == nil {
		return fmt.Errorf("%s: %w: nil value", a.kind.Name, ErrMalformedPropertyData)
	}
	name := value.Name()
	if !a.kind.Has(name) {
		return fmt.Errorf("%s: %w: %s", a.kind.Name, ErrUnknownProperty, name)
	}
	a.values.Put(name, value)
	a.notify(name)
	return nil
}

// Clear unsets the property slot for name.
func (a *Actor) Clear(name props.Name) error {
	if !a.kind.Has(name) {
		return fmt.Errorf("%s: %w: %s", a.kind.Name, ErrUnknownProperty, name)
	}
	if a.values.Del(name) {
		a.notify(name)
	}
	return nil
}

// Position returns the stored translation.
func (a *Actor) Position() (mgl32.Vec3, bool) {
	v, ok := a.values.Get(props.Position)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return v.(props.Translation).V, true
}

// Orientation returns the stored rotation.
func (a *Actor) Orientation() (mgl32.Quat, bool) {
	v, ok := a.values.Get(props.Orientation)
	if !ok {
		return mgl32.Quat{}, false
	}
	return v.(props.Rotation).Q, true
}

// Scale returns the stored non-uniform scale.
func (a *Actor) Scale() (mgl32.Vec3, bool) {
	v, ok := a.values.Get(props.Scale)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return v.(props.NonuniformScale).V, true
}

// Push sends the stored value for name to the role and returns the role's
// error as is. Unset properties are not pushed.
func (a *Actor) Push(name props.Name) error {
	if !a.kind.Has(name) {
		return fmt.Errorf("%s: %w: %s", a.kind.Name, ErrUnknownProperty, name)
	}
	value, ok := a.values.Get(name)
	if !ok {
		return nil
	}
	if a.role == nil {
		return &PushError{Name: name, Err: ErrNoRole}
	}
	if err := value.PushTo(a.role); err != nil {
		return &PushError{Name: name, Err: err}
	}
	return nil
}
