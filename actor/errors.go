package actor

import (
	"errors"
	"fmt"

	"github.com/plus3/lantern/props"
)

// Property errors raised by the decoder
var (
	ErrUnknownProperty       = props.ErrUnknownProperty
	ErrMalformedPropertyData = props.ErrMalformedPropertyData
	ErrMediaRefNotFound      = props.ErrMediaRefNotFound
)

// Actor errors
var (
	ErrPhaseNotFound            = errors.New("actor phase does not exist")
	ErrPropertyAssignmentFailed = errors.New("property assignment failed")
	ErrUnsupportedOperation     = errors.New("unsupported operation")
	ErrInvalidState             = errors.New("invalid actor state")
	ErrUnknownKind              = errors.New("unknown actor kind")
	ErrNoRole                   = errors.New("actor has no role")
)

// AssignmentError reports a failed property set. It matches both
// ErrPropertyAssignmentFailed and the underlying cause with errors.Is.
type AssignmentError struct {
	Kind string
	Name props.Name
	Err  error
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("%s: unable to set property %s: %v", e.Kind, e.Name, e.Err)
}

func (e *AssignmentError) Unwrap() []error {
	return []error{ErrPropertyAssignmentFailed, e.Err}
}

// PushError reports a failed push of one property to the role.
type PushError struct {
	Name props.Name
	Err  error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push %s: %v", e.Name, e.Err)
}

func (e *PushError) Unwrap() error {
	return e.Err
}
