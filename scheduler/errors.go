package scheduler

import "errors"

var (
	ErrNilPhase      = errors.New("scheduler: phase is nil")
	ErrNilTask       = errors.New("scheduler: task is nil")
	ErrTaskScheduled = errors.New("scheduler: task already scheduled")
	ErrTaskPanicked  = errors.New("scheduler: task panicked")
)
