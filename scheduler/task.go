package scheduler

// TaskId encodes both the phase ID (upper 32 bits) and the task sequence number (lower 32 bits).
// A zero TaskId means the task is not scheduled.
type TaskId uint64

// NewTaskId creates a TaskId from a phase ID and sequence number
func NewTaskId(phaseId uint32, seq uint32) TaskId {
	return TaskId(uint64(phaseId)<<32 | uint64(seq))
}

// PhaseId extracts the phase ID from the task ID
func (t TaskId) PhaseId() uint32 {
	return uint32(t >> 32)
}

// Seq extracts the sequence number from the task ID
func (t TaskId) Seq() uint32 {
	return uint32(t & 0xFFFFFFFF)
}

// Action is the work a Task performs once per tick.
// A returned error is recorded by the Scheduler; it never aborts the frame.
type Action interface {
	Run(frame *Frame) error
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(frame *Frame) error

// Run calls f(frame).
func (f ActionFunc) Run(frame *Frame) error {
	return f(frame)
}

// Task is a named, schedulable unit of work. A task belongs to at most one Phase.
type Task struct {
	id     TaskId
	name   string
	action Action
	phase  *Phase
}

// NewTask wraps action in an unscheduled task.
func NewTask(name string, action Action) *Task {
	return &Task{
		name:   name,
		action: action,
	}
}

// Id returns the task's scheduling ID, or zero if it is not in a phase.
func (t *Task) Id() TaskId {
	return t.id
}

func (t *Task) Name() string {
	return t.name
}

// Phase returns the phase the task is registered with, or nil.
func (t *Task) Phase() *Phase {
	return t.phase
}

// Scheduled reports whether the task currently belongs to a phase.
func (t *Task) Scheduled() bool {
	return t.phase != nil
}
