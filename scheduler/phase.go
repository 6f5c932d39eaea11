package scheduler

import (
	"github.com/kamstrup/intmap"
)

// Well-known phase names, in the order a title runs them each frame.
const (
	ActorPhase     = "actor"
	PostActorPhase = "postactor"
	PreRolePhase   = "prerole"
	RolePhase      = "role"
	SetPhase       = "set"
	StagePhase     = "stage"
)

// DefaultPhases is the standard title phase order.
var DefaultPhases = []string{
	ActorPhase,
	PostActorPhase,
	PreRolePhase,
	RolePhase,
	SetPhase,
	StagePhase,
}

// Phase is an ordered collection of tasks executed in registration order once per tick.
type Phase struct {
	id      uint32
	name    string
	tasks   []*Task
	members *intmap.Map[TaskId, *Task]
	nextSeq uint32
	running bool
	holes   bool

	onDelete func(TaskId)
}

func newPhase(id uint32, name string) *Phase {
	return &Phase{
		id:      id,
		name:    name,
		members: intmap.New[TaskId, *Task](64),
	}
}

func (p *Phase) Name() string {
	return p.name
}

// ID returns the phase's identifier within its scheduler
func (p *Phase) ID() uint32 {
	return p.id
}

// Len returns the number of tasks currently registered.
func (p *Phase) Len() int {
	return p.members.Len()
}

// Has reports whether task is registered with this phase.
func (p *Phase) Has(task *Task) bool {
	if task == nil || task.phase != p {
		return false
	}
	registered, ok := p.members.Get(task.id)
	return ok && registered == task
}

// Tasks returns the registered tasks in execution order.
func (p *Phase) Tasks() []*Task {
	tasks := make([]*Task, 0, p.members.Len())
	for _, task := range p.tasks {
		if task != nil {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// addTask appends task to the end of the phase.
func (p *Phase) addTask(task *Task) error {
	if task == nil {
		return ErrNilTask
	}
	if task.phase != nil {
		return ErrTaskScheduled
	}

	p.nextSeq++
	task.id = NewTaskId(p.id, p.nextSeq)
	task.phase = p

	p.tasks = append(p.tasks, task)
	p.members.Put(task.id, task)
	return nil
}

// DeleteTask removes task from the phase. It reports false if the task was not
// registered here. A task deleted while the phase is running will not run
// again, including later in the same tick.
func (p *Phase) DeleteTask(task *Task) bool {
	if !p.Has(task) {
		return false
	}

	id := task.id
	p.members.Del(id)
	for i, t := range p.tasks {
		if t == task {
			p.tasks[i] = nil
			break
		}
	}
	task.id = 0
	task.phase = nil

	// Compaction waits until the phase finishes so indices stay stable mid-run
	if p.running {
		p.holes = true
	} else {
		p.compact()
	}
	if p.onDelete != nil {
		p.onDelete(id)
	}
	return true
}

// run executes every task in order. Tasks appended during the run execute in
// the same tick.
func (p *Phase) run(frame *Frame, exec func(*Frame, *Task)) {
	p.running = true
	for i := 0; i < len(p.tasks); i++ {
		task := p.tasks[i]
		if task == nil {
			continue
		}
		exec(frame, task)
	}
	p.running = false

	if p.holes {
		p.compact()
	}
}

func (p *Phase) compact() {
	writePos := 0
	for _, task := range p.tasks {
		if task != nil {
			p.tasks[writePos] = task
			writePos++
		}
	}
	clear(p.tasks[writePos:])
	p.tasks = p.tasks[:writePos]
	p.holes = false
}
