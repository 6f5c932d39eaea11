package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	PhaseCount      int
	TaskCount       int
	Ticks           uint64
	TotalExecutions int64
	TotalFailures   int64
	Tasks           []TaskStats
}

// TaskStats provides execution statistics for a single task.
type TaskStats struct {
	Id             TaskId
	Name           string
	Phase          string
	Scheduled      bool
	ExecutionCount int64
	FailureCount   int64
	LastError      error
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type taskStatsInternal struct {
	task           *Task
	id             TaskId
	name           string
	phase          string
	executionCount int64
	failureCount   int64
	lastError      error
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// DefaultRetainedStats is how many deleted tasks keep their stats.
const DefaultRetainedStats = 256

// Scheduler runs an ordered sequence of phases once per tick.
// It is driven from a single goroutine and is not safe for concurrent use.
type Scheduler struct {
	phases []*Phase
	byName map[string]*Phase
	logger *zap.Logger

	tick      uint64
	stats     *intmap.Map[TaskId, *taskStatsInternal]
	statOrder []TaskId

	// deleted tasks whose stats are still reported, oldest first
	retained    []TaskId
	maxRetained int
	pruned      int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used to report task failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRetainedStats sets how many deleted tasks keep their stats.
// Older ones are dropped from GetStats.
func WithRetainedStats(n int) Option {
	return func(s *Scheduler) {
		if n >= 0 {
			s.maxRetained = n
		}
	}
}

// WithPhases creates the named phases in order.
func WithPhases(names ...string) Option {
	return func(s *Scheduler) {
		for _, name := range names {
			s.AddPhase(name)
		}
	}
}

// New creates a scheduler. Without WithPhases it has no phases.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		byName:      make(map[string]*Phase),
		logger:      zap.NewNop(),
		stats:       intmap.New[TaskId, *taskStatsInternal](64),
		maxRetained: DefaultRetainedStats,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewWithPhases creates a scheduler with the named phases in order.
func NewWithPhases(names ...string) *Scheduler {
	return New(WithPhases(names...))
}

// AddPhase appends a phase with the given name. If a phase with that name
// already exists it is returned unchanged.
func (s *Scheduler) AddPhase(name string) *Phase {
	if phase, ok := s.byName[name]; ok {
		return phase
	}
	phase := newPhase(uint32(len(s.phases)+1), name)
	phase.onDelete = s.retire
	s.phases = append(s.phases, phase)
	s.byName[name] = phase
	return phase
}

// Phase returns the named phase, or nil if none exists.
func (s *Scheduler) Phase(name string) *Phase {
	return s.byName[name]
}

// Phases returns the phases in execution order.
func (s *Scheduler) Phases() []*Phase {
	return s.phases
}

// AddTask appends task to phase.
func (s *Scheduler) AddTask(phase *Phase, task *Task) error {
	if phase == nil {
		return ErrNilPhase
	}
	if err := phase.addTask(task); err != nil {
		return err
	}

	s.stats.Put(task.id, &taskStatsInternal{
		task:        task,
		id:          task.id,
		name:        task.name,
		phase:       phase.name,
		minDuration: time.Duration(1<<63 - 1),
	})
	s.statOrder = append(s.statOrder, task.id)
	return nil
}

// retire records a deleted task and drops the oldest retained stats beyond
// the limit.
func (s *Scheduler) retire(id TaskId) {
	s.retained = append(s.retained, id)
	for len(s.retained) > s.maxRetained {
		s.stats.Del(s.retained[0])
		s.retained = s.retained[1:]
		s.pruned++
	}

	if s.pruned > len(s.statOrder)/2 {
		order := s.statOrder[:0]
		for _, id := range s.statOrder {
			if s.stats.Has(id) {
				order = append(order, id)
			}
		}
		s.statOrder = order
		s.pruned = 0
	}
}

// Tick returns the number of completed ticks.
func (s *Scheduler) Tick() uint64 {
	return s.tick
}

// Once executes every phase once with the given delta time.
func (s *Scheduler) Once(dt float64) {
	s.tick++
	frame := newFrame(s.tick, dt)

	for _, phase := range s.phases {
		frame.Phase = phase
		phase.run(frame, s.runTask)
	}
	frame.Phase = nil

	frame.flush()
}

func (s *Scheduler) runTask(frame *Frame, task *Task) {
	id := task.id

	start := time.Now()
	err := invoke(task, frame)
	duration := time.Since(start)

	stats, ok := s.stats.Get(id)
	if !ok {
		return
	}
	stats.executionCount++
	stats.lastDuration = duration
	stats.totalDuration += duration

	if duration < stats.minDuration {
		stats.minDuration = duration
	}
	if duration > stats.maxDuration {
		stats.maxDuration = duration
	}

	if err != nil {
		stats.failureCount++
		stats.lastError = err
		s.logger.Warn("task failed",
			zap.String("phase", stats.phase),
			zap.String("task", stats.name),
			zap.Uint64("tick", frame.Tick),
			zap.Error(err),
		)
	}
}

// invoke runs the task's action, converting a panic into an error so one task
// cannot take down the frame loop.
func invoke(task *Task, frame *Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return task.action.Run(frame)
}

// Run executes all phases repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about task execution. Tasks that have been
// deleted keep their stats and report Scheduled=false.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		PhaseCount: len(s.phases),
		Ticks:      s.tick,
		Tasks:      make([]TaskStats, 0, len(s.statOrder)),
	}

	for _, phase := range s.phases {
		stats.TaskCount += phase.Len()
	}

	for _, id := range s.statOrder {
		internal, ok := s.stats.Get(id)
		if !ok {
			continue
		}

		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Tasks = append(stats.Tasks, TaskStats{
			Id:             internal.id,
			Name:           internal.name,
			Phase:          internal.phase,
			Scheduled:      internal.task.id == internal.id,
			ExecutionCount: internal.executionCount,
			FailureCount:   internal.failureCount,
			LastError:      internal.lastError,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		})
		stats.TotalExecutions += internal.executionCount
		stats.TotalFailures += internal.failureCount
	}

	return stats
}
