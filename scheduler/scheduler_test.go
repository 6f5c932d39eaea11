package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/plus3/lantern/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAction struct {
	name  string
	count int
	log   *[]string
	err   error
}

func (a *countingAction) Run(frame *scheduler.Frame) error {
	a.count++
	if a.log != nil {
		*a.log = append(*a.log, frame.Phase.Name()+"/"+a.name)
	}
	return a.err
}

func TestTaskIdEncoding(t *testing.T) {
	tests := []struct {
		phaseId uint32
		seq     uint32
	}{
		{0, 0},
		{1, 1},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		id := scheduler.NewTaskId(tt.phaseId, tt.seq)
		assert.Equal(t, tt.phaseId, id.PhaseId())
		assert.Equal(t, tt.seq, id.Seq())
	}
}

func TestScheduler(t *testing.T) {
	t.Run("phases and tasks run in registration order", func(t *testing.T) {
		s := scheduler.New(scheduler.WithPhases(scheduler.DefaultPhases...))

		var log []string
		role := &countingAction{name: "draw", log: &log}
		first := &countingAction{name: "first", log: &log}
		second := &countingAction{name: "second", log: &log}

		require.NoError(t, s.AddTask(s.Phase(scheduler.RolePhase), scheduler.NewTask("draw", role)))
		require.NoError(t, s.AddTask(s.Phase(scheduler.ActorPhase), scheduler.NewTask("first", first)))
		require.NoError(t, s.AddTask(s.Phase(scheduler.ActorPhase), scheduler.NewTask("second", second)))

		s.Once(1.0)
		s.Once(1.0)

		assert.Equal(t, []string{
			"actor/first", "actor/second", "role/draw",
			"actor/first", "actor/second", "role/draw",
		}, log)
		assert.Equal(t, uint64(2), s.Tick())
	})

	t.Run("missing phase lookup returns nil", func(t *testing.T) {
		s := scheduler.New()
		assert.Nil(t, s.Phase(scheduler.ActorPhase))

		err := s.AddTask(s.Phase(scheduler.ActorPhase), scheduler.NewTask("x", &countingAction{}))
		assert.ErrorIs(t, err, scheduler.ErrNilPhase)
	})

	t.Run("duplicate phase names share one phase", func(t *testing.T) {
		s := scheduler.New()
		a := s.AddPhase("actor")
		b := s.AddPhase("actor")
		assert.Same(t, a, b)
		assert.Len(t, s.Phases(), 1)
	})

	t.Run("task cannot be scheduled twice", func(t *testing.T) {
		s := scheduler.New(scheduler.WithPhases("actor", "role"))
		task := scheduler.NewTask("x", &countingAction{})

		require.NoError(t, s.AddTask(s.Phase("actor"), task))
		assert.ErrorIs(t, s.AddTask(s.Phase("actor"), task), scheduler.ErrTaskScheduled)
		assert.ErrorIs(t, s.AddTask(s.Phase("role"), task), scheduler.ErrTaskScheduled)
		assert.Equal(t, 1, s.Phase("actor").Len())
		assert.Equal(t, 0, s.Phase("role").Len())
	})

	t.Run("deleted task stops running", func(t *testing.T) {
		s := scheduler.NewWithPhases("actor")
		phase := s.Phase("actor")
		action := &countingAction{}
		task := scheduler.NewTask("x", action)

		require.NoError(t, s.AddTask(phase, task))
		s.Once(1.0)
		assert.True(t, phase.DeleteTask(task))
		assert.False(t, phase.DeleteTask(task))
		assert.False(t, phase.Has(task))
		assert.False(t, task.Scheduled())
		s.Once(1.0)

		assert.Equal(t, 1, action.count)
		assert.Equal(t, 0, phase.Len())
	})

	t.Run("task deleted mid-tick does not run later in the tick", func(t *testing.T) {
		s := scheduler.New(scheduler.WithPhases("actor"))
		phase := s.Phase("actor")

		victim := &countingAction{}
		victimTask := scheduler.NewTask("victim", victim)
		killer := scheduler.NewTask("killer", scheduler.ActionFunc(func(*scheduler.Frame) error {
			phase.DeleteTask(victimTask)
			return nil
		}))
		after := &countingAction{}

		require.NoError(t, s.AddTask(phase, killer))
		require.NoError(t, s.AddTask(phase, victimTask))
		require.NoError(t, s.AddTask(phase, scheduler.NewTask("after", after)))

		s.Once(1.0)
		s.Once(1.0)

		assert.Equal(t, 0, victim.count)
		assert.Equal(t, 2, after.count)
		assert.Len(t, phase.Tasks(), 2)
	})

	t.Run("re-added task runs once per tick", func(t *testing.T) {
		s := scheduler.New(scheduler.WithPhases("actor"))
		phase := s.Phase("actor")
		action := &countingAction{}
		task := scheduler.NewTask("x", action)
		require.NoError(t, s.AddTask(phase, task))

		phase.DeleteTask(task)
		require.NoError(t, s.AddTask(phase, task))
		s.Once(1.0)

		assert.Equal(t, 1, action.count)
		assert.Equal(t, 1, phase.Len())
	})

	t.Run("failures and panics do not stop the frame", func(t *testing.T) {
		s := scheduler.New(scheduler.WithPhases("actor"))
		phase := s.Phase("actor")

		failing := &countingAction{err: errors.New("boom")}
		after := &countingAction{}
		require.NoError(t, s.AddTask(phase, scheduler.NewTask("failing", failing)))
		require.NoError(t, s.AddTask(phase, scheduler.NewTask("panicking", scheduler.ActionFunc(func(*scheduler.Frame) error {
			panic("bad task")
		}))))
		require.NoError(t, s.AddTask(phase, scheduler.NewTask("after", after)))

		s.Once(1.0)
		s.Once(1.0)

		assert.Equal(t, 2, after.count)

		stats := s.GetStats()
		assert.Equal(t, int64(6), stats.TotalExecutions)
		assert.Equal(t, int64(4), stats.TotalFailures)
		assert.ErrorIs(t, stats.Tasks[1].LastError, scheduler.ErrTaskPanicked)
	})

	t.Run("deferred functions run after all phases", func(t *testing.T) {
		s := scheduler.New(scheduler.WithPhases("actor", "role"))

		var log []string
		require.NoError(t, s.AddTask(s.Phase("actor"), scheduler.NewTask("defer", scheduler.ActionFunc(func(frame *scheduler.Frame) error {
			frame.Defer(func() { log = append(log, "deferred") })
			return nil
		}))))
		require.NoError(t, s.AddTask(s.Phase("role"), scheduler.NewTask("draw", &countingAction{name: "draw", log: &log})))

		s.Once(1.0)
		assert.Equal(t, []string{"role/draw", "deferred"}, log)
	})

	t.Run("context cancellation in run", func(t *testing.T) {
		s := scheduler.New(scheduler.WithPhases("actor"))
		action := &countingAction{}
		require.NoError(t, s.AddTask(s.Phase("actor"), scheduler.NewTask("x", action)))

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan bool)
		go func() {
			s.Run(ctx, 1*time.Millisecond)
			done <- true
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
			t.Fatal("scheduler did not stop after context cancellation")
		}

		if action.count == 0 {
			t.Error("expected task to execute at least once")
		}
	})

	t.Run("delta time and tick are passed to tasks", func(t *testing.T) {
		s := scheduler.New(scheduler.WithPhases("actor"))
		var seen []float64
		var ticks []uint64
		require.NoError(t, s.AddTask(s.Phase("actor"), scheduler.NewTask("dt", scheduler.ActionFunc(func(frame *scheduler.Frame) error {
			seen = append(seen, frame.DeltaTime)
			ticks = append(ticks, frame.Tick)
			return nil
		}))))

		s.Once(0.5)
		s.Once(0.25)

		assert.Equal(t, []float64{0.5, 0.25}, seen)
		assert.Equal(t, []uint64{1, 2}, ticks)
	})
}

func TestSchedulerStats(t *testing.T) {
	s := scheduler.New(scheduler.WithPhases("actor", "role"))

	stats := s.GetStats()
	assert.Equal(t, 2, stats.PhaseCount)
	assert.Equal(t, 0, stats.TaskCount)
	assert.Empty(t, stats.Tasks)

	kept := scheduler.NewTask("kept", &countingAction{})
	dropped := scheduler.NewTask("dropped", &countingAction{})
	require.NoError(t, s.AddTask(s.Phase("actor"), kept))
	require.NoError(t, s.AddTask(s.Phase("role"), dropped))

	s.Once(1.0)
	s.Phase("role").DeleteTask(dropped)
	s.Once(1.0)

	stats = s.GetStats()
	assert.Equal(t, uint64(2), stats.Ticks)
	assert.Equal(t, 1, stats.TaskCount)
	require.Len(t, stats.Tasks, 2)

	assert.Equal(t, "kept", stats.Tasks[0].Name)
	assert.Equal(t, "actor", stats.Tasks[0].Phase)
	assert.True(t, stats.Tasks[0].Scheduled)
	assert.Equal(t, int64(2), stats.Tasks[0].ExecutionCount)
	assert.LessOrEqual(t, stats.Tasks[0].MinDuration, stats.Tasks[0].MaxDuration)

	assert.Equal(t, "dropped", stats.Tasks[1].Name)
	assert.False(t, stats.Tasks[1].Scheduled)
	assert.Equal(t, int64(1), stats.Tasks[1].ExecutionCount)
	assert.Equal(t, int64(3), stats.TotalExecutions)
}

func TestSchedulerStatsRetention(t *testing.T) {
	s := scheduler.New(scheduler.WithPhases("actor"), scheduler.WithRetainedStats(2))
	phase := s.Phase("actor")

	live := scheduler.NewTask("live", &countingAction{})
	require.NoError(t, s.AddTask(phase, live))

	for i := 0; i < 100; i++ {
		task := scheduler.NewTask(fmt.Sprintf("spawned-%d", i), &countingAction{})
		require.NoError(t, s.AddTask(phase, task))
		s.Once(1.0)
		require.True(t, phase.DeleteTask(task))
	}

	stats := s.GetStats()
	require.Len(t, stats.Tasks, 3)
	assert.Equal(t, "live", stats.Tasks[0].Name)
	assert.True(t, stats.Tasks[0].Scheduled)
	assert.Equal(t, int64(100), stats.Tasks[0].ExecutionCount)
	assert.Equal(t, "spawned-98", stats.Tasks[1].Name)
	assert.Equal(t, "spawned-99", stats.Tasks[2].Name)
	assert.False(t, stats.Tasks[2].Scheduled)

	t.Run("zero keeps only live tasks", func(t *testing.T) {
		s := scheduler.New(scheduler.WithPhases("actor"), scheduler.WithRetainedStats(0))
		task := scheduler.NewTask("gone", &countingAction{})
		require.NoError(t, s.AddTask(s.Phase("actor"), task))
		s.Phase("actor").DeleteTask(task)
		assert.Empty(t, s.GetStats().Tasks)
	})
}
