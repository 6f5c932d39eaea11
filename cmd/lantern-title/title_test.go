package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/plus3/lantern/actor"
	"github.com/plus3/lantern/internal/config"
	"github.com/plus3/lantern/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadStage(t *testing.T) *stage {
	t.Helper()
	path := filepath.Join("testdata", "spin.yaml")
	title, err := config.Load(path)
	require.NoError(t, err)

	st, err := newStage(title, filepath.Dir(path), zap.NewNop())
	require.NoError(t, err)
	return st
}

func TestStageSpawnsActors(t *testing.T) {
	st := loadStage(t)
	require.Len(t, st.actors, 3)

	phase := st.scheduler.Phase(scheduler.ActorPhase)
	require.NotNil(t, phase)
	assert.Equal(t, 3, phase.Len())

	crate := st.actors[1]
	require.NotNil(t, crate.transform.Model())
	assert.Equal(t, "cube", crate.transform.Model().Name)

	// No model bound, so the transform rejects the position push.
	ghost := st.actors[2]
	assert.Equal(t, actor.Active, ghost.actor.State())
	assert.Equal(t, uint64(1), ghost.actor.Diagnostics().Suppressed)
}

func TestStageTicksAndDisposes(t *testing.T) {
	st := loadStage(t)

	for i := 0; i < 10; i++ {
		st.scheduler.Once(1.0 / 60.0)
	}

	q, ok := st.actors[0].actor.Orientation()
	require.True(t, ok)
	assert.InDelta(t, 10*actor.SpinAngle, quatAngle(q), 1e-4)
	assert.InDelta(t, 10*actor.SpinAngle, quatAngle(st.actors[1].transform.Rotation()), 1e-4)

	require.NoError(t, st.dispose())
	assert.Equal(t, 0, st.scheduler.Phase(scheduler.ActorPhase).Len())
	for _, c := range st.actors {
		assert.Equal(t, actor.Disposed, c.actor.State())
	}

	st.scheduler.Once(1.0 / 60.0)
	stats := st.scheduler.GetStats()
	for _, task := range stats.Tasks {
		assert.Equal(t, int64(10), task.ExecutionCount)
		assert.False(t, task.Scheduled)
	}
}

func TestStageRejectsUnknownMedia(t *testing.T) {
	title, err := config.Decode(bytes.NewBufferString(
		"actors: [{kind: model, properties: {model: {type: mediaref, index: 4}}}]\n"))
	require.NoError(t, err)

	_, err = newStage(title, t.TempDir(), zap.NewNop())
	assert.ErrorIs(t, err, actor.ErrMediaRefNotFound)
}

func TestReport(t *testing.T) {
	st := loadStage(t)
	st.scheduler.Once(0.016)

	report := &Report{Title: "spin", Mode: "1 fixed ticks"}
	report.collect(st)
	require.Len(t, report.Actors, 3)
	assert.Equal(t, "-", report.Actors[0].Model)
	assert.Equal(t, "cube", report.Actors[1].Model)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, "# Title Report: spin")
	assert.Contains(t, out, "actor/Do behave")
	assert.Contains(t, out, "**ghost** (model, active)")
	assert.Contains(t, out, "pushes: 1 (1 suppressed)")
}
