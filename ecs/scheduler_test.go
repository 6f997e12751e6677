package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/ecscore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCoordinatorStats(t *testing.T) {
	c := newTestCoordinator()
	_, err := c.RegisterSystem(&incrementSystem{})
	require.NoError(t, err)
	_, err = c.RegisterSystem(&movementSystem{})
	require.NoError(t, err)

	e, err := c.TakeEntity()
	require.NoError(t, err)
	require.NoError(t, ecs.AddComponent(c, e, uint32(0)))

	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.Tick)
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(0), stats.TotalExecutions)
	assert.Equal(t, time.Duration(0), stats.Systems[0].MinDuration)

	for range 3 {
		require.NoError(t, c.Step(0.016))
	}

	stats = c.Stats()
	assert.Equal(t, uint64(3), stats.Tick)
	assert.Equal(t, int64(6), stats.TotalExecutions)
	require.Len(t, stats.Systems, 2)

	incr := stats.Systems[0]
	assert.Equal(t, "incrementSystem", incr.Name)
	assert.Equal(t, 1, incr.Members)
	assert.Equal(t, int64(3), incr.ExecutionCount)
	assert.LessOrEqual(t, incr.MinDuration, incr.AvgDuration)
	assert.LessOrEqual(t, incr.AvgDuration, incr.MaxDuration)
	assert.Equal(t, incr.TotalDuration/3, incr.AvgDuration)

	assert.Equal(t, "movementSystem", stats.Systems[1].Name)
	assert.Equal(t, 0, stats.Systems[1].Members)
}

func TestCoordinatorRun(t *testing.T) {
	c := newTestCoordinator()
	e, err := c.TakeEntity()
	require.NoError(t, err)
	require.NoError(t, ecs.AddComponent(c, e, uint32(0)))
	_, err = c.RegisterSystem(&incrementSystem{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not stop after context cancellation")
	}

	v, _ := ecs.GetComponent[uint32](c, e)
	assert.Positive(t, *v)
	assert.Equal(t, uint64(*v), c.Tick())
}

// failingSystem queues a spawn of an unregistered type every step.
type failingSystem struct {
	ecs.Members
}

func (s *failingSystem) Signature() ecs.Signature { return ecs.NewSignature() }

func (s *failingSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Unregistered{})
}

func TestCoordinatorRunLogsFailedSteps(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	c := newTestCoordinator(ecs.WithLogger(zap.New(core)))
	_, err := c.RegisterSystem(&failingSystem{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	c.Run(ctx, time.Millisecond)

	entries := logs.FilterMessage("step failed").All()
	require.NotEmpty(t, entries)
	assert.Contains(t, entries[0].ContextMap()["error"], "unregistered component type")
	assert.Equal(t, 0, c.EntityCount())
}
