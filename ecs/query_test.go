package ecs_test

import (
	"testing"

	"github.com/plus3/ecscore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryMovementSystem struct {
	ecs.Query[struct {
		*Position
		*Velocity
		Health *Health `ecs:"optional"`
	}]
	executed int
}

func (s *queryMovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.executed++
	for item := range s.Values(frame.Storage) {
		item.Position.X += item.Velocity.VX
		item.Position.Y += item.Velocity.VY
		if item.Health != nil {
			item.Health.Current--
		}
	}
}

func TestQuery(t *testing.T) {
	c := newTestCoordinator()
	sys := &queryMovementSystem{}

	assert.True(t, sys.Signature().Equal(ecs.NewSignature(ecs.TypeOf[Position](), ecs.TypeOf[Velocity]())))

	st, err := c.RegisterSystem(sys)
	require.NoError(t, err)

	moving := spawnWith(t, c, Position{X: 1, Y: 2}, Velocity{VX: 1, VY: 1})
	hurt := spawnWith(t, c, Position{}, Velocity{VX: 2}, Health{Current: 10, Max: 10})
	still := spawnWith(t, c, Position{X: 7})

	assert.Equal(t, []ecs.Entity{moving, hurt}, c.Members(st))
	assert.Equal(t, 2, sys.Len())

	require.NoError(t, c.Step(1))
	assert.Equal(t, 1, sys.executed)

	pos, _ := ecs.GetComponent[Position](c, moving)
	assert.Equal(t, Position{X: 2, Y: 3}, *pos)
	pos, _ = ecs.GetComponent[Position](c, hurt)
	assert.Equal(t, Position{X: 2}, *pos)
	hp, _ := ecs.GetComponent[Health](c, hurt)
	assert.Equal(t, 9, hp.Current)
	pos, _ = ecs.GetComponent[Position](c, still)
	assert.Equal(t, Position{X: 7}, *pos)

	t.Run("get", func(t *testing.T) {
		item := sys.Get(c, moving)
		require.NotNil(t, item)
		assert.Nil(t, item.Health)
		assert.Nil(t, sys.Get(c, still), "not a member")
	})

	t.Run("iter stops early", func(t *testing.T) {
		count := 0
		for range sys.Iter(c) {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}
