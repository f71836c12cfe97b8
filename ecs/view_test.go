package ecs_test

import (
	"testing"

	"github.com/plus3/rigidtris/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 3, DY: 4})
	other := storage.Spawn(Position{X: 5})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, float32(1), item.Position.X)
	assert.Equal(t, float32(4), item.Velocity.DY)

	// Writes go straight to storage
	item.Position.X = 10
	assert.Equal(t, float32(10), ecs.ReadComponent[Position](storage, id).X)

	assert.Nil(t, view.Get(other))
}

func TestViewEntityIdField(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	a := storage.Spawn(Position{X: 1})
	b := storage.Spawn(Position{X: 2})

	view := ecs.NewView[struct {
		ecs.EntityId
		*Position
	}](storage)

	seen := map[ecs.EntityId]float32{}
	for id, item := range view.Iter() {
		assert.Equal(t, id, item.EntityId)
		seen[item.EntityId] = item.Position.X
	}
	assert.Equal(t, map[ecs.EntityId]float32{a: 1, b: 2}, seen)

	item := view.Get(b)
	require.NotNil(t, item)
	assert.Equal(t, b, item.EntityId)
}

func TestViewOptionalFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	withName := storage.Spawn(Position{X: 1}, Name{Value: "named"})
	without := storage.Spawn(Position{X: 2})

	view := ecs.NewView[struct {
		*Position
		Name *Name `ecs:"optional"`
	}](storage)

	named := view.Get(withName)
	require.NotNil(t, named)
	require.NotNil(t, named.Name)
	assert.Equal(t, "named", named.Name.Value)

	bare := view.Get(without)
	require.NotNil(t, bare)
	assert.Nil(t, bare.Name)

	count := 0
	for range view.Values() {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestViewSkipsDeletedEntities(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	keep := storage.Spawn(Position{X: 1})
	drop := storage.Spawn(Position{X: 2})
	storage.Delete(drop)

	view := ecs.NewView[struct{ *Position }](storage)

	var ids []ecs.EntityId
	for id := range view.Iter() {
		ids = append(ids, id)
	}
	assert.Equal(t, []ecs.EntityId{keep}, ids)

	var item struct{ *Position }
	assert.False(t, view.Fill(drop, &item))
	assert.True(t, view.Fill(keep, &item))
}

func TestViewEarlyBreak(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 10; i++ {
		storage.Spawn(Score(i))
	}

	view := ecs.NewView[struct{ *Score }](storage)
	count := 0
	for range view.Iter() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestNewViewRejectsBadShapes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ X int }](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ ecs.EntityId }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			Position *Position `ecs:"maybe"`
		}](storage)
	})
}
