package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/rigidtris/ecs"
	"github.com/plus3/rigidtris/physics"
	"github.com/plus3/rigidtris/physics/physicstest"
	"github.com/plus3/rigidtris/tetromino"
)

const dt = 1.0 / 60

// fixedKind always picks the same kind
type fixedKind tetromino.Kind

func (k fixedKind) IntN(int) int { return int(k) }

// sequence picks kinds in order, repeating the last one
type sequence []tetromino.Kind

func (s *sequence) IntN(int) int {
	k := (*s)[0]
	if len(*s) > 1 {
		*s = (*s)[1:]
	}
	return int(k)
}

func newTestGame(t *testing.T, src tetromino.Source) (*Game, *physicstest.World) {
	t.Helper()
	world := physicstest.New()
	g := New(world, Options{Random: src})
	g.Start()
	return g, world
}

func bodyOf(t *testing.T, g *Game, id ecs.EntityId) physics.BodyID {
	t.Helper()
	body := ecs.ReadComponent[Body](g.Storage(), id)
	require.NotNil(t, body, "entity %v has no body", id)
	return body.ID
}

// rest puts a body to sleep in the given cell
func rest(g *Game, world *physicstest.World, body physics.BodyID, lane, row int) {
	x, y := g.Board().BlockCenter(lane, row)
	world.SetPosition(body, x, y)
	world.SetSleeping(body, true)
}

// restActive settles the active piece along row, starting at lane
func restActive(t *testing.T, g *Game, world *physicstest.World, lane, row int) {
	t.Helper()
	for i, id := range g.ActiveBlocks() {
		rest(g, world, bodyOf(t, g, id), lane+i, row)
	}
}

// spawnResting adds a settled block that is not part of any piece
func spawnResting(g *Game, world *physicstest.World, lane, row int) ecs.EntityId {
	body := world.CreateDynamicBody(physics.BodyDef{HalfExtents: physics.Vec{X: 0.5, Y: 0.5}})
	rest(g, world, body, lane, row)
	return g.Storage().Spawn(Block{Kind: tetromino.O}, Body{ID: body})
}

func TestStartSpawnsFloorAndPiece(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.T))

	stats := g.Stats()
	assert.Equal(t, 4, stats.GeneratedBlocks)
	assert.Equal(t, 1.0, g.Health())
	assert.False(t, g.Over())

	kind, ok := g.ActiveKind()
	require.True(t, ok)
	assert.Equal(t, tetromino.T, kind)
	assert.Len(t, g.ActiveBlocks(), 4)
	assert.Len(t, g.ActiveJoints(), 3)

	static := 0
	for _, body := range world.Bodies {
		if body.Static {
			static++
			assert.Equal(t, physics.Vec{X: 0, Y: -11}, body.Def.Position)
			assert.Equal(t, physics.Vec{X: 5, Y: 1}, body.Def.HalfExtents)
		}
	}
	assert.Equal(t, 1, static)
	assert.Len(t, world.DynamicBodies(), 4)
	assert.Len(t, world.Joints, 3)

	events := g.Events()
	require.Len(t, events, 1)
	assert.Equal(t, PieceSpawned, events[0].Type)
}

func TestSpawnPlacesBlocksAndJoints(t *testing.T) {
	for _, kind := range tetromino.Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			g, world := newTestGame(t, fixedKind(kind))
			layout := kind.Layout()

			assert.Len(t, g.ActiveJoints(), len(layout.Joints))
			assert.Len(t, world.Joints, len(layout.Joints))

			// Block i of the layout is the i-th dynamic body created
			bodies := world.DynamicBodies()
			require.Len(t, bodies, 4)
			for i, offset := range layout.Blocks {
				x, y := g.Board().BlockCenter(g.Board().SpawnCell(offset.X, offset.Y))
				def := world.Bodies[bodies[i]].Def
				assert.Equal(t, physics.Vec{X: x, Y: y}, def.Position)
				assert.Equal(t, 3.0, def.LinearDamping)
				assert.Equal(t, 0.0, def.AngularDamping)
				assert.Equal(t, physics.Vec{X: 0.5, Y: 0.5}, def.HalfExtents)
				assert.True(t, def.SyncVisual)
			}

			// Anchors meet halfway between the two block centres
			for _, joint := range world.Joints {
				a := world.Bodies[joint.A].Def.Position
				b := world.Bodies[joint.B].Def.Position
				assert.Equal(t, a.Add(joint.AnchorA), b.Add(joint.AnchorB))
				assert.Equal(t, joint.AnchorA, joint.AnchorB.Scale(-1))
			}
		})
	}
}

func TestMovementSetsForces(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.I))
	active := g.ActiveBlocks()

	g.Tick(dt, Controls{Right: true})
	for _, id := range active {
		body := bodyOf(t, g, id)
		assert.Equal(t, []physics.Vec{{X: 20}}, world.Forces[body])
		assert.Empty(t, world.Torques[body])
	}

	g.Tick(dt, Controls{Left: true, RotateRight: true})
	for _, id := range active {
		body := bodyOf(t, g, id)
		assert.Equal(t, []physics.Vec{{X: 20}, {X: -20}}, world.Forces[body])
		assert.Equal(t, []float64{-20}, world.Torques[body])
	}

	// Opposed keys cancel out
	g.Tick(dt, Controls{Left: true, Right: true, RotateLeft: true, RotateRight: true})
	for _, id := range active {
		assert.Len(t, world.Forces[bodyOf(t, g, id)], 2)
	}

	// Forces are cleared by the step
	for _, id := range active {
		assert.Equal(t, physics.Vec{}, world.Bodies[bodyOf(t, g, id)].Force)
	}
	assert.Len(t, world.Steps, 3)
}

func TestMovementSkipsMissingBodies(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.I))
	active := g.ActiveBlocks()
	gone := bodyOf(t, g, active[0])
	require.True(t, world.DestroyBody(gone))

	g.Tick(dt, Controls{Right: true, RotateLeft: true})

	assert.Empty(t, world.Forces[gone])
	for _, id := range active[1:] {
		body := bodyOf(t, g, id)
		assert.Len(t, world.Forces[body], 1)
		assert.Equal(t, []float64{20}, world.Torques[body])
	}

	// The piece can never settle with a block missing
	for _, id := range active[1:] {
		world.SetSleeping(bodyOf(t, g, id), true)
	}
	g.Tick(dt, Controls{})
	assert.Equal(t, 4, g.Stats().GeneratedBlocks)
	assert.Len(t, g.ActiveBlocks(), 4)
}

func TestPieceKeepsFallingUntilEveryBlockRests(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.O))
	active := g.ActiveBlocks()

	for _, id := range active[:3] {
		world.SetSleeping(bodyOf(t, g, id), true)
	}
	g.Tick(dt, Controls{})
	assert.Equal(t, active, g.ActiveBlocks())
	assert.Len(t, world.Joints, 4)

	world.SetSleeping(bodyOf(t, g, active[3]), true)
	g.Tick(dt, Controls{})

	// Joints are gone, the old blocks stay, a new piece spawned
	assert.Equal(t, 8, g.Stats().GeneratedBlocks)
	assert.Len(t, world.Joints, 4)
	for _, id := range active {
		assert.True(t, g.Storage().Alive(id))
		assert.NotContains(t, g.ActiveBlocks(), id)
	}
	for _, id := range g.ActiveJoints() {
		assert.True(t, g.Storage().Alive(id))
	}
}

func TestRowClearing(t *testing.T) {
	tests := []struct {
		name    string
		lanes   int
		cleared bool
	}{
		{"nine blocks", 9, false},
		{"ten blocks", 10, true},
		{"eleven blocks", 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, world := newTestGame(t, fixedKind(tetromino.I))

			var row []ecs.EntityId
			for lane := 0; lane < tt.lanes; lane++ {
				row = append(row, spawnResting(g, world, lane%10, 0))
			}
			restActive(t, g, world, 0, 5)

			g.Tick(dt, Controls{})

			for _, id := range row {
				assert.Equal(t, !tt.cleared, g.Storage().Alive(id))
			}
			if tt.cleared {
				assert.Equal(t, 10, g.Stats().ClearedBlocks)
				assert.Contains(t, g.Events(), Event{Type: RowsCleared, Rows: []int{0}})
			} else {
				assert.Equal(t, 0, g.Stats().ClearedBlocks)
			}
		})
	}
}

func TestRowClearingIgnoresMovingBlocks(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.I))

	var row []ecs.EntityId
	for lane := 0; lane < 10; lane++ {
		row = append(row, spawnResting(g, world, lane, 2))
	}
	// Geometrically full, but one block is still sliding
	world.SetSleeping(bodyOf(t, g, row[4]), false)
	restActive(t, g, world, 0, 6)

	g.Tick(dt, Controls{})

	assert.Equal(t, 0, g.Stats().ClearedBlocks)
	for _, id := range row {
		assert.True(t, g.Storage().Alive(id))
	}
}

func TestMultipleRowsClearIndependently(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.I))

	var bottom, middle, partial []ecs.EntityId
	for lane := 0; lane < 10; lane++ {
		bottom = append(bottom, spawnResting(g, world, lane, 0))
		middle = append(middle, spawnResting(g, world, lane, 3))
	}
	for lane := 0; lane < 5; lane++ {
		partial = append(partial, spawnResting(g, world, lane, 1))
	}
	restActive(t, g, world, 4, 6)

	g.Tick(dt, Controls{})

	assert.Equal(t, 20, g.Stats().ClearedBlocks)
	for _, id := range append(bottom, middle...) {
		assert.False(t, g.Storage().Alive(id))
	}
	for _, id := range partial {
		assert.True(t, g.Storage().Alive(id))
		// Nothing is shifted down
		transform, ok := world.Transform(bodyOf(t, g, id))
		require.True(t, ok)
		assert.Equal(t, -8.5, transform.Position.Y)
	}
	assert.Contains(t, g.Events(), Event{Type: RowsCleared, Rows: []int{0, 3}})
}

func TestRowsOutsideTheBoardAreIgnored(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.I))

	var above []ecs.EntityId
	for lane := 0; lane < 10; lane++ {
		above = append(above, spawnResting(g, world, lane, 20))
	}
	restActive(t, g, world, 0, 5)
	g.Tick(dt, Controls{})

	assert.Equal(t, 0, g.Stats().ClearedBlocks)
	for _, id := range above {
		assert.True(t, g.Storage().Alive(id))
	}
}

func TestEndToEndClearAndRespawn(t *testing.T) {
	kinds := sequence{tetromino.I, tetromino.O}
	g, world := newTestGame(t, &kinds)
	assert.Equal(t, Stats{GeneratedBlocks: 4}, g.Stats())

	first := g.ActiveBlocks()
	restActive(t, g, world, 0, 0)
	for lane := 4; lane < 10; lane++ {
		spawnResting(g, world, lane, 0)
	}

	g.Tick(dt, Controls{})

	stats := g.Stats()
	assert.Equal(t, 10, stats.ClearedBlocks)
	assert.Equal(t, 8, stats.GeneratedBlocks)
	assert.Equal(t, 1.0, g.Health())

	kind, ok := g.ActiveKind()
	require.True(t, ok)
	assert.Equal(t, tetromino.O, kind)
	assert.Len(t, g.ActiveJoints(), len(tetromino.O.Layout().Joints))
	assert.Len(t, world.Joints, 4)

	for _, id := range first {
		assert.False(t, g.Storage().Alive(id))
	}
	assert.Len(t, g.Blocks(), 4)

	var types []EventType
	for _, ev := range g.Events() {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []EventType{RowsCleared, PieceSpawned}, types)
}

func TestLostTetrominoStopsSpawning(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.S))

	g.scene.stats.LostTetromino = true
	g.scene.stats.ClearedBlocks = 40
	restActive(t, g, world, 0, 0)

	g.Tick(dt, Controls{})

	assert.Equal(t, 4, g.Stats().GeneratedBlocks)
	_, ok := g.ActiveKind()
	assert.False(t, ok)
	assert.Empty(t, world.Joints)
	assert.True(t, g.Over())
	assert.Contains(t, g.Events(), Event{Type: GameOver})

	// Nothing else happens afterwards
	g.Tick(dt, Controls{Right: true})
	assert.Equal(t, 4, g.Stats().GeneratedBlocks)
	assert.Empty(t, g.Events())
}

func TestNegativeHealthStopsSpawning(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.Z))
	g.scene.stats.ClearedBlocks = 10
	g.scene.stats.LostBlocks = 10

	restActive(t, g, world, 0, 0)
	g.Tick(dt, Controls{})

	assert.Equal(t, 0.0, g.Health())
	assert.Equal(t, 4, g.Stats().GeneratedBlocks)
	assert.True(t, g.Over())
}

func TestOffBoardLosesBlocks(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.L))

	settled := spawnResting(g, world, 0, 0)
	body := bodyOf(t, g, settled)
	world.SetPosition(body, 0, -14.01)

	g.Tick(dt, Controls{})

	stats := g.Stats()
	assert.Equal(t, 1, stats.LostBlocks)
	assert.False(t, stats.LostTetromino)
	assert.False(t, g.Storage().Alive(settled))
	_, ok := world.Transform(body)
	assert.False(t, ok)
	assert.Equal(t, 0.0, g.Health())

	// The falling piece is unaffected and the game goes on until it settles
	assert.False(t, g.Over())
	assert.Len(t, g.ActiveBlocks(), 4)
}

func TestOffBoardThresholdIsExclusive(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.L))

	edge := spawnResting(g, world, 0, 0)
	world.SetPosition(bodyOf(t, g, edge), 0, -14)
	g.Tick(dt, Controls{})

	assert.True(t, g.Storage().Alive(edge))
	assert.Equal(t, 0, g.Stats().LostBlocks)
}

func TestLosingActiveBlockIsSticky(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.J))
	g.scene.stats.ClearedBlocks = 100

	active := g.ActiveBlocks()
	world.SetPosition(bodyOf(t, g, active[0]), 0, -20)

	g.Tick(dt, Controls{})

	stats := g.Stats()
	assert.Equal(t, 1, stats.LostBlocks)
	assert.True(t, stats.LostTetromino)
	assert.Equal(t, 0.0, g.Health())
	assert.True(t, g.Over())

	var types []EventType
	for _, ev := range g.Events() {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []EventType{BlockLost, PieceLost, GameOver}, types)

	for i := 0; i < 5; i++ {
		g.Tick(dt, Controls{})
	}
	assert.True(t, g.Stats().LostTetromino)
	assert.Equal(t, 0.0, g.Health())
	assert.Equal(t, 4, g.Stats().GeneratedBlocks)
}

func TestViewportMovesLossLine(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.L))
	g.SetViewportBottom(-30)

	block := spawnResting(g, world, 0, 0)
	world.SetPosition(bodyOf(t, g, block), 0, -20)
	g.Tick(dt, Controls{})

	assert.True(t, g.Storage().Alive(block))
}

func TestHealthBarFollowsHealth(t *testing.T) {
	g, _ := newTestGame(t, fixedKind(tetromino.I))
	assert.Equal(t, 0.0, g.HealthBar())

	g.Tick(dt, Controls{})
	assert.InDelta(t, 0.1, g.HealthBar(), 1e-9)

	for i := 0; i < 100; i++ {
		g.Tick(dt, Controls{})
	}
	assert.InDelta(t, 1.0, g.HealthBar(), 1e-3)
}

func TestRestart(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.T))
	spawnResting(g, world, 0, 0)
	g.scene.stats.LostTetromino = true
	restActive(t, g, world, 2, 3)
	g.Tick(dt, Controls{})
	require.True(t, g.Over())

	g.Restart()

	assert.False(t, g.Over())
	assert.Equal(t, Stats{GeneratedBlocks: 4}, g.Stats())
	assert.Len(t, g.Blocks(), 4)
	assert.Len(t, world.DynamicBodies(), 4)
	assert.Len(t, world.Joints, 3)
	assert.Len(t, world.Bodies, 5, "floor is kept")
}

func TestBlocksSnapshot(t *testing.T) {
	g, world := newTestGame(t, fixedKind(tetromino.I))
	settled := spawnResting(g, world, 3, 0)

	blocks := g.Blocks()
	require.Len(t, blocks, 5)

	active := 0
	for _, b := range blocks {
		if b.Active {
			active++
			assert.Equal(t, tetromino.I, b.Kind)
		}
		if b.ID == settled {
			assert.Equal(t, -1.5, b.Transform.Position.X)
			assert.Equal(t, -9.5, b.Transform.Position.Y)
		}
	}
	assert.Equal(t, 4, active)
}
