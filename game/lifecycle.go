package game

import (
	"go.uber.org/zap"

	"github.com/plus3/rigidtris/ecs"
	"github.com/plus3/rigidtris/physics"
	"github.com/plus3/rigidtris/tetromino"
)

// scene bundles the state one pass of game logic mutates. Entity deletion
// goes through remove so systems can defer it to the end of their run.
type scene struct {
	storage *ecs.Storage
	remove  func(ecs.EntityId)
	tick    uint64

	rt      *Runtime
	tuning  *Tuning
	stats   *Stats
	active  *ActivePiece
	events  *Events
	session *Session
}

// spawnTetromino creates a random piece at the top of the board and makes it
// the active piece.
func (s *scene) spawnTetromino() {
	kind := tetromino.Random(s.rt.Random)
	layout := kind.Layout()
	b := s.tuning.Board

	var (
		blocks    [4]ecs.EntityId
		bodies    [4]physics.BodyID
		positions [4]physics.Vec
	)
	for i, offset := range layout.Blocks {
		x, y := b.BlockCenter(b.SpawnCell(offset.X, offset.Y))
		positions[i] = physics.Vec{X: x, Y: y}
		bodies[i] = s.rt.World.CreateDynamicBody(physics.BodyDef{
			Position:       positions[i],
			HalfExtents:    physics.Vec{X: s.tuning.BlockHalfExtent, Y: s.tuning.BlockHalfExtent},
			LinearDamping:  s.tuning.LinearDamping,
			AngularDamping: s.tuning.AngularDamping,
			SyncVisual:     true,
		})
		blocks[i] = s.storage.Spawn(Block{Kind: kind}, Body{ID: bodies[i]})
	}

	joints := make([]ecs.EntityId, 0, len(layout.Joints))
	for _, pair := range layout.Joints {
		half := positions[pair.B].Sub(positions[pair.A]).Scale(0.5)
		jointID, ok := s.rt.World.CreatePinJoint(bodies[pair.A], bodies[pair.B], half, half.Scale(-1))
		if !ok {
			continue
		}
		joints = append(joints, s.storage.Spawn(Joint{ID: jointID}))
	}

	s.stats.GeneratedBlocks += len(blocks)

	s.active.Kind = kind
	s.active.Blocks = make(map[ecs.EntityId]struct{}, len(blocks))
	for _, id := range blocks {
		s.active.Blocks[id] = struct{}{}
	}
	s.active.Joints = joints

	s.events.emit(Event{Type: PieceSpawned, Kind: kind})
	s.rt.Log.Debug("spawned tetromino",
		zap.Uint64("tick", s.tick),
		zap.Stringer("kind", kind),
		zap.Int("joints", len(joints)),
		zap.Int("generated", s.stats.GeneratedBlocks))
}

// activeAtRest reports whether every block of the active piece is asleep.
// A block that can no longer be resolved is never at rest.
func (s *scene) activeAtRest() bool {
	if s.active.Empty() {
		return false
	}
	for id := range s.active.Blocks {
		body := ecs.ReadComponent[Body](s.storage, id)
		if body == nil {
			return false
		}
		asleep, ok := s.rt.World.IsSleeping(body.ID)
		if !ok || !asleep {
			return false
		}
	}
	return true
}

// releaseActive destroys the joints of the active piece and empties it
func (s *scene) releaseActive() {
	for _, id := range s.active.Joints {
		if joint := ecs.ReadComponent[Joint](s.storage, id); joint != nil {
			s.rt.World.DestroyJoint(joint.ID)
		}
		s.remove(id)
	}
	s.active.clear()
}

// destroyBlock removes a block's body and entity
func (s *scene) destroyBlock(id ecs.EntityId, body physics.BodyID) {
	s.rt.World.DestroyBody(body)
	s.remove(id)
}

// spawnIfAlive spawns the next piece, or ends the game when health is gone
func (s *scene) spawnIfAlive() {
	if s.stats.Alive() {
		s.spawnTetromino()
		return
	}
	s.endGame()
}

// endGame reports game over once per session
func (s *scene) endGame() {
	if s.session.Over {
		return
	}
	s.session.Over = true
	s.events.emit(Event{Type: GameOver})
	s.rt.Log.Warn("game over",
		zap.Uint64("tick", s.tick),
		zap.Int("generated", s.stats.GeneratedBlocks),
		zap.Int("cleared", s.stats.ClearedBlocks),
		zap.Int("lost", s.stats.LostBlocks),
		zap.Bool("lost_tetromino", s.stats.LostTetromino))
}

// spawnFloor creates the static floor under row 0
func (s *scene) spawnFloor() ecs.EntityId {
	b := s.tuning.Board
	x, y := b.FloorCenter()
	hx, hy := b.FloorHalfExtents()
	body := s.rt.World.CreateStaticBody(physics.BodyDef{
		Position:    physics.Vec{X: x, Y: y},
		HalfExtents: physics.Vec{X: hx, Y: hy},
		SyncVisual:  true,
	})
	return s.storage.Spawn(Floor{}, Body{ID: body})
}
