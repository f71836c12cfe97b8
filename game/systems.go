package game

import (
	"go.uber.org/zap"

	"github.com/plus3/rigidtris/ecs"
	"github.com/plus3/rigidtris/physics"
)

// deferred returns a copy of s whose deletions are queued on the frame
func (s scene) deferred(frame *ecs.UpdateFrame) *scene {
	s.remove = frame.Commands.Delete
	s.tick = frame.Tick
	return &s
}

// MovementSystem pushes the active piece according to the player's controls
type MovementSystem struct {
	Controls ecs.Singleton[Controls]

	scene *scene
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	controls := s.Controls.Get()
	if controls == nil {
		return
	}

	movement := controls.Movement()
	torque := controls.Torque()
	if movement == 0 && torque == 0 {
		return
	}

	world := s.scene.rt.World
	force := physics.Vec{X: movement * s.scene.tuning.MovementForce}
	for id := range s.scene.active.Blocks {
		body := ecs.ReadComponent[Body](frame.Storage, id)
		if body == nil {
			continue
		}
		if movement != 0 {
			world.SetForce(body.ID, force)
		}
		if torque != 0 {
			world.SetTorque(body.ID, torque*s.scene.tuning.Torque)
		}
	}
}

// PhysicsSystem advances the physics world by the frame's delta time
type PhysicsSystem struct {
	scene *scene
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	s.scene.rt.World.Step(frame.DeltaTime)
}

// SettleSystem waits for the active piece to come to rest, then releases its
// joints, clears full rows and spawns the next piece.
type SettleSystem struct {
	Blocks ecs.Query[blockView]

	scene *scene
}

func (s *SettleSystem) Execute(frame *ecs.UpdateFrame) {
	sc := s.scene.deferred(frame)
	if !sc.activeAtRest() {
		return
	}

	sc.releaseActive()

	blocks := make([]blockView, 0, s.Blocks.Len())
	for block := range s.Blocks.Values() {
		blocks = append(blocks, block)
	}
	sc.clearRows(blocks)

	sc.spawnIfAlive()
}

// OffBoardSystem destroys blocks that fell below the viewport and counts them as lost
type OffBoardSystem struct {
	Blocks   ecs.Query[blockView]
	Viewport ecs.Singleton[Viewport]

	scene *scene
}

func (s *OffBoardSystem) Execute(frame *ecs.UpdateFrame) {
	viewport := s.Viewport.Get()
	if viewport == nil {
		return
	}

	sc := s.scene.deferred(frame)
	limit := viewport.LostY()

	for block := range s.Blocks.Values() {
		transform, ok := sc.rt.World.Transform(block.Body.ID)
		if !ok || transform.Position.Y >= limit {
			continue
		}

		sc.stats.LostBlocks++
		sc.events.emit(Event{Type: BlockLost, Kind: block.Block.Kind})

		if sc.active.Contains(block.EntityId) {
			if !sc.stats.LostTetromino {
				sc.events.emit(Event{Type: PieceLost, Kind: block.Block.Kind})
			}
			sc.stats.LostTetromino = true
		}

		sc.rt.Log.Info("lost block",
			zap.Uint64("tick", sc.tick),
			zap.Stringer("kind", block.Block.Kind),
			zap.Float64("y", transform.Position.Y),
			zap.Int("lost", sc.stats.LostBlocks),
			zap.Bool("active", sc.active.Contains(block.EntityId)))

		sc.destroyBlock(block.EntityId, block.Body.ID)
	}

	// A lost piece can never settle, so the game ends here instead
	if sc.stats.LostTetromino {
		sc.endGame()
	}
}

// HealthBarSystem eases the displayed health toward the real value
type HealthBarSystem struct {
	Bar ecs.Singleton[HealthBar]

	scene *scene
}

func (s *HealthBarSystem) Execute(frame *ecs.UpdateFrame) {
	if bar := s.Bar.Get(); bar != nil {
		bar.Approach(s.scene.stats.Health())
	}
}
