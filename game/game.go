// Package game runs the falling-block simulation: pieces spawn as four
// pinned bodies, fall, settle, lose their joints and full rows of resting
// blocks are removed. Everything lives in one ecs.Storage owned by Game and
// is advanced by Tick.
package game

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"

	"github.com/plus3/rigidtris/board"
	"github.com/plus3/rigidtris/ecs"
	"github.com/plus3/rigidtris/physics"
	"github.com/plus3/rigidtris/tetromino"
)

// Options configures a Game. Zero fields take the values from DefaultOptions.
type Options struct {
	Board          board.Config
	MovementForce  float64
	Torque         float64
	LinearDamping  float64
	AngularDamping float64

	// ViewportBottom is the lowest visible y in board units
	ViewportBottom float64

	// Random picks piece kinds; Seed is used when it is nil
	Random tetromino.Source
	Seed   uint64

	Logger *zap.Logger
}

// DefaultOptions returns the standard 10x20 game seen through a 720 px tall window
func DefaultOptions() Options {
	return Options{
		Board:          board.Default(),
		MovementForce:  20,
		Torque:         20,
		LinearDamping:  3,
		AngularDamping: 0,
		ViewportBottom: ViewportBottomFor(720, 30),
	}
}

// ViewportBottomFor converts a window height into the bottom of the viewport
// in board units, for a camera centred on the board.
func ViewportBottomFor(heightPx, blockPx float64) float64 {
	return -heightPx / 2 / blockPx
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Board == (board.Config{}) {
		o.Board = def.Board
	}
	if o.MovementForce == 0 {
		o.MovementForce = def.MovementForce
	}
	if o.Torque == 0 {
		o.Torque = def.Torque
	}
	if o.LinearDamping == 0 {
		o.LinearDamping = def.LinearDamping
	}
	if o.ViewportBottom == 0 {
		o.ViewportBottom = def.ViewportBottom
	}
	if o.Random == nil {
		o.Random = rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Game owns the storage, the scheduler and the systems of one session
type Game struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	scene     *scene

	controls  *ecs.Singleton[Controls]
	viewport  *ecs.Singleton[Viewport]
	healthBar *ecs.Singleton[HealthBar]

	blocks *ecs.View[blockView]
	joints *ecs.View[jointView]
	floors *ecs.View[struct {
		*Floor
		*Body
	}]
}

// New builds a game on top of world. Call Start before the first Tick.
func New(world physics.World, opts Options) *Game {
	opts = opts.withDefaults()
	storage := ecs.NewStorage(newRegistry())

	sc := &scene{
		storage: storage,
		remove:  func(id ecs.EntityId) { storage.Delete(id) },
		rt: ecs.NewSingleton(storage, Runtime{
			World:  world,
			Random: opts.Random,
			Log:    opts.Logger,
		}).Get(),
		tuning: ecs.NewSingleton(storage, Tuning{
			Board:           opts.Board,
			MovementForce:   opts.MovementForce,
			Torque:          opts.Torque,
			LinearDamping:   opts.LinearDamping,
			AngularDamping:  opts.AngularDamping,
			BlockHalfExtent: 0.5,
		}).Get(),
		stats:   ecs.NewSingleton[Stats](storage).Get(),
		active:  ecs.NewSingleton[ActivePiece](storage).Get(),
		events:  ecs.NewSingleton[Events](storage).Get(),
		session: ecs.NewSingleton[Session](storage).Get(),
	}

	g := &Game{
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		scene:     sc,
		controls:  ecs.NewSingleton[Controls](storage),
		viewport:  ecs.NewSingleton(storage, Viewport{Bottom: opts.ViewportBottom}),
		healthBar: ecs.NewSingleton[HealthBar](storage),
		blocks:    ecs.NewView[blockView](storage),
		joints:    ecs.NewView[jointView](storage),
	}
	g.floors = ecs.NewView[struct {
		*Floor
		*Body
	}](storage)

	g.scheduler.Register(&MovementSystem{scene: sc})
	g.scheduler.Register(&PhysicsSystem{scene: sc})
	g.scheduler.Register(&SettleSystem{scene: sc})
	g.scheduler.Register(&OffBoardSystem{scene: sc})
	g.scheduler.Register(&HealthBarSystem{scene: sc})

	return g
}

// Start creates the floor and the first piece
func (g *Game) Start() {
	if len(slices.Collect(g.floors.Values())) == 0 {
		g.scene.spawnFloor()
	}
	g.scene.spawnTetromino()
}

// Restart removes every block and joint, resets the stats and starts over
func (g *Game) Restart() {
	world := g.scene.rt.World
	for id, joint := range g.joints.Iter() {
		world.DestroyJoint(joint.Joint.ID)
		g.storage.Delete(id)
	}
	for id, block := range g.blocks.Iter() {
		world.DestroyBody(block.Body.ID)
		g.storage.Delete(id)
	}

	*g.scene.stats = Stats{}
	*g.scene.session = Session{}
	g.scene.active.clear()
	g.scene.events.reset()

	g.scene.rt.Log.Info("restarting")
	g.Start()
}

// Tick runs one frame: movement, physics step, settling, off-board detection
// and the health bar, in that order.
func (g *Game) Tick(dt float64, controls Controls) {
	g.scene.events.reset()
	*g.controls.Get() = controls
	g.scheduler.Once(dt)
}

// Stats returns a copy of the session counters
func (g *Game) Stats() Stats {
	return *g.scene.stats
}

// Health is the current health, see Stats.Health
func (g *Game) Health() float64 {
	return g.scene.stats.Health()
}

// HealthBar is the smoothed health for display
func (g *Game) HealthBar() float64 {
	return g.healthBar.Get().Value
}

// Over reports whether the game has ended
func (g *Game) Over() bool {
	return g.scene.session.Over
}

// Events returns what happened during the last Tick
func (g *Game) Events() []Event {
	return slices.Clone(g.scene.events.List)
}

// Board returns the board geometry
func (g *Game) Board() board.Config {
	return g.scene.tuning.Board
}

// SetViewportBottom moves the loss line, for example after a window resize
func (g *Game) SetViewportBottom(bottom float64) {
	g.viewport.Get().Bottom = bottom
}

// ActiveKind returns the kind of the falling piece, if there is one
func (g *Game) ActiveKind() (tetromino.Kind, bool) {
	if g.scene.active.Empty() {
		return 0, false
	}
	return g.scene.active.Kind, true
}

// ActiveBlocks returns the entities of the falling piece, sorted
func (g *Game) ActiveBlocks() []ecs.EntityId {
	ids := make([]ecs.EntityId, 0, len(g.scene.active.Blocks))
	for id := range g.scene.active.Blocks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ActiveJoints returns the joint entities of the falling piece
func (g *Game) ActiveJoints() []ecs.EntityId {
	return slices.Clone(g.scene.active.Joints)
}

// BlockState is a block as seen by a renderer
type BlockState struct {
	ID        ecs.EntityId
	Body      physics.BodyID
	Kind      tetromino.Kind
	Transform physics.Transform
	Active    bool
}

// Blocks returns every block whose body still exists
func (g *Game) Blocks() []BlockState {
	var out []BlockState
	for id, block := range g.blocks.Iter() {
		transform, ok := g.scene.rt.World.Transform(block.Body.ID)
		if !ok {
			continue
		}
		out = append(out, BlockState{
			ID:        id,
			Body:      block.Body.ID,
			Kind:      block.Block.Kind,
			Transform: transform,
			Active:    g.scene.active.Contains(id),
		})
	}
	slices.SortFunc(out, func(a, b BlockState) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Storage exposes the entity storage for debugging tools
func (g *Game) Storage() *ecs.Storage {
	return g.storage
}

// Scheduler exposes the scheduler for timing statistics
func (g *Game) Scheduler() *ecs.Scheduler {
	return g.scheduler
}
