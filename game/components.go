package game

import (
	"github.com/plus3/rigidtris/ecs"
	"github.com/plus3/rigidtris/physics"
	"github.com/plus3/rigidtris/tetromino"
)

// Block tags a square body as part of the board, coloured by the kind it spawned in
type Block struct {
	Kind tetromino.Kind
}

// Body links an entity to its rigid body
type Body struct {
	ID physics.BodyID
}

// Joint links an entity to a pin joint of the active piece
type Joint struct {
	ID physics.JointID
}

// Floor tags the static floor body
type Floor struct{}

func newRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Block](registry)
	ecs.RegisterComponent[Body](registry)
	ecs.RegisterComponent[Joint](registry)
	ecs.RegisterComponent[Floor](registry)
	return registry
}

type blockView struct {
	ecs.EntityId
	*Block
	*Body
}

type jointView struct {
	ecs.EntityId
	*Joint
}
