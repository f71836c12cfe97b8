package game

import (
	"fmt"

	"github.com/plus3/rigidtris/tetromino"
)

// EventType says what an Event reports
type EventType uint8

const (
	PieceSpawned EventType = iota + 1
	RowsCleared
	BlockLost
	PieceLost
	GameOver
)

func (t EventType) String() string {
	switch t {
	case PieceSpawned:
		return "PieceSpawned"
	case RowsCleared:
		return "RowsCleared"
	case BlockLost:
		return "BlockLost"
	case PieceLost:
		return "PieceLost"
	case GameOver:
		return "GameOver"
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// Event is something a front end may want to react to
type Event struct {
	Type EventType

	// Kind is set for PieceSpawned, BlockLost and PieceLost
	Kind tetromino.Kind

	// Rows lists the cleared rows, bottom first, for RowsCleared
	Rows []int
}

// Events collects what happened during the current tick
type Events struct {
	List []Event
}

func (e *Events) emit(ev Event) {
	e.List = append(e.List, ev)
}

func (e *Events) reset() {
	e.List = e.List[:0]
}
