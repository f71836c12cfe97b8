package game

import (
	"slices"

	"go.uber.org/zap"

	"github.com/plus3/rigidtris/ecs"
	"github.com/plus3/rigidtris/physics"
)

type restingBlock struct {
	id   ecs.EntityId
	body physics.BodyID
}

// clearRows deletes every full row of resting blocks and returns the cleared
// rows in ascending order. Blocks still moving never count toward a row, and
// nothing above a cleared row is shifted.
func (s *scene) clearRows(blocks []blockView) []int {
	b := s.tuning.Board
	buckets := make(map[int][]restingBlock)

	for _, block := range blocks {
		asleep, ok := s.rt.World.IsSleeping(block.Body.ID)
		if !ok || !asleep {
			continue
		}
		transform, ok := s.rt.World.Transform(block.Body.ID)
		if !ok {
			continue
		}
		row := b.RowAt(transform.Position.Y)
		if !b.HasRow(row) {
			continue
		}
		buckets[row] = append(buckets[row], restingBlock{id: block.EntityId, body: block.Body.ID})
	}

	var cleared []int
	for row, bucket := range buckets {
		if len(bucket) != b.Lanes {
			continue
		}
		cleared = append(cleared, row)
		s.stats.ClearedBlocks += b.Lanes
		for _, rb := range bucket {
			s.destroyBlock(rb.id, rb.body)
		}
	}

	if len(cleared) == 0 {
		return nil
	}

	slices.Sort(cleared)
	s.events.emit(Event{Type: RowsCleared, Rows: cleared})
	s.rt.Log.Info("cleared rows",
		zap.Uint64("tick", s.tick),
		zap.Ints("rows", cleared),
		zap.Int("cleared", s.stats.ClearedBlocks),
		zap.Float64("health", s.stats.Health()))
	return cleared
}
